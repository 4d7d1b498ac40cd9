// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logary

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// restartDelay is how long the supervisor waits before re-invoking a
// faulted entry's factory: a fixed backoff rather than exponential.
const restartDelay = 500 * time.Millisecond

const supervisorTick = 100 * time.Millisecond

// entryKind distinguishes the three supervised roles a [Registry] manages;
// targets and metrics are structurally identical, health checks additionally
// carry a probe interval.
type entryKind int

const (
	kindTarget entryKind = iota
	kindMetric
	kindHealthCheck
)

func (k entryKind) String() string {
	switch k {
	case kindTarget:
		return "target"
	case kindMetric:
		return "metric"
	case kindHealthCheck:
		return "healthcheck"
	default:
		return "unknown"
	}
}

// FaultState snapshots a supervised entry that is currently Faulted,
// returned by [Registry.Faults] for diagnostics and tests.
type FaultState struct {
	Name         string
	Kind         string
	Err          error
	RestartCount int
}

type supervisedEntry struct {
	name     string
	kind     entryKind
	svcFac   ServiceFactory
	hcFac    HealthCheckFactory
	interval time.Duration

	mu           sync.Mutex
	svc          *Service
	restartCount int
}

func (e *supervisedEntry) spawn(info RuntimeInfo, diag diagnostic) error {
	switch e.kind {
	case kindHealthCheck:
		p, err := e.hcFac(info)
		if err != nil {
			return err
		}
		e.svc = newHealthCheckService(e.name, p, e.interval, diag)
	default:
		sink, err := e.svcFac(info)
		if err != nil {
			return err
		}
		e.svc = newTargetService(e.name, sink, diag)
	}
	return nil
}

// Registry is the composition root: it owns the [Engine], the
// [GlobalService], and the supervised lifecycle of every configured
// target, metric, and health check.
type Registry struct {
	conf    LogaryConf
	engine  *Engine
	globals *GlobalService
	info    RuntimeInfo
	diagLog Logger

	entriesMu sync.Mutex
	entries   map[string]*supervisedEntry

	loggersMu sync.Mutex
	loggers   map[string]*engineLogger

	superviseDone chan struct{}
	shutdownOnce  sync.Once
}

// NewRegistry spawns every configured target, metric, and health check
// concurrently, wires them into a fresh [Engine], starts the supervisor and
// [GlobalService], and returns the running [Registry]. Factories are fanned
// out concurrently; if any fails, the already-started entries are shut down
// and the first error is returned.
func NewRegistry(conf LogaryConf) (*Registry, error) {
	info := conf.runtimeInfo
	if info.Clock == nil {
		info.Clock = realClock{}
	}

	r := &Registry{
		conf:          conf,
		info:          info,
		entries:       make(map[string]*supervisedEntry),
		loggers:       make(map[string]*engineLogger),
		superviseDone: make(chan struct{}),
	}

	r.engine = NewEngine(conf.processing)
	r.globals = NewGlobalService(GlobalLoggingConfig{MinLevel: Info, Middleware: conf.registryMiddleware()})

	r.diagLog = newEngineLogger(NewPointName("Logary", "Registry"), Verbose, r.engine, nil, info.Clock)
	diag := func(level LogLevel, msg string, kvs ...any) {
		_ = r.diagLog.Log(level, fixedFactory(msg, kvs...))
	}
	r.engine.SetDiagnostic(diag)
	if info.Logger != nil {
		r.diagLog = info.Logger
	}

	specs := buildEntrySpecs(conf)
	type spawned struct {
		entry *supervisedEntry
		err   error
	}
	results := make([]spawned, len(specs))
	var wg sync.WaitGroup
	for i, e := range specs {
		wg.Add(1)
		go func(i int, e *supervisedEntry) {
			defer wg.Done()
			err := e.spawn(info, diag)
			results[i] = spawned{entry: e, err: err}
		}(i, e)
	}
	wg.Wait()

	for _, res := range results {
		if res.err != nil {
			for _, other := range results {
				if other.entry.svc != nil {
					_ = other.entry.svc.Shutdown(context.Background())
				}
			}
			r.engine.Shutdown()
			return nil, fmt.Errorf("logary: starting %s %q: %w", res.entry.kind, res.entry.name, res.err)
		}
	}

	for _, res := range results {
		r.entries[res.entry.name+"/"+res.entry.kind.String()] = res.entry
		if res.entry.kind != kindHealthCheck {
			r.engine.Subscribe(res.entry.name, res.entry.svc.sink)
		}
	}

	go r.superviseLoop()
	return r, nil
}

func buildEntrySpecs(conf LogaryConf) []*supervisedEntry {
	specs := make([]*supervisedEntry, 0, len(conf.targets)+len(conf.metrics)+len(conf.healthChecks))
	for _, t := range conf.targets {
		specs = append(specs, &supervisedEntry{name: t.Name, kind: kindTarget, svcFac: t.Factory})
	}
	for _, m := range conf.metrics {
		specs = append(specs, &supervisedEntry{name: m.Name, kind: kindMetric, svcFac: m.Factory})
	}
	for _, h := range conf.healthChecks {
		specs = append(specs, &supervisedEntry{
			name: h.Name, kind: kindHealthCheck, hcFac: h.Factory,
			interval: time.Duration(h.Interval) * time.Millisecond,
		})
	}
	return specs
}

func fixedFactory(msg string, kvs ...any) MessageFactory {
	return func(level LogLevel) Message {
		m := NewMessage(level, StringValue(msg))
		for i := 0; i+1 < len(kvs); i += 2 {
			key, ok := kvs[i].(string)
			if !ok {
				continue
			}
			m = m.With(key, valueOf(kvs[i+1]))
		}
		return m
	}
}

func valueOf(v any) Value {
	switch x := v.(type) {
	case Value:
		return x
	case string:
		return StringValue(x)
	case error:
		return StringValue(x.Error())
	case int:
		return Int64Value(int64(x))
	case int64:
		return Int64Value(x)
	case float64:
		return Float64Value(x)
	case bool:
		return BoolValue(x)
	default:
		return StringValue(fmt.Sprint(x))
	}
}

// superviseLoop restarts faulted entries after [restartDelay].
func (r *Registry) superviseLoop() {
	ticker := time.NewTicker(supervisorTick)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.entriesMu.Lock()
			faulted := make([]*supervisedEntry, 0)
			for _, e := range r.entries {
				e.mu.Lock()
				if e.svc != nil && e.svc.State() == Faulted {
					faulted = append(faulted, e)
				}
				e.mu.Unlock()
			}
			r.entriesMu.Unlock()
			for _, e := range faulted {
				go r.restart(e)
			}
		case <-r.superviseDone:
			return
		}
	}
}

func (r *Registry) restart(e *supervisedEntry) {
	e.mu.Lock()
	if e.svc.State() != Faulted {
		e.mu.Unlock()
		return
	}
	e.restartCount++
	e.mu.Unlock()

	time.Sleep(restartDelay)

	diag := func(level LogLevel, msg string, kvs ...any) {
		_ = r.diagLog.Log(level, fixedFactory(msg, kvs...))
	}
	if err := e.spawn(r.info, diag); err != nil {
		r.diagLog.Log(Error, fixedFactory("supervisor restart failed", "name", e.name, "kind", e.kind.String(), "error", err))
		return
	}
	if e.kind != kindHealthCheck {
		r.engine.Subscribe(e.name, e.svc.sink)
	}
	r.diagLog.Log(Info, fixedFactory("supervisor restarted entry", "name", e.name, "kind", e.kind.String()))
}

// Faults returns a snapshot of every currently-Faulted supervised entry.
func (r *Registry) Faults() []FaultState {
	r.entriesMu.Lock()
	defer r.entriesMu.Unlock()
	var out []FaultState
	for _, e := range r.entries {
		e.mu.Lock()
		if e.svc != nil && e.svc.State() == Faulted {
			out = append(out, FaultState{Name: e.name, Kind: e.kind.String(), Err: e.svc.FaultError(), RestartCount: e.restartCount})
		}
		e.mu.Unlock()
	}
	return out
}

// RuntimeInfo returns the registry's immutable runtime info.
func (r *Registry) RuntimeInfo() RuntimeInfo { return r.info }

// GetLogger returns the named [Logger] immediately, creating and caching it
// on first use. Level is read once from the [GlobalService] at creation
// time; subsequent [GlobalService.Set] calls do not retroactively change
// already-issued loggers' level, matching a snapshot-at-creation option
// pattern.
func (r *Registry) GetLogger(name PointName, mw Middleware) Logger {
	key := name.String()
	r.loggersMu.Lock()
	defer r.loggersMu.Unlock()
	if l, ok := r.loggers[key]; ok {
		return l
	}
	cfg := r.globals.Load()
	combined := composeMiddleware(cfg.Middleware, mw)
	l := newEngineLogger(name, cfg.MinLevel, r.engine, combined, r.info.Clock)
	r.loggers[key] = l
	return l
}

// FlushInfo reports the outcome of [Registry.Flush] or the flush phase of
// [Registry.Shutdown]: the name of every target/metric that acknowledged the
// flush within the timeout, and the name of every one that did not.
type FlushInfo struct {
	Acks     []string
	Timeouts []string
}

// flushableEntries returns every non-health-check entry: health checks have
// no sink and nothing to flush.
func (r *Registry) flushableEntries() []*supervisedEntry {
	r.entriesMu.Lock()
	defer r.entriesMu.Unlock()
	out := make([]*supervisedEntry, 0, len(r.entries))
	for _, e := range r.entries {
		if e.kind != kindHealthCheck {
			out = append(out, e)
		}
	}
	return out
}

// Flush broadcasts a flush request to every registered target and metric
// and waits up to timeout for each to acknowledge individually, reporting
// which ones acked and which ones timed out. A zero or negative timeout
// reports every target as timed out without attempting delivery.
func (r *Registry) Flush(ctx context.Context, timeout time.Duration) (FlushInfo, error) {
	entries := r.flushableEntries()

	if timeout <= 0 {
		info := FlushInfo{Timeouts: make([]string, len(entries))}
		for i, e := range entries {
			info.Timeouts[i] = e.name
		}
		return info, nil
	}

	type outcome struct {
		name string
		ok   bool
	}
	results := make(chan outcome, len(entries))
	for _, e := range entries {
		go func(e *supervisedEntry) {
			e.mu.Lock()
			svc := e.svc
			e.mu.Unlock()
			if svc == nil {
				results <- outcome{name: e.name, ok: false}
				return
			}
			flushCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			results <- outcome{name: e.name, ok: svc.Flush(flushCtx) == nil}
		}(e)
	}

	var info FlushInfo
	remaining := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		remaining[e.name] = struct{}{}
	}
	deadline := time.After(timeout)
	for len(remaining) > 0 {
		select {
		case res := <-results:
			delete(remaining, res.name)
			if res.ok {
				info.Acks = append(info.Acks, res.name)
			} else {
				info.Timeouts = append(info.Timeouts, res.name)
			}
		case <-deadline:
			for name := range remaining {
				info.Timeouts = append(info.Timeouts, name)
			}
			return info, nil
		}
	}
	return info, nil
}

// ShutdownInfo reports the outcome of the shutdown phase of
// [Registry.Shutdown]: the name of every supervised entry (target, metric,
// or health check) whose own Shutdown returned within shutdownTimeout, and
// the name of every one that did not.
type ShutdownInfo struct {
	Acks     []string
	Timeouts []string
}

// Shutdown flushes pending messages (bounded by flushTimeout), stops the
// supervisor, shuts down every entry (bounded by shutdownTimeout), then the
// [GlobalService] (bounded by ctx only), and finally the [Engine]. Idempotent: only the first
// call does any work, every later call returns zero-value info and a nil
// error.
func (r *Registry) Shutdown(ctx context.Context, flushTimeout, shutdownTimeout time.Duration) (FlushInfo, ShutdownInfo, error) {
	var flushInfo FlushInfo
	var shutdownInfo ShutdownInfo
	r.shutdownOnce.Do(func() {
		flushInfo, _ = r.Flush(ctx, flushTimeout)

		close(r.superviseDone)

		r.entriesMu.Lock()
		entries := make([]*supervisedEntry, 0, len(r.entries))
		for _, e := range r.entries {
			entries = append(entries, e)
		}
		r.entriesMu.Unlock()

		type outcome struct {
			name string
			ok   bool
		}
		results := make(chan outcome, len(entries))
		for _, e := range entries {
			go func(e *supervisedEntry) {
				e.mu.Lock()
				svc := e.svc
				e.mu.Unlock()
				if svc == nil {
					results <- outcome{name: e.name, ok: true}
					return
				}
				shutdownCtx := ctx
				cancel := func() {}
				if shutdownTimeout > 0 {
					shutdownCtx, cancel = context.WithTimeout(ctx, shutdownTimeout)
				}
				defer cancel()
				results <- outcome{name: e.name, ok: svc.Shutdown(shutdownCtx) == nil}
			}(e)
		}

		remaining := make(map[string]struct{}, len(entries))
		for _, e := range entries {
			remaining[e.name] = struct{}{}
		}
		var deadline <-chan time.Time
		if shutdownTimeout > 0 {
			deadline = time.After(shutdownTimeout)
		}
	drain:
		for len(remaining) > 0 {
			select {
			case res := <-results:
				delete(remaining, res.name)
				if res.ok {
					shutdownInfo.Acks = append(shutdownInfo.Acks, res.name)
				} else {
					shutdownInfo.Timeouts = append(shutdownInfo.Timeouts, res.name)
				}
			case <-deadline:
				for name := range remaining {
					shutdownInfo.Timeouts = append(shutdownInfo.Timeouts, name)
				}
				break drain
			}
		}

		_ = r.globals.Shutdown(ctx)
		r.engine.Shutdown()
	})
	return flushInfo, shutdownInfo, nil
}
