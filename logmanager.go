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
	"time"
)

// LogManager is the single entry point a consuming application holds: it
// wraps a [Registry] and exposes the two ways of obtaining a [Logger] plus
// flush/shutdown, without ever exposing the Registry's internal supervision
// machinery.
type LogManager struct {
	registry *Registry
}

// NewLogManager builds and starts a [Registry] from conf and wraps it.
func NewLogManager(conf LogaryConf) (*LogManager, error) {
	r, err := NewRegistry(conf)
	if err != nil {
		return nil, err
	}
	return &LogManager{registry: r}, nil
}

// RuntimeInfo returns the manager's runtime info.
func (lm *LogManager) RuntimeInfo() RuntimeInfo {
	return lm.registry.RuntimeInfo()
}

// GetLogger returns a [Logger] for name immediately: a [promisedLogger] that
// buffers calls until the real logger is wired in the background. Safe to
// call before the registry has fully warmed up; the caller never blocks.
func (lm *LogManager) GetLogger(name PointName, mw Middleware) Logger {
	p := newPromisedLogger(name)
	go p.resolve(lm.registry.GetLogger(name, mw))
	return p
}

// GetLoggerSync returns a [Logger] for name, blocking until it is ready.
// Since [Registry.GetLogger] never itself blocks on I/O, this returns
// immediately in practice; the context is honored for symmetry with other
// blocking calls in this package.
func (lm *LogManager) GetLoggerSync(ctx context.Context, name PointName, mw Middleware) (Logger, error) {
	type result struct {
		l Logger
	}
	ch := make(chan result, 1)
	go func() { ch <- result{l: lm.registry.GetLogger(name, mw)} }()
	select {
	case r := <-ch:
		return r.l, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// FlushPending broadcasts a flush request to every target and metric,
// waiting up to timeout for each to acknowledge, and reports which targets
// acked and which timed out.
func (lm *LogManager) FlushPending(timeout time.Duration) (FlushInfo, error) {
	return lm.registry.Flush(context.Background(), timeout)
}

// Shutdown flushes, then stops every supervised entry, the global service,
// and the engine, bounded by flushTimeout and shutdownTimeout respectively.
// Safe to call more than once; only the first call does work.
func (lm *LogManager) Shutdown(flushTimeout, shutdownTimeout time.Duration) (FlushInfo, ShutdownInfo, error) {
	return lm.registry.Shutdown(context.Background(), flushTimeout, shutdownTimeout)
}

// Faults returns a snapshot of every currently-faulted target, metric, or
// health check.
func (lm *LogManager) Faults() []FaultState {
	return lm.registry.Faults()
}
