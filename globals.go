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
	"sync/atomic"
)

// GlobalLoggingConfig is the process-wide minimum level and middleware
// snapshot that [GlobalService] exposes, analogous to rivaas.dev/logging's
// package-level slog default-logger swap but scoped to one registry.
type GlobalLoggingConfig struct {
	MinLevel   LogLevel
	Middleware Middleware
}

// GlobalService holds the live [GlobalLoggingConfig] behind an
// [atomic.Pointer], read lock-free by [Registry.GetLogger] each time it
// builds a new logger, and mutable only through its own pause/resume/shutdown
// state machine (the single piece of mutable, globally visible state
// besides the subscriber map).
//
// previous always holds the configuration current held immediately before
// the last successful Set, rolling forward on every Set; pause/shutdown
// both restore current to previous rather than to a frozen snapshot, so the
// service never needs to know the prior config at construction time.
type GlobalService struct {
	current atomic.Pointer[GlobalLoggingConfig]

	// previous holds whatever current held immediately before the last
	// successful Set; Shutdown restores it unconditionally.
	previous atomic.Pointer[GlobalLoggingConfig]

	// pausedFrom holds whatever current held at the moment of the last
	// Pause; Resume restores it.
	pausedFrom atomic.Pointer[GlobalLoggingConfig]

	reqCh chan globalRequest
	done  chan struct{}
}

type globalRequestKind int

const (
	globalSet globalRequestKind = iota
	globalPause
	globalResume
	globalShutdown
)

type globalRequest struct {
	kind   globalRequestKind
	cfg    GlobalLoggingConfig
	result chan error
}

// NewGlobalService starts a [GlobalService] seeded with initial. previous is
// seeded to the same value, so a Pause or Shutdown with no prior Set is a
// no-op (there is nothing earlier to restore).
func NewGlobalService(initial GlobalLoggingConfig) *GlobalService {
	g := &GlobalService{
		reqCh: make(chan globalRequest),
		done:  make(chan struct{}),
	}
	g.current.Store(&initial)
	g.previous.Store(&initial)
	go g.run()
	return g
}

func (g *GlobalService) run() {
	paused := false
	for req := range g.reqCh {
		switch req.kind {
		case globalSet:
			if !paused {
				prior := g.current.Load()
				cfg := req.cfg
				g.current.Store(&cfg)
				g.previous.Store(prior)
			}
			req.result <- nil
		case globalPause:
			if !paused {
				g.pausedFrom.Store(g.current.Load())
				g.current.Store(g.previous.Load())
				paused = true
			}
			req.result <- nil
		case globalResume:
			if paused {
				if restore := g.pausedFrom.Load(); restore != nil {
					g.current.Store(restore)
				}
				paused = false
			}
			req.result <- nil
		case globalShutdown:
			g.current.Store(g.previous.Load())
			req.result <- nil
			close(g.done)
			return
		}
	}
}

// Load reads the current configuration without blocking on the service
// goroutine: readers never rendezvous with the actor.
func (g *GlobalService) Load() GlobalLoggingConfig {
	return *g.current.Load()
}

func (g *GlobalService) send(ctx context.Context, kind globalRequestKind, cfg GlobalLoggingConfig) error {
	result := make(chan error, 1)
	select {
	case g.reqCh <- globalRequest{kind: kind, cfg: cfg, result: result}:
	case <-g.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Set replaces the live configuration, a no-op while paused.
func (g *GlobalService) Set(ctx context.Context, cfg GlobalLoggingConfig) error {
	return g.send(ctx, globalSet, cfg)
}

// Pause restores the configuration active before the last Set (the
// "previous" configuration), remembers the one being left so Resume can
// restore it, and freezes Set until Resume.
func (g *GlobalService) Pause(ctx context.Context) error {
	return g.send(ctx, globalPause, GlobalLoggingConfig{})
}

// Resume restores the configuration that was live at the moment of the last
// Pause and unfreezes Set.
func (g *GlobalService) Resume(ctx context.Context) error {
	return g.send(ctx, globalResume, GlobalLoggingConfig{})
}

// Shutdown restores the configuration active before the last Set, then
// stops the service goroutine; blocks until drained. A later call returns
// [ErrStopped].
func (g *GlobalService) Shutdown(ctx context.Context) error {
	return g.send(ctx, globalShutdown, GlobalLoggingConfig{})
}
