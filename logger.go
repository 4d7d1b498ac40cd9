// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logary

import (
	"context"
	"sync"
	"time"
)

// Middleware transforms a message produced by a specific logger; middleware
// values compose by function composition.
type Middleware func(Message) Message

func composeMiddleware(outer, inner Middleware) Middleware {
	switch {
	case outer == nil:
		return inner
	case inner == nil:
		return outer
	default:
		return func(m Message) Message { return outer(inner(m)) }
	}
}

// Logger is the client-facing send capability. Implementations must invoke a
// [MessageFactory] exactly once, and only for admitted (level >=
// Logger.Level()) messages.
type Logger interface {
	Name() PointName
	Level() LogLevel
	// Log enqueues without waiting for target acknowledgement. Returns
	// [ErrBufferFull] only if the engine's ingress buffer is full;
	// callers treat that as a drop signal.
	Log(level LogLevel, factory MessageFactory) error
	// LogWithAck returns an [Ack] resolved once the message has been
	// accepted by the engine (passed through the processing function),
	// not once targets have written it.
	LogWithAck(level LogLevel, factory MessageFactory) *Ack
}

// Clock abstracts time.Now so tests can control message timestamps and span
// durations deterministically.
type Clock interface{ Now() time.Time }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// engineLogger is the normal [Logger] implementation: a non-owning handle
// into an [Engine], whose lifetime is the owning [Registry].
type engineLogger struct {
	name       PointName
	level      LogLevel
	engine     *Engine
	middleware Middleware // registry middleware ∘ call-site middleware
	clock      Clock
}

func newEngineLogger(name PointName, level LogLevel, engine *Engine, mw Middleware, c Clock) *engineLogger {
	if c == nil {
		c = realClock{}
	}
	return &engineLogger{name: name, level: level, engine: engine, middleware: mw, clock: c}
}

func (l *engineLogger) Name() PointName { return l.name }
func (l *engineLogger) Level() LogLevel { return l.level }

func (l *engineLogger) build(level LogLevel, factory MessageFactory) Message {
	m := factory(level)
	m = m.WithName(l.name).stampedAt(l.clock.Now())
	if l.middleware != nil {
		m = l.middleware(m)
	}
	return m
}

func (l *engineLogger) Log(level LogLevel, factory MessageFactory) error {
	if level < l.level {
		return nil
	}
	return l.engine.Log(l.build(level, factory))
}

func (l *engineLogger) LogWithAck(level LogLevel, factory MessageFactory) *Ack {
	if level < l.level {
		return completedAck(nil)
	}
	return l.engine.LogWithAck(l.build(level, factory))
}

// promisedLogger is returned by [LogManager.GetLogger]: it buffers calls in
// a bounded slice until the real [engineLogger] resolves, then forwards them
// in arrival order. Overflow policy: the oldest buffered call is dropped to
// make room for the newest.
type promisedLogger struct {
	name PointName

	resolved chan struct{}
	real     Logger // valid for read only after resolved is closed

	mu      sync.Mutex
	done    bool // true once resolve() has run; guarded by mu
	pending []pendingCall
}

type pendingCall struct {
	level   LogLevel
	factory MessageFactory
	ack     *Ack // nil for fire-and-forget calls
}

// promisedLoggerBufferSize bounds how many calls are buffered before the
// real logger resolves; oldest-dropped overflow policy.
const promisedLoggerBufferSize = 64

func newPromisedLogger(name PointName) *promisedLogger {
	return &promisedLogger{
		name:     name,
		resolved: make(chan struct{}),
	}
}

// resolve installs the real logger and drains buffered calls into it, in
// arrival order.
func (p *promisedLogger) resolve(real Logger) {
	p.mu.Lock()
	p.real = real
	p.done = true
	calls := p.pending
	p.pending = nil
	p.mu.Unlock()

	for _, call := range calls {
		if call.ack != nil {
			ack := real.LogWithAck(call.level, call.factory)
			go func(src, dst *Ack) {
				<-dst.Done()
				src.resolve(nil)
			}(call.ack, ack)
			continue
		}
		_ = real.Log(call.level, call.factory)
	}
	close(p.resolved)
}

func (p *promisedLogger) Name() PointName { return p.name }

func (p *promisedLogger) Level() LogLevel {
	select {
	case <-p.resolved:
		return p.real.Level()
	default:
		return Verbose // admit everything until resolved; real logger re-filters
	}
}

// enqueue buffers call, dropping the oldest entry first if the buffer is
// full. It returns false if resolve() has already run, in which case the
// caller must dispatch to the real logger instead.
func (p *promisedLogger) enqueue(call pendingCall) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done {
		return false
	}
	if len(p.pending) >= promisedLoggerBufferSize {
		p.pending = p.pending[1:]
	}
	p.pending = append(p.pending, call)
	return true
}

func (p *promisedLogger) Log(level LogLevel, factory MessageFactory) error {
	select {
	case <-p.resolved:
		return p.real.Log(level, factory)
	default:
	}
	if p.enqueue(pendingCall{level: level, factory: factory}) {
		return nil
	}
	return p.real.Log(level, factory)
}

func (p *promisedLogger) LogWithAck(level LogLevel, factory MessageFactory) *Ack {
	select {
	case <-p.resolved:
		return p.real.LogWithAck(level, factory)
	default:
	}
	ack := newAck()
	if p.enqueue(pendingCall{level: level, factory: factory, ack: ack}) {
		return ack
	}
	return p.real.LogWithAck(level, factory)
}

// waitResolved blocks until the real logger is installed, honoring ctx.
func (p *promisedLogger) waitResolved(ctx context.Context) error {
	select {
	case <-p.resolved:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
