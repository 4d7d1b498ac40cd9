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

// EmitFunc forwards a message into the target layer. A [ProcessingFunc] may
// call it zero or more times per input message.
type EmitFunc func(Message)

// ProcessingFunc is the user-supplied pipeline stage: it may inspect,
// transform, split, or suppress messages, forwarding zero or more results
// via emit. The [Engine] awaits its completion before accepting the next
// input, preserving per-ingress FIFO order.
type ProcessingFunc func(ctx context.Context, m Message, emit EmitFunc)

// Stage is a composable processing step used by [Pipeline].
type Stage func(ctx context.Context, m Message, emit EmitFunc)

// Pipeline composes stages into a single [ProcessingFunc] by threading each
// stage's emissions into the next stage, in order. It is sugar over
// hand-writing the Message × emitSink → task<unit> closure; the
// public extension point remains ProcessingFunc.
func Pipeline(stages ...Stage) ProcessingFunc {
	return func(ctx context.Context, m Message, emit EmitFunc) {
		var run func(i int, msg Message)
		run = func(i int, msg Message) {
			if i == len(stages) {
				emit(msg)
				return
			}
			stages[i](ctx, msg, func(out Message) { run(i+1, out) })
		}
		run(0, m)
	}
}

// RouteTo is a [Stage] that unconditionally binds the routing target
// context key, a common single-target pipeline building block.
func RouteTo(target string) Stage {
	return func(_ context.Context, m Message, emit EmitFunc) {
		emit(m.WithTarget(target))
	}
}

// Sink is the minimal contract a target/metric implementation must satisfy
// to be registered as an [Engine] subscriber ("a message sink").
type Sink interface {
	Send(ctx context.Context, m Message) error
}

// SinkFunc adapts a plain function to [Sink].
type SinkFunc func(ctx context.Context, m Message) error

func (f SinkFunc) Send(ctx context.Context, m Message) error { return f(ctx, m) }

// diagnostic is the narrow logging surface the Engine uses to report on
// itself (processing-function panics, unroutable messages). Registry wires
// this to its own internal [Logger].
type diagnostic func(level LogLevel, msg string, kvs ...any)

func noopDiagnostic(LogLevel, string, ...any) {}

type subscribeRequest struct {
	key  string
	sink Sink // nil means unsubscribe
}

type logRequest struct {
	msg Message
	ack *Ack // nil for fire-and-forget Log
}

type shutdownRequest struct {
	done chan struct{}
}

// Engine is the single-threaded cooperative actor that owns the subscriber
// mapping, runs the processing pipeline, and fans out to named subscribers.
// All exported methods are safe for concurrent use; they only ever
// communicate with the actor goroutine via channels.
type Engine struct {
	processing ProcessingFunc
	diag       diagnostic

	inputCh     chan logRequest
	subscribeCh chan subscribeRequest
	shutdownCh  chan shutdownRequest

	dropped atomic.Int64
}

// NewEngine constructs an Engine around processing. If processing is nil,
// [Pipeline] with no stages (identity emit, unrouted) is used.
func NewEngine(processing ProcessingFunc) *Engine {
	if processing == nil {
		processing = Pipeline()
	}
	e := &Engine{
		processing:  processing,
		diag:        noopDiagnostic,
		inputCh:     make(chan logRequest, 256),
		subscribeCh: make(chan subscribeRequest),
		shutdownCh:  make(chan shutdownRequest),
	}
	go e.run()
	return e
}

// SetDiagnostic wires the engine's self-reporting sink. Registry calls this
// once during construction.
func (e *Engine) SetDiagnostic(d diagnostic) {
	if d == nil {
		d = noopDiagnostic
	}
	e.diag = d
}

// run is the actor loop: it drains inputCh/subscribeCh/shutdownCh, never
// touching the subscriber map from any other goroutine.
func (e *Engine) run() {
	subscribers := make(map[string]Sink)
	ctx := context.Background()

	emit := func(m Message) {
		name, ok := m.targetName()
		if !ok {
			e.dropped.Add(1)
			return
		}
		sink, ok := subscribers[name]
		if !ok {
			e.dropped.Add(1)
			return
		}
		// Target sink invocation is itself a suspension point; errors are
		// swallowed here, same as a processing-function panic: the engine
		// survives and logs, it does not propagate to the ingress caller
		// who has already moved on.
		if err := sink.Send(ctx, m); err != nil {
			e.diag(Error, "target send failed", "error", err)
		}
	}

	runProcessing := func(m Message) {
		defer func() {
			if r := recover(); r != nil {
				e.diag(Error, "processing function panicked", "panic", r)
			}
		}()
		e.processing(ctx, m, emit)
	}

	for {
		select {
		case req := <-e.inputCh:
			runProcessing(req.msg)
			if req.ack != nil {
				req.ack.resolve(nil)
			}
		case req := <-e.subscribeCh:
			if req.sink == nil {
				delete(subscribers, req.key)
			} else {
				subscribers[req.key] = req.sink
			}
		case req := <-e.shutdownCh:
			close(req.done)
			return
		}
	}
}

// Subscribe registers sink under key, replacing any existing sink for that
// key (idempotent-by-key replacement semantics).
func (e *Engine) Subscribe(key string, sink Sink) {
	e.subscribeCh <- subscribeRequest{key: key, sink: sink}
}

// Unsubscribe removes the sink registered under key. A missing key is a
// no-op.
func (e *Engine) Unsubscribe(key string) {
	e.subscribeCh <- subscribeRequest{key: key, sink: nil}
}

// Log is the engine-level non-blocking send: it enqueues m and returns
// without waiting for the processing function to run. If the ingress
// channel is full, the message is dropped and [ErrBufferFull] is returned.
func (e *Engine) Log(m Message) error {
	select {
	case e.inputCh <- logRequest{msg: m}:
		return nil
	default:
		return ErrBufferFull
	}
}

// LogWithAck enqueues m and returns an [Ack] resolved once m has passed
// through the processing function.
func (e *Engine) LogWithAck(m Message) *Ack {
	ack := newAck()
	e.inputCh <- logRequest{msg: m, ack: ack}
	return ack
}

// DroppedCount reports how many messages have been silently dropped so far,
// either for carrying no routing target or for naming a target with no
// registered subscriber.
func (e *Engine) DroppedCount() int64 {
	return e.dropped.Load()
}

// Shutdown signals termination and blocks until the actor loop has
// returned.
func (e *Engine) Shutdown() {
	done := make(chan struct{})
	e.shutdownCh <- shutdownRequest{done: done}
	<-done
}
