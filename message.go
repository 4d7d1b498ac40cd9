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

import "time"

// contextTargetKey is the well-known context key the [Engine] reads to
// route an emitted message to a subscriber.
const contextTargetKey = "target"

// SpanInfoKey and SpanIDKey are the well-known context keys a [tracing.Span]
// attaches on completion.
const (
	SpanInfoKey = "spanInfo"
	SpanIDKey   = "spanId"
)

// Message is an immutable log event. Timestamp is set once at construction
// (or at enqueue time by a [Logger]) and never mutated; Context is
// functionally updated via [Message.With] — each update yields a new
// Message sharing the unmodified entries.
type Message struct {
	name      PointName
	level     LogLevel
	value     Value
	context   map[string]Value
	timestamp time.Time
}

// NewMessage constructs a Message with an empty name and context; the
// timestamp is left zero and is filled in by [Message.stampedAt] at enqueue
// time if still zero.
func NewMessage(level LogLevel, value Value) Message {
	return Message{level: level, value: value}
}

// Name returns the logger-assigned point name.
func (m Message) Name() PointName { return m.name }

// Level returns the message severity.
func (m Message) Level() LogLevel { return m.level }

// Value returns the message payload.
func (m Message) Value() Value { return m.value }

// Timestamp returns the instant the message was created or enqueued.
func (m Message) Timestamp() time.Time { return m.timestamp }

// Context returns a copy of the message's context map.
func (m Message) Context() map[string]Value {
	cp := make(map[string]Value, len(m.context))
	for k, v := range m.context {
		cp[k] = v
	}
	return cp
}

// ContextValue looks up a single context entry.
func (m Message) ContextValue(key string) (Value, bool) {
	v, ok := m.context[key]
	return v, ok
}

// With returns a new Message with key bound to value in its context; m is
// left unmodified.
func (m Message) With(key string, value Value) Message {
	cp := m
	cp.context = make(map[string]Value, len(m.context)+1)
	for k, v := range m.context {
		cp.context[k] = v
	}
	cp.context[key] = value
	return cp
}

// WithName returns a copy of m carrying name.
func (m Message) WithName(name PointName) Message {
	cp := m
	cp.name = name
	return cp
}

// WithTarget is sugar for m.With("target", StringValue(name)), the routing
// convention the [Engine] reads.
func (m Message) WithTarget(name string) Message {
	return m.With(contextTargetKey, StringValue(name))
}

// targetName returns the routing target bound on m, if any.
func (m Message) targetName() (string, bool) {
	v, ok := m.context[contextTargetKey]
	if !ok {
		return "", false
	}
	return v.String()
}

// stampedAt returns m with Timestamp set to now if it is still zero.
func (m Message) stampedAt(now time.Time) Message {
	if !m.timestamp.IsZero() {
		return m
	}
	cp := m
	cp.timestamp = now
	return cp
}

// MessageFactory lazily builds a [Message]. A [Logger] must invoke a
// MessageFactory exactly once, and only if the message is admitted by the
// logger's level filter.
type MessageFactory func(level LogLevel) Message
