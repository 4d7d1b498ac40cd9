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

package tracing

import (
	"os"
	"sync"
	"sync/atomic"
	"time"

	"rivaas.dev/logary"
)

// Transform rewrites a span's completion message before context fields are
// attached, mirroring [logary.Middleware]'s shape.
type Transform func(logary.Message) logary.Message

func identity(m logary.Message) logary.Message { return m }

// Span is a scoped tracing unit: it owns a hierarchical id, a begin
// instant, and a reference to the [logary.Logger] its completion event is
// sent through. Finish emits at most one message, regardless of how many
// times it is called.
type Span struct {
	id       string
	parentID string
	name     string
	beginAt  time.Time
	logger   logary.Logger
	clock    logary.Clock
	gen      *Generator
	hasFired atomic.Bool
}

// Start begins a new span named name, a root if parentID is empty or a
// child of parentID otherwise. The returned Span's id is allocated
// immediately from gen.
func Start(name string, logger logary.Logger, parentID string, clock logary.Clock, gen *Generator) *Span {
	return &Span{
		id:       gen.Generate(parentID),
		parentID: parentID,
		name:     name,
		beginAt:  clock.Now(),
		logger:   logger,
		clock:    clock,
		gen:      gen,
	}
}

// Child starts a span named name as a child of s, sharing s's logger,
// clock, and generator.
func (s *Span) Child(name string) *Span {
	return Start(name, s.logger, s.id, s.clock, s.gen)
}

// ID returns the span's identifier.
func (s *Span) ID() string { return s.id }

// ParentID returns the parent span's identifier, or "" for a root span.
func (s *Span) ParentID() string { return s.parentID }

// Finish completes the span: the first call builds a completion message by
// running transform (identity if nil) over a fresh Info-level message,
// attaches spanInfo/spanId to its context, and logs it with an ack.
// Subsequent calls are no-ops that return an already-completed ack, so a
// span can safely be finished again from a deferred scoped-disposal call
// after an earlier explicit Finish.
func (s *Span) Finish(transform Transform) *logary.Ack {
	if !s.hasFired.CompareAndSwap(false, true) {
		return logary.CompletedAck(nil)
	}
	if transform == nil {
		transform = identity
	}
	s.gen.release(s.id)

	endAt := s.clock.Now()
	duration := endAt.Sub(s.beginAt)

	msg := transform(logary.NewMessage(logary.Info, logary.StringValue(s.name)))
	info := logary.ObjectValue(map[string]logary.Value{
		"id":       logary.StringValue(s.id),
		"beginAt":  logary.Int64Value(s.beginAt.UnixNano()),
		"endAt":    logary.Int64Value(endAt.UnixNano()),
		"duration": logary.Int64Value(duration.Nanoseconds()),
	})
	msg = msg.With(logary.SpanInfoKey, info).With(logary.SpanIDKey, logary.StringValue(s.id))

	return s.logger.LogWithAck(logary.Info, func(logary.LogLevel) logary.Message { return msg })
}

// Close runs scoped disposal: finish(identity), fire-and-forget. Intended
// for `defer span.Close()` at the end of a span's lexical scope.
func (s *Span) Close() {
	s.Finish(nil)
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

var (
	defaultGenOnce sync.Once
	defaultGen     *Generator
)

// defaultGenerator lazily builds the single [Generator] backing every
// [StartSpan] call, so concurrent root spans started through that
// convenience constructor draw from one shared counter space instead of
// each starting fresh at id ".1".
func defaultGenerator() *Generator {
	defaultGenOnce.Do(func() {
		host, err := os.Hostname()
		if err != nil || host == "" {
			host = "unknown-host"
		}
		defaultGen = NewGenerator(host, "logary")
	})
	return defaultGen
}

// StartSpan begins a root span named name, logged through logger, using the
// real wall clock and the package-level default [Generator]. It is sugar
// over [Start] for the common scoped-acquisition idiom:
//
//	span, finish := tracing.StartSpan(logger, name)
//	defer finish()
//
// Use [Start] directly when the span needs an explicit parent id, a custom
// [logary.Clock] (for deterministic tests), or its own [Generator].
func StartSpan(logger logary.Logger, name logary.PointName) (*Span, func()) {
	s := Start(name.String(), logger, "", systemClock{}, defaultGenerator())
	return s, s.Close
}
