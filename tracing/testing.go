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
	"sync"

	"rivaas.dev/logary"
)

// RecordingLogger is a [logary.Logger] that appends every logged message to
// an in-memory slice, for tests that exercise [Span] without a running
// registry.
type RecordingLogger struct {
	name  logary.PointName
	level logary.LogLevel

	mu       sync.Mutex
	messages []logary.Message
}

// NewRecordingLogger returns a RecordingLogger admitting everything at or
// above level.
func NewRecordingLogger(name logary.PointName, level logary.LogLevel) *RecordingLogger {
	return &RecordingLogger{name: name, level: level}
}

func (l *RecordingLogger) Name() logary.PointName { return l.name }
func (l *RecordingLogger) Level() logary.LogLevel { return l.level }

func (l *RecordingLogger) Log(level logary.LogLevel, factory logary.MessageFactory) error {
	if level < l.level {
		return nil
	}
	l.record(factory(level))
	return nil
}

func (l *RecordingLogger) LogWithAck(level logary.LogLevel, factory logary.MessageFactory) *logary.Ack {
	if level < l.level {
		return logary.CompletedAck(nil)
	}
	l.record(factory(level))
	return logary.CompletedAck(nil)
}

func (l *RecordingLogger) record(m logary.Message) {
	l.mu.Lock()
	l.messages = append(l.messages, m)
	l.mu.Unlock()
}

// Messages returns a copy of every message logged so far.
func (l *RecordingLogger) Messages() []logary.Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	cp := make([]logary.Message, len(l.messages))
	copy(cp, l.messages)
	return cp
}
