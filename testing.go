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

// ManualClock is a [Clock] a test advances explicitly, for deterministic
// timestamp and interval assertions.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualClock returns a ManualClock starting at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now implements [Clock].
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// MemoryTarget is a [Sink] that records every message it receives, except
// the flush sentinel that [Service.Flush] delivers, for assertions in tests.
type MemoryTarget struct {
	mu       sync.Mutex
	messages []Message
}

// NewMemoryTarget returns an empty MemoryTarget.
func NewMemoryTarget() *MemoryTarget {
	return &MemoryTarget{}
}

// Send implements [Sink].
func (t *MemoryTarget) Send(_ context.Context, m Message) error {
	if m.Name().Equal(flushSentinelName) {
		return nil
	}
	t.mu.Lock()
	t.messages = append(t.messages, m)
	t.mu.Unlock()
	return nil
}

// Messages returns a copy of every message received so far.
func (t *MemoryTarget) Messages() []Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	cp := make([]Message, len(t.messages))
	copy(cp, t.messages)
	return cp
}

// Len reports how many messages have been received.
func (t *MemoryTarget) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.messages)
}

// NewTestRegistry builds a [Registry] with a single target named targetName
// backed by a fresh [MemoryTarget], wired through [RouteTo], and returns
// both for assertions. clock may be nil to use the real clock.
func NewTestRegistry(targetName string, clock Clock) (*Registry, *MemoryTarget, error) {
	mem := NewMemoryTarget()
	conf, err := NewConf(
		WithTarget(targetName, func(RuntimeInfo) (Sink, error) { return mem, nil }),
		WithRuntimeInfo(RuntimeInfo{Service: "test", Host: "test-host", Clock: clock}),
		WithProcessing(Pipeline(RouteTo(targetName))),
	)
	if err != nil {
		return nil, nil, err
	}
	r, err := NewRegistry(conf)
	if err != nil {
		return nil, nil, err
	}
	return r, mem, nil
}
