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

import "context"

// Ack is a promise completed when an enqueued message has been accepted by
// the [Engine] (not when targets have written it).
//
// An Ack is a single-slot rendezvous: callers either block on [Ack.Wait] or
// poll [Ack.Done]. The zero value is not usable; use [newAck].
type Ack struct {
	done chan struct{}
	err  error
}

func newAck() *Ack {
	return &Ack{done: make(chan struct{})}
}

// completedAck returns an Ack that is already resolved with err, used for
// idempotent operations (e.g. [tracing.Span.Finish] called more than once)
// that must return "an already-completed ack".
func completedAck(err error) *Ack {
	a := &Ack{done: make(chan struct{})}
	a.err = err
	close(a.done)
	return a
}

// CompletedAck returns an already-resolved Ack, for callers outside this
// package (e.g. tracing.Span.Finish) that need to hand back "an
// already-completed ack" for an idempotent operation's repeat calls.
func CompletedAck(err error) *Ack {
	return completedAck(err)
}

func (a *Ack) resolve(err error) {
	a.err = err
	close(a.done)
}

// Done returns a channel closed once the ack resolves.
func (a *Ack) Done() <-chan struct{} { return a.done }

// Wait blocks until the ack resolves or ctx is cancelled, whichever first.
func (a *Ack) Wait(ctx context.Context) error {
	select {
	case <-a.done:
		return a.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
