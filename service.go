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
	"sync"
	"time"
)

// State is a [Service]'s observable lifecycle state.
type State int

const (
	Starting State = iota
	Running
	Paused
	Faulted
	Stopped
)

func (s State) String() string {
	switch s {
	case Starting:
		return "starting"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Faulted:
		return "faulted"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Pausable is an optional interface a [Sink] or [Prober] may implement to
// be notified of pause/resume transitions.
type Pausable interface {
	Pause(ctx context.Context) error
	Resume(ctx context.Context) error
}

// Shutdowner is an optional interface a [Sink] or [Prober] may implement to
// release resources on shutdown: targets are responsible for draining and
// closing their own outputs on receipt of shutdown.
type Shutdowner interface {
	Shutdown(ctx context.Context) error
}

type controlRequest struct {
	reply chan error
}

type flushRequest struct {
	ctx   context.Context
	reply chan error
}

// Service is a supervised long-running wrapper around a user-supplied sink
// or health-check prober, with the state machine: Starting → Running;
// Running ↔ Paused; any → Faulted on error; Running|Paused|Faulted →
// Stopped via shutdown (terminal).
type Service struct {
	Name string

	sink   Sink
	prober Prober
	diag   diagnostic

	mu        sync.Mutex
	state     State
	faultErr  error
	probeStop chan struct{}
	probeDone chan struct{}

	pauseCh    chan controlRequest
	resumeCh   chan controlRequest
	shutdownCh chan controlRequest
	flushCh    chan flushRequest
}

// newTargetService wraps sink as a supervised [Service] named name (used
// for both targets and metrics, which are treated structurally the same).
func newTargetService(name string, sink Sink, diag diagnostic) *Service {
	s := &Service{
		Name:       name,
		sink:       sink,
		diag:       diag,
		state:      Starting,
		pauseCh:    make(chan controlRequest),
		resumeCh:   make(chan controlRequest),
		shutdownCh: make(chan controlRequest),
		flushCh:    make(chan flushRequest),
	}
	go s.controlLoop()
	s.setState(Running)
	return s
}

// newHealthCheckService wraps prober as a supervised [Service] that invokes
// Probe every interval while Running.
func newHealthCheckService(name string, prober Prober, interval time.Duration, diag diagnostic) *Service {
	s := &Service{
		Name:       name,
		prober:     prober,
		diag:       diag,
		state:      Starting,
		pauseCh:    make(chan controlRequest),
		resumeCh:   make(chan controlRequest),
		shutdownCh: make(chan controlRequest),
		flushCh:    make(chan flushRequest),
	}
	go s.controlLoop()
	s.setState(Running)
	if interval > 0 {
		s.probeStop = make(chan struct{})
		s.probeDone = make(chan struct{})
		go s.probeLoop(interval)
	}
	return s
}

func (s *Service) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// State returns the current lifecycle state.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// FaultError returns the error that caused a Faulted transition, if any.
func (s *Service) FaultError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.faultErr
}

func (s *Service) fault(err error) {
	s.mu.Lock()
	s.state = Faulted
	s.faultErr = err
	s.mu.Unlock()
	if s.diag != nil {
		s.diag(Error, "service faulted", "service", s.Name, "error", err)
	}
}

func (s *Service) probeLoop(interval time.Duration) {
	defer close(s.probeDone)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if s.State() != Running {
				continue
			}
			s.runProbe()
		case <-s.probeStop:
			return
		}
	}
}

func (s *Service) runProbe() {
	defer func() {
		if r := recover(); r != nil {
			s.fault(&ServiceFault{Name: s.Name, Err: panicError(r)})
		}
	}()
	if err := s.prober.Probe(context.Background()); err != nil {
		s.fault(&ServiceFault{Name: s.Name, Err: err})
	}
}

// controlLoop is the actor goroutine serializing pause/resume/shutdown
// against this service's own state.
func (s *Service) controlLoop() {
	for {
		select {
		case req := <-s.pauseCh:
			req.reply <- s.doPause()
		case req := <-s.resumeCh:
			req.reply <- s.doResume()
		case req := <-s.flushCh:
			req.reply <- s.doFlush(req.ctx)
		case req := <-s.shutdownCh:
			req.reply <- s.doShutdown()
			return
		}
	}
}

func (s *Service) doPause() error {
	if s.State() != Running {
		return nil
	}
	if p, ok := s.sinkOrProber().(Pausable); ok {
		if err := p.Pause(context.Background()); err != nil {
			s.fault(err)
			return err
		}
	}
	s.setState(Paused)
	return nil
}

func (s *Service) doResume() error {
	if s.State() != Paused {
		return nil
	}
	if p, ok := s.sinkOrProber().(Pausable); ok {
		if err := p.Resume(context.Background()); err != nil {
			s.fault(err)
			return err
		}
	}
	s.setState(Running)
	return nil
}

var flushSentinelName = NewPointName("logary", "flush")

// doFlush delivers a sentinel message directly to the wrapped sink, bypassing
// the Engine's processing pipeline entirely: a health-check service (no
// sink) treats flush as an immediate ack.
func (s *Service) doFlush(ctx context.Context) error {
	if s.sink == nil {
		return nil
	}
	return s.sink.Send(ctx, NewMessage(Verbose, StringValue("flush")).WithName(flushSentinelName))
}

func (s *Service) doShutdown() error {
	if s.probeStop != nil {
		close(s.probeStop)
		<-s.probeDone
	}
	var err error
	if d, ok := s.sinkOrProber().(Shutdowner); ok {
		err = d.Shutdown(context.Background())
	}
	s.setState(Stopped)
	return err
}

func (s *Service) sinkOrProber() any {
	if s.sink != nil {
		return s.sink
	}
	return s.prober
}

// Pause requests a transition to Paused; a no-op if not Running.
func (s *Service) Pause(ctx context.Context) error {
	return s.send(ctx, s.pauseCh)
}

// Resume requests a transition back to Running; a no-op if not Paused.
func (s *Service) Resume(ctx context.Context) error {
	return s.send(ctx, s.resumeCh)
}

// Shutdown requests termination; idempotent to call once, blocks until the
// control loop has exited.
func (s *Service) Shutdown(ctx context.Context) error {
	return s.send(ctx, s.shutdownCh)
}

// Flush delivers a sentinel message straight to the wrapped sink and waits
// for it to return, bounded by ctx. Unlike [Service.Pause]/[Service.Resume]/
// [Service.Shutdown] this carries its own context through to the control
// loop, since the sink call it triggers may run past ctx's deadline without
// honoring cancellation itself.
func (s *Service) Flush(ctx context.Context) error {
	if s.State() == Stopped {
		return ErrStopped
	}
	reply := make(chan error, 1)
	select {
	case s.flushCh <- flushRequest{ctx: ctx, reply: reply}:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) send(ctx context.Context, ch chan controlRequest) error {
	if s.State() == Stopped {
		return ErrStopped
	}
	reply := make(chan error, 1)
	select {
	case ch <- controlRequest{reply: reply}:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func panicError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return &panicValue{v: r}
}

type panicValue struct{ v any }

func (p *panicValue) Error() string { return "panic: " + toString(p.v) }

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if err, ok := v.(error); ok {
		return err.Error()
	}
	return "non-string panic value"
}
