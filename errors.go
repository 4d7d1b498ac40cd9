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
	"errors"
	"fmt"
)

// Sentinel errors for better error handling and testing.
//
// Package-level error vars enable [errors.Is] checks, and explicit error
// types improve testability over string comparison.
var (
	// ErrConfiguration wraps an invalid [LogaryConf], e.g. a duplicate
	// target name. Returned by [NewConf].
	ErrConfiguration = errors.New("invalid logary configuration")

	// ErrStopped is returned by a [Service] or [GlobalService] operation
	// attempted after that service has shut down. The [Engine] and
	// [Registry] do not return it.
	ErrStopped = errors.New("registry is stopped")

	// ErrBufferFull is returned by [Logger.Log] only when the engine's
	// ingress buffer (256 messages) is full; callers treat it as a drop
	// signal (BackpressureDrop).
	ErrBufferFull = errors.New("log ingress buffer full")

	// ErrInvalidLevel indicates an unparsable [LogLevel] string.
	ErrInvalidLevel = errors.New("invalid log level")

	// ErrNilFactory indicates a nil target/metric/health-check factory
	// was supplied in a [LogaryConf].
	ErrNilFactory = errors.New("nil service factory")
)

// ServiceFault describes an abnormal termination of a supervised
// [Service]'s task, surfaced via [Service.FaultError] (while [Service.State]
// reports Faulted) and logged on the Registry's internal logger.
type ServiceFault struct {
	Name string
	Err error
}

func (f *ServiceFault) Error() string {
	return fmt.Sprintf("service %q faulted: %v", f.Name, f.Err)
}

func (f *ServiceFault) Unwrap() error { return f.Err }

// configError wraps ErrConfiguration with a reason, so that
// errors.Is(err, ErrConfiguration) keeps working after formatting.
func configError(reason string) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, reason)
}
