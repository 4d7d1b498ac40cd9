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
	"fmt"
)

// RuntimeInfo is immutable after [NewRegistry]; Logger is the internal
// logger the library uses to log about itself.
type RuntimeInfo struct {
	Service string
	Host    string
	Clock   Clock
	Logger  Logger
}

// ServiceFactory builds a running [Sink] for a target or metric, given the
// registry's [RuntimeInfo]. It is invoked concurrently with the other
// factories during [NewRegistry], and again by the supervisor each time it
// restarts a faulted entry.
type ServiceFactory func(info RuntimeInfo) (Sink, error)

// Prober is the health-check equivalent of a [Sink]: a periodic probe
// rather than a message-sink, supervised by the same [Service] state
// machine.
type Prober interface {
	Probe(ctx context.Context) error
}

// TargetConf names a target and supplies its factory.
type TargetConf struct {
	Name    string
	Factory ServiceFactory
}

// MetricConf names a metric and supplies its factory. Structurally
// identical to TargetConf: a metric is treated structurally the same as a
// target.
type MetricConf struct {
	Name    string
	Factory ServiceFactory
}

// HealthCheckFactory builds a [Prober] for a health check.
type HealthCheckFactory func(info RuntimeInfo) (Prober, error)

// HealthCheckConf names a health check and supplies its factory plus probe
// interval.
type HealthCheckConf struct {
	Name     string
	Factory  HealthCheckFactory
	Interval DurationMillis
}

// DurationMillis avoids importing time into the conf surface for users who
// only deal in plain integers; NewRegistry converts it.
type DurationMillis int64

// LogaryConf is the builder-shaped configuration consumed by [NewRegistry].
type LogaryConf struct {
	targets      []TargetConf
	metrics      []MetricConf
	healthChecks []HealthCheckConf
	runtimeInfo  RuntimeInfo
	middleware   []Middleware
	processing   ProcessingFunc
}

// ConfOption is a functional option for [NewConf], in the functional-options
// idiom shared with rivaas.dev/logging.Option and rivaas.dev/tracing.Option.
type ConfOption func(*LogaryConf)

// NewConf builds a [LogaryConf] from options and validates it, returning
// [ErrConfiguration] wrapped with a reason on failure (e.g. a duplicate
// target name).
func NewConf(opts ...ConfOption) (LogaryConf, error) {
	var c LogaryConf
	for _, opt := range opts {
		opt(&c)
	}
	if c.processing == nil {
		c.processing = Pipeline()
	}
	if err := c.validate(); err != nil {
		return LogaryConf{}, err
	}
	return c, nil
}

// MustNewConf builds a [LogaryConf] or panics.
func MustNewConf(opts ...ConfOption) LogaryConf {
	c, err := NewConf(opts...)
	if err != nil {
		panic("logary: invalid configuration: " + err.Error())
	}
	return c
}

func (c LogaryConf) validate() error {
	seen := make(map[string]bool, len(c.targets))
	for _, t := range c.targets {
		if t.Name == "" {
			return configError("target name cannot be empty")
		}
		if t.Factory == nil {
			return fmt.Errorf("%w: %w: target %q", ErrConfiguration, ErrNilFactory, t.Name)
		}
		if seen[t.Name] {
			return configError(fmt.Sprintf("duplicate target name %q", t.Name))
		}
		seen[t.Name] = true
	}
	seenMetrics := make(map[string]bool, len(c.metrics))
	for _, m := range c.metrics {
		if m.Factory == nil {
			return fmt.Errorf("%w: %w: metric %q", ErrConfiguration, ErrNilFactory, m.Name)
		}
		if seenMetrics[m.Name] {
			return configError(fmt.Sprintf("duplicate metric name %q", m.Name))
		}
		seenMetrics[m.Name] = true
	}
	seenHC := make(map[string]bool, len(c.healthChecks))
	for _, h := range c.healthChecks {
		if h.Factory == nil {
			return fmt.Errorf("%w: %w: health check %q", ErrConfiguration, ErrNilFactory, h.Name)
		}
		if seenHC[h.Name] {
			return configError(fmt.Sprintf("duplicate health check name %q", h.Name))
		}
		seenHC[h.Name] = true
	}
	return nil
}

// WithTarget registers a named target.
func WithTarget(name string, factory ServiceFactory) ConfOption {
	return func(c *LogaryConf) {
		c.targets = append(c.targets, TargetConf{Name: name, Factory: factory})
	}
}

// WithMetric registers a named metric.
func WithMetric(name string, factory ServiceFactory) ConfOption {
	return func(c *LogaryConf) {
		c.metrics = append(c.metrics, MetricConf{Name: name, Factory: factory})
	}
}

// WithHealthCheck registers a named health check.
func WithHealthCheck(name string, factory HealthCheckFactory, interval DurationMillis) ConfOption {
	return func(c *LogaryConf) {
		c.healthChecks = append(c.healthChecks, HealthCheckConf{Name: name, Factory: factory, Interval: interval})
	}
}

// WithRuntimeInfo sets the registry's [RuntimeInfo].
func WithRuntimeInfo(info RuntimeInfo) ConfOption {
	return func(c *LogaryConf) { c.runtimeInfo = info }
}

// WithMiddleware appends registry-level middleware, applied after
// call-site middleware: getLogger composes registry middleware with
// call-site middleware (registry ∘ call-site).
func WithMiddleware(mw Middleware) ConfOption {
	return func(c *LogaryConf) { c.middleware = append(c.middleware, mw) }
}

// WithProcessing sets the pipeline function. Optional; [NewConf] defaults
// to an identity [Pipeline] (no stages, nothing routed) if unset.
func WithProcessing(p ProcessingFunc) ConfOption {
	return func(c *LogaryConf) { c.processing = p }
}

func (c LogaryConf) registryMiddleware() Middleware {
	var mw Middleware
	for _, m := range c.middleware {
		mw = composeMiddleware(m, mw)
	}
	return mw
}
