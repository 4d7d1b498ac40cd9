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

// Package tracing builds a scoped tracing primitive, [Span], on top of a
// rivaas.dev/logary [logary.Logger]: starting a span allocates a
// hierarchical identifier from a [Generator], and finishing one emits
// exactly one completion log event carrying the span's id and duration.
//
// Span identifiers interoperate with OpenTelemetry's wire model through
// [SpanContext], so a Span can be correlated with spans created by other
// OpenTelemetry-instrumented components in the same process without this
// package depending on a full SDK tracer provider.
package tracing
