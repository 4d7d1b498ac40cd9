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
	"crypto/sha256"
	"strings"

	"go.opentelemetry.io/otel/trace"
)

// SpanContext derives an OpenTelemetry [trace.SpanContext] from s, so a Span
// can be correlated with OpenTelemetry-instrumented code in the same
// process (e.g. propagated over HTTP, or joined against a trace viewer)
// without this package managing a TracerProvider itself.
//
// The OTel trace id is derived from the root segment of s's hierarchical
// id, so every span in the same tree maps to the same trace id; the span
// id is derived from s's own full id. Both are deterministic hashes, not
// random — calling SpanContext twice for the same Span yields the same
// result.
func SpanContext(s *Span) trace.SpanContext {
	return trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceIDFromRoot(rootSegment(s.gen.localPrefix, s.id)),
		SpanID:     spanIDFromID(s.id),
		TraceFlags: trace.FlagsSampled,
	})
}

// rootSegment returns the tree-root prefix of a hierarchical span id:
// "#host-service.rootHex", stripping any further ".childHex" segments.
// prefix is the generator's "#host-service", which may itself contain dots.
func rootSegment(prefix, id string) string {
	prefixEnd := len(prefix)
	if !strings.HasPrefix(id, prefix+".") {
		prefixEnd = strings.Index(id, ".")
		if prefixEnd < 0 {
			return id
		}
	}
	rest := id[prefixEnd+1:]
	if childStart := strings.Index(rest, "."); childStart >= 0 {
		return id[:prefixEnd+1+childStart]
	}
	return id
}

func traceIDFromRoot(root string) trace.TraceID {
	sum := sha256.Sum256([]byte(root))
	var id trace.TraceID
	copy(id[:], sum[:len(id)])
	return id
}

func spanIDFromID(id string) trace.SpanID {
	sum := sha256.Sum256([]byte(id))
	var sid trace.SpanID
	copy(sid[:], sum[:len(sid)])
	return sid
}
