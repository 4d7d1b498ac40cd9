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

package tracing

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
)

// Generator allocates span identifiers of the form
// "#{host}-{service}.{hex}[.{hex}]*". It maintains one monotonic counter per
// normalized parent id, so two concurrent calls for the same parent never
// observe the same value.
//
// A Generator is safe for concurrent use. Counters are backed by
// [atomic.Uint64] and wrap silently on overflow; at one allocation per
// nanosecond that takes roughly 584 years, the same tradeoff rivaas.dev/logging's
// request-sampling counter makes.
type Generator struct {
	localPrefix string

	mu       sync.Mutex
	counters map[string]*atomic.Uint64
}

// NewGenerator returns a Generator whose root span ids are prefixed
// "#{host}-{service}".
func NewGenerator(host, service string) *Generator {
	return &Generator{
		localPrefix: fmt.Sprintf("#%s-%s", host, service),
		counters:    make(map[string]*atomic.Uint64),
	}
}

func (g *Generator) counterFor(key string) *atomic.Uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	c, ok := g.counters[key]
	if !ok {
		c = new(atomic.Uint64)
		g.counters[key] = c
	}
	return c
}

// Generate allocates the next id for parentID, an empty string meaning a
// root span. If parentID already carries this Generator's local prefix it
// is reused verbatim as the base; otherwise the local prefix is prepended,
// so an id propagated in from another process still gains this process's
// locality.
func (g *Generator) Generate(parentID string) string {
	normalized := strings.TrimSpace(parentID)
	n := g.counterFor(normalized).Add(1)

	base := g.localPrefix
	switch {
	case normalized == "":
		// root span: base is just the local prefix
	case strings.Contains(normalized, g.localPrefix):
		base = normalized
	default:
		base = g.localPrefix + "." + normalized
	}
	return fmt.Sprintf("%s.%x", base, n)
}

// release drops the counter entry for key, freeing it once no further
// children can be allocated under it (called from [Span.Finish]).
func (g *Generator) release(key string) {
	g.mu.Lock()
	delete(g.counters, key)
	g.mu.Unlock()
}
