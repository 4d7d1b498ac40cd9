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
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratorRootFormat(t *testing.T) {
	gen := NewGenerator("h", "s")
	id := gen.Generate("")
	assert.Regexp(t, regexp.MustCompile(`^#h-s\.[0-9a-f]+$`), id)
}

func TestGeneratorChildExtendsParent(t *testing.T) {
	gen := NewGenerator("h", "s")
	root := gen.Generate("")
	child := gen.Generate(root)

	require.True(t, len(child) > len(root))
	assert.Equal(t, root, child[:len(root)])
	assert.Regexp(t, regexp.MustCompile(`^`+regexp.QuoteMeta(root)+`\.[0-9a-f]+$`), child)
}

func TestGeneratorForeignParentGetsLocalPrefix(t *testing.T) {
	gen := NewGenerator("h", "s")
	id := gen.Generate("remote-span-id")
	assert.Regexp(t, regexp.MustCompile(`^#h-s\.remote-span-id\.[0-9a-f]+$`), id)
}

func TestGeneratorConcurrentUnique(t *testing.T) {
	gen := NewGenerator("h", "s")
	const n = 200
	ids := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = gen.Generate("")
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for _, id := range ids {
		require.False(t, seen[id], "duplicate id %q", id)
		seen[id] = true
	}
}

func TestGeneratorReleaseDropsCounter(t *testing.T) {
	gen := NewGenerator("h", "s")
	root := gen.Generate("")
	gen.release(root)
	gen.mu.Lock()
	_, exists := gen.counters[root]
	gen.mu.Unlock()
	assert.False(t, exists)
}
