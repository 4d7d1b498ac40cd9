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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/logary"
)

func TestSpanContextStableWithinTree(t *testing.T) {
	logger := NewRecordingLogger(logary.NewPointName("test"), logary.Verbose)
	clock := logary.NewManualClock(time.Unix(0, 0))
	gen := NewGenerator("h", "s")

	root := Start("root", logger, "", clock, gen)
	child := root.Child("child")

	rootSC := SpanContext(root)
	childSC := SpanContext(child)

	require.True(t, rootSC.IsValid())
	require.True(t, childSC.IsValid())
	assert.Equal(t, rootSC.TraceID(), childSC.TraceID())
	assert.NotEqual(t, rootSC.SpanID(), childSC.SpanID())
}

func TestSpanContextDeterministic(t *testing.T) {
	logger := NewRecordingLogger(logary.NewPointName("test"), logary.Verbose)
	clock := logary.NewManualClock(time.Unix(0, 0))
	gen := NewGenerator("h", "s")

	span := Start("work", logger, "", clock, gen)
	assert.Equal(t, SpanContext(span), SpanContext(span))
}
