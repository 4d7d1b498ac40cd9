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
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/logary"
)

func TestSpanFinishEmitsExactlyOneMessage(t *testing.T) {
	logger := NewRecordingLogger(logary.NewPointName("test"), logary.Verbose)
	clock := logary.NewManualClock(time.Unix(0, 0))
	gen := NewGenerator("h", "s")

	span := Start("work", logger, "", clock, gen)
	clock.Advance(5 * time.Millisecond)

	ack := span.Finish(nil)
	require.NoError(t, ack.Wait(context.Background()))

	msgs := logger.Messages()
	require.Len(t, msgs, 1)

	info, ok := msgs[0].ContextValue(logary.SpanInfoKey)
	require.True(t, ok)
	obj, ok := info.Object()
	require.True(t, ok)
	duration, ok := obj["duration"].Int64()
	require.True(t, ok)
	assert.Equal(t, int64(5*time.Millisecond), duration)

	spanID, ok := msgs[0].ContextValue(logary.SpanIDKey)
	require.True(t, ok)
	sidStr, _ := spanID.String()
	assert.Equal(t, span.ID(), sidStr)
}

func TestSpanFinishIsIdempotent(t *testing.T) {
	logger := NewRecordingLogger(logary.NewPointName("test"), logary.Verbose)
	clock := logary.NewManualClock(time.Unix(0, 0))
	gen := NewGenerator("h", "s")

	span := Start("work", logger, "", clock, gen)

	first := span.Finish(nil)
	require.NoError(t, first.Wait(context.Background()))

	second := span.Finish(nil)
	require.NoError(t, second.Wait(context.Background()))

	assert.Len(t, logger.Messages(), 1)
}

func TestSpanChildHierarchy(t *testing.T) {
	logger := NewRecordingLogger(logary.NewPointName("test"), logary.Verbose)
	clock := logary.NewManualClock(time.Unix(0, 0))
	gen := NewGenerator("h", "s")

	root := Start("root", logger, "", clock, gen)
	child := root.Child("child")

	assert.Equal(t, root.ID(), child.ParentID())
	assert.Greater(t, len(child.ID()), len(root.ID()))

	child.Finish(nil)
	root.Finish(nil)
	assert.Len(t, logger.Messages(), 2)
}

func TestSpanCloseIsFireAndForget(t *testing.T) {
	logger := NewRecordingLogger(logary.NewPointName("test"), logary.Verbose)
	clock := logary.NewManualClock(time.Unix(0, 0))
	gen := NewGenerator("h", "s")

	span := Start("work", logger, "", clock, gen)
	span.Close()
	assert.Len(t, logger.Messages(), 1)
}

func TestStartSpanReturnsDeferrableFinish(t *testing.T) {
	logger := NewRecordingLogger(logary.NewPointName("test"), logary.Verbose)

	func() {
		span, finish := StartSpan(logger, logary.NewPointName("work"))
		defer finish()
		assert.Empty(t, span.ParentID())
		assert.NotEmpty(t, span.ID())
	}()

	assert.Len(t, logger.Messages(), 1)
}

func TestStartSpanSharesGeneratorAcrossCalls(t *testing.T) {
	logger := NewRecordingLogger(logary.NewPointName("test"), logary.Verbose)

	s1, finish1 := StartSpan(logger, logary.NewPointName("a"))
	defer finish1()
	s2, finish2 := StartSpan(logger, logary.NewPointName("b"))
	defer finish2()

	assert.NotEqual(t, s1.ID(), s2.ID(), "concurrent root spans from StartSpan must not collide")
}
