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

package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultsToJSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(WithOutput(&buf), WithServiceName("checkout"))
	require.NoError(t, err)

	l.Info("started")
	assert.Contains(t, buf.String(), `"service":"checkout"`)
	assert.Contains(t, buf.String(), `"msg":"started"`)
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := MustNew(WithOutput(&buf), WithLevel(LevelWarn))

	l.Info("ignored")
	l.Warn("kept")

	assert.NotContains(t, buf.String(), "ignored")
	assert.Contains(t, buf.String(), "kept")
}

func TestSetLevelRejectedForCustomLogger(t *testing.T) {
	tl := NewTestLogger()
	custom := tl.Slog()
	l := MustNew(WithCustomLogger(custom))
	assert.ErrorIs(t, l.SetLevel(LevelDebug), ErrCannotChangeLevel)
}

func TestSamplingAlwaysAdmitsErrors(t *testing.T) {
	var buf bytes.Buffer
	l := MustNew(WithOutput(&buf), WithSampling(SamplingConfig{Initial: 0, Thereafter: 1000}))

	for i := 0; i < 5; i++ {
		l.Error("boom")
	}
	count := 0
	for _, b := range buf.Bytes() {
		if b == '\n' {
			count++
		}
	}
	assert.Equal(t, 5, count)
}

func TestShutdownStopsFurtherLogs(t *testing.T) {
	var buf bytes.Buffer
	l := MustNew(WithOutput(&buf))
	require.NoError(t, l.Shutdown(nil))
	l.Info("after shutdown")
	assert.Empty(t, buf.String())
}

func TestConsoleHandlerWritesColoredLine(t *testing.T) {
	var buf bytes.Buffer
	l := MustNew(WithOutput(&buf), WithConsoleHandler())
	l.Info("hello", "count", 3)
	out := buf.String()
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "count=3")
}

func TestRedactsSensitiveAttrs(t *testing.T) {
	var buf bytes.Buffer
	l := MustNew(WithOutput(&buf))
	l.Info("login", "password", "hunter2")
	assert.Contains(t, buf.String(), "REDACTED")
	assert.NotContains(t, buf.String(), "hunter2")
}
