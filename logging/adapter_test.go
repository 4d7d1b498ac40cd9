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
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/logary"
)

func TestAsCoreLoggerFiltersByLevel(t *testing.T) {
	tl := NewTestLogger(WithLevel(LevelInfo))
	core := AsCoreLogger(logary.NewPointName("registry", "internal"), logary.Info, tl.Logger)

	err := core.Log(logary.Debug, func(level logary.LogLevel) logary.Message {
		t.Fatal("factory must not be invoked for a filtered message")
		return logary.Message{}
	})
	require.NoError(t, err)
	assert.Empty(t, tl.Lines())
}

func TestAsCoreLoggerForwardsContext(t *testing.T) {
	tl := NewTestLogger(WithLevel(LevelInfo))
	core := AsCoreLogger(logary.NewPointName("registry", "internal"), logary.Info, tl.Logger)

	ack := core.LogWithAck(logary.Info, func(level logary.LogLevel) logary.Message {
		return logary.NewMessage(level, logary.StringValue("supervisor restarted entry")).
			With("name", logary.StringValue("console"))
	})
	require.NoError(t, ack.Wait(context.Background()))

	records, err := tl.Records()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "console", records[0]["name"])
}
