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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineDroppedCountTracksUnroutedAndUnsubscribedMessages(t *testing.T) {
	e := NewEngine(Pipeline(RouteTo("nowhere")))
	defer e.Shutdown()

	ack := e.LogWithAck(NewMessage(Info, StringValue("hi")))
	require.NoError(t, ack.Wait(t.Context()))
	assert.Equal(t, int64(1), e.DroppedCount())

	// Identity pipeline (no RouteTo): the message never acquires a target
	// name, so it is dropped before the subscriber lookup even runs.
	e2 := NewEngine(nil)
	defer e2.Shutdown()
	ack2 := e2.LogWithAck(NewMessage(Info, StringValue("hi")))
	require.NoError(t, ack2.Wait(t.Context()))
	assert.Equal(t, int64(1), e2.DroppedCount())
}
