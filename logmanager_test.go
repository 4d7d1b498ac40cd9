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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogManager(t *testing.T, targetName string) (*LogManager, *MemoryTarget) {
	t.Helper()
	mem := NewMemoryTarget()
	conf, err := NewConf(
		WithTarget(targetName, func(RuntimeInfo) (Sink, error) { return mem, nil }),
		WithRuntimeInfo(RuntimeInfo{Service: "test", Host: "h"}),
		WithProcessing(Pipeline(RouteTo(targetName))),
	)
	require.NoError(t, err)
	lm, err := NewLogManager(conf)
	require.NoError(t, err)
	return lm, mem
}

func TestLogManagerGetLoggerNeverBlocks(t *testing.T) {
	lm, mem := newTestLogManager(t, "console")
	defer func() { _, _, _ = lm.Shutdown(time.Second, time.Second) }()

	logger := lm.GetLogger(NewPointName("app"), nil)
	ack := logger.LogWithAck(Info, func(l LogLevel) Message {
		return NewMessage(l, StringValue("buffered or not"))
	})
	require.NoError(t, ack.Wait(context.Background()))
	info, err := lm.FlushPending(time.Second)
	require.NoError(t, err)
	assert.Equal(t, []string{"console"}, info.Acks)
	assert.Equal(t, 1, mem.Len())
}

func TestLogManagerGetLoggerSyncBlocksUntilReady(t *testing.T) {
	lm, mem := newTestLogManager(t, "console")
	defer func() { _, _, _ = lm.Shutdown(time.Second, time.Second) }()

	logger, err := lm.GetLoggerSync(context.Background(), NewPointName("app"), nil)
	require.NoError(t, err)

	require.NoError(t, logger.Log(Info, func(l LogLevel) Message {
		return NewMessage(l, StringValue("sync hello"))
	}))
	info, err := lm.FlushPending(time.Second)
	require.NoError(t, err)
	assert.Equal(t, []string{"console"}, info.Acks)
	assert.Equal(t, 1, mem.Len())
}

func TestLogManagerShutdownIsIdempotent(t *testing.T) {
	lm, _ := newTestLogManager(t, "console")

	_, _, err := lm.Shutdown(time.Second, time.Second)
	require.NoError(t, err)
	_, _, err = lm.Shutdown(time.Second, time.Second)
	require.NoError(t, err)
}

func TestLogManagerFaultsDelegatesToRegistry(t *testing.T) {
	lm, _ := newTestLogManager(t, "console")
	defer func() { _, _, _ = lm.Shutdown(time.Second, time.Second) }()

	assert.Empty(t, lm.Faults())
}
