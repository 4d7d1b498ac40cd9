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

// Package logary_test exercises the root package against the ambient
// logging package from the outside, avoiding the import cycle an internal
// test would create (logging already imports logary).
package logary_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/logary"
	"rivaas.dev/logary/logging"
)

type failingSink struct{}

func (failingSink) Send(context.Context, logary.Message) error {
	return errors.New("boom")
}

// TestRegistryDiagnosticsFlowThroughAsCoreLogger wires RuntimeInfo.Logger to
// a logging.AsCoreLogger-wrapped logging.Logger, the intended bridge between
// the ambient slog-backed logger and the core's own diagnostic reporting,
// and checks the registry's self-reporting actually reaches it.
func TestRegistryDiagnosticsFlowThroughAsCoreLogger(t *testing.T) {
	var buf bytes.Buffer
	inner := logging.MustNew(
		logging.WithTextHandler(),
		logging.WithOutput(&buf),
		logging.WithDebugLevel(),
	)
	diag := logging.AsCoreLogger(logary.NewPointName("logary", "internal"), logary.Verbose, inner)

	conf, err := logary.NewConf(
		logary.WithTarget("broken", func(logary.RuntimeInfo) (logary.Sink, error) { return failingSink{}, nil }),
		logary.WithRuntimeInfo(logary.RuntimeInfo{Service: "test", Host: "h", Logger: diag}),
		logary.WithProcessing(logary.Pipeline(logary.RouteTo("broken"))),
	)
	require.NoError(t, err)
	r, err := logary.NewRegistry(conf)
	require.NoError(t, err)
	defer func() { _, _, _ = r.Shutdown(context.Background(), 0, 0) }()

	logger := r.GetLogger(logary.NewPointName("app"), nil)
	ack := logger.LogWithAck(logary.Info, func(l logary.LogLevel) logary.Message {
		return logary.NewMessage(l, logary.StringValue("hi"))
	})
	require.NoError(t, ack.Wait(context.Background()))

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) && !strings.Contains(buf.String(), "target send failed") {
		time.Sleep(10 * time.Millisecond)
	}
	assert.Contains(t, buf.String(), "target send failed", "registry diagnostics should flow through RuntimeInfo.Logger when it is set")
}
