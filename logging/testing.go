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
	"encoding/json"
	"strings"
)

// TestLogger is a Logger writing JSON to an in-memory buffer, for
// assertions in tests.
type TestLogger struct {
	*Logger
	buf *bytes.Buffer
}

// NewTestLogger returns a TestLogger at level, defaulting to [LevelDebug]
// so tests see everything unless they configure otherwise.
func NewTestLogger(opts ...Option) *TestLogger {
	buf := &bytes.Buffer{}
	base := append([]Option{WithJSONHandler(), WithOutput(buf), WithLevel(LevelDebug)}, opts...)
	l := MustNew(base...)
	return &TestLogger{Logger: l, buf: buf}
}

// Lines returns every logged JSON line written so far.
func (t *TestLogger) Lines() []string {
	raw := strings.TrimRight(t.buf.String(), "\n")
	if raw == "" {
		return nil
	}
	return strings.Split(raw, "\n")
}

// Records parses every logged line as a JSON object, for field assertions.
func (t *TestLogger) Records() ([]map[string]any, error) {
	lines := t.Lines()
	out := make([]map[string]any, 0, len(lines))
	for _, line := range lines {
		var rec map[string]any
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}
