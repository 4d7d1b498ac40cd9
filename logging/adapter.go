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
	"log/slog"

	"rivaas.dev/logary"
)

// coreAdapter satisfies [logary.Logger] by forwarding to a slog-backed
// [Logger], used to plug an ambient diagnostic Logger in as
// [logary.RuntimeInfo.Logger] so the registry's self-reporting goes through
// the same handler/sampling/format machinery as the rest of the process.
type coreAdapter struct {
	name  logary.PointName
	level logary.LogLevel
	inner *Logger
}

// AsCoreLogger wraps inner as a [logary.Logger] named name, admitting
// messages at or above level before they ever reach inner.
func AsCoreLogger(name logary.PointName, level logary.LogLevel, inner *Logger) logary.Logger {
	return &coreAdapter{name: name, level: level, inner: inner}
}

func (a *coreAdapter) Name() logary.PointName { return a.name }
func (a *coreAdapter) Level() logary.LogLevel { return a.level }

func (a *coreAdapter) Log(level logary.LogLevel, factory logary.MessageFactory) error {
	if level < a.level {
		return nil
	}
	a.emit(level, factory(level))
	return nil
}

func (a *coreAdapter) LogWithAck(level logary.LogLevel, factory logary.MessageFactory) *logary.Ack {
	if level < a.level {
		return logary.CompletedAck(nil)
	}
	a.emit(level, factory(level))
	return logary.CompletedAck(nil)
}

func (a *coreAdapter) emit(level logary.LogLevel, m logary.Message) {
	args := make([]any, 0, 2*len(m.Context())+2)
	args = append(args, "logger", m.Name().String())
	for k, v := range m.Context() {
		args = append(args, k, v.Any())
	}
	msg := ""
	if s, ok := m.Value().String(); ok {
		msg = s
	} else {
		msg = slog.AnyValue(m.Value().Any()).String()
	}
	a.inner.log(slogLevel(level), msg, args...)
}

func slogLevel(level logary.LogLevel) slog.Level {
	switch level {
	case logary.Verbose:
		return slog.LevelDebug - 4
	case logary.Debug:
		return slog.LevelDebug
	case logary.Info:
		return slog.LevelInfo
	case logary.Warn:
		return slog.LevelWarn
	case logary.Error:
		return slog.LevelError
	case logary.Fatal:
		return slog.LevelError + 4
	default:
		return slog.LevelInfo
	}
}
