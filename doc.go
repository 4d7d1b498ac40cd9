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

// Package logary is a structured logging and tracing core: an in-process
// message pipeline that accepts log events from application code, routes
// them through a user-defined processing function, fans them out to
// pluggable targets, and coordinates the lifecycle (start, flush, shutdown)
// of everything underneath it.
//
// The composition root is [Registry]. Applications normally go through
// [LogManager], a thin synchronous facade over a Registry:
//
//	conf, err := logary.NewConf(
//	    logary.WithRuntimeInfo(logary.RuntimeInfo{Service: "checkout", Host: "h1"}),
//	    logary.WithTarget("console", consoleFactory),
//	    logary.WithProcessing(logary.Pipeline(
//	        logary.RouteTo("console"),
//	    )),
//	)
//	lm, err := logary.NewLogManager(conf)
//	logger, err := lm.GetLoggerSync(context.Background(), logary.NewPointName("app"), nil)
//	logger.Log(logary.Info, func(level logary.LogLevel) logary.Message {
//	    return logary.NewMessage(level, logary.StringValue("hi"))
//	})
//	_, _, err = lm.Shutdown(time.Second, time.Second)
//
// Subpackage [rivaas.dev/logary/tracing] builds the scoped [tracing.Span]
// abstraction on top of a [Logger]. Subpackage [rivaas.dev/logary/logging]
// is the ambient, slog-backed diagnostic logger the core uses to report on
// itself (and a reasonable default for [RuntimeInfo.Logger]); it is not the
// [Logger] capability itself.
package logary
