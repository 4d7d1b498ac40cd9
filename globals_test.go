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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobalServiceLoadReturnsInitial(t *testing.T) {
	g := NewGlobalService(GlobalLoggingConfig{MinLevel: Info})
	defer func() { _ = g.Shutdown(context.Background()) }()

	assert.Equal(t, Info, g.Load().MinLevel)
}

func TestGlobalServiceSetReplacesConfig(t *testing.T) {
	g := NewGlobalService(GlobalLoggingConfig{MinLevel: Info})
	defer func() { _ = g.Shutdown(context.Background()) }()

	require.NoError(t, g.Set(context.Background(), GlobalLoggingConfig{MinLevel: Warn}))
	assert.Equal(t, Warn, g.Load().MinLevel)
}

func TestGlobalServicePauseFreezesSet(t *testing.T) {
	g := NewGlobalService(GlobalLoggingConfig{MinLevel: Info})
	defer func() { _ = g.Shutdown(context.Background()) }()

	require.NoError(t, g.Pause(context.Background()))
	require.NoError(t, g.Set(context.Background(), GlobalLoggingConfig{MinLevel: Error}))
	assert.Equal(t, Info, g.Load().MinLevel, "Set must be a no-op while paused")
}

func TestGlobalServicePauseResumeShutdownRestorePriorConfig(t *testing.T) {
	g := NewGlobalService(GlobalLoggingConfig{MinLevel: Info})

	// install config A
	require.NoError(t, g.Set(context.Background(), GlobalLoggingConfig{MinLevel: Warn}))
	assert.Equal(t, Warn, g.Load().MinLevel)

	// pause -> global getLogger resolves using the prior config
	require.NoError(t, g.Pause(context.Background()))
	assert.Equal(t, Info, g.Load().MinLevel, "Pause restores the configuration active before the last Set")

	require.NoError(t, g.Set(context.Background(), GlobalLoggingConfig{MinLevel: Error})) // ignored while paused
	assert.Equal(t, Info, g.Load().MinLevel, "Set must be a no-op while paused")

	// resume -> resolves using A again
	require.NoError(t, g.Resume(context.Background()))
	assert.Equal(t, Warn, g.Load().MinLevel, "Resume restores the configuration live at the moment of Pause")

	// shutdown -> resolves using the prior config
	require.NoError(t, g.Shutdown(context.Background()))
	assert.Equal(t, Info, g.Load().MinLevel, "Shutdown restores the configuration active before the last Set")
}

func TestGlobalServiceResumeRestoresPauseSnapshot(t *testing.T) {
	g := NewGlobalService(GlobalLoggingConfig{MinLevel: Info})
	defer func() { _ = g.Shutdown(context.Background()) }()

	require.NoError(t, g.Pause(context.Background()))
	require.NoError(t, g.Set(context.Background(), GlobalLoggingConfig{MinLevel: Error})) // ignored
	require.NoError(t, g.Resume(context.Background()))
	assert.Equal(t, Info, g.Load().MinLevel, "Resume restores the snapshot taken at Pause, not any no-op Set")

	require.NoError(t, g.Set(context.Background(), GlobalLoggingConfig{MinLevel: Debug}))
	assert.Equal(t, Debug, g.Load().MinLevel, "Set works normally again after Resume")
}

func TestGlobalServiceShutdownThenSendReturnsErrStopped(t *testing.T) {
	g := NewGlobalService(GlobalLoggingConfig{MinLevel: Info})
	require.NoError(t, g.Shutdown(context.Background()))

	err := g.Set(context.Background(), GlobalLoggingConfig{MinLevel: Warn})
	assert.ErrorIs(t, err, ErrStopped)
}
