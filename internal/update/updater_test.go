/*
Copyright © 2025 Rebake Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package update

import (
	"context"
	"testing"
	"time"

	"github.com/orien/rebake/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	updater, err := New(config.UpdaterConfig{Type: config.UpdaterWait, Delay: time.Second})
	require.NoError(t, err)
	assert.Equal(t, &WaitUpdater{Delay: time.Second}, updater)

	updater, err = New(config.UpdaterConfig{Type: config.UpdaterCommand, Command: "echo {address}"})
	require.NoError(t, err)
	assert.IsType(t, &CommandUpdater{}, updater)

	_, err = New(config.UpdaterConfig{Type: config.UpdaterSSH})
	assert.Error(t, err, "ssh updater without settings")

	_, err = New(config.UpdaterConfig{Type: "puppet"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown updater type 'puppet'")
}

func TestWaitUpdater_Apply(t *testing.T) {
	updater := &WaitUpdater{Delay: 10 * time.Millisecond}

	start := time.Now()
	err := updater.Apply(context.Background(), "10.0.0.1")

	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}

func TestWaitUpdater_Cancelled(t *testing.T) {
	updater := &WaitUpdater{Delay: time.Hour}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := updater.Apply(ctx, "10.0.0.1")

	assert.ErrorIs(t, err, context.Canceled)
}

func TestCommandUpdater_Apply(t *testing.T) {
	updater, err := NewCommandUpdater(`sh -c 'test "$REBAKE_INSTANCE_ADDRESS" = "{address}"'`)
	require.NoError(t, err)

	assert.NoError(t, updater.Apply(context.Background(), "10.0.0.5"))
}

func TestCommandUpdater_Failure(t *testing.T) {
	updater, err := NewCommandUpdater(`sh -c 'exit 3'`)
	require.NoError(t, err)

	err = updater.Apply(context.Background(), "10.0.0.5")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCommandFailed)
}

func TestCommandUpdater_Timeout(t *testing.T) {
	updater, err := NewCommandUpdater("sleep 10")
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err = updater.Apply(ctx, "10.0.0.5")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewCommandUpdater_Invalid(t *testing.T) {
	_, err := NewCommandUpdater("")
	assert.Error(t, err)

	_, err = NewCommandUpdater(`ansible-playbook 'unterminated`)
	assert.Error(t, err)
}
