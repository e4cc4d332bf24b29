/*
Copyright © 2025 Rebake Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package update applies the pending software update to a detached instance.
package update

import (
	"context"
	"fmt"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/orien/rebake/internal/config"
)

// Updater applies an update to the instance reachable at address
type Updater interface {
	Apply(ctx context.Context, address string) error
}

// New builds the updater described by cfg
func New(cfg config.UpdaterConfig) (Updater, error) {
	switch cfg.Type {
	case "", config.UpdaterWait:
		return &WaitUpdater{Delay: cfg.Delay}, nil
	case config.UpdaterSSH:
		return NewSSHUpdater(cfg.SSH)
	case config.UpdaterCommand:
		return NewCommandUpdater(cfg.Command)
	default:
		return nil, fmt.Errorf("unknown updater type '%s'", cfg.Type)
	}
}

// WaitUpdater does nothing but wait; it stands in where the image is refreshed by
// something outside rebake, such as instance user data
type WaitUpdater struct {
	Delay time.Duration
}

// Apply waits for the configured delay or until ctx is done
func (w *WaitUpdater) Apply(ctx context.Context, address string) error {
	clog.FromContext(ctx).Debug("waiting for instance to settle", "address", address, "delay", w.Delay)

	timer := time.NewTimer(w.Delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
