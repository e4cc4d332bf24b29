/*
Copyright © 2025 Rebake Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package deploy

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"
)

// MockDeployer implements Deployer for testing
type MockDeployer struct {
	mock.Mock
}

func (m *MockDeployer) Deploy(ctx context.Context, args Arguments, opts Options) (*Result, error) {
	a := m.Called(ctx, args, opts)
	if a.Get(0) == nil {
		return nil, a.Error(1)
	}
	return a.Get(0).(*Result), a.Error(1)
}

// EventRecorder is an Observer that keeps every event it receives
type EventRecorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *EventRecorder) OnEvent(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events
func (r *EventRecorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}
