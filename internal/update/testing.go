/*
Copyright © 2025 Rebake Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package update

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockUpdater implements Updater for testing
type MockUpdater struct {
	mock.Mock
}

func (m *MockUpdater) Apply(ctx context.Context, address string) error {
	args := m.Called(ctx, address)
	return args.Error(0)
}
