/*
Copyright © 2025 Rebake Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package validate

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockValidator is a mock implementation of Validator for testing
type MockValidator struct {
	mock.Mock
}

// ValidateSingleGroup mocks the ValidateSingleGroup method
func (m *MockValidator) ValidateSingleGroup(ctx context.Context, groupName string) error {
	args := m.Called(ctx, groupName)
	return args.Error(0)
}

// ValidateAllGroups mocks the ValidateAllGroups method
func (m *MockValidator) ValidateAllGroups(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
