/*
Copyright © 2025 Rebake Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package prompt

import (
	"github.com/stretchr/testify/mock"
)

// MockPrompter implements Prompter for testing
type MockPrompter struct {
	mock.Mock
}

// ConfirmDeployment mock implementation
func (m *MockPrompter) ConfirmDeployment(group, account string) (bool, error) {
	args := m.Called(group, account)
	return args.Bool(0), args.Error(1)
}
