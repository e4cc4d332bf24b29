/*
Copyright © 2025 Rebake Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package prompt

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockPrompter_Interface(t *testing.T) {
	var _ Prompter = (*MockPrompter)(nil)
}

func TestStdinPrompter_ConfirmDeployment(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"yes lowercase", "yes\n", true},
		{"yes uppercase", "YES\n", true},
		{"y", "y\n", true},
		{"with whitespace", "  y  \n", true},
		{"no", "n\n", false},
		{"empty line", "\n", false},
		{"eof", "", false},
		{"partial match", "yeah\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewPrompter(strings.NewReader(tt.input), &out)

			confirmed, err := p.ConfirmDeployment("web-asg", "prod")

			require.NoError(t, err)
			assert.Equal(t, tt.expected, confirmed)
			assert.Contains(t, out.String(), "Do you want to re-image auto scaling group web-asg in account prod? [y/N]: ")
		})
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("terminal gone")
}

func TestStdinPrompter_ReadError(t *testing.T) {
	p := NewPrompter(failingReader{}, &bytes.Buffer{})

	confirmed, err := p.ConfirmDeployment("web-asg", "prod")

	assert.False(t, confirmed)
	assert.ErrorContains(t, err, "failed to read user input")
}

func TestConfirmDeployment_UsesDefaultPrompter(t *testing.T) {
	originalPrompter := defaultPrompter
	defer SetPrompter(originalPrompter)

	mockPrompter := &MockPrompter{}
	mockPrompter.On("ConfirmDeployment", "web-asg", "prod").Return(true, nil).Once()
	SetPrompter(mockPrompter)

	confirmed, err := ConfirmDeployment("web-asg", "prod")

	assert.NoError(t, err)
	assert.True(t, confirmed)
	assert.Same(t, mockPrompter, GetDefaultPrompter())
	mockPrompter.AssertExpectations(t)
}

func TestDefaultPrompter_IsStdinPrompter(t *testing.T) {
	_, ok := GetDefaultPrompter().(*StdinPrompter)
	assert.True(t, ok, "Default prompter should be a StdinPrompter")
}
