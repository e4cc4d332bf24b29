/*
Copyright © 2025 Rebake Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package deploy

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidArguments      = errors.New("invalid deployment arguments")
	ErrGroupNotFound         = errors.New("auto scaling group not found")
	ErrNoEligibleInstance    = errors.New("no healthy in-service instance in group")
	ErrNoLaunchTemplate      = errors.New("auto scaling group has no launch template")
	ErrInstanceLookupFailed  = errors.New("instance lookup failed")
	ErrDetachFailed          = errors.New("failed to detach instance")
	ErrUpdateFailed          = errors.New("failed to update instance")
	ErrImageCreationFailed   = errors.New("image creation failed")
	ErrImageTimeout          = errors.New("timed out waiting for image")
	ErrTemplateVersionFailed = errors.New("failed to publish launch template version")
	ErrTerminationFailed     = errors.New("failed to terminate detached instance")
	ErrRefreshStartFailed    = errors.New("failed to start instance refresh")
	ErrCancelled             = errors.New("deployment cancelled")
)

// Resource kinds left behind by a failed deployment
const (
	ResourceInstance        = "instance"
	ResourceImage           = "image"
	ResourceTemplateVersion = "launch-template-version"
)

// Resource identifies infrastructure a deployment created or changed
type Resource struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

func (r Resource) String() string {
	return r.Kind + " " + r.ID
}

// StepError reports the step a deployment failed at and the infrastructure it leaves behind
type StepError struct {
	Step    string
	Err     error
	Residue []Resource
}

func (e *StepError) Error() string {
	msg := fmt.Sprintf("step %s failed: %v", e.Step, e.Err)
	if len(e.Residue) == 0 {
		return msg
	}

	parts := make([]string, len(e.Residue))
	for i, r := range e.Residue {
		parts[i] = r.String()
	}
	return msg + " (left behind: " + strings.Join(parts, ", ") + ")"
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// FailedStep returns the name of the step err was raised by, or ""
func FailedStep(err error) string {
	var stepErr *StepError
	if errors.As(err, &stepErr) {
		return stepErr.Step
	}
	return ""
}
