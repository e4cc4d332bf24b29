/*
Copyright © 2025 Rebake Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package aws

import (
	"context"
	"errors"
	"strings"

	"github.com/aws/smithy-go"
)

var (
	ErrGroupNotFound     = errors.New("auto scaling group not found")
	ErrInstanceNotFound  = errors.New("instance not found")
	ErrRefreshInProgress = errors.New("an instance refresh is already in progress")
	ErrWaitTimeout       = errors.New("timed out waiting for resource")
	ErrImageFailed       = errors.New("image entered the failed state")
)

// API error codes rebake reacts to
const (
	codeInstanceRefreshInProgress     = "InstanceRefreshInProgress"
	codeActiveInstanceRefreshNotFound = "ActiveInstanceRefreshNotFound"
	codeInvalidInstanceIDNotFound     = "InvalidInstanceID.NotFound"
	codeInvalidInstanceIDMalformed    = "InvalidInstanceID.Malformed"
)

// ErrorCode returns the AWS API error code carried by err, or "" if there is none
func ErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

// hasErrorCode reports whether err carries one of codes
func hasErrorCode(err error, codes ...string) bool {
	code := ErrorCode(err)
	if code == "" {
		return false
	}
	for _, c := range codes {
		if code == c {
			return true
		}
	}
	return false
}

// isWaitTimeout matches both a cancelled deadline and the SDK waiter's own max-wait error,
// which is not exported as a typed error
func isWaitTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return strings.Contains(err.Error(), "exceeded max wait time")
}

// isWaiterFailure matches the SDK waiter's terminal failure state
func isWaiterFailure(err error) bool {
	return strings.Contains(err.Error(), "transitioned to Failure")
}
