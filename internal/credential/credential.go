/*
Copyright © 2025 Rebake Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package credential maps account identifiers to AWS credentials.
package credential

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no credential is stored for an account
var ErrNotFound = errors.New("credential not found")

// Credential holds what is needed to talk to AWS on behalf of one account
type Credential struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	Region          string

	// Profile names a shared-config profile; when set the key fields are empty
	Profile string
}

// Resolver looks up the credential for an account
type Resolver interface {
	Resolve(ctx context.Context, accountID string) (*Credential, error)
}
