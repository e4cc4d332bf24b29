/*
Copyright © 2025 Rebake Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package aws

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFactory(created *int) *DefaultClientFactory {
	f := NewClientFactory()
	f.newClient = func(ctx context.Context, cfg Config) (Client, error) {
		*created++
		if cfg.Profile == "broken" {
			return nil, errors.New("no such profile")
		}
		return &MockClient{}, nil
	}
	return f
}

func TestClientFactory_CachesPerCredential(t *testing.T) {
	ctx := context.Background()
	created := 0
	f := newTestFactory(&created)

	a, err := f.GetClient(ctx, Config{Region: "us-east-1", AccessKeyID: "AKIA1"})
	require.NoError(t, err)
	b, err := f.GetClient(ctx, Config{Region: "us-east-1", AccessKeyID: "AKIA1"})
	require.NoError(t, err)
	c, err := f.GetClient(ctx, Config{Region: "us-east-1", AccessKeyID: "AKIA2"})
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Equal(t, 2, created)
}

func TestClientFactory_CreateError(t *testing.T) {
	created := 0
	f := newTestFactory(&created)

	_, err := f.GetClient(context.Background(), Config{Region: "eu-west-2", Profile: "broken"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create AWS client for region eu-west-2")
}

func TestClientFactory_ValidateRegion(t *testing.T) {
	f := NewClientFactory()

	assert.NoError(t, f.ValidateRegion("ap-southeast-2"))
	assert.Error(t, f.ValidateRegion(""))
	assert.Error(t, f.ValidateRegion("us-1"))

	created := 0
	_, err := newTestFactory(&created).GetClient(context.Background(), Config{})
	require.Error(t, err)
	assert.Equal(t, 0, created, "no client is built for an invalid region")
}
