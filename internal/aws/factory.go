/*
Copyright © 2025 Rebake Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package aws

import (
	"context"
	"fmt"
	"sync"
)

// ClientFactory creates AWS clients for an account's credentials
type ClientFactory interface {
	// GetClient returns a client for the given configuration, reusing a cached one when possible
	GetClient(ctx context.Context, cfg Config) (Client, error)

	// ValidateRegion checks if a region is valid (optional validation)
	ValidateRegion(region string) error
}

// DefaultClientFactory implements ClientFactory with caching per credential and region
type DefaultClientFactory struct {
	clientCache map[string]Client
	newClient   func(ctx context.Context, cfg Config) (Client, error)
	mutex       sync.RWMutex
}

// NewClientFactory creates a client factory backed by the AWS SDK
func NewClientFactory() *DefaultClientFactory {
	return &DefaultClientFactory{
		clientCache: make(map[string]Client),
		newClient: func(ctx context.Context, cfg Config) (Client, error) {
			return NewDefaultClient(ctx, cfg)
		},
	}
}

// GetClient returns a client for the specified configuration
func (f *DefaultClientFactory) GetClient(ctx context.Context, cfg Config) (Client, error) {
	if err := f.ValidateRegion(cfg.Region); err != nil {
		return nil, err
	}

	key := cacheKey(cfg)

	// Check cache first (read lock)
	f.mutex.RLock()
	if client, exists := f.clientCache[key]; exists {
		f.mutex.RUnlock()
		return client, nil
	}
	f.mutex.RUnlock()

	client, err := f.newClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS client for region %s: %w", cfg.Region, err)
	}

	f.mutex.Lock()
	f.clientCache[key] = client
	f.mutex.Unlock()

	return client, nil
}

// ValidateRegion performs basic region validation
func (f *DefaultClientFactory) ValidateRegion(region string) error {
	if region == "" {
		return fmt.Errorf("region cannot be empty")
	}

	// AWS regions follow pattern: <partition>-<direction>-<number> (e.g., us-east-1, eu-west-2)
	// This is a simple check - AWS SDK will do full validation
	if len(region) < 9 {
		return fmt.Errorf("region '%s' appears to be invalid", region)
	}

	return nil
}

func cacheKey(cfg Config) string {
	return cfg.Region + "|" + cfg.Profile + "|" + cfg.AccessKeyID
}
