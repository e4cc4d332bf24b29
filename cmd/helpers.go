/*
Copyright © 2025 Rebake Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"context"

	"github.com/orien/rebake/internal/aws"
	"github.com/orien/rebake/internal/config"
	"github.com/orien/rebake/internal/config/file"
	"github.com/orien/rebake/internal/credential"
	"github.com/spf13/cobra"
)

// accountStore manages the accounts rebake can deploy to
type accountStore interface {
	credential.Resolver
	Add(ctx context.Context, accountID string, account credential.Account, secret string) error
	Remove(ctx context.Context, accountID string) error
	List(ctx context.Context) ([]credential.Entry, error)
}

var (
	// configProvider can be injected for testing
	configProvider config.ConfigProvider

	// accounts can be injected for testing
	accounts accountStore

	// clientFactory can be injected for testing
	clientFactory aws.ClientFactory
)

// getConfigProvider returns the configuration provider for the --config file
func getConfigProvider(cmd *cobra.Command) config.ConfigProvider {
	if configProvider != nil {
		return configProvider
	}

	configFile, _ := cmd.Flags().GetString("config")
	return file.NewProvider(configFile)
}

// SetConfigProvider allows injection of a configuration provider (for testing)
func SetConfigProvider(p config.ConfigProvider) {
	configProvider = p
}

// loadConfig loads the global configuration for the --config file
func loadConfig(cmd *cobra.Command) (config.ConfigProvider, *config.Config, error) {
	provider := getConfigProvider(cmd)
	cfg, err := provider.LoadConfig(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	return provider, cfg, nil
}

// getAccountStore returns the account store, backed by the configured accounts file
func getAccountStore(cfg *config.Config) accountStore {
	if accounts != nil {
		return accounts
	}
	return credential.NewStore(cfg.AccountsFile)
}

// SetAccountStore allows injection of an account store (for testing)
func SetAccountStore(s accountStore) {
	accounts = s
}

// getClientFactory returns the AWS client factory, creating a default one if none is set
func getClientFactory() aws.ClientFactory {
	if clientFactory != nil {
		return clientFactory
	}
	clientFactory = aws.NewClientFactory()
	return clientFactory
}

// SetClientFactory allows injection of an AWS client factory (for testing)
func SetClientFactory(f aws.ClientFactory) {
	clientFactory = f
}
