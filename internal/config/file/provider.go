/*
Copyright © 2025 Rebake Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/chainguard-dev/clog"
	"github.com/orien/rebake/internal/config"
	"gopkg.in/yaml.v3"
)

// Provider implements config.ConfigProvider by reading from a YAML file
type Provider struct {
	filename  string
	rawConfig *Config
}

var _ config.ConfigProvider = (*Provider)(nil)

// NewProvider creates a new file-based ConfigProvider for the given filename
func NewProvider(filename string) *Provider {
	return &Provider{
		filename: filename,
	}
}

// LoadConfig loads the global configuration
func (fp *Provider) LoadConfig(ctx context.Context) (*config.Config, error) {
	if err := fp.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	accountsFile := fp.rawConfig.AccountsFile
	if accountsFile == "" {
		accountsFile = config.DefaultAccountsFile()
	}

	journal := fp.rawConfig.Journal
	if journal == "" {
		journal = config.DefaultJournal()
	}

	groups, err := fp.ListGroups()
	if err != nil {
		return nil, err
	}

	return &config.Config{
		AccountsFile: config.ExpandPath(accountsFile),
		Journal:      config.ExpandPath(journal),
		Defaults:     fp.resolveDefaults(),
		Groups:       groups,
	}, nil
}

// GetGroup returns settings for a group: built-in defaults, then file defaults, then group overrides
func (fp *Provider) GetGroup(ctx context.Context, groupName string) (*config.GroupConfig, error) {
	if groupName == "" {
		return nil, fmt.Errorf("group name cannot be empty")
	}

	if err := fp.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	resolved := fp.resolveDefaults()
	resolved.Name = groupName

	if group, exists := fp.rawConfig.Groups[groupName]; exists && group != nil {
		applySettings(resolved, &group.Settings)
		applyUpdater(&resolved.Updater, group.Updater)
	}

	return resolved, nil
}

// ListGroups returns the groups that have overrides, sorted by name
func (fp *Provider) ListGroups() ([]string, error) {
	if err := fp.ensureLoaded(context.Background()); err != nil {
		return nil, err
	}

	groups := make([]string, 0, len(fp.rawConfig.Groups))
	for name := range fp.rawConfig.Groups {
		groups = append(groups, name)
	}
	sort.Strings(groups)

	return groups, nil
}

// ensureLoaded loads the raw configuration from file if not already loaded.
// A missing file yields an empty configuration.
func (fp *Provider) ensureLoaded(ctx context.Context) error {
	if fp.rawConfig != nil {
		return nil
	}

	data, err := os.ReadFile(fp.filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			clog.FromContext(ctx).Debug("config file not found, using defaults", "file", fp.filename)
			fp.rawConfig = &Config{}
			return nil
		}
		return fmt.Errorf("failed to read config file '%s': %w", fp.filename, err)
	}

	var rawConfig Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&rawConfig); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse YAML config file '%s': %w", fp.filename, err)
	}

	fp.rawConfig = &rawConfig
	return nil
}

func (fp *Provider) resolveDefaults() *config.GroupConfig {
	resolved := config.Defaults()
	if fp.rawConfig.Defaults != nil {
		applySettings(resolved, fp.rawConfig.Defaults)
	}
	applyUpdater(&resolved.Updater, fp.rawConfig.Updater)
	return resolved
}

// applySettings overlays every set field of raw onto resolved
func applySettings(resolved *config.GroupConfig, raw *Settings) {
	if raw.Account != "" {
		resolved.Account = raw.Account
	}
	if raw.InstanceWarmup != nil {
		resolved.InstanceWarmup = *raw.InstanceWarmup
	}
	if raw.HealthyPercentage != nil {
		resolved.HealthyPercentage = *raw.HealthyPercentage
	}
	if raw.ImageTimeout != nil {
		resolved.ImageTimeout = *raw.ImageTimeout
	}
	if raw.UpdateTimeout != nil {
		resolved.UpdateTimeout = *raw.UpdateTimeout
	}
	if raw.CallTimeout != nil {
		resolved.CallTimeout = *raw.CallTimeout
	}
	if raw.ImageName != "" {
		resolved.ImageName = raw.ImageName
	}
	if raw.Address != "" {
		resolved.Address = raw.Address
	}
}

// applyUpdater overlays every set field of raw onto resolved
func applyUpdater(resolved *config.UpdaterConfig, raw *Updater) {
	if raw == nil {
		return
	}
	if raw.Type != "" {
		resolved.Type = raw.Type
	}
	if raw.Delay != nil {
		resolved.Delay = *raw.Delay
	}
	if raw.Command != "" {
		resolved.Command = raw.Command
	}
	if raw.SSH == nil {
		return
	}

	ssh := &resolved.SSH
	if raw.SSH.User != "" {
		ssh.User = raw.SSH.User
	}
	if raw.SSH.Port != 0 {
		ssh.Port = raw.SSH.Port
	}
	if raw.SSH.KeyFile != "" {
		ssh.KeyFile = config.ExpandPath(raw.SSH.KeyFile)
	}
	if raw.SSH.KnownHosts != "" {
		ssh.KnownHosts = config.ExpandPath(raw.SSH.KnownHosts)
	}
	if raw.SSH.Shell != "" {
		ssh.Shell = raw.SSH.Shell
	}
	if raw.SSH.Commands != nil {
		ssh.Commands = append([]string(nil), raw.SSH.Commands...)
	}
}
