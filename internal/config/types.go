/*
Copyright © 2025 Rebake Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package config

import (
	"context"
	"time"
)

// Built-in defaults applied when the configuration file leaves a field unset
const (
	DefaultInstanceWarmup    int32 = 300
	DefaultHealthyPercentage int32 = 90
	DefaultImageTimeout            = 30 * time.Minute
	DefaultUpdateTimeout           = 15 * time.Minute
	DefaultCallTimeout             = 2 * time.Minute
	DefaultImageName               = "{{ slug .Group | trunc 100 }}-v{{ .Time.UnixMilli }}"
	DefaultUpdateDelay             = 3 * time.Second
	DefaultSSHPort                 = 22
	DefaultSSHShell                = "/bin/sh"
)

// Address selects which instance address the updater connects to
const (
	AddressPublic  = "public"
	AddressPrivate = "private"
)

// Updater types
const (
	UpdaterWait    = "wait"
	UpdaterSSH     = "ssh"
	UpdaterCommand = "command"
)

// ConfigProvider defines the interface for loading configuration
type ConfigProvider interface {
	// LoadConfig loads the global configuration
	LoadConfig(ctx context.Context) (*Config, error)

	// GetGroup returns settings for a group with its overrides applied over the defaults.
	// Groups not named in the configuration get the defaults.
	GetGroup(ctx context.Context, groupName string) (*GroupConfig, error)

	// ListGroups returns the groups that have overrides, sorted by name
	ListGroups() ([]string, error)
}

// Config represents the resolved global configuration
type Config struct {
	AccountsFile string
	Journal      string
	Defaults     *GroupConfig
	Groups       []string
}

// GroupConfig represents resolved deployment settings for one auto scaling group
type GroupConfig struct {
	Name              string
	Account           string
	InstanceWarmup    int32
	HealthyPercentage int32
	ImageTimeout      time.Duration
	UpdateTimeout     time.Duration
	CallTimeout       time.Duration
	ImageName         string
	Address           string
	Updater           UpdaterConfig
}

// UpdaterConfig describes how the detached instance gets updated
type UpdaterConfig struct {
	Type    string
	Delay   time.Duration
	SSH     SSHConfig
	Command string
}

// SSHConfig holds settings for the ssh updater
type SSHConfig struct {
	User       string
	Port       int
	KeyFile    string
	KnownHosts string
	Shell      string
	Commands   []string
}

// Defaults returns the built-in group settings
func Defaults() *GroupConfig {
	return &GroupConfig{
		InstanceWarmup:    DefaultInstanceWarmup,
		HealthyPercentage: DefaultHealthyPercentage,
		ImageTimeout:      DefaultImageTimeout,
		UpdateTimeout:     DefaultUpdateTimeout,
		CallTimeout:       DefaultCallTimeout,
		ImageName:         DefaultImageName,
		Address:           AddressPublic,
		Updater: UpdaterConfig{
			Type:  UpdaterWait,
			Delay: DefaultUpdateDelay,
			SSH: SSHConfig{
				Port:  DefaultSSHPort,
				Shell: DefaultSSHShell,
			},
		},
	}
}
