/*
Copyright © 2025 Rebake Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package file contains the raw YAML structure of rebake.yaml.
// Fields are pointers or empty strings so that an unset value can be told apart
// from an explicit one when group overrides are layered over the defaults.
package file

import (
	"time"
)

// Config represents the raw YAML configuration file structure
type Config struct {
	AccountsFile string            `yaml:"accounts_file"`
	Journal      string            `yaml:"journal"`
	Defaults     *Settings         `yaml:"defaults"`
	Updater      *Updater          `yaml:"updater"`
	Groups       map[string]*Group `yaml:"groups"`
}

// Settings are the deployment settings shared by defaults and group overrides
type Settings struct {
	Account           string         `yaml:"account"`
	InstanceWarmup    *int32         `yaml:"instance_warmup"`
	HealthyPercentage *int32         `yaml:"healthy_percentage"`
	ImageTimeout      *time.Duration `yaml:"image_timeout"`
	UpdateTimeout     *time.Duration `yaml:"update_timeout"`
	CallTimeout       *time.Duration `yaml:"call_timeout"`
	ImageName         string         `yaml:"image_name"`
	Address           string         `yaml:"address"`
}

// Group represents per-group overrides as they appear in YAML
type Group struct {
	Settings `yaml:",inline"`
	Updater  *Updater `yaml:"updater"`
}

// Updater represents updater configuration as it appears in YAML
type Updater struct {
	Type    string         `yaml:"type"`
	Delay   *time.Duration `yaml:"delay"`
	SSH     *SSH           `yaml:"ssh"`
	Command string         `yaml:"command"`
}

// SSH represents ssh updater settings as they appear in YAML
type SSH struct {
	User       string   `yaml:"user"`
	Port       int      `yaml:"port"`
	KeyFile    string   `yaml:"key_file"`
	KnownHosts string   `yaml:"known_hosts"`
	Shell      string   `yaml:"shell"`
	Commands   []string `yaml:"commands"`
}
