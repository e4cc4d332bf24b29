/*
Copyright © 2025 Rebake Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	// DefaultConfigFile is looked up in the working directory
	DefaultConfigFile = "rebake.yaml"

	appDir = "rebake"
)

// ExpandPath replaces a leading ~ with the user's home directory
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// DefaultAccountsFile returns the accounts file location under the user config directory
func DefaultAccountsFile() string {
	return filepath.Join(userDir(os.UserConfigDir), "accounts.yaml")
}

// DefaultJournal returns the run journal location under the user cache directory
func DefaultJournal() string {
	return filepath.Join(userDir(os.UserCacheDir), "journal.db")
}

func userDir(base func() (string, error)) string {
	dir, err := base()
	if err != nil {
		return filepath.Join(".", "."+appDir)
	}
	return filepath.Join(dir, appDir)
}
