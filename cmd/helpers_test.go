/*
Copyright © 2025 Rebake Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

type commandOutput struct {
	stdout string
	stderr string
}

// executeCommand runs the root command with args and fresh flag values
func executeCommand(t *testing.T, stdin string, args ...string) (commandOutput, error) {
	t.Helper()
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return commandOutput{stdout: stdout.String(), stderr: stderr.String()}, err
}

func resetFlags(c *cobra.Command) {
	for _, flags := range []*pflag.FlagSet{c.Flags(), c.PersistentFlags()} {
		flags.VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
	for _, child := range c.Commands() {
		resetFlags(child)
	}
}

// resetInjected restores the default collaborators once the test ends
func resetInjected(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		SetConfigProvider(nil)
		SetAccountStore(nil)
		SetClientFactory(nil)
		SetDeployer(nil)
		SetDescriber(nil)
		SetValidator(nil)
	})
}

// writeConfig writes rebake.yaml into a temporary directory, pointing the
// journal and accounts file there as well, and returns its path
func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	content := "accounts_file: " + filepath.Join(dir, "accounts.yaml") + "\n" +
		"journal: " + filepath.Join(dir, "journal.db") + "\n" + body
	path := filepath.Join(dir, "rebake.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func findCommand(parent *cobra.Command, name string) *cobra.Command {
	for _, c := range parent.Commands() {
		if c.Name() == name {
			return c
		}
	}
	return nil
}
