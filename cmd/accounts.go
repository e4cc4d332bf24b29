/*
Copyright © 2025 Rebake Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/orien/rebake/internal/credential"
	"github.com/spf13/cobra"
)

// accountsCmd groups the account management commands
var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Manage the AWS accounts rebake deploys to",
	Long: `Manage the AWS accounts rebake deploys to.

Account settings live in the accounts file; secret access keys live in the
operating system keyring. An account may instead name a shared config
profile, in which case no key is stored.`,
}

var accountsAddCmd = &cobra.Command{
	Use:   "add <account>",
	Short: "Store credentials for an account",
	Long: `Store credentials for an account, replacing any stored before.

The secret access key is read from standard input unless
--secret-access-key is given.

Examples:
  rebake accounts add prod --access-key-id AKIA... --region eu-west-1 < secret.txt
  rebake accounts add staging --profile staging --region eu-west-1`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		accessKeyID, _ := flags.GetString("access-key-id")
		region, _ := flags.GetString("region")
		profile, _ := flags.GetString("profile")
		secret, _ := flags.GetString("secret-access-key")

		if profile == "" && secret == "" {
			var err error
			if secret, err = readSecret(cmd); err != nil {
				return err
			}
		}

		_, cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		account := credential.Account{AccessKeyID: accessKeyID, Region: region, Profile: profile}
		if err := getAccountStore(cfg).Add(cmd.Context(), args[0], account, secret); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Stored account %s\n", args[0])
		return nil
	},
}

var accountsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored accounts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		entries, err := getAccountStore(cfg).List(cmd.Context())
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No accounts stored")
			return nil
		}

		rows := make([][]string, 0, len(entries))
		for _, entry := range entries {
			source := "keyring"
			if entry.Profile != "" {
				source = "profile " + entry.Profile
			}
			rows = append(rows, []string{entry.ID, entry.Region, entry.AccessKeyID, source})
		}

		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("ACCOUNT", "REGION", "ACCESS KEY", "CREDENTIALS").
			Rows(rows...)
		fmt.Fprintln(cmd.OutOrStdout(), t.String())
		return nil
	},
}

var accountsRemoveCmd = &cobra.Command{
	Use:   "remove <account>",
	Short: "Remove a stored account and its secret key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		if err := getAccountStore(cfg).Remove(cmd.Context(), args[0]); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Removed account %s\n", args[0])
		return nil
	},
}

// readSecret reads the secret access key from the first line of standard input
func readSecret(cmd *cobra.Command) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), "Secret access key: ")

	scanner := bufio.NewScanner(cmd.InOrStdin())
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("failed to read secret access key: %w", err)
		}
		return "", fmt.Errorf("no secret access key given")
	}
	fmt.Fprintln(cmd.ErrOrStderr())

	return strings.TrimSpace(scanner.Text()), nil
}

func init() {
	rootCmd.AddCommand(accountsCmd)
	accountsCmd.AddCommand(accountsAddCmd, accountsListCmd, accountsRemoveCmd)

	accountsAddCmd.Flags().String("access-key-id", "", "AWS access key id")
	accountsAddCmd.Flags().String("secret-access-key", "", "AWS secret access key (read from stdin when omitted)")
	accountsAddCmd.Flags().String("region", "", "AWS region the account's groups live in")
	accountsAddCmd.Flags().String("profile", "", "shared config profile to use instead of stored keys")
}
