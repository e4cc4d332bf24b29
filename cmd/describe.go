/*
Copyright © 2025 Rebake Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"fmt"

	"github.com/orien/rebake/internal/config"
	"github.com/orien/rebake/internal/describe"
	"github.com/spf13/cobra"
)

var (
	// describer can be injected for testing
	describer describe.Describer
)

// describeCmd represents the describe command
var describeCmd = &cobra.Command{
	Use:   "describe <group>",
	Short: "Show what a deployment of an auto scaling group would work with",
	Long: `Show an auto scaling group as a deployment would see it.

This command makes read-only calls and shows:

• The group's capacity and launch template
• Each instance with its health, lifecycle state and eligibility
• The instance the next deployment would detach, with its addresses
• Any instance refresh in flight that a deployment would cancel

Examples:
  rebake describe web-asg                 # Use the account from rebake.yaml
  rebake describe web-asg --account prod  # Describe the group in the prod account`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return describeGroup(cmd, args[0])
	},
}

// getDescriber returns the describer instance, creating a default one if none is set
func getDescriber(cfg *config.Config) describe.Describer {
	if describer != nil {
		return describer
	}
	return describe.NewGroupDescriber(getAccountStore(cfg), getClientFactory())
}

// SetDescriber allows injection of a describer (for testing)
func SetDescriber(d describe.Describer) {
	describer = d
}

// describeGroup handles describing a single group
func describeGroup(cmd *cobra.Command, groupName string) error {
	ctx := cmd.Context()

	provider, cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	group, err := provider.GetGroup(ctx, groupName)
	if err != nil {
		return fmt.Errorf("failed to load settings for group %s: %w", groupName, err)
	}

	account := group.Account
	if cmd.Flags().Changed("account") {
		account, _ = cmd.Flags().GetString("account")
	}
	if account == "" {
		return fmt.Errorf("no account configured for group %s; pass --account", groupName)
	}

	desc, err := getDescriber(cfg).DescribeGroup(ctx, groupName, account)
	if err != nil {
		return fmt.Errorf("failed to describe group %s: %w", groupName, err)
	}

	fmt.Fprint(cmd.OutOrStdout(), describe.FormatGroupDescription(desc))
	return nil
}

func init() {
	rootCmd.AddCommand(describeCmd)

	describeCmd.Flags().String("account", "", "account to describe the group in (overrides config)")
}
