/*
Copyright © 2025 Rebake Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"github.com/orien/rebake/internal/validate"
	"github.com/spf13/cobra"
)

var (
	// validator can be injected for testing
	validator validate.Validator
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate [group]",
	Short: "Check deployment settings without touching AWS",
	Long: `Check the settings deployments would use, without calling AWS.

This command checks, for each group in the configuration:

• Warm-up, healthy percentage and timeouts are in range
• The image name template renders
• The updater is complete, including its key and known hosts files
• The group's account is stored and has a usable region

If no group name is provided, every group in the configuration is validated.

Examples:
  rebake validate          # Validate all configured groups
  rebake validate web-asg  # Validate the settings of one group`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := getValidator(cmd)
		if err != nil {
			return err
		}

		if len(args) > 0 {
			return v.ValidateSingleGroup(cmd.Context(), args[0])
		}
		return v.ValidateAllGroups(cmd.Context())
	},
}

// getValidator returns the validator instance, creating a default one if none is set
func getValidator(cmd *cobra.Command) (validate.Validator, error) {
	if validator != nil {
		return validator, nil
	}

	provider, cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return validate.NewGroupValidator(cmd.OutOrStdout(), provider, getAccountStore(cfg), getClientFactory()), nil
}

// SetValidator allows injection of a validator (for testing)
func SetValidator(v validate.Validator) {
	validator = v
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
