/*
Copyright © 2025 Rebake Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/chainguard-dev/clog"
	"github.com/orien/rebake/internal/config"
	"github.com/orien/rebake/internal/credential"
	"github.com/orien/rebake/internal/deploy"
	"github.com/orien/rebake/internal/journal"
	"github.com/orien/rebake/internal/progress"
	"github.com/orien/rebake/internal/prompt"
	"github.com/orien/rebake/internal/telemetry"
	"github.com/orien/rebake/internal/update"
	"github.com/orien/rebake/internal/version"
	"github.com/spf13/cobra"
)

var (
	// deployer can be injected for testing
	deployer deploy.Deployer
)

// deployCmd represents the deploy command
var deployCmd = &cobra.Command{
	Use:   "deploy <group>",
	Short: "Re-image an auto scaling group and roll it onto the new image",
	Long: `Re-image an auto scaling group and roll it onto the new image.

The deployment runs these steps in order and stops at the first failure:

• Select the first healthy, in-service instance of the group
• Detach it, keeping the group's desired capacity
• Update it with the configured updater
• Create an image from it and wait until the image is available
• Publish a launch template version using the new image
• Terminate the detached instance
• Start an instance refresh, cancelling one already in flight if needed

Nothing is rolled back on failure. The final report names the failed step
and anything left behind, and 'rebake history' keeps the record.

Examples:
  rebake deploy web-asg                       # Deploy with settings from rebake.yaml
  rebake deploy web-asg --account prod --yes  # Deploy to the prod account without prompting
  rebake deploy web-asg --healthy-percentage 100 --instance-warmup 120`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return deployGroup(cmd, args[0])
	},
}

// getDeployer returns the deployer instance, creating a default one if none is set
func getDeployer(cfg *config.Config) deploy.Deployer {
	if deployer != nil {
		return deployer
	}
	return deploy.NewPipeline(getAccountStore(cfg), getClientFactory())
}

// SetDeployer allows injection of a deployer (for testing)
func SetDeployer(d deploy.Deployer) {
	deployer = d
}

// deployGroup runs one deployment of the group with progress output and a journal record
func deployGroup(cmd *cobra.Command, groupName string) error {
	ctx := cmd.Context()
	log := clog.FromContext(ctx)

	provider, cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	group, err := provider.GetGroup(ctx, groupName)
	if err != nil {
		return fmt.Errorf("failed to load settings for group %s: %w", groupName, err)
	}
	if err := applyDeployFlags(cmd, group); err != nil {
		return err
	}
	if group.Account == "" {
		return fmt.Errorf("no account configured for group %s; set one in %s or pass --account", groupName, cmd.Flag("config").Value)
	}

	updater, err := update.New(group.Updater)
	if err != nil {
		return fmt.Errorf("invalid updater for group %s: %w", groupName, err)
	}

	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		confirmed, err := prompt.ConfirmDeployment(groupName, group.Account)
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Fprintln(cmd.OutOrStdout(), "Deployment cancelled")
			return nil
		}
	}

	shutdown, err := telemetry.Setup(ctx, version.Short())
	if err != nil {
		log.Warn("tracing disabled", "error", err)
		shutdown = func(context.Context) error { return nil }
	}
	defer func() {
		if err := shutdown(context.WithoutCancel(ctx)); err != nil {
			log.Warn("failed to flush traces", "error", err)
		}
	}()

	reporter := progress.NewReporter(cmd.OutOrStdout(), progress.NewStyles(progress.ShouldUseColour()))
	observers := deploy.Observers{reporter}

	var recorder *journal.Recorder
	if j, err := journal.Open(cfg.Journal); err != nil {
		log.Warn("deployment will not be journalled", "error", err)
	} else {
		recorder = journal.NewRecorder(j, groupName, group.Account)
		observers = append(observers, recorder)
	}

	args := deploy.Arguments{
		GroupName:            groupName,
		AccountID:            group.Account,
		InstanceWarmup:       group.InstanceWarmup,
		MinHealthyPercentage: group.HealthyPercentage,
	}
	opts := deploy.Options{
		Updater:       updater,
		ImageName:     group.ImageName,
		Address:       group.Address,
		ImageTimeout:  group.ImageTimeout,
		UpdateTimeout: group.UpdateTimeout,
		CallTimeout:   group.CallTimeout,
		Observer:      observers,
	}

	result, err := getDeployer(cfg).Deploy(ctx, args, opts)

	if recorder != nil {
		if err := recorder.Finish(result, err); err != nil {
			log.Warn("failed to journal deployment", "error", err)
		}
	}

	if err != nil {
		if errors.Is(err, credential.ErrNotFound) {
			fmt.Fprintf(cmd.ErrOrStderr(), "[Error] credential not found for account %s\n", group.Account)
			return &reportedError{err: err}
		}
		reporter.Failure(result, err)
		return &reportedError{err: err}
	}

	reporter.Summary(result)
	return nil
}

// applyDeployFlags lets explicitly set flags override the group's configured settings
func applyDeployFlags(cmd *cobra.Command, group *config.GroupConfig) error {
	flags := cmd.Flags()

	if flags.Changed("account") {
		group.Account, _ = flags.GetString("account")
	}
	if flags.Changed("instance-warmup") {
		group.InstanceWarmup, _ = flags.GetInt32("instance-warmup")
	}
	if flags.Changed("healthy-percentage") {
		group.HealthyPercentage, _ = flags.GetInt32("healthy-percentage")
	}
	if flags.Changed("image-timeout") {
		group.ImageTimeout, _ = flags.GetDuration("image-timeout")
		if group.ImageTimeout <= 0 {
			return fmt.Errorf("--image-timeout must be positive")
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(deployCmd)

	deployCmd.Flags().String("account", "", "account to deploy with (overrides config)")
	deployCmd.Flags().Int32("instance-warmup", config.DefaultInstanceWarmup, "seconds a new instance needs before it counts as healthy")
	deployCmd.Flags().Int32("healthy-percentage", config.DefaultHealthyPercentage, "minimum percentage of the group kept healthy during the refresh")
	deployCmd.Flags().Duration("image-timeout", config.DefaultImageTimeout, "how long to wait for the image to become available")
	deployCmd.Flags().BoolP("yes", "y", false, "deploy without asking for confirmation")
}
