/*
Copyright © 2025 Rebake Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package validate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/orien/rebake/internal/aws"
	"github.com/orien/rebake/internal/config"
	"github.com/orien/rebake/internal/credential"
	"github.com/orien/rebake/internal/deploy"
	"github.com/orien/rebake/internal/naming"
	"github.com/orien/rebake/internal/update"
)

// Validator checks deployment configuration without touching AWS
type Validator interface {
	ValidateSingleGroup(ctx context.Context, groupName string) error
	ValidateAllGroups(ctx context.Context) error
}

// GroupValidator implements the Validator interface
type GroupValidator struct {
	out            io.Writer
	configProvider config.ConfigProvider
	credentials    credential.Resolver
	clientFactory  aws.ClientFactory
}

// NewGroupValidator creates a new validator reporting to out
func NewGroupValidator(
	out io.Writer,
	configProvider config.ConfigProvider,
	credentials credential.Resolver,
	clientFactory aws.ClientFactory,
) *GroupValidator {
	return &GroupValidator{
		out:            out,
		configProvider: configProvider,
		credentials:    credentials,
		clientFactory:  clientFactory,
	}
}

// ValidateSingleGroup validates the settings a deployment of one group would use
func (v *GroupValidator) ValidateSingleGroup(ctx context.Context, groupName string) error {
	fmt.Fprintf(v.out, "Validating settings for group '%s'...\n", groupName)

	group, err := v.configProvider.GetGroup(ctx, groupName)
	if err != nil {
		return fmt.Errorf("failed to load settings for group %s: %w", groupName, err)
	}

	if err := v.validateGroup(ctx, group); err != nil {
		fmt.Fprintf(v.out, "\n✗ Validation failed for group '%s'\n", groupName)
		fmt.Fprintf(v.out, "  Error: %v\n", err)
		return err
	}

	fmt.Fprintf(v.out, "\n✓ Settings are valid for group '%s'\n", groupName)
	v.printWarnings(group)
	return nil
}

// ValidateAllGroups validates every group named in the configuration
func (v *GroupValidator) ValidateAllGroups(ctx context.Context) error {
	groupNames, err := v.configProvider.ListGroups()
	if err != nil {
		return fmt.Errorf("failed to list groups: %w", err)
	}

	if len(groupNames) == 0 {
		fmt.Fprintln(v.out, "No groups defined in configuration")
		return nil
	}

	fmt.Fprintf(v.out, "Validating %d group(s)...\n\n", len(groupNames))

	results := make([]ValidationResult, 0, len(groupNames))
	hasErrors := false

	for _, groupName := range groupNames {
		fmt.Fprintf(v.out, "→ Validating '%s'... ", groupName)

		group, err := v.configProvider.GetGroup(ctx, groupName)
		if err == nil {
			err = v.validateGroup(ctx, group)
		}

		if err != nil {
			fmt.Fprintf(v.out, "✗\n")
			results = append(results, ValidationResult{GroupName: groupName, Valid: false, Error: err.Error()})
			hasErrors = true
			continue
		}

		fmt.Fprintf(v.out, "✓\n")
		v.printWarnings(group)
		results = append(results, ValidationResult{GroupName: groupName, Valid: true})
	}

	v.printSummary(results)

	if hasErrors {
		return fmt.Errorf("validation failed for one or more groups")
	}

	return nil
}

// validateGroup collects every problem with a group's settings
func (v *GroupValidator) validateGroup(ctx context.Context, group *config.GroupConfig) error {
	var errs []error

	args := deploy.Arguments{
		GroupName:            group.Name,
		AccountID:            group.Account,
		InstanceWarmup:       group.InstanceWarmup,
		MinHealthyPercentage: group.HealthyPercentage,
	}
	if err := args.Validate(); err != nil {
		errs = append(errs, err)
	}

	for name, d := range map[string]time.Duration{
		"image_timeout":  group.ImageTimeout,
		"update_timeout": group.UpdateTimeout,
		"call_timeout":   group.CallTimeout,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %s", name, d))
		}
	}

	if group.Address != config.AddressPublic && group.Address != config.AddressPrivate {
		errs = append(errs, fmt.Errorf("address must be '%s' or '%s', got '%s'", config.AddressPublic, config.AddressPrivate, group.Address))
	}

	if _, err := naming.ImageName(group.ImageName, naming.Vars{Group: group.Name, Account: group.Account, Instance: "i-0", Time: time.Now()}); err != nil {
		errs = append(errs, fmt.Errorf("image name: %w", err))
	}

	if _, err := update.New(group.Updater); err != nil {
		errs = append(errs, fmt.Errorf("updater: %w", err))
	}

	if group.Account != "" {
		cred, err := v.credentials.Resolve(ctx, group.Account)
		if err != nil {
			errs = append(errs, err)
		} else if err := v.clientFactory.ValidateRegion(cred.Region); err != nil {
			errs = append(errs, fmt.Errorf("account %s: %w", group.Account, err))
		}
	}

	return errors.Join(errs...)
}

// warnings lists settings that are valid but unsafe
func warnings(group *config.GroupConfig) []string {
	var warns []string
	if group.Updater.Type == config.UpdaterSSH && group.Updater.SSH.KnownHosts == "" {
		warns = append(warns, "ssh updater has no known_hosts; the instance's host key will not be verified")
	}
	return warns
}

func (v *GroupValidator) printWarnings(group *config.GroupConfig) {
	for _, warn := range warnings(group) {
		fmt.Fprintf(v.out, "  Warning: %s\n", warn)
	}
}

// printSummary prints validation results summary
func (v *GroupValidator) printSummary(results []ValidationResult) {
	fmt.Fprintln(v.out, "\n━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Fprintln(v.out, "Validation Summary")
	fmt.Fprintln(v.out, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	invalidCount := 0
	for _, result := range results {
		if result.Valid {
			fmt.Fprintf(v.out, "✓ %s\n", result.GroupName)
			continue
		}
		invalidCount++
		fmt.Fprintf(v.out, "✗ %s\n", result.GroupName)
		fmt.Fprintf(v.out, "  Error: %s\n", result.Error)
	}

	fmt.Fprintln(v.out, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Fprintf(v.out, "Total:   %d\n", len(results))
	fmt.Fprintf(v.out, "Valid:   %d\n", len(results)-invalidCount)
	fmt.Fprintf(v.out, "Invalid: %d\n", invalidCount)

	if invalidCount == 0 {
		fmt.Fprintln(v.out, "\n✓ All groups are valid")
	} else {
		fmt.Fprintln(v.out, "\n✗ Some groups failed validation")
	}
}

// ValidationResult contains the outcome of a single group validation
type ValidationResult struct {
	GroupName string
	Valid     bool
	Error     string
}
