/*
Copyright © 2025 Rebake Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/autoscaling"
	"github.com/aws/aws-sdk-go-v2/service/autoscaling/types"
	"github.com/chainguard-dev/clog"
)

const (
	defaultSettleTimeout = 2 * time.Minute
	defaultPollInterval  = 5 * time.Second

	// LatestVersion refers to the highest version of a launch template
	LatestVersion = "$Latest"
)

// DefaultAutoScalingOperations provides auto scaling operations over the SDK client
type DefaultAutoScalingOperations struct {
	client        AutoScalingClient
	settleTimeout time.Duration
	pollInterval  time.Duration
}

// AutoScalingOption customises DefaultAutoScalingOperations
type AutoScalingOption func(*DefaultAutoScalingOperations)

// WithRefreshSettle sets how long CancelInstanceRefresh waits for a cancelled refresh to wind down
func WithRefreshSettle(timeout, interval time.Duration) AutoScalingOption {
	return func(o *DefaultAutoScalingOperations) {
		o.settleTimeout = timeout
		o.pollInterval = interval
	}
}

// NewAutoScalingOperationsWithClient creates operations with a custom client (for testing)
func NewAutoScalingOperationsWithClient(client AutoScalingClient, opts ...AutoScalingOption) *DefaultAutoScalingOperations {
	o := &DefaultAutoScalingOperations{
		client:        client,
		settleTimeout: defaultSettleTimeout,
		pollInterval:  defaultPollInterval,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// DescribeGroup retrieves an auto scaling group by name
func (a *DefaultAutoScalingOperations) DescribeGroup(ctx context.Context, groupName string) (*Group, error) {
	result, err := a.client.DescribeAutoScalingGroups(ctx, &autoscaling.DescribeAutoScalingGroupsInput{
		AutoScalingGroupNames: []string{groupName},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe auto scaling group %s: %w", groupName, err)
	}

	if len(result.AutoScalingGroups) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrGroupNotFound, groupName)
	}

	asg := result.AutoScalingGroups[0]
	group := &Group{
		Name:            aws.ToString(asg.AutoScalingGroupName),
		LaunchTemplate:  extractLaunchTemplate(asg),
		DesiredCapacity: aws.ToInt32(asg.DesiredCapacity),
		MinSize:         aws.ToInt32(asg.MinSize),
		MaxSize:         aws.ToInt32(asg.MaxSize),
		Members:         make([]Member, 0, len(asg.Instances)),
	}

	// Member order is preserved; instance selection depends on it
	for _, inst := range asg.Instances {
		group.Members = append(group.Members, Member{
			InstanceID:       aws.ToString(inst.InstanceId),
			HealthStatus:     aws.ToString(inst.HealthStatus),
			LifecycleState:   string(inst.LifecycleState),
			AvailabilityZone: aws.ToString(inst.AvailabilityZone),
		})
	}

	return group, nil
}

// extractLaunchTemplate reads the launch template from the group, falling back to its mixed instances policy
func extractLaunchTemplate(asg types.AutoScalingGroup) *LaunchTemplate {
	spec := asg.LaunchTemplate
	if spec == nil && asg.MixedInstancesPolicy != nil && asg.MixedInstancesPolicy.LaunchTemplate != nil {
		spec = asg.MixedInstancesPolicy.LaunchTemplate.LaunchTemplateSpecification
	}
	if spec == nil {
		return nil
	}

	return &LaunchTemplate{
		ID:      aws.ToString(spec.LaunchTemplateId),
		Name:    aws.ToString(spec.LaunchTemplateName),
		Version: aws.ToString(spec.Version),
	}
}

// DetachInstance removes an instance from the group without terminating it
func (a *DefaultAutoScalingOperations) DetachInstance(ctx context.Context, groupName, instanceID string, decrementCapacity bool) error {
	_, err := a.client.DetachInstances(ctx, &autoscaling.DetachInstancesInput{
		AutoScalingGroupName:           aws.String(groupName),
		InstanceIds:                    []string{instanceID},
		ShouldDecrementDesiredCapacity: aws.Bool(decrementCapacity),
	})
	if err != nil {
		return fmt.Errorf("failed to detach instance %s from %s: %w", instanceID, groupName, err)
	}

	return nil
}

// StartInstanceRefresh starts a rolling instance refresh and returns its id
func (a *DefaultAutoScalingOperations) StartInstanceRefresh(ctx context.Context, input StartRefreshInput) (string, error) {
	version := input.Version
	if version == "" {
		version = LatestVersion
	}

	result, err := a.client.StartInstanceRefresh(ctx, &autoscaling.StartInstanceRefreshInput{
		AutoScalingGroupName: aws.String(input.GroupName),
		Strategy:             types.RefreshStrategyRolling,
		DesiredConfiguration: &types.DesiredConfiguration{
			LaunchTemplate: &types.LaunchTemplateSpecification{
				LaunchTemplateId: aws.String(input.LaunchTemplateID),
				Version:          aws.String(version),
			},
		},
		Preferences: &types.RefreshPreferences{
			InstanceWarmup:       aws.Int32(input.InstanceWarmup),
			MinHealthyPercentage: aws.Int32(input.MinHealthyPercentage),
			SkipMatching:         aws.Bool(input.SkipMatching),
		},
	})
	if err != nil {
		if hasErrorCode(err, codeInstanceRefreshInProgress) {
			return "", fmt.Errorf("failed to start instance refresh on %s: %w: %w", input.GroupName, ErrRefreshInProgress, err)
		}
		return "", fmt.Errorf("failed to start instance refresh on %s: %w", input.GroupName, err)
	}

	return aws.ToString(result.InstanceRefreshId), nil
}

// CancelInstanceRefresh cancels any in-flight refresh on the group and waits for it to wind down
func (a *DefaultAutoScalingOperations) CancelInstanceRefresh(ctx context.Context, groupName string) error {
	_, err := a.client.CancelInstanceRefresh(ctx, &autoscaling.CancelInstanceRefreshInput{
		AutoScalingGroupName: aws.String(groupName),
	})
	if err != nil {
		if hasErrorCode(err, codeActiveInstanceRefreshNotFound) {
			return nil
		}
		return fmt.Errorf("failed to cancel instance refresh on %s: %w", groupName, err)
	}

	return a.waitForRefreshSettled(ctx, groupName)
}

// waitForRefreshSettled polls until no refresh on the group is active
func (a *DefaultAutoScalingOperations) waitForRefreshSettled(ctx context.Context, groupName string) error {
	log := clog.FromContext(ctx)

	ctx, cancel := context.WithTimeout(ctx, a.settleTimeout)
	defer cancel()

	for {
		active, err := a.ActiveInstanceRefresh(ctx, groupName)
		if err != nil {
			return err
		}
		if active == "" {
			return nil
		}

		log.Debug("waiting for instance refresh to wind down", "group", groupName, "refresh", active)

		select {
		case <-ctx.Done():
			return fmt.Errorf("instance refresh %s on %s did not finish cancelling: %w", active, groupName, ErrWaitTimeout)
		case <-time.After(a.pollInterval):
		}
	}
}

// ActiveInstanceRefresh returns the id of a refresh that still blocks a new start, or ""
func (a *DefaultAutoScalingOperations) ActiveInstanceRefresh(ctx context.Context, groupName string) (string, error) {
	result, err := a.client.DescribeInstanceRefreshes(ctx, &autoscaling.DescribeInstanceRefreshesInput{
		AutoScalingGroupName: aws.String(groupName),
	})
	if err != nil {
		return "", fmt.Errorf("failed to describe instance refreshes on %s: %w", groupName, err)
	}

	for _, refresh := range result.InstanceRefreshes {
		switch refresh.Status {
		case types.InstanceRefreshStatusPending,
			types.InstanceRefreshStatusInProgress,
			types.InstanceRefreshStatusCancelling,
			types.InstanceRefreshStatus("RollbackInProgress"),
			types.InstanceRefreshStatus("Baking"):
			return aws.ToString(refresh.InstanceRefreshId), nil
		}
	}

	return "", nil
}
