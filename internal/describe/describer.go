/*
Copyright © 2025 Rebake Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package describe

import (
	"context"
	"fmt"

	"github.com/orien/rebake/internal/aws"
	"github.com/orien/rebake/internal/credential"
	"github.com/orien/rebake/internal/deploy"
)

// GroupDescriber implements the Describer interface using read-only AWS calls
type GroupDescriber struct {
	credentials   credential.Resolver
	clientFactory aws.ClientFactory
}

// NewGroupDescriber creates a new describer with the provided resolver and client factory
func NewGroupDescriber(credentials credential.Resolver, clientFactory aws.ClientFactory) Describer {
	return &GroupDescriber{
		credentials:   credentials,
		clientFactory: clientFactory,
	}
}

// DescribeGroup reports the group's members, which of them a deployment would
// pick and whether an instance refresh is already running. It changes nothing.
func (d *GroupDescriber) DescribeGroup(ctx context.Context, groupName, accountID string) (*GroupDescription, error) {
	cred, err := d.credentials.Resolve(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve credential: %w", err)
	}

	client, err := d.clientFactory.GetClient(ctx, aws.Config{
		Region:          cred.Region,
		Profile:         cred.Profile,
		AccessKeyID:     cred.AccessKeyID,
		SecretAccessKey: cred.SecretAccessKey,
		SessionToken:    cred.SessionToken,
	})
	if err != nil {
		return nil, err
	}

	asg := client.NewAutoScalingOperations()
	group, err := asg.DescribeGroup(ctx, groupName)
	if err != nil {
		return nil, err
	}

	description := &GroupDescription{
		Name:            group.Name,
		Account:         accountID,
		Region:          client.Region(),
		DesiredCapacity: group.DesiredCapacity,
		MinSize:         group.MinSize,
		MaxSize:         group.MaxSize,
		Members:         make([]MemberDescription, 0, len(group.Members)),
	}

	if group.LaunchTemplate != nil {
		description.LaunchTemplateID = group.LaunchTemplate.ID
		description.LaunchTemplateName = group.LaunchTemplate.Name
		description.LaunchTemplateVersion = group.LaunchTemplate.Version
	}

	for _, member := range group.Members {
		description.Members = append(description.Members, MemberDescription{
			InstanceID:       member.InstanceID,
			AvailabilityZone: member.AvailabilityZone,
			HealthStatus:     member.HealthStatus,
			LifecycleState:   member.LifecycleState,
			Eligible:         deploy.Eligible(member),
		})
	}

	if candidate, err := deploy.SelectInstance(group); err == nil {
		instance, err := client.NewEC2Operations().DescribeInstance(ctx, candidate.InstanceID)
		if err != nil {
			return nil, err
		}
		description.Candidate = instance.ID
		description.CandidatePublicAddress = instance.PublicAddress
		description.CandidatePrivateAddress = instance.PrivateAddress
	}

	description.ActiveRefresh, err = asg.ActiveInstanceRefresh(ctx, groupName)
	if err != nil {
		return nil, err
	}

	return description, nil
}
