/*
Copyright © 2025 Rebake Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package describe

import (
	"context"
)

// Describer defines the interface for inspecting an auto scaling group before a deployment
type Describer interface {
	DescribeGroup(ctx context.Context, groupName, accountID string) (*GroupDescription, error)
}

// GroupDescription contains what a deployment of the group would work with
type GroupDescription struct {
	// Basic group information
	Name            string
	Account         string
	Region          string
	DesiredCapacity int32
	MinSize         int32
	MaxSize         int32

	// Launch configuration
	LaunchTemplateID      string
	LaunchTemplateName    string
	LaunchTemplateVersion string

	Members []MemberDescription

	// Candidate is the member a deployment would detach, empty when none is eligible
	Candidate               string
	CandidatePublicAddress  string
	CandidatePrivateAddress string

	// ActiveRefresh is the id of an instance refresh that a deployment would cancel
	ActiveRefresh string
}

// MemberDescription describes one instance of the group
type MemberDescription struct {
	InstanceID       string
	AvailabilityZone string
	HealthStatus     string
	LifecycleState   string
	Eligible         bool
}
