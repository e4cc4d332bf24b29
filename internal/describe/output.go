/*
Copyright © 2025 Rebake Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package describe

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
)

// FormatGroupDescription formats group information for display
func FormatGroupDescription(desc *GroupDescription) string {
	var output strings.Builder

	// Group summary section
	fmt.Fprintf(&output, "Group: %s\n", desc.Name)
	fmt.Fprintf(&output, "Account: %s (%s)\n", desc.Account, desc.Region)
	fmt.Fprintf(&output, "Capacity: %d desired (min %d, max %d)\n", desc.DesiredCapacity, desc.MinSize, desc.MaxSize)

	if desc.LaunchTemplateID != "" {
		fmt.Fprintf(&output, "Launch template: %s (%s) version %s\n", desc.LaunchTemplateName, desc.LaunchTemplateID, desc.LaunchTemplateVersion)
	} else {
		output.WriteString("Launch template: none, deployments are not possible\n")
	}

	if desc.ActiveRefresh != "" {
		fmt.Fprintf(&output, "Instance refresh: %s in progress, a deployment will cancel it\n", desc.ActiveRefresh)
	}

	// Members section
	if len(desc.Members) > 0 {
		output.WriteString("\nInstances:\n")
		output.WriteString(formatMembers(desc.Members))
		output.WriteString("\n")
	}

	output.WriteString("\n")
	if desc.Candidate == "" {
		output.WriteString("No healthy in-service instance; a deployment would fail\n")
		return output.String()
	}

	fmt.Fprintf(&output, "Next deployment would update %s", desc.Candidate)
	switch {
	case desc.CandidatePublicAddress != "":
		fmt.Fprintf(&output, " (public %s, private %s)\n", desc.CandidatePublicAddress, desc.CandidatePrivateAddress)
	case desc.CandidatePrivateAddress != "":
		fmt.Fprintf(&output, " (private %s)\n", desc.CandidatePrivateAddress)
	default:
		output.WriteString("\n")
	}

	return output.String()
}

func formatMembers(members []MemberDescription) string {
	rows := make([][]string, 0, len(members))
	for _, m := range members {
		eligible := "no"
		if m.Eligible {
			eligible = "yes"
		}
		rows = append(rows, []string{m.InstanceID, m.AvailabilityZone, m.HealthStatus, m.LifecycleState, eligible})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("INSTANCE", "ZONE", "HEALTH", "LIFECYCLE", "ELIGIBLE").
		Rows(rows...)

	return t.String()
}
