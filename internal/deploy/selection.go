/*
Copyright © 2025 Rebake Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package deploy

import (
	"fmt"

	"github.com/orien/rebake/internal/aws"
)

const (
	healthStatusHealthy = "Healthy"
	lifecycleInService  = "InService"
)

// Eligible reports whether a group member may be taken out for re-imaging
func Eligible(m aws.Member) bool {
	return m.HealthStatus == healthStatusHealthy && m.LifecycleState == lifecycleInService
}

// SelectInstance returns the first eligible member in the group's member order
func SelectInstance(group *aws.Group) (aws.Member, error) {
	for _, member := range group.Members {
		if Eligible(member) {
			return member, nil
		}
	}
	return aws.Member{}, fmt.Errorf("%w: %s has %d members", ErrNoEligibleInstance, group.Name, len(group.Members))
}
