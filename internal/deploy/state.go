/*
Copyright © 2025 Rebake Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package deploy

import (
	"github.com/orien/rebake/internal/aws"
)

// Each phase type carries the facts learned so far; a step can only consume
// what the steps before it produced.

// Selected holds the chosen instance and the group's launch template
type Selected struct {
	Arguments      Arguments
	LaunchTemplate aws.LaunchTemplate
	Instance       aws.Instance
}

// Detached is the state after the instance has left the group
type Detached struct {
	Selected
}

// Updated is the state after the update has been applied
type Updated struct {
	Detached
}

// Imaged is the state once the image is available
type Imaged struct {
	Updated
	ImageID   string
	ImageName string
}

// Published is the state once the launch template references the image
type Published struct {
	Imaged
	TemplateVersion int64
}

// Terminated is the state after the detached instance is gone
type Terminated struct {
	Published
}

// Refreshed is the final state: the rolling refresh has been accepted
type Refreshed struct {
	Terminated
	RefreshID string
	Attempts  int
}
