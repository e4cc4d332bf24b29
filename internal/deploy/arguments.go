/*
Copyright © 2025 Rebake Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package deploy

import (
	"fmt"
	"time"

	"github.com/orien/rebake/internal/config"
	"github.com/orien/rebake/internal/update"
)

// Arguments are the immutable inputs of a deployment
type Arguments struct {
	GroupName            string
	AccountID            string
	InstanceWarmup       int32
	MinHealthyPercentage int32
}

// Validate checks that every argument is present and in range
func (a Arguments) Validate() error {
	if a.GroupName == "" {
		return fmt.Errorf("%w: auto scaling group name cannot be empty", ErrInvalidArguments)
	}
	if a.AccountID == "" {
		return fmt.Errorf("%w: account cannot be empty", ErrInvalidArguments)
	}
	if a.InstanceWarmup < 0 {
		return fmt.Errorf("%w: instance warm-up cannot be negative, got %d", ErrInvalidArguments, a.InstanceWarmup)
	}
	if a.MinHealthyPercentage < 0 || a.MinHealthyPercentage > 100 {
		return fmt.Errorf("%w: healthy percentage must be between 0 and 100, got %d", ErrInvalidArguments, a.MinHealthyPercentage)
	}
	return nil
}

// Options tune how a deployment carries out its steps
type Options struct {
	// Updater applies the update to the detached instance; defaults to a short wait
	Updater update.Updater

	// ImageName is the image name template
	ImageName string

	// Address selects the instance address handed to the updater
	Address string

	ImageTimeout  time.Duration
	UpdateTimeout time.Duration

	// CallTimeout bounds each individual AWS call
	CallTimeout time.Duration

	// Observer receives step events; it never affects the outcome
	Observer Observer
}

func (o Options) withDefaults() Options {
	if o.Updater == nil {
		o.Updater = &update.WaitUpdater{Delay: config.DefaultUpdateDelay}
	}
	if o.ImageName == "" {
		o.ImageName = config.DefaultImageName
	}
	if o.Address == "" {
		o.Address = config.AddressPublic
	}
	if o.ImageTimeout <= 0 {
		o.ImageTimeout = config.DefaultImageTimeout
	}
	if o.UpdateTimeout <= 0 {
		o.UpdateTimeout = config.DefaultUpdateTimeout
	}
	if o.CallTimeout <= 0 {
		o.CallTimeout = config.DefaultCallTimeout
	}
	if o.Observer == nil {
		o.Observer = Observers(nil)
	}
	return o
}
