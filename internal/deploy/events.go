/*
Copyright © 2025 Rebake Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package deploy

import (
	"time"
)

// Phase groups steps for display
type Phase string

const (
	PhasePrepare Phase = "prepare"
	PhaseUpdate  Phase = "update"
	PhaseBake    Phase = "bake"
)

// Title returns the heading shown for a phase
func (p Phase) Title() string {
	switch p {
	case PhasePrepare:
		return "Preparing instance for update"
	case PhaseUpdate:
		return "Updating detached instance"
	case PhaseBake:
		return "Creating image and beginning instance refresh"
	default:
		return string(p)
	}
}

// Status is the lifecycle position of a step
type Status string

const (
	StatusStarted   Status = "started"
	StatusUpdated   Status = "updated"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Step names
const (
	StepSelectInstance    = "select-instance"
	StepDetachInstance    = "detach-instance"
	StepUpdateInstance    = "update-instance"
	StepCreateImage       = "create-image"
	StepPublishTemplate   = "publish-template"
	StepTerminateInstance = "terminate-instance"
	StepStartRefresh      = "start-refresh"
)

// Event describes a step lifecycle transition
type Event struct {
	RunID  string
	Group  string
	Step   string
	Phase  Phase
	Status Status
	Title  string
	Detail string
	Time   time.Time
}

// Observer receives deployment events
type Observer interface {
	OnEvent(Event)
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(Event)

func (f ObserverFunc) OnEvent(e Event) {
	f(e)
}

// Observers fans an event out to each observer in order
type Observers []Observer

func (o Observers) OnEvent(e Event) {
	for _, observer := range o {
		if observer != nil {
			observer.OnEvent(e)
		}
	}
}
