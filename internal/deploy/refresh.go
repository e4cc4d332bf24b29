/*
Copyright © 2025 Rebake Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package deploy

import (
	"context"
	"errors"
	"fmt"

	"github.com/chainguard-dev/clog"
	"github.com/orien/rebake/internal/aws"
)

// refreshState is a position in the refresh trigger state machine:
//
//	idle -> starting -> started
//	           |
//	           v
//	   conflict-detected -> cancelling -> starting (retry) -> started | failed
type refreshState int

const (
	refreshIdle refreshState = iota
	refreshStarting
	refreshConflictDetected
	refreshCancelling
	refreshStarted
	refreshFailed
)

func (s refreshState) String() string {
	switch s {
	case refreshIdle:
		return "idle"
	case refreshStarting:
		return "starting"
	case refreshConflictDetected:
		return "conflict-detected"
	case refreshCancelling:
		return "cancelling"
	case refreshStarted:
		return "started"
	case refreshFailed:
		return "failed"
	default:
		return fmt.Sprintf("refreshState(%d)", int(s))
	}
}

// maxRefreshStarts bounds start requests: the first plus one retry
const maxRefreshStarts = 2

// startRefresh requests a rolling refresh onto the latest template version. A
// rejected first request cancels whatever refresh is in flight and tries once more.
func (r *run) startRefresh(ctx context.Context, in Terminated) (Refreshed, error) {
	log := clog.FromContext(ctx)

	input := aws.StartRefreshInput{
		GroupName:            in.Arguments.GroupName,
		LaunchTemplateID:     in.LaunchTemplate.ID,
		Version:              aws.LatestVersion,
		InstanceWarmup:       in.Arguments.InstanceWarmup,
		MinHealthyPercentage: in.Arguments.MinHealthyPercentage,
		SkipMatching:         false,
	}

	var (
		state     = refreshIdle
		starts    int
		refreshID string
		startErr  error
		cancelErr error
	)

	for {
		log.Debug("instance refresh", "state", state, "starts", starts)

		switch state {
		case refreshIdle:
			state = refreshStarting

		case refreshStarting:
			starts++
			callCtx, cancel := r.mutate(ctx)
			refreshID, startErr = r.asg.StartInstanceRefresh(callCtx, input)
			cancel()

			switch {
			case startErr == nil:
				state = refreshStarted
			case starts < maxRefreshStarts:
				state = refreshConflictDetected
			default:
				state = refreshFailed
			}

		case refreshConflictDetected:
			log.Warn("instance refresh rejected, cancelling the refresh in flight", "error", startErr)
			r.emit(StepStartRefresh, PhaseBake, StatusUpdated, "cancelling in-flight instance refresh and retrying", startErr.Error())
			state = refreshCancelling

		case refreshCancelling:
			// The cancel waits for the old refresh to wind down, bounded by its own settle timeout
			cancelErr = r.asg.CancelInstanceRefresh(context.WithoutCancel(ctx), in.Arguments.GroupName)
			if cancelErr != nil {
				log.Warn("failed to cancel instance refresh, retrying anyway", "error", cancelErr)
			}
			state = refreshStarting

		case refreshStarted:
			r.result.RefreshID = refreshID
			r.result.RefreshAttempts = starts
			return Refreshed{Terminated: in, RefreshID: refreshID, Attempts: starts}, nil

		case refreshFailed:
			r.result.RefreshAttempts = starts
			err := fmt.Errorf("%w after %d attempts: %w", ErrRefreshStartFailed, starts, startErr)
			if cancelErr != nil {
				err = errors.Join(err, fmt.Errorf("cancelling the previous refresh also failed: %w", cancelErr))
			}
			return Refreshed{}, err
		}
	}
}
