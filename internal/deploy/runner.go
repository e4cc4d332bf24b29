/*
Copyright © 2025 Rebake Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package deploy

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/orien/rebake/internal/aws"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// step is one stage of the pipeline, turning the state of one phase into the next
type step[In, Out any] struct {
	name   string
	phase  Phase
	title  string
	run    func(ctx context.Context, in In) (Out, error)
	detail func(out Out) string
}

// run is the per-deployment state shared by the steps' plumbing: collaborators,
// the event sink and the outcome record. It is owned by a single deployment.
type run struct {
	id      string
	args    Arguments
	opts    Options
	asg     aws.AutoScalingOperations
	ec2     aws.EC2Operations
	tracer  trace.Tracer
	now     func() time.Time
	result  *Result
	residue []Resource
}

// runStep executes one step: it refuses to start once ctx is cancelled, emits
// lifecycle events, traces the step and attaches the residue to any failure
func runStep[In, Out any](ctx context.Context, r *run, s step[In, Out], in In) (Out, error) {
	var zero Out
	log := clog.FromContext(ctx).With("step", s.name)

	if err := ctx.Err(); err != nil {
		log.Warn("deployment cancelled before step started")
		return zero, &StepError{Step: s.name, Err: fmt.Errorf("%w: %w", ErrCancelled, err), Residue: r.leftBehind()}
	}

	ctx, span := r.tracer.Start(ctx, s.name, trace.WithAttributes(
		attribute.String("rebake.run_id", r.id),
		attribute.String("rebake.group", r.args.GroupName),
		attribute.String("rebake.phase", string(s.phase)),
	))
	defer span.End()

	ctx = clog.WithLogger(ctx, log)
	log.Info(s.title)
	r.emit(s.name, s.phase, StatusStarted, s.title, "")

	out, err := s.run(ctx, in)
	if err != nil {
		if ctx.Err() != nil && !errors.Is(err, ErrCancelled) {
			err = fmt.Errorf("%w: %w", ErrCancelled, err)
		}

		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Error("step failed", "error", err)
		r.emit(s.name, s.phase, StatusFailed, s.title, err.Error())

		return zero, &StepError{Step: s.name, Err: err, Residue: r.leftBehind()}
	}

	detail := ""
	if s.detail != nil {
		detail = s.detail(out)
	}
	span.SetStatus(codes.Ok, "")
	log.Info("step succeeded", "detail", detail)
	r.emit(s.name, s.phase, StatusSucceeded, s.title, detail)

	return out, nil
}

func (r *run) emit(stepName string, phase Phase, status Status, title, detail string) {
	r.opts.Observer.OnEvent(Event{
		RunID:  r.id,
		Group:  r.args.GroupName,
		Step:   stepName,
		Phase:  phase,
		Status: status,
		Title:  title,
		Detail: detail,
		Time:   r.now(),
	})
}

// leave records infrastructure that outlives a failure from here on
func (r *run) leave(kind, id string) {
	r.residue = append(r.residue, Resource{Kind: kind, ID: id})
}

// release forgets infrastructure that has been cleaned up
func (r *run) release(kind, id string) {
	r.residue = slices.DeleteFunc(r.residue, func(res Resource) bool {
		return res.Kind == kind && res.ID == id
	})
}

func (r *run) leftBehind() []Resource {
	return slices.Clone(r.residue)
}

// lookup bounds a read-only call; it stops with the deployment
func (r *run) lookup(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.opts.CallTimeout)
}

// mutate bounds a call that changes infrastructure. It is detached from
// cancellation so an interrupt never abandons the call half way.
func (r *run) mutate(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), r.opts.CallTimeout)
}
