/*
Copyright © 2025 Rebake Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package deploy

import (
	"context"
	"fmt"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/google/uuid"
	"github.com/orien/rebake/internal/aws"
	"github.com/orien/rebake/internal/credential"
	"github.com/orien/rebake/internal/naming"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/orien/rebake/internal/deploy"

// Deployer defines the interface for re-image and roll deployments
type Deployer interface {
	Deploy(ctx context.Context, args Arguments, opts Options) (*Result, error)
}

// Result records the outcome of a deployment. On failure it holds whatever
// was learned before the failing step.
type Result struct {
	RunID            string
	Group            string
	Account          string
	Region           string
	InstanceID       string
	PublicAddress    string
	PrivateAddress   string
	LaunchTemplateID string
	ImageID          string
	ImageName        string
	TemplateVersion  int64
	RefreshID        string
	RefreshAttempts  int
	Started          time.Time
	Finished         time.Time
}

// Pipeline runs deployments step by step against AWS. One Pipeline may run
// deployments for different groups concurrently; deployments of the same group
// must be serialised by the caller.
type Pipeline struct {
	credentials credential.Resolver
	clients     aws.ClientFactory
	tracer      trace.Tracer
	now         func() time.Time
	newRunID    func() (string, error)
}

// Option customises a Pipeline
type Option func(*Pipeline)

// WithTracerProvider traces deployments with tp instead of the global provider
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(p *Pipeline) {
		p.tracer = tp.Tracer(tracerName)
	}
}

// WithClock replaces the time source
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// NewPipeline creates a pipeline that resolves credentials with credentials and
// reaches AWS through clients
func NewPipeline(credentials credential.Resolver, clients aws.ClientFactory, opts ...Option) *Pipeline {
	p := &Pipeline{
		credentials: credentials,
		clients:     clients,
		tracer:      otel.Tracer(tracerName),
		now:         time.Now,
		newRunID: func() (string, error) {
			id, err := uuid.NewV7()
			if err != nil {
				return "", err
			}
			return id.String(), nil
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Deploy re-images one instance of the group and rolls the group onto the new image.
// The credential is resolved before anything else; without it no AWS call is made.
// Every step failure stops the deployment and is returned as a *StepError.
func (p *Pipeline) Deploy(ctx context.Context, args Arguments, opts Options) (*Result, error) {
	if err := args.Validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	// A template that cannot render must fail before the instance leaves the group
	if _, err := naming.ImageName(opts.ImageName, naming.Vars{Group: args.GroupName, Account: args.AccountID, Instance: "i-0", Time: p.now()}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArguments, err)
	}

	cred, err := p.credentials.Resolve(ctx, args.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve credential: %w", err)
	}

	client, err := p.clients.GetClient(ctx, aws.Config{
		Region:          cred.Region,
		Profile:         cred.Profile,
		AccessKeyID:     cred.AccessKeyID,
		SecretAccessKey: cred.SecretAccessKey,
		SessionToken:    cred.SessionToken,
	})
	if err != nil {
		return nil, err
	}

	runID, err := p.newRunID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate run id: %w", err)
	}

	r := &run{
		id:     runID,
		args:   args,
		opts:   opts,
		asg:    client.NewAutoScalingOperations(),
		ec2:    client.NewEC2Operations(),
		tracer: p.tracer,
		now:    p.now,
		result: &Result{
			RunID:   runID,
			Group:   args.GroupName,
			Account: args.AccountID,
			Region:  client.Region(),
			Started: p.now(),
		},
	}

	ctx, span := p.tracer.Start(ctx, "deploy", trace.WithAttributes(
		attribute.String("rebake.run_id", runID),
		attribute.String("rebake.group", args.GroupName),
		attribute.String("rebake.account", args.AccountID),
	))
	defer span.End()

	log := clog.FromContext(ctx).With("run", runID, "group", args.GroupName)
	ctx = clog.WithLogger(ctx, log)
	log.Info("deployment started", "account", args.AccountID, "region", r.result.Region)

	err = r.execute(ctx)
	r.result.Finished = p.now()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Error("deployment failed", "step", FailedStep(err), "error", err)
		return r.result, err
	}

	span.SetStatus(codes.Ok, "")
	log.Info("deployment finished", "image", r.result.ImageID, "refresh", r.result.RefreshID)
	return r.result, nil
}

// execute runs the steps strictly in order, stopping at the first failure
func (r *run) execute(ctx context.Context) error {
	selected, err := runStep(ctx, r, r.selectStep(), r.args)
	if err != nil {
		return err
	}
	detached, err := runStep(ctx, r, r.detachStep(), selected)
	if err != nil {
		return err
	}
	updated, err := runStep(ctx, r, r.updateStep(), detached)
	if err != nil {
		return err
	}
	imaged, err := runStep(ctx, r, r.imageStep(), updated)
	if err != nil {
		return err
	}
	published, err := runStep(ctx, r, r.publishStep(), imaged)
	if err != nil {
		return err
	}
	terminated, err := runStep(ctx, r, r.terminateStep(), published)
	if err != nil {
		return err
	}
	_, err = runStep(ctx, r, r.refreshStep(), terminated)
	return err
}
