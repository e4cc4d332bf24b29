/*
Copyright © 2025 Rebake Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package deploy

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/orien/rebake/internal/aws"
	"github.com/orien/rebake/internal/credential"
	"github.com/orien/rebake/internal/update"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// fixture wires a pipeline to mocks that append every call to calls
type fixture struct {
	creds    *credential.MockResolver
	factory  *aws.MockClientFactory
	client   *aws.MockClient
	asg      *aws.MockAutoScalingOperations
	ec2      *aws.MockEC2Operations
	updater  *update.MockUpdater
	recorder *EventRecorder
	spans    *tracetest.SpanRecorder
	pipeline *Pipeline
	calls    []string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		creds:    &credential.MockResolver{},
		factory:  &aws.MockClientFactory{},
		client:   &aws.MockClient{},
		asg:      &aws.MockAutoScalingOperations{},
		ec2:      &aws.MockEC2Operations{},
		updater:  &update.MockUpdater{},
		recorder: &EventRecorder{},
		spans:    tracetest.NewSpanRecorder(),
	}

	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(f.spans))
	f.pipeline = NewPipeline(f.creds, f.factory,
		WithTracerProvider(tp),
		WithClock(func() time.Time { return fixedNow }),
	)

	f.creds.On("Resolve", mock.Anything, "prod").Return(&credential.Credential{
		AccountID:       "prod",
		AccessKeyID:     "AKIAPROD",
		SecretAccessKey: "secret",
		Region:          "us-east-1",
	}, nil).Maybe()
	f.factory.On("GetClient", mock.Anything, aws.Config{
		Region:          "us-east-1",
		AccessKeyID:     "AKIAPROD",
		SecretAccessKey: "secret",
	}).Return(f.client, nil).Maybe()
	f.client.On("NewAutoScalingOperations").Return(f.asg).Maybe()
	f.client.On("NewEC2Operations").Return(f.ec2).Maybe()
	f.client.On("Region").Return("us-east-1").Maybe()

	return f
}

func (f *fixture) record(name string) func(mock.Arguments) {
	return func(mock.Arguments) {
		f.calls = append(f.calls, name)
	}
}

func webGroup(members ...aws.Member) *aws.Group {
	return &aws.Group{
		Name:           "web-asg",
		LaunchTemplate: &aws.LaunchTemplate{ID: "lt-1", Name: "web", Version: "$Latest"},
		Members:        members,
	}
}

var healthyI1 = aws.Member{InstanceID: "i-1", HealthStatus: "Healthy", LifecycleState: "InService"}

func webArgs() Arguments {
	return Arguments{GroupName: "web-asg", AccountID: "prod", InstanceWarmup: 300, MinHealthyPercentage: 90}
}

func expectedRefreshInput() aws.StartRefreshInput {
	return aws.StartRefreshInput{
		GroupName:            "web-asg",
		LaunchTemplateID:     "lt-1",
		Version:              "$Latest",
		InstanceWarmup:       300,
		MinHealthyPercentage: 90,
	}
}

// expectHappyPath registers every call of a successful run up to and including the refresh
func (f *fixture) expectHappyPath() {
	f.asg.On("DescribeGroup", mock.Anything, "web-asg").Return(webGroup(healthyI1), nil).Run(f.record("describe-group")).Once()
	f.ec2.On("DescribeInstance", mock.Anything, "i-1").
		Return(&aws.Instance{ID: "i-1", PublicAddress: "203.0.113.1", PrivateAddress: "10.0.0.1"}, nil).
		Run(f.record("describe-instance")).Once()
	f.asg.On("DetachInstance", mock.Anything, "web-asg", "i-1", false).Return(nil).Run(f.record("detach")).Once()
	f.updater.On("Apply", mock.Anything, "203.0.113.1").Return(nil).Run(f.record("update")).Once()
	f.ec2.On("CreateImage", mock.Anything, mock.MatchedBy(func(in aws.CreateImageInput) bool {
		return in.InstanceID == "i-1" && in.Name == "web-asg-v1748779200000" &&
			in.Tags[TagGroup] == "web-asg" && in.Tags[TagSourceInstance] == "i-1"
	})).Return("img-9", nil).Run(f.record("create-image")).Once()
	f.ec2.On("WaitForImage", mock.Anything, "img-9", 30*time.Minute).Return(nil).Run(f.record("await-image")).Once()
	f.ec2.On("CreateLaunchTemplateVersion", mock.Anything, mock.MatchedBy(func(in aws.TemplateVersionInput) bool {
		return in.LaunchTemplateID == "lt-1" && in.ImageID == "img-9" && in.SourceVersion == "$Latest"
	})).Return(int64(4), nil).Run(f.record("create-template-version")).Once()
	f.ec2.On("TerminateInstance", mock.Anything, "i-1").Return(nil).Run(f.record("terminate")).Once()
}

func (f *fixture) deploy(ctx context.Context) (*Result, error) {
	return f.pipeline.Deploy(ctx, webArgs(), Options{Updater: f.updater, Observer: f.recorder})
}

func TestDeploy_CallOrder(t *testing.T) {
	f := newFixture(t)
	f.expectHappyPath()
	f.asg.On("StartInstanceRefresh", mock.Anything, expectedRefreshInput()).Return("ir-1", nil).Run(f.record("start-refresh")).Once()

	result, err := f.deploy(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{
		"describe-group", "describe-instance", "detach", "update", "create-image",
		"await-image", "create-template-version", "terminate", "start-refresh",
	}, f.calls)
	f.asg.AssertNotCalled(t, "CancelInstanceRefresh", mock.Anything, mock.Anything)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, "web-asg", result.Group)
	assert.Equal(t, "us-east-1", result.Region)
	assert.Equal(t, "i-1", result.InstanceID)
	assert.Equal(t, "lt-1", result.LaunchTemplateID)
	assert.Equal(t, "img-9", result.ImageID)
	assert.Equal(t, int64(4), result.TemplateVersion)
	assert.Equal(t, "ir-1", result.RefreshID)
	assert.Equal(t, 1, result.RefreshAttempts)
	assert.Equal(t, fixedNow, result.Finished)
}

func TestDeploy_EmitsStepEvents(t *testing.T) {
	f := newFixture(t)
	f.expectHappyPath()
	f.asg.On("StartInstanceRefresh", mock.Anything, mock.Anything).Return("ir-1", nil)

	_, err := f.deploy(context.Background())
	require.NoError(t, err)

	var started, succeeded []string
	for _, e := range f.recorder.Events() {
		assert.Equal(t, "web-asg", e.Group)
		switch e.Status {
		case StatusStarted:
			started = append(started, e.Step)
		case StatusSucceeded:
			succeeded = append(succeeded, e.Step)
		}
	}

	steps := []string{
		StepSelectInstance, StepDetachInstance, StepUpdateInstance, StepCreateImage,
		StepPublishTemplate, StepTerminateInstance, StepStartRefresh,
	}
	assert.Equal(t, steps, started)
	assert.Equal(t, steps, succeeded)

	first := f.recorder.Events()[1]
	assert.Equal(t, PhasePrepare, first.Phase)
	assert.Equal(t, "selected instance [i-1]", first.Detail)
}

func TestDeploy_SelectsFirstHealthyInstance(t *testing.T) {
	f := newFixture(t)
	f.asg.On("DescribeGroup", mock.Anything, "web-asg").Return(webGroup(healthyI1), nil)
	f.ec2.On("DescribeInstance", mock.Anything, "i-1").Return(&aws.Instance{ID: "i-1", PublicAddress: "203.0.113.1"}, nil)

	r := &run{
		id:     "run-1",
		args:   webArgs(),
		opts:   Options{}.withDefaults(),
		asg:    f.asg,
		ec2:    f.ec2,
		result: &Result{},
	}

	selected, err := r.selectInstance(context.Background(), webArgs())

	require.NoError(t, err)
	assert.Equal(t, "i-1", selected.Instance.ID)
	assert.Equal(t, "lt-1", selected.LaunchTemplate.ID)
	assert.Equal(t, "203.0.113.1", selected.Instance.PublicAddress)
}

func TestDeploy_NoEligibleInstanceStopsBeforeDetach(t *testing.T) {
	f := newFixture(t)
	f.asg.On("DescribeGroup", mock.Anything, "web-asg").Return(webGroup(
		aws.Member{InstanceID: "i-1", HealthStatus: "Unhealthy", LifecycleState: "InService"},
		aws.Member{InstanceID: "i-2", HealthStatus: "Unhealthy", LifecycleState: "Pending"},
	), nil)

	result, err := f.deploy(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoEligibleInstance)
	assert.Equal(t, StepSelectInstance, FailedStep(err))
	assert.Empty(t, result.InstanceID)
	f.ec2.AssertNotCalled(t, "DescribeInstance", mock.Anything, mock.Anything)
	f.asg.AssertNotCalled(t, "DetachInstance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.ec2.AssertNotCalled(t, "TerminateInstance", mock.Anything, mock.Anything)
}

func TestDeploy_CredentialNotFoundMakesNoCalls(t *testing.T) {
	f := newFixture(t)
	missing := &credential.MockResolver{}
	missing.On("Resolve", mock.Anything, "prod").Return(nil, credential.ErrNotFound)
	pipeline := NewPipeline(missing, f.factory)

	result, err := pipeline.Deploy(context.Background(), webArgs(), Options{Updater: f.updater})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, credential.ErrNotFound)
	f.factory.AssertNotCalled(t, "GetClient", mock.Anything, mock.Anything)
	assert.Empty(t, f.asg.Calls)
	assert.Empty(t, f.ec2.Calls)
	assert.Empty(t, f.updater.Calls)
}

func TestDeploy_TemplateUsesProducedImage(t *testing.T) {
	f := newFixture(t)
	f.expectHappyPath()
	f.asg.On("StartInstanceRefresh", mock.Anything, mock.Anything).Return("ir-1", nil)

	_, err := f.deploy(context.Background())

	require.NoError(t, err)
	f.ec2.AssertCalled(t, "CreateLaunchTemplateVersion", mock.Anything, mock.MatchedBy(func(in aws.TemplateVersionInput) bool {
		return in.ImageID == "img-9"
	}))
}

func TestDeploy_RefreshConflictRetriedOnce(t *testing.T) {
	f := newFixture(t)
	f.expectHappyPath()
	f.asg.On("StartInstanceRefresh", mock.Anything, expectedRefreshInput()).
		Return("", aws.ErrRefreshInProgress).Run(f.record("start-refresh")).Once()
	f.asg.On("CancelInstanceRefresh", mock.Anything, "web-asg").Return(nil).Run(f.record("cancel-refresh")).Once()
	f.asg.On("StartInstanceRefresh", mock.Anything, expectedRefreshInput()).
		Return("ir-2", nil).Run(f.record("start-refresh")).Once()

	result, err := f.deploy(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"start-refresh", "cancel-refresh", "start-refresh"}, f.calls[len(f.calls)-3:])
	f.asg.AssertNumberOfCalls(t, "StartInstanceRefresh", 2)
	f.asg.AssertNumberOfCalls(t, "CancelInstanceRefresh", 1)
	assert.Equal(t, "ir-2", result.RefreshID)
	assert.Equal(t, 2, result.RefreshAttempts)

	var retried bool
	for _, e := range f.recorder.Events() {
		if e.Step == StepStartRefresh && e.Status == StatusUpdated {
			retried = true
		}
	}
	assert.True(t, retried, "the retry is reported to observers")
}

func TestDeploy_RefreshRetryFailsWithoutThirdAttempt(t *testing.T) {
	f := newFixture(t)
	f.expectHappyPath()
	f.asg.On("StartInstanceRefresh", mock.Anything, expectedRefreshInput()).Return("", aws.ErrRefreshInProgress)
	f.asg.On("CancelInstanceRefresh", mock.Anything, "web-asg").Return(nil)

	_, err := f.deploy(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRefreshStartFailed)
	assert.Equal(t, StepStartRefresh, FailedStep(err))
	f.asg.AssertNumberOfCalls(t, "StartInstanceRefresh", 2)
	f.asg.AssertNumberOfCalls(t, "CancelInstanceRefresh", 1)
}

func TestDeploy_RefreshCancelFailureStillRetries(t *testing.T) {
	f := newFixture(t)
	f.expectHappyPath()
	f.asg.On("StartInstanceRefresh", mock.Anything, mock.Anything).Return("", errors.New("throttled")).Once()
	f.asg.On("CancelInstanceRefresh", mock.Anything, "web-asg").Return(errors.New("denied")).Once()
	f.asg.On("StartInstanceRefresh", mock.Anything, mock.Anything).Return("ir-3", nil).Once()

	result, err := f.deploy(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "ir-3", result.RefreshID)
}

func TestDeploy_RefreshFailureReportsCancelFailure(t *testing.T) {
	f := newFixture(t)
	f.expectHappyPath()
	f.asg.On("StartInstanceRefresh", mock.Anything, mock.Anything).Return("", errors.New("throttled"))
	f.asg.On("CancelInstanceRefresh", mock.Anything, "web-asg").Return(errors.New("denied"))

	_, err := f.deploy(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRefreshStartFailed)
	assert.Contains(t, err.Error(), "denied")
	f.asg.AssertNumberOfCalls(t, "StartInstanceRefresh", 2)
}

func TestDeploy_FailureReportsResidue(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(f *fixture)
		sentinel error
		step     string
		residue  []Resource
	}{
		{
			name: "detach rejected",
			setup: func(f *fixture) {
				f.asg.On("DescribeGroup", mock.Anything, "web-asg").Return(webGroup(healthyI1), nil)
				f.ec2.On("DescribeInstance", mock.Anything, "i-1").Return(&aws.Instance{ID: "i-1", PublicAddress: "203.0.113.1"}, nil)
				f.asg.On("DetachInstance", mock.Anything, "web-asg", "i-1", false).Return(errors.New("denied"))
			},
			sentinel: ErrDetachFailed,
			step:     StepDetachInstance,
		},
		{
			name: "update fails",
			setup: func(f *fixture) {
				f.asg.On("DescribeGroup", mock.Anything, "web-asg").Return(webGroup(healthyI1), nil)
				f.ec2.On("DescribeInstance", mock.Anything, "i-1").Return(&aws.Instance{ID: "i-1", PublicAddress: "203.0.113.1"}, nil)
				f.asg.On("DetachInstance", mock.Anything, "web-asg", "i-1", false).Return(nil)
				f.updater.On("Apply", mock.Anything, "203.0.113.1").Return(errors.New("playbook failed"))
			},
			sentinel: ErrUpdateFailed,
			step:     StepUpdateInstance,
			residue:  []Resource{{Kind: ResourceInstance, ID: "i-1"}},
		},
		{
			name: "image wait times out",
			setup: func(f *fixture) {
				f.asg.On("DescribeGroup", mock.Anything, "web-asg").Return(webGroup(healthyI1), nil)
				f.ec2.On("DescribeInstance", mock.Anything, "i-1").Return(&aws.Instance{ID: "i-1", PublicAddress: "203.0.113.1"}, nil)
				f.asg.On("DetachInstance", mock.Anything, "web-asg", "i-1", false).Return(nil)
				f.updater.On("Apply", mock.Anything, "203.0.113.1").Return(nil)
				f.ec2.On("CreateImage", mock.Anything, mock.Anything).Return("img-9", nil)
				f.ec2.On("WaitForImage", mock.Anything, "img-9", mock.Anything).Return(aws.ErrWaitTimeout)
			},
			sentinel: ErrImageTimeout,
			step:     StepCreateImage,
			residue:  []Resource{{Kind: ResourceInstance, ID: "i-1"}, {Kind: ResourceImage, ID: "img-9"}},
		},
		{
			name: "image fails",
			setup: func(f *fixture) {
				f.asg.On("DescribeGroup", mock.Anything, "web-asg").Return(webGroup(healthyI1), nil)
				f.ec2.On("DescribeInstance", mock.Anything, "i-1").Return(&aws.Instance{ID: "i-1", PublicAddress: "203.0.113.1"}, nil)
				f.asg.On("DetachInstance", mock.Anything, "web-asg", "i-1", false).Return(nil)
				f.updater.On("Apply", mock.Anything, "203.0.113.1").Return(nil)
				f.ec2.On("CreateImage", mock.Anything, mock.Anything).Return("img-9", nil)
				f.ec2.On("WaitForImage", mock.Anything, "img-9", mock.Anything).Return(aws.ErrImageFailed)
			},
			sentinel: ErrImageCreationFailed,
			step:     StepCreateImage,
			residue:  []Resource{{Kind: ResourceInstance, ID: "i-1"}, {Kind: ResourceImage, ID: "img-9"}},
		},
		{
			name: "terminate fails",
			setup: func(f *fixture) {
				f.asg.On("DescribeGroup", mock.Anything, "web-asg").Return(webGroup(healthyI1), nil)
				f.ec2.On("DescribeInstance", mock.Anything, "i-1").Return(&aws.Instance{ID: "i-1", PublicAddress: "203.0.113.1"}, nil)
				f.asg.On("DetachInstance", mock.Anything, "web-asg", "i-1", false).Return(nil)
				f.updater.On("Apply", mock.Anything, "203.0.113.1").Return(nil)
				f.ec2.On("CreateImage", mock.Anything, mock.Anything).Return("img-9", nil)
				f.ec2.On("WaitForImage", mock.Anything, "img-9", mock.Anything).Return(nil)
				f.ec2.On("CreateLaunchTemplateVersion", mock.Anything, mock.Anything).Return(int64(4), nil)
				f.ec2.On("TerminateInstance", mock.Anything, "i-1").Return(errors.New("denied"))
			},
			sentinel: ErrTerminationFailed,
			step:     StepTerminateInstance,
			residue:  []Resource{{Kind: ResourceInstance, ID: "i-1"}, {Kind: ResourceTemplateVersion, ID: "lt-1:4"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setup(f)

			_, err := f.deploy(context.Background())

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)

			var stepErr *StepError
			require.ErrorAs(t, err, &stepErr)
			assert.Equal(t, tt.step, stepErr.Step)
			assert.Equal(t, tt.residue, stepErr.Residue)
			f.asg.AssertNotCalled(t, "StartInstanceRefresh", mock.Anything, mock.Anything)
		})
	}
}

func TestDeploy_GroupNotFound(t *testing.T) {
	f := newFixture(t)
	f.asg.On("DescribeGroup", mock.Anything, "web-asg").Return(nil, aws.ErrGroupNotFound)

	_, err := f.deploy(context.Background())

	assert.ErrorIs(t, err, ErrGroupNotFound)
	f.asg.AssertNotCalled(t, "DetachInstance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDeploy_InstanceLookupFailed(t *testing.T) {
	f := newFixture(t)
	f.asg.On("DescribeGroup", mock.Anything, "web-asg").Return(webGroup(healthyI1), nil)
	f.ec2.On("DescribeInstance", mock.Anything, "i-1").Return(nil, aws.ErrInstanceNotFound)

	_, err := f.deploy(context.Background())

	assert.ErrorIs(t, err, ErrInstanceLookupFailed)
	f.asg.AssertNotCalled(t, "DetachInstance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDeploy_NoLaunchTemplate(t *testing.T) {
	f := newFixture(t)
	group := webGroup(healthyI1)
	group.LaunchTemplate = nil
	f.asg.On("DescribeGroup", mock.Anything, "web-asg").Return(group, nil)

	_, err := f.deploy(context.Background())

	assert.ErrorIs(t, err, ErrNoLaunchTemplate)
	f.ec2.AssertNotCalled(t, "DescribeInstance", mock.Anything, mock.Anything)
}

func TestDeploy_PrivateAddressAndMissingAddress(t *testing.T) {
	f := newFixture(t)
	f.asg.On("DescribeGroup", mock.Anything, "web-asg").Return(webGroup(healthyI1), nil)
	f.ec2.On("DescribeInstance", mock.Anything, "i-1").Return(&aws.Instance{ID: "i-1", PrivateAddress: "10.0.0.1"}, nil)
	f.asg.On("DetachInstance", mock.Anything, "web-asg", "i-1", false).Return(nil)

	_, err := f.pipeline.Deploy(context.Background(), webArgs(), Options{Updater: f.updater})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpdateFailed)
	assert.Contains(t, err.Error(), "no public address")

	f.updater.On("Apply", mock.Anything, "10.0.0.1").Return(errors.New("stop here"))
	_, err = f.pipeline.Deploy(context.Background(), webArgs(), Options{Updater: f.updater, Address: "private"})

	assert.ErrorIs(t, err, ErrUpdateFailed)
	f.updater.AssertCalled(t, "Apply", mock.Anything, "10.0.0.1")
}

func TestDeploy_CancelledBeforeNextStep(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f.asg.On("DescribeGroup", mock.Anything, "web-asg").Return(webGroup(healthyI1), nil)
	f.ec2.On("DescribeInstance", mock.Anything, "i-1").Return(&aws.Instance{ID: "i-1", PublicAddress: "203.0.113.1"}, nil)
	f.asg.On("DetachInstance", mock.Anything, "web-asg", "i-1", false).
		Run(func(args mock.Arguments) {
			// The interrupt arrives while the detach is in flight
			cancel()
			callCtx := args.Get(0).(context.Context)
			assert.NoError(t, callCtx.Err(), "an in-flight mutation is not cancelled")
		}).
		Return(nil)

	_, err := f.pipeline.Deploy(ctx, webArgs(), Options{Updater: f.updater})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCancelled)
	assert.Equal(t, StepUpdateInstance, FailedStep(err))
	assert.Equal(t, []Resource{{Kind: ResourceInstance, ID: "i-1"}}, err.(*StepError).Residue)
	f.updater.AssertNotCalled(t, "Apply", mock.Anything, mock.Anything)
}

func TestDeploy_InvalidArguments(t *testing.T) {
	f := newFixture(t)

	_, err := f.pipeline.Deploy(context.Background(), Arguments{AccountID: "prod"}, Options{})
	assert.ErrorIs(t, err, ErrInvalidArguments)

	_, err = f.pipeline.Deploy(context.Background(), webArgs(), Options{ImageName: "{{ .Nope }}"})
	assert.ErrorIs(t, err, ErrInvalidArguments)

	f.creds.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
}

func TestDeploy_TracesEachStep(t *testing.T) {
	f := newFixture(t)
	f.expectHappyPath()
	f.asg.On("StartInstanceRefresh", mock.Anything, mock.Anything).Return("ir-1", nil)

	_, err := f.deploy(context.Background())
	require.NoError(t, err)

	var names []string
	var root string
	for _, span := range f.spans.Ended() {
		names = append(names, span.Name())
		if span.Name() == "deploy" {
			root = span.SpanContext().TraceID().String()
		}
	}
	assert.Contains(t, names, "deploy")
	assert.Contains(t, names, StepCreateImage)
	assert.Len(t, names, 8)
	for _, span := range f.spans.Ended() {
		assert.Equal(t, root, span.SpanContext().TraceID().String(), "steps share the deployment trace")
	}
}

func TestArguments_Validate(t *testing.T) {
	tests := []struct {
		name string
		args Arguments
		ok   bool
	}{
		{"valid", webArgs(), true},
		{"zero warmup and percentage", Arguments{GroupName: "g", AccountID: "a"}, true},
		{"missing group", Arguments{AccountID: "a"}, false},
		{"missing account", Arguments{GroupName: "g"}, false},
		{"negative warmup", Arguments{GroupName: "g", AccountID: "a", InstanceWarmup: -1}, false},
		{"percentage above 100", Arguments{GroupName: "g", AccountID: "a", MinHealthyPercentage: 101}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.args.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidArguments)
			}
		})
	}
}
