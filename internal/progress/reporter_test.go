/*
Copyright © 2025 Rebake Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package progress

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/orien/rebake/internal/deploy"
	"github.com/stretchr/testify/assert"
)

func TestReporter_OnEvent(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewReporter(&buf, NewStyles(false))

	events := []deploy.Event{
		{Step: deploy.StepSelectInstance, Phase: deploy.PhasePrepare, Status: deploy.StatusStarted, Title: "selecting instance for update"},
		{Step: deploy.StepSelectInstance, Phase: deploy.PhasePrepare, Status: deploy.StatusSucceeded, Title: "selecting instance for update", Detail: "selected instance [i-1]"},
		{Step: deploy.StepDetachInstance, Phase: deploy.PhasePrepare, Status: deploy.StatusStarted, Title: "detaching selected instance"},
		{Step: deploy.StepDetachInstance, Phase: deploy.PhasePrepare, Status: deploy.StatusSucceeded, Title: "detaching selected instance"},
		{Step: deploy.StepUpdateInstance, Phase: deploy.PhaseUpdate, Status: deploy.StatusStarted, Title: "updating detached instance"},
		{Step: deploy.StepUpdateInstance, Phase: deploy.PhaseUpdate, Status: deploy.StatusFailed, Title: "updating detached instance", Detail: "exit status 2"},
	}
	for _, e := range events {
		reporter.OnEvent(e)
	}

	expected := strings.Join([]string{
		"Preparing instance for update",
		"  • selecting instance for update...",
		"  ✓ selected instance [i-1]",
		"  • detaching selected instance...",
		"  ✓ detaching selected instance",
		"Updating detached instance",
		"  • updating detached instance...",
		"  ✗ updating detached instance: exit status 2",
		"",
	}, "\n")
	assert.Equal(t, expected, buf.String())
}

func TestReporter_RetryLine(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewReporter(&buf, NewStyles(false))

	reporter.OnEvent(deploy.Event{Phase: deploy.PhaseBake, Status: deploy.StatusUpdated, Title: "cancelling in-flight instance refresh and retrying"})

	assert.Contains(t, buf.String(), "↻ cancelling in-flight instance refresh and retrying")
}

func TestReporter_Summary(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewReporter(&buf, NewStyles(false))
	started := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	reporter.Summary(&deploy.Result{
		RunID:            "0190-run",
		Group:            "web-asg",
		ImageID:          "ami-9",
		ImageName:        "web-asg-v1",
		LaunchTemplateID: "lt-1",
		TemplateVersion:  4,
		RefreshID:        "ir-2",
		RefreshAttempts:  2,
		Started:          started,
		Finished:         started.Add(754 * time.Second),
	})

	out := buf.String()
	assert.Contains(t, out, "Deployment complete")
	assert.Contains(t, out, "ami-9 (web-asg-v1)")
	assert.Contains(t, out, "lt-1 version 4")
	assert.Contains(t, out, "ir-2 (started after cancelling a refresh in flight)")
	assert.Contains(t, out, "12m34s")
}

func TestReporter_Failure(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewReporter(&buf, NewStyles(false))

	err := &deploy.StepError{
		Step:    deploy.StepCreateImage,
		Err:     fmt.Errorf("%w: image ami-9 not available after 30m0s", deploy.ErrImageTimeout),
		Residue: []deploy.Resource{{Kind: deploy.ResourceInstance, ID: "i-1"}, {Kind: deploy.ResourceImage, ID: "ami-9"}},
	}
	reporter.Failure(&deploy.Result{RunID: "0190-run", Group: "web-asg"}, err)

	out := buf.String()
	assert.Contains(t, out, "Deployment failed at step create-image")
	assert.Contains(t, out, "timed out waiting for image: image ami-9 not available after 30m0s")
	assert.Contains(t, out, "instance i-1, image ami-9")
	assert.Contains(t, out, "Nothing was rolled back")
}

func TestReporter_FailureWithoutStep(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewReporter(&buf, NewStyles(false))

	reporter.Failure(nil, fmt.Errorf("failed to resolve credential: boom"))

	out := buf.String()
	assert.Contains(t, out, "Deployment failed\n")
	assert.NotContains(t, out, "Left behind")
}

func TestShouldUseColour_NoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.False(t, ShouldUseColour())

	t.Setenv("NO_COLOR", "")
	t.Setenv("TERM", "dumb")
	assert.False(t, ShouldUseColour())
}

func TestReporter_LinksWhenStyled(t *testing.T) {
	var buf bytes.Buffer
	styles := NewStyles(false)
	styles.UseColour = true
	reporter := NewReporter(&buf, styles)

	reporter.Failure(&deploy.Result{Group: "web-asg", Region: "eu-west-1"}, &deploy.StepError{
		Step:    deploy.StepTerminateInstance,
		Err:     fmt.Errorf("%w: access denied", deploy.ErrTerminationFailed),
		Residue: []deploy.Resource{{Kind: deploy.ResourceInstance, ID: "i-1"}},
	})

	assert.Contains(t, buf.String(), Hyperlink(InstanceURL("eu-west-1", "i-1"), "instance i-1"))
}
