/*
Copyright © 2025 Rebake Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package progress renders deployment events and outcomes for the operator.
package progress

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/orien/rebake/internal/deploy"
)

// Reporter renders deployment events as they arrive
type Reporter struct {
	out    io.Writer
	styles *Styles

	mu    sync.Mutex
	phase deploy.Phase
}

var _ deploy.Observer = (*Reporter)(nil)

// NewReporter creates a reporter writing to out
func NewReporter(out io.Writer, styles *Styles) *Reporter {
	return &Reporter{out: out, styles: styles}
}

// OnEvent prints a phase heading when the phase changes, then the step line
func (r *Reporter) OnEvent(e deploy.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e.Phase != r.phase {
		r.phase = e.Phase
		fmt.Fprintf(r.out, "%s\n", r.styles.Phase.Render(e.Phase.Title()))
	}

	switch e.Status {
	case deploy.StatusStarted:
		fmt.Fprintf(r.out, "  %s %s...\n", r.styles.Running.Render("•"), e.Title)
	case deploy.StatusUpdated:
		fmt.Fprintf(r.out, "  %s %s\n", r.styles.Retry.Render("↻"), e.Title)
	case deploy.StatusSucceeded:
		text := e.Detail
		if text == "" {
			text = e.Title
		}
		fmt.Fprintf(r.out, "  %s %s\n", r.styles.Success.Render("✓"), text)
	case deploy.StatusFailed:
		fmt.Fprintf(r.out, "  %s %s: %s\n", r.styles.Failure.Render("✗"), e.Title, e.Detail)
	}
}

// Summary prints the outcome of a successful deployment
func (r *Reporter) Summary(result *deploy.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintf(r.out, "\n%s\n", r.styles.Success.Render("Deployment complete"))
	r.field("Run", result.RunID)
	r.field("Group", result.Group)
	r.field("Image", fmt.Sprintf("%s (%s)", r.link(ImageURL(result.Region, result.ImageID), result.ImageID), result.ImageName))
	r.field("Launch template", fmt.Sprintf("%s version %d", r.link(LaunchTemplateURL(result.Region, result.LaunchTemplateID), result.LaunchTemplateID), result.TemplateVersion))
	r.field("Instance refresh", r.link(RefreshURL(result.Region, result.Group), refreshText(result)))
	r.field("Duration", result.Finished.Sub(result.Started).Round(time.Second).String())
	fmt.Fprintf(r.out, "%s\n", r.styles.Subtle.Render("The refresh continues in AWS; follow it in the Auto Scaling console."))
}

// Failure prints a report naming the failed step and the infrastructure left as it is
func (r *Reporter) Failure(result *deploy.Result, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	step := deploy.FailedStep(err)
	headline := "Deployment failed"
	if step != "" {
		headline = fmt.Sprintf("Deployment failed at step %s", step)
	}
	fmt.Fprintf(r.out, "\n%s\n", r.styles.Failure.Render(headline))

	cause := err
	var stepErr *deploy.StepError
	if errors.As(err, &stepErr) {
		cause = stepErr.Err
	}
	r.field("Error", cause.Error())

	if result != nil {
		r.field("Run", result.RunID)
		r.field("Group", result.Group)
	}

	if stepErr == nil || len(stepErr.Residue) == 0 {
		return
	}

	region := ""
	if result != nil {
		region = result.Region
	}
	parts := make([]string, len(stepErr.Residue))
	for i, res := range stepErr.Residue {
		parts[i] = r.link(residueURL(region, res), res.String())
	}
	r.field("Left behind", strings.Join(parts, ", "))
	fmt.Fprintf(r.out, "%s\n", r.styles.Subtle.Render("Nothing was rolled back; clean these up or re-run the deployment."))
}

func (r *Reporter) field(key, value string) {
	fmt.Fprintf(r.out, "  %s %s\n", r.styles.Key.Render(fmt.Sprintf("%-17s", key+":")), r.styles.Value.Render(value))
}

// link renders text as a console hyperlink when styling is on
func (r *Reporter) link(target, text string) string {
	if !r.styles.UseColour {
		return text
	}
	return Hyperlink(target, text)
}

func residueURL(region string, res deploy.Resource) string {
	switch res.Kind {
	case deploy.ResourceInstance:
		return InstanceURL(region, res.ID)
	case deploy.ResourceImage:
		return ImageURL(region, res.ID)
	default:
		return ""
	}
}

func refreshText(result *deploy.Result) string {
	if result.RefreshAttempts > 1 {
		return fmt.Sprintf("%s (started after cancelling a refresh in flight)", result.RefreshID)
	}
	return result.RefreshID
}
