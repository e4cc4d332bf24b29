/*
Copyright © 2025 Rebake Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package journal

import (
	"errors"
	"sync"

	"github.com/orien/rebake/internal/deploy"
)

// Recorder writes a deployment's progress to the journal as events arrive, so
// an interrupted deployment still leaves a running record behind
type Recorder struct {
	journal *Journal

	mu     sync.Mutex
	record Record
	err    error
}

var _ deploy.Observer = (*Recorder)(nil)

// NewRecorder creates a recorder for one deployment of group in account
func NewRecorder(j *Journal, group, account string) *Recorder {
	return &Recorder{
		journal: j,
		record:  Record{Group: group, Account: account, Status: StatusRunning},
	}
}

// OnEvent appends the step transition and persists the record
func (r *Recorder) OnEvent(e deploy.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.record.ID == "" {
		r.record.ID = e.RunID
		r.record.Started = e.Time
	}
	r.record.Steps = append(r.record.Steps, Step{
		Name:   e.Step,
		Status: string(e.Status),
		Detail: e.Detail,
		Time:   e.Time,
	})

	r.persist()
}

// Finish records the outcome and returns the first error met while persisting.
// Nothing is written when the deployment never started a run.
func (r *Recorder) Finish(result *deploy.Result, err error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if result != nil {
		r.record.ID = result.RunID
		r.record.InstanceID = result.InstanceID
		r.record.ImageID = result.ImageID
		r.record.TemplateVersion = result.TemplateVersion
		r.record.RefreshID = result.RefreshID
		r.record.Started = result.Started
		r.record.Finished = result.Finished
	}
	if r.record.ID == "" {
		return r.err
	}

	r.record.Status = StatusSucceeded
	if err != nil {
		r.record.Status = StatusFailed
		r.record.Error = err.Error()
		r.record.FailedStep = deploy.FailedStep(err)

		var stepErr *deploy.StepError
		if errors.As(err, &stepErr) {
			r.record.Residue = stepErr.Residue
		}
	}

	r.persist()
	return r.err
}

// Record returns a copy of the record as it stands
func (r *Recorder) Record() Record {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec := r.record
	rec.Steps = append([]Step(nil), r.record.Steps...)
	return rec
}

func (r *Recorder) persist() {
	if r.record.ID == "" {
		return
	}
	if err := r.journal.Put(r.record); err != nil && r.err == nil {
		r.err = err
	}
}
