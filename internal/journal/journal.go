/*
Copyright © 2025 Rebake Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package journal keeps a local history of deployments in a bbolt database.
package journal

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/orien/rebake/internal/deploy"
	"go.etcd.io/bbolt"
)

var bucketDeployments = []byte("deployments")

// lockTimeout bounds the wait for another process's transaction to finish
const lockTimeout = 5 * time.Second

// ErrNotFound is returned when no deployment has the requested run id
var ErrNotFound = errors.New("deployment not found in journal")

// Deployment statuses
const (
	StatusRunning   = "running"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Step is one recorded step transition
type Step struct {
	Name   string    `json:"name"`
	Status string    `json:"status"`
	Detail string    `json:"detail,omitempty"`
	Time   time.Time `json:"time"`
}

// Record is the journal entry of one deployment
type Record struct {
	ID              string            `json:"id"`
	Group           string            `json:"group"`
	Account         string            `json:"account"`
	Status          string            `json:"status"`
	Steps           []Step            `json:"steps,omitempty"`
	FailedStep      string            `json:"failed_step,omitempty"`
	Error           string            `json:"error,omitempty"`
	InstanceID      string            `json:"instance_id,omitempty"`
	ImageID         string            `json:"image_id,omitempty"`
	TemplateVersion int64             `json:"template_version,omitempty"`
	RefreshID       string            `json:"refresh_id,omitempty"`
	Residue         []deploy.Resource `json:"residue,omitempty"`
	Started         time.Time         `json:"started"`
	Finished        time.Time         `json:"finished,omitzero"`
}

// Journal stores deployment records keyed by run id. Run ids are UUIDv7, so
// key order is start order. The database is opened for each operation so
// concurrent deployments and history queries do not hold each other's lock.
type Journal struct {
	path string
}

// Open creates the journal database at path if needed
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	j := &Journal{path: path}
	err := j.update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketDeployments)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialise journal: %w", err)
	}

	return j, nil
}

func (j *Journal) client() (*bbolt.DB, error) {
	db, err := bbolt.Open(j.path, 0o600, &bbolt.Options{Timeout: lockTimeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open journal %s: %w", j.path, err)
	}
	return db, nil
}

func (j *Journal) update(fn func(*bbolt.Tx) error) error {
	db, err := j.client()
	if err != nil {
		return err
	}
	defer db.Close()

	return db.Update(fn)
}

func (j *Journal) view(fn func(*bbolt.Tx) error) error {
	db, err := j.client()
	if err != nil {
		return err
	}
	defer db.Close()

	return db.View(fn)
}

// Put stores rec, replacing any record with the same id
func (j *Journal) Put(rec Record) error {
	if rec.ID == "" {
		return errors.New("record id cannot be empty")
	}

	value, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode record %s: %w", rec.ID, err)
	}

	return j.update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketDeployments).Put([]byte(rec.ID), value)
	})
}

// Get returns the record with the given run id
func (j *Journal) Get(id string) (*Record, error) {
	var rec *Record
	err := j.view(func(tx *bbolt.Tx) error {
		value := tx.Bucket(bucketDeployments).Get([]byte(id))
		if value == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		rec = &Record{}
		return json.Unmarshal(value, rec)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// List returns records newest first, restricted to group unless it is empty.
// A limit of zero or less returns every match.
func (j *Journal) List(group string, limit int) ([]Record, error) {
	var records []Record
	err := j.view(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketDeployments).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			var rec Record
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("failed to decode record %s: %w", k, err)
			}
			if group != "" && rec.Group != group {
				continue
			}
			records = append(records, rec)
			if limit > 0 && len(records) == limit {
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
