package model

import (
	"time"
)

// JobStatus represents the status of a background job
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// JobType represents the type of job being executed
type JobType string

const (
	JobTypeReloadDictionary JobType = "reload_dictionary"
	JobTypeReloadTypoRules  JobType = "reload_typo_rules"
	JobTypeReloadAll        JobType = "reload_all"
)

// ReloadTarget selects which snapshot a reload rebuilds.
type ReloadTarget string

const (
	ReloadDictionary ReloadTarget = "dictionary"
	ReloadTypoRules  ReloadTarget = "typo_rules"
	ReloadAll        ReloadTarget = "all"
)

// JobType maps a reload target to the job type tracked by the job manager.
func (t ReloadTarget) JobType() (JobType, bool) {
	switch t {
	case ReloadDictionary:
		return JobTypeReloadDictionary, true
	case ReloadTypoRules:
		return JobTypeReloadTypoRules, true
	case ReloadAll, "":
		return JobTypeReloadAll, true
	}
	return "", false
}

// Job represents a background reload operation
type Job struct {
	ID          string            `json:"id"`
	Type        JobType           `json:"type"`
	Status      JobStatus         `json:"status"`
	Error       string            `json:"error,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	StartedAt   *time.Time        `json:"started_at,omitempty"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// IsTerminal reports whether the job finished, successfully or not.
func (j *Job) IsTerminal() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed || j.Status == JobStatusCancelled
}
