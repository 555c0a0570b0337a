package engine

import (
	"context"
	"fmt"

	"github.com/gcbaptista/go-symptom-mapper/internal/errors"
	"github.com/gcbaptista/go-symptom-mapper/internal/jobs"
	"github.com/gcbaptista/go-symptom-mapper/model"
)

// ReloadAsync starts a background reload of target and returns the job ID.
func (e *Engine) ReloadAsync(target model.ReloadTarget) (string, error) {
	jobType, ok := target.JobType()
	if !ok {
		return "", errors.NewValidationError("target", fmt.Sprintf("unknown reload target '%s'", target))
	}
	if target == "" {
		target = model.ReloadAll
	}

	jobID, err := e.jobManager.Submit(jobType, map[string]string{"target": string(target)},
		func(ctx context.Context, job *model.Job) error {
			return e.Reload(ctx, target)
		})
	if err != nil {
		return "", fmt.Errorf("failed to start reload job: %w", err)
	}
	return jobID, nil
}

// GetJob retrieves a job by ID
func (e *Engine) GetJob(jobID string) (*model.Job, error) {
	return e.jobManager.GetJob(jobID)
}

// ListJobs returns jobs, optionally filtered by status
func (e *Engine) ListJobs(status *model.JobStatus) []*model.Job {
	return e.jobManager.ListJobs(status)
}

// WaitJob blocks until the job finishes or ctx is done.
func (e *Engine) WaitJob(ctx context.Context, jobID string) (*model.Job, error) {
	return e.jobManager.Wait(ctx, jobID)
}

// JobMetrics returns job counters
func (e *Engine) JobMetrics() jobs.JobMetricsData {
	return e.jobManager.GetMetrics()
}
