package api

import (
	stderrors "errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-symptom-mapper/internal/errors"
	"github.com/gcbaptista/go-symptom-mapper/internal/jobs"
	"github.com/gcbaptista/go-symptom-mapper/model"
)

// ReloadRequest is the optional body of POST /dictionary/_reload
type ReloadRequest struct {
	Target model.ReloadTarget `json:"target"`
}

// ReloadHandler starts a background reload and answers 202 with the job ID
func (api *API) ReloadHandler(c *gin.Context) {
	var req ReloadRequest
	if err := c.ShouldBindJSON(&req); err != nil && !stderrors.Is(err, io.EOF) {
		SendInvalidJSONError(c, err)
		return
	}
	if result := ValidateReloadTarget(req.Target); result.HasErrors() {
		SendValidationError(c, result)
		return
	}
	if req.Target == "" {
		req.Target = model.ReloadAll
	}

	jobID, err := api.mapper.ReloadAsync(req.Target)
	if err != nil {
		SendJobExecutionError(c, "reload", err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status":  "accepted",
		"message": "Reload of '" + string(req.Target) + "' started",
		"job_id":  jobID,
	})
}

// GetJobHandler handles requests to get job status by ID
func (api *API) GetJobHandler(c *gin.Context) {
	jobID := c.Param("jobId")

	job, err := api.mapper.GetJob(jobID)
	if err != nil {
		if stderrors.Is(err, errors.ErrJobNotFound) {
			SendJobNotFoundError(c, jobID)
			return
		}
		SendInternalError(c, "job lookup", err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// ListJobsHandler handles requests to list jobs, optionally filtered by ?status=
func (api *API) ListJobsHandler(c *gin.Context) {
	status, result := ParseJobStatus(c)
	if result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	jobList := api.mapper.ListJobs(status)
	c.JSON(http.StatusOK, gin.H{
		"jobs":  jobList,
		"total": len(jobList),
	})
}

// GetJobMetricsHandler handles requests to get job performance metrics
func (api *API) GetJobMetricsHandler(c *gin.Context) {
	withMetrics, ok := api.mapper.(interface{ JobMetrics() jobs.JobMetricsData })
	if !ok {
		SendError(c, http.StatusNotImplemented, ErrorCodeNotSupported, "Job metrics not supported by this engine")
		return
	}

	c.JSON(http.StatusOK, gin.H{"metrics": withMetrics.JobMetrics()})
}
