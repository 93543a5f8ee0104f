package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	internalErrors "github.com/gcbaptista/go-site-index/internal/errors"
	"github.com/gcbaptista/go-site-index/model"
)

// BuildHandler starts an asynchronous rebuild and returns its job ID
func (api *API) BuildHandler(c *gin.Context) {
	jobID, active := api.jobs.CreateExclusiveJob(model.JobTypeBuild, api.target, map[string]string{
		"request_id": c.GetString(requestIDKey),
	})
	if active != nil {
		SendError(c, http.StatusConflict, ErrorCodeBuildInProgress,
			"Build job '"+active.ID+"' is already "+string(active.Status))
		return
	}

	err := api.jobs.ExecuteJob(jobID, func(ctx context.Context, job *model.Job) error {
		report, err := api.rebuild(ctx)
		if err != nil {
			return err
		}
		api.jobs.UpdateJobProgress(jobID, report.Indexed, report.AfterFilter, "index exported")
		api.jobs.SetMetadata(jobID, "discovered", strconv.Itoa(report.Discovered))
		api.jobs.SetMetadata(jobID, "indexed", strconv.Itoa(report.Indexed))
		api.jobs.SetMetadata(jobID, "skipped", strconv.Itoa(report.Skipped))
		api.jobs.SetMetadata(jobID, "duration", report.Duration.String())
		api.holder.Reset()
		return nil
	})
	if err != nil {
		SendJobExecutionError(c, "build", err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status":  "accepted",
		"message": "Index build started",
		"job_id":  jobID,
	})
}

// GetJobHandler handles requests to get job status by ID
func (api *API) GetJobHandler(c *gin.Context) {
	jobID := c.Param("jobId")

	job, err := api.jobs.GetJob(jobID)
	if err != nil {
		if errors.Is(err, internalErrors.ErrJobNotFound) {
			SendJobNotFoundError(c, jobID)
			return
		}
		SendInternalError(c, "get job", err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// ListJobsHandler lists jobs, newest first, optionally filtered by ?status=
func (api *API) ListJobsHandler(c *gin.Context) {
	var statusFilter *model.JobStatus
	if statusParam := c.Query("status"); statusParam != "" {
		status := model.JobStatus(statusParam)
		statusFilter = &status
	}

	jobList := api.jobs.ListJobs(statusFilter)
	c.JSON(http.StatusOK, gin.H{
		"jobs":  jobList,
		"total": len(jobList),
	})
}

// GetJobMetricsHandler handles requests to get job performance metrics
func (api *API) GetJobMetricsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"metrics":          api.jobs.GetMetrics(),
		"current_workload": api.jobs.GetCurrentWorkload(),
	})
}
