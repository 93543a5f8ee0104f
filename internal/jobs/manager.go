// Package jobs runs index rebuilds in the background and tracks their status.
package jobs

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gcbaptista/go-site-index/internal/errors"
	"github.com/gcbaptista/go-site-index/internal/logger"
	"github.com/gcbaptista/go-site-index/model"
)

// DefaultRetention is how long finished jobs are kept before cleanup.
const DefaultRetention = 24 * time.Hour

// JobFunc is the body of a job. It should return promptly once ctx is cancelled.
type JobFunc func(ctx context.Context, job *model.Job) error

// Manager handles background job execution and tracking
type Manager struct {
	mu      sync.RWMutex
	jobs    map[string]*model.Job
	workers chan struct{} // Limits concurrent jobs
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	metrics *JobMetrics
}

// NewManager creates a job manager that runs at most maxWorkers jobs at once
func NewManager(maxWorkers int) *Manager {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		jobs:    make(map[string]*model.Job),
		workers: make(chan struct{}, maxWorkers),
		ctx:     ctx,
		cancel:  cancel,
		metrics: NewJobMetrics(),
	}
}

// Start launches the periodic cleanup of finished jobs
func (m *Manager) Start() {
	logger.Debug("job manager started with %d max workers", cap(m.workers))
	m.wg.Add(1)
	go m.cleanupRoutine()
}

// Stop cancels running jobs and waits for them to return
func (m *Manager) Stop() {
	m.cancel()
	m.wg.Wait()
	logger.Debug("job manager stopped")
}

// CreateJob registers a pending job and returns its ID
func (m *Manager) CreateJob(jobType model.JobType, target string, metadata map[string]string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.createJobLocked(jobType, target, metadata)
}

// CreateExclusiveJob registers a pending job unless a job of the same type is pending or running.
// When one is, no job is created and a snapshot of the active job is returned instead.
func (m *Manager) CreateExclusiveJob(jobType model.JobType, target string, metadata map[string]string) (string, *model.Job) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if active := m.activeJobLocked(jobType); active != nil {
		return "", snapshot(active)
	}
	return m.createJobLocked(jobType, target, metadata), nil
}

func (m *Manager) createJobLocked(jobType model.JobType, target string, metadata map[string]string) string {
	job := &model.Job{
		ID:        uuid.New().String(),
		Type:      jobType,
		Status:    model.JobStatusPending,
		Target:    target,
		CreatedAt: time.Now(),
		Metadata:  metadata,
	}

	m.jobs[job.ID] = job
	m.metrics.RecordJobCreated(jobType)
	logger.Info("Created job %s (type: %s) for %s", job.ID, job.Type, job.Target)
	return job.ID
}

// GetJob returns a snapshot of the job with the given ID
func (m *Manager) GetJob(jobID string) (*model.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return nil, errors.NewJobNotFoundError(jobID)
	}
	return snapshot(job), nil
}

// ListJobs returns job snapshots, newest first, optionally filtered by status
func (m *Manager) ListJobs(status *model.JobStatus) []*model.Job {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*model.Job, 0, len(m.jobs))
	for _, job := range m.jobs {
		if status == nil || job.Status == *status {
			result = append(result, snapshot(job))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

// ActiveJob returns a pending or running job of the given type, if any
func (m *Manager) ActiveJob(jobType model.JobType) (*model.Job, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if job := m.activeJobLocked(jobType); job != nil {
		return snapshot(job), true
	}
	return nil, false
}

func (m *Manager) activeJobLocked(jobType model.JobType) *model.Job {
	for _, job := range m.jobs {
		if job.Type == jobType && !job.Finished() {
			return job
		}
	}
	return nil
}

// ExecuteJob runs jobFunc in a goroutine once a worker slot is free
func (m *Manager) ExecuteJob(jobID string, jobFunc JobFunc) error {
	m.mu.Lock()
	job, exists := m.jobs[jobID]
	if !exists {
		m.mu.Unlock()
		return errors.NewJobNotFoundError(jobID)
	}
	if job.Status != model.JobStatusPending {
		m.mu.Unlock()
		return fmt.Errorf("job with ID '%s' is not in pending status (current: %s)", jobID, job.Status)
	}
	m.mu.Unlock()

	if m.ctx.Err() != nil {
		m.updateJobStatus(jobID, model.JobStatusCancelled, "job manager shutting down")
		return fmt.Errorf("job manager is shutting down")
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		select {
		case m.workers <- struct{}{}:
		case <-m.ctx.Done():
			m.updateJobStatus(jobID, model.JobStatusCancelled, "job manager shutting down")
			return
		}
		defer func() { <-m.workers }()

		m.mu.Lock()
		now := time.Now()
		job.StartedAt = &now
		m.mu.Unlock()
		m.updateJobStatus(jobID, model.JobStatusRunning, "")

		startTime := time.Now()
		err := jobFunc(m.ctx, job)
		executionTime := time.Since(startTime)

		switch {
		case err != nil && m.ctx.Err() != nil:
			m.updateJobStatus(jobID, model.JobStatusCancelled, err.Error())
			logger.Warn("Job %s cancelled after %v", jobID, executionTime)
		case err != nil:
			m.metrics.RecordJobFailed(job.Type)
			m.updateJobStatus(jobID, model.JobStatusFailed, err.Error())
			logger.Error("Job %s failed after %v: %v", jobID, executionTime, err)
		default:
			m.metrics.RecordJobCompleted(job.Type, executionTime)
			m.updateJobStatus(jobID, model.JobStatusCompleted, "")
			logger.Info("Job %s completed successfully in %v", jobID, executionTime)
		}
	}()

	return nil
}

// UpdateJobProgress updates the progress of a running job
func (m *Manager) UpdateJobProgress(jobID string, current, total int, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return
	}
	if job.Progress == nil {
		job.Progress = &model.JobProgress{}
	}
	job.Progress.Current = current
	job.Progress.Total = total
	job.Progress.Message = message
}

// SetMetadata records a key on the job, e.g. build statistics
func (m *Manager) SetMetadata(jobID, key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return
	}
	if job.Metadata == nil {
		job.Metadata = make(map[string]string)
	}
	job.Metadata[key] = value
}

func (m *Manager) updateJobStatus(jobID string, status model.JobStatus, errorMsg string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return
	}

	oldStatus := job.Status
	job.Status = status
	if errorMsg != "" {
		job.Error = errorMsg
	}
	if job.Finished() {
		now := time.Now()
		job.CompletedAt = &now
	}

	m.metrics.RecordJobStatusChange(oldStatus, status)
}

func (m *Manager) cleanupRoutine() {
	defer m.wg.Done()
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.CleanupOldJobs(DefaultRetention)
		case <-m.ctx.Done():
			return
		}
	}
}

// CleanupOldJobs removes finished jobs that completed more than maxAge ago
func (m *Manager) CleanupOldJobs(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	cleaned := 0
	for jobID, job := range m.jobs {
		if job.CompletedAt != nil && job.CompletedAt.Before(cutoff) {
			delete(m.jobs, jobID)
			cleaned++
		}
	}

	if cleaned > 0 {
		logger.Debug("cleaned up %d old jobs", cleaned)
	}
	return cleaned
}

// GetMetrics returns current job performance metrics
func (m *Manager) GetMetrics() JobMetricsData {
	return m.metrics.GetMetrics()
}

// snapshot copies a job so callers never share state with the running goroutine.
func snapshot(job *model.Job) *model.Job {
	jobCopy := *job
	if job.Progress != nil {
		progressCopy := *job.Progress
		jobCopy.Progress = &progressCopy
	}
	if job.Metadata != nil {
		jobCopy.Metadata = make(map[string]string, len(job.Metadata))
		for k, v := range job.Metadata {
			jobCopy.Metadata[k] = v
		}
	}
	return &jobCopy
}

// GetCurrentWorkload returns the number of pending and running jobs
func (m *Manager) GetCurrentWorkload() int64 {
	return m.metrics.CurrentWorkload()
}
