package handler

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yumyai/tfsite/pkg/model"
)

// AnalysisJobStatus represents the lifecycle of a batch analysis request.
type AnalysisJobStatus string

const (
	AnalysisJobQueued    AnalysisJobStatus = "queued"
	AnalysisJobRunning   AnalysisJobStatus = "running"
	AnalysisJobCompleted AnalysisJobStatus = "completed"
	AnalysisJobFailed    AnalysisJobStatus = "failed"
)

// AnalysisJob keeps the batch state while the worker pool runs.
type AnalysisJob struct {
	ID        string             `json:"id"`
	Status    AnalysisJobStatus  `json:"status"`
	Result    *model.BatchResult `json:"result,omitempty"`
	Error     string             `json:"error,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// AnalysisJobManager stores job states indexed by job ID.
type AnalysisJobManager struct {
	mu   sync.RWMutex
	jobs map[string]*AnalysisJob
}

// NewAnalysisJobManager constructs a job manager with no jobs.
func NewAnalysisJobManager() *AnalysisJobManager {
	return &AnalysisJobManager{
		jobs: make(map[string]*AnalysisJob),
	}
}

// NewJob registers a queued batch job.
func (m *AnalysisJobManager) NewJob() *AnalysisJob {
	job := &AnalysisJob{
		ID:        uuid.New().String(),
		Status:    AnalysisJobQueued,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	m.mu.Lock()
	m.jobs[job.ID] = job
	m.mu.Unlock()
	return job
}

// SetRunning marks the job as running.
func (m *AnalysisJobManager) SetRunning(jobID string) {
	m.updateJob(jobID, func(job *AnalysisJob) {
		job.Status = AnalysisJobRunning
	})
}

// CompleteJob stores the batch result and marks the job complete.
func (m *AnalysisJobManager) CompleteJob(jobID string, result *model.BatchResult) {
	m.updateJob(jobID, func(job *AnalysisJob) {
		job.Status = AnalysisJobCompleted
		job.Result = result
	})
}

// FailJob records a failure and attaches a user-facing error message.
func (m *AnalysisJobManager) FailJob(jobID string, err error) {
	m.updateJob(jobID, func(job *AnalysisJob) {
		job.Status = AnalysisJobFailed
		job.Error = err.Error()
	})
}

// GetJob fetches a job by ID.
func (m *AnalysisJobManager) GetJob(jobID string) (*AnalysisJob, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	job, ok := m.jobs[jobID]
	return job, ok
}

func (m *AnalysisJobManager) updateJob(jobID string, update func(job *AnalysisJob)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[jobID]
	if !ok {
		return
	}

	update(job)
	job.UpdatedAt = time.Now()
}
