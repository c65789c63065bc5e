package monitoring

import (
	"context"
	"log"
	"sync"
	"time"

	"production-tracker/core/models"
	"production-tracker/core/progress"
	"production-tracker/core/repository"
)

// ProgressMonitor periodically re-evaluates the completion threshold for
// every active job's current stage. The first time a stage trips its
// threshold, a threshold_met hint event is appended to the job history so
// later stage changes can carry an accurate finish timestamp even when the
// operator advances the job long after the press stopped.
type ProgressMonitor struct {
	jobRepo      *repository.JobRepository
	workflowRepo *repository.WorkflowRepository
	runRepo      *repository.RunRepository
	eventRepo    *repository.EventRepository

	interval time.Duration

	mu       sync.Mutex
	recorded map[string]bool // jobID/stageID pairs already hinted this process
}

// NewProgressMonitor creates a new progress monitor
func NewProgressMonitor(
	jobRepo *repository.JobRepository,
	workflowRepo *repository.WorkflowRepository,
	runRepo *repository.RunRepository,
	eventRepo *repository.EventRepository,
	interval time.Duration,
) *ProgressMonitor {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &ProgressMonitor{
		jobRepo:      jobRepo,
		workflowRepo: workflowRepo,
		runRepo:      runRepo,
		eventRepo:    eventRepo,
		interval:     interval,
		recorded:     make(map[string]bool),
	}
}

// Start starts the monitoring loop
func (pm *ProgressMonitor) Start(ctx context.Context) {
	ticker := time.NewTicker(pm.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pm.checkActiveJobs()
		}
	}
}

// checkActiveJobs evaluates the current stage threshold for all active jobs
func (pm *ProgressMonitor) checkActiveJobs() {
	status := models.JobStatusActive
	jobs, err := pm.jobRepo.ListJobs(&status, 100)
	if err != nil {
		log.Printf("Failed to list active jobs: %v", err)
		return
	}

	for _, listed := range jobs {
		// The list query only carries summary columns; load the full record.
		job, err := pm.jobRepo.GetJob(listed.ID)
		if err != nil {
			log.Printf("Failed to fetch job %s: %v", listed.ID, err)
			continue
		}
		pm.checkJob(job)
	}
}

// checkJob records a threshold-met hint for the job's current stage if its
// output has crossed the completion threshold and no hint exists yet
func (pm *ProgressMonitor) checkJob(job *models.Job) {
	if job.CurrentStageID == "" {
		return
	}

	key := job.ID + "/" + job.CurrentStageID
	pm.mu.Lock()
	seen := pm.recorded[key]
	pm.mu.Unlock()
	if seen {
		return
	}

	existing, err := pm.eventRepo.LatestThresholdMet(job.ID, job.CurrentStageID)
	if err != nil {
		log.Printf("Failed to check threshold hints for job %s: %v", job.ID, err)
		return
	}
	if existing != nil {
		pm.markRecorded(key)
		return
	}

	workflow, err := pm.workflowRepo.GetWorkflow(job.WorkflowID)
	if err != nil {
		log.Printf("Failed to fetch workflow %s: %v", job.WorkflowID, err)
		return
	}
	runs, err := pm.runRepo.GetJobRuns(job.ID)
	if err != nil {
		log.Printf("Failed to fetch runs for job %s: %v", job.ID, err)
		return
	}

	planned := progress.ResolveStageQuantity(job.CurrentStageID, job, workflow, runs)
	metAt := progress.ThresholdMetAt(job.CurrentStageID, planned.Quantity, runs)
	if metAt == nil {
		return
	}

	event := &models.HistoryEvent{
		JobID:      job.ID,
		Type:       models.EventThresholdMet,
		NewStageID: job.CurrentStageID,
		At:         *metAt,
	}
	if err := pm.eventRepo.CreateEvent(event); err != nil {
		log.Printf("Failed to record threshold hint for job %s stage %s: %v", job.ID, job.CurrentStageID, err)
		return
	}

	log.Printf("Stage %s of job %s met its completion threshold at %s (planned %.0f, produced %.0f)",
		job.CurrentStageID, job.ID, metAt.Format(time.RFC3339), planned.Quantity,
		progress.EvaluateThreshold(job.CurrentStageID, planned.Quantity, runs).TotalProduced)
	pm.markRecorded(key)
}

func (pm *ProgressMonitor) markRecorded(key string) {
	pm.mu.Lock()
	pm.recorded[key] = true
	pm.mu.Unlock()
}
