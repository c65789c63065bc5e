package handlers

import (
	"encoding/json"
	"net/http"

	"production-tracker/core/models"
	"production-tracker/core/progress"
	"production-tracker/core/repository"
)

// DashboardHandler handles dashboard API requests
type DashboardHandler struct {
	jobRepo      *repository.JobRepository
	workflowRepo *repository.WorkflowRepository
	runRepo      *repository.RunRepository
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(
	jobRepo *repository.JobRepository,
	workflowRepo *repository.WorkflowRepository,
	runRepo *repository.RunRepository,
) *DashboardHandler {
	return &DashboardHandler{
		jobRepo:      jobRepo,
		workflowRepo: workflowRepo,
		runRepo:      runRepo,
	}
}

// GetSummary handles GET /v1/dashboard/summary. It reports job counts by
// status plus, for active jobs, how many have a current stage that already
// met its completion threshold (work done, job not yet advanced).
func (h *DashboardHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.jobRepo.ListJobs(nil, 1000)
	if err != nil {
		http.Error(w, "Failed to fetch jobs: "+err.Error(), http.StatusInternalServerError)
		return
	}

	byStatus := map[models.JobStatus]int{}
	for _, job := range jobs {
		byStatus[job.Status]++
	}

	stagesAwaitingAdvance := 0
	for _, listed := range jobs {
		if listed.Status != models.JobStatusActive || listed.CurrentStageID == "" {
			continue
		}
		job, err := h.jobRepo.GetJob(listed.ID)
		if err != nil {
			continue
		}
		workflow, err := h.workflowRepo.GetWorkflow(job.WorkflowID)
		if err != nil {
			continue
		}
		runs, err := h.runRepo.GetJobRuns(job.ID)
		if err != nil {
			continue
		}
		planned := progress.ResolveStageQuantity(job.CurrentStageID, job, workflow, runs)
		if progress.EvaluateThreshold(job.CurrentStageID, planned.Quantity, runs).Met {
			stagesAwaitingAdvance++
		}
	}

	response := map[string]interface{}{
		"jobs": map[string]interface{}{
			"draft":     byStatus[models.JobStatusDraft],
			"active":    byStatus[models.JobStatusActive],
			"on_hold":   byStatus[models.JobStatusOnHold],
			"done":      byStatus[models.JobStatusDone],
			"cancelled": byStatus[models.JobStatusCancelled],
			"total":     len(jobs),
		},
		"stages_awaiting_advance": stagesAwaitingAdvance,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
