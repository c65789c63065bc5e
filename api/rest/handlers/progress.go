package handlers

import (
	"encoding/json"
	"net/http"

	"production-tracker/core/models"
	"production-tracker/core/packing"
	"production-tracker/core/progress"
	"production-tracker/core/repository"
	"production-tracker/core/sheetcalc"

	"github.com/gorilla/mux"
)

// ProgressHandler exposes the calculation engine over HTTP: packing plans,
// sheet layout plans, stage thresholds and the reconstructed timeline.
type ProgressHandler struct {
	jobRepo      *repository.JobRepository
	workflowRepo *repository.WorkflowRepository
	runRepo      *repository.RunRepository
	eventRepo    *repository.EventRepository
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(
	jobRepo *repository.JobRepository,
	workflowRepo *repository.WorkflowRepository,
	runRepo *repository.RunRepository,
	eventRepo *repository.EventRepository,
) *ProgressHandler {
	return &ProgressHandler{
		jobRepo:      jobRepo,
		workflowRepo: workflowRepo,
		runRepo:      runRepo,
		eventRepo:    eventRepo,
	}
}

// GetPackingPlan handles GET /v1/jobs/{id}/packing
func (h *ProgressHandler) GetPackingPlan(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	job, err := h.jobRepo.GetJob(vars["id"])
	if err != nil {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}

	plan := packing.PlanPacking(job.Quantity, job.Unit, job.Packaging)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(plan)
}

// GetSheetPlan handles GET /v1/jobs/{id}/sheets
func (h *ProgressHandler) GetSheetPlan(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	job, err := h.jobRepo.GetJob(vars["id"])
	if err != nil {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}

	plan := sheetcalc.PlanSheetLayout(job.ProductionSpecs, job.Quantity, job.Unit, job.Packaging)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(plan)
}

// GetStageThreshold handles GET /v1/jobs/{id}/stages/{stageId}/threshold
func (h *ProgressHandler) GetStageThreshold(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	stageID := vars["stageId"]

	job, workflow, runs, _, err := h.loadProgressInputs(vars["id"], false)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	planned := progress.ResolveStageQuantity(stageID, job, workflow, runs)
	threshold := progress.EvaluateThreshold(stageID, planned.Quantity, runs)
	metAt := progress.ThresholdMetAt(stageID, planned.Quantity, runs)

	response := map[string]interface{}{
		"stage_id":   stageID,
		"resolution": planned,
		"threshold":  threshold,
		"met_at":     metAt,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// GetTimeline handles GET /v1/jobs/{id}/timeline
func (h *ProgressHandler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	job, workflow, runs, history, err := h.loadProgressInputs(vars["id"], true)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	rows := progress.ReconstructTimeline(job, workflow, runs, history)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"items": rows})
}

// loadProgressInputs fetches the immutable snapshot the engine computes
// over: the job record, workflow definition, run log and (optionally) the
// event history.
func (h *ProgressHandler) loadProgressInputs(jobID string, withHistory bool) (*models.Job, *models.Workflow, []models.ProductionRun, []models.HistoryEvent, error) {
	job, err := h.jobRepo.GetJob(jobID)
	if err != nil {
		return nil, nil, nil, nil, errNotFound("job")
	}
	workflow, err := h.workflowRepo.GetWorkflow(job.WorkflowID)
	if err != nil {
		return nil, nil, nil, nil, errNotFound("workflow")
	}
	runs, err := h.runRepo.GetJobRuns(jobID)
	if err != nil {
		return nil, nil, nil, nil, errNotFound("production runs")
	}

	var history []models.HistoryEvent
	if withHistory {
		history, err = h.eventRepo.GetJobEvents(jobID)
		if err != nil {
			return nil, nil, nil, nil, errNotFound("job history")
		}
	}

	return job, workflow, runs, history, nil
}

type errNotFound string

func (e errNotFound) Error() string { return string(e) + " not found" }
