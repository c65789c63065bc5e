package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"production-tracker/core/models"
	"production-tracker/core/progress"
	"production-tracker/core/repository"
	"production-tracker/core/spec"

	"github.com/gorilla/mux"
)

// JobHandler handles job-related HTTP requests
type JobHandler struct {
	jobRepo      *repository.JobRepository
	workflowRepo *repository.WorkflowRepository
	runRepo      *repository.RunRepository
	eventRepo    *repository.EventRepository
}

// NewJobHandler creates a new job handler
func NewJobHandler(
	jobRepo *repository.JobRepository,
	workflowRepo *repository.WorkflowRepository,
	runRepo *repository.RunRepository,
	eventRepo *repository.EventRepository,
) *JobHandler {
	return &JobHandler{
		jobRepo:      jobRepo,
		workflowRepo: workflowRepo,
		runRepo:      runRepo,
		eventRepo:    eventRepo,
	}
}

// SubmitJobRequest represents the request to submit a job
type SubmitJobRequest struct {
	Name     string `json:"name"`
	SpecYAML string `json:"spec_yaml"`
}

// SubmitJobResponse represents the response after submitting a job
type SubmitJobResponse struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// SubmitJob handles POST /v1/jobs
func (h *JobHandler) SubmitJob(w http.ResponseWriter, r *http.Request) {
	var req SubmitJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	job, err := spec.ParseJobSpec(req.SpecYAML)
	if err != nil {
		http.Error(w, "Invalid job spec: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Name != "" {
		job.Name = req.Name
	}

	if err := h.jobRepo.CreateJob(job); err != nil {
		http.Error(w, "Failed to create job: "+err.Error(), http.StatusInternalServerError)
		return
	}

	resp := SubmitJobResponse{
		ID:        job.ID,
		Status:    string(job.Status),
		CreatedAt: job.CreatedAt,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)
}

// GetJob handles GET /v1/jobs/{id}
func (h *JobHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	jobID := vars["id"]

	job, err := h.jobRepo.GetJob(jobID)
	if err != nil {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}

	response := map[string]interface{}{
		"id":            job.ID,
		"name":          job.Name,
		"product_code":  job.ProductCode,
		"quantity":      job.Quantity,
		"unit":          job.Unit,
		"status":        job.Status,
		"workflow_id":   job.WorkflowID,
		"stages":        job.PlannedStageIDs,
		"current_stage": job.CurrentStageID,
		"bom":           job.BOM,
		"output":        job.Output,
		"timestamps": map[string]interface{}{
			"created_at":   job.CreatedAt,
			"updated_at":   job.UpdatedAt,
			"completed_at": job.CompletedAt,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// ListJobs handles GET /v1/jobs
func (h *JobHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	statusParam := r.URL.Query().Get("status")
	limit := 50
	if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
		fmt.Sscanf(limitParam, "%d", &limit)
	}

	var status *models.JobStatus
	if statusParam != "" {
		s := models.JobStatus(statusParam)
		status = &s
	}

	jobs, err := h.jobRepo.ListJobs(status, limit)
	if err != nil {
		http.Error(w, "Failed to list jobs: "+err.Error(), http.StatusInternalServerError)
		return
	}

	items := make([]map[string]interface{}, len(jobs))
	for i, job := range jobs {
		items[i] = map[string]interface{}{
			"id":            job.ID,
			"name":          job.Name,
			"product_code":  job.ProductCode,
			"quantity":      job.Quantity,
			"unit":          job.Unit,
			"current_stage": job.CurrentStageID,
			"status":        job.Status,
			"created_at":    job.CreatedAt,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"items": items})
}

// ReportRunRequest represents a reported production run
type ReportRunRequest struct {
	StageID    string  `json:"stage_id"`
	QtyGood    float64 `json:"qty_good"`
	At         *string `json:"at,omitempty"` // RFC3339; defaults to now
	ReportedBy string  `json:"reported_by,omitempty"`
}

// ReportRun handles POST /v1/jobs/{id}/runs
func (h *JobHandler) ReportRun(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	jobID := vars["id"]

	var req ReportRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.QtyGood < 0 {
		http.Error(w, "qty_good must not be negative", http.StatusBadRequest)
		return
	}

	job, err := h.jobRepo.GetJob(jobID)
	if err != nil {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}
	if !containsStage(job.PlannedStageIDs, req.StageID) {
		http.Error(w, "Stage is not planned for this job", http.StatusBadRequest)
		return
	}

	run := &models.ProductionRun{
		JobID:      jobID,
		StageID:    req.StageID,
		QtyGood:    req.QtyGood,
		ReportedBy: req.ReportedBy,
	}
	if req.At != nil {
		at, err := time.Parse(time.RFC3339, *req.At)
		if err != nil {
			http.Error(w, "Invalid at timestamp", http.StatusBadRequest)
			return
		}
		run.At = at
	}

	if err := h.runRepo.CreateRun(run); err != nil {
		http.Error(w, "Failed to record run: "+err.Error(), http.StatusInternalServerError)
		return
	}

	// Re-evaluate the stage so the caller sees where it now stands.
	workflow, err := h.workflowRepo.GetWorkflow(job.WorkflowID)
	if err != nil {
		http.Error(w, "Failed to fetch workflow: "+err.Error(), http.StatusInternalServerError)
		return
	}
	runs, err := h.runRepo.GetJobRuns(jobID)
	if err != nil {
		http.Error(w, "Failed to fetch runs: "+err.Error(), http.StatusInternalServerError)
		return
	}

	planned := progress.ResolveStageQuantity(req.StageID, job, workflow, runs)
	threshold := progress.EvaluateThreshold(req.StageID, planned.Quantity, runs)

	response := map[string]interface{}{
		"run_id":     run.ID,
		"at":         run.At,
		"resolution": planned,
		"threshold":  threshold,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(response)
}

// AdvanceStageRequest represents a stage change
type AdvanceStageRequest struct {
	ToStageID string  `json:"to_stage_id"`
	At        *string `json:"at,omitempty"` // RFC3339; defaults to now
}

// AdvanceStage handles POST /v1/jobs/{id}/advance. It records a
// stage_change history event carrying a threshold-met hint for the departed
// stage when one can be determined, then moves the job forward.
func (h *JobHandler) AdvanceStage(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	jobID := vars["id"]

	var req AdvanceStageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	job, err := h.jobRepo.GetJob(jobID)
	if err != nil {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}
	if !containsStage(job.PlannedStageIDs, req.ToStageID) {
		http.Error(w, "Stage is not planned for this job", http.StatusBadRequest)
		return
	}
	if req.ToStageID == job.CurrentStageID {
		http.Error(w, "Job is already at that stage", http.StatusBadRequest)
		return
	}

	at := time.Now()
	if req.At != nil {
		at, err = time.Parse(time.RFC3339, *req.At)
		if err != nil {
			http.Error(w, "Invalid at timestamp", http.StatusBadRequest)
			return
		}
	}

	hint, err := h.thresholdHint(job)
	if err != nil {
		http.Error(w, "Failed to evaluate departing stage: "+err.Error(), http.StatusInternalServerError)
		return
	}

	event := &models.HistoryEvent{
		JobID:                       jobID,
		Type:                        models.EventStageChange,
		PreviousStageID:             job.CurrentStageID,
		NewStageID:                  req.ToStageID,
		At:                          at,
		PreviousStageThresholdMetAt: hint,
	}
	if err := h.eventRepo.CreateEvent(event); err != nil {
		http.Error(w, "Failed to record stage change: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if err := h.jobRepo.UpdateCurrentStage(jobID, req.ToStageID); err != nil {
		http.Error(w, "Failed to update job: "+err.Error(), http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"previous_stage":                  event.PreviousStageID,
		"current_stage":                   event.NewStageID,
		"at":                              event.At,
		"previous_stage_threshold_met_at": event.PreviousStageThresholdMetAt,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// thresholdHint finds when the job's current stage crossed its completion
// threshold: a recorded hint event wins, otherwise the run log is searched.
// Nil means the threshold was never reached; the stage change is still
// allowed.
func (h *JobHandler) thresholdHint(job *models.Job) (*time.Time, error) {
	if job.CurrentStageID == "" {
		return nil, nil
	}

	recorded, err := h.eventRepo.LatestThresholdMet(job.ID, job.CurrentStageID)
	if err != nil {
		return nil, err
	}
	if recorded != nil {
		return recorded, nil
	}

	workflow, err := h.workflowRepo.GetWorkflow(job.WorkflowID)
	if err != nil {
		return nil, err
	}
	runs, err := h.runRepo.GetJobRuns(job.ID)
	if err != nil {
		return nil, err
	}

	planned := progress.ResolveStageQuantity(job.CurrentStageID, job, workflow, runs)
	return progress.ThresholdMetAt(job.CurrentStageID, planned.Quantity, runs), nil
}

// UpdateStatusRequest represents a job status change
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles POST /v1/jobs/{id}/status
func (h *JobHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	jobID := vars["id"]

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	status := models.JobStatus(req.Status)
	switch status {
	case models.JobStatusDraft, models.JobStatusActive, models.JobStatusOnHold,
		models.JobStatusDone, models.JobStatusCancelled:
	default:
		http.Error(w, "Unknown job status", http.StatusBadRequest)
		return
	}

	if _, err := h.jobRepo.GetJob(jobID); err != nil {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}
	if err := h.jobRepo.UpdateJobStatus(jobID, status); err != nil {
		http.Error(w, "Failed to update status: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"id": jobID, "status": status})
}

// GetJobEvents handles GET /v1/jobs/{id}/events
func (h *JobHandler) GetJobEvents(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	jobID := vars["id"]

	events, err := h.eventRepo.GetJobEvents(jobID)
	if err != nil {
		http.Error(w, "Failed to fetch events: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"items": events})
}

func containsStage(stages []string, id string) bool {
	for _, s := range stages {
		if s == id {
			return true
		}
	}
	return false
}
