package handlers

import (
	"encoding/json"
	"net/http"

	"production-tracker/core/models"
	"production-tracker/core/repository"

	"github.com/gorilla/mux"
)

// WorkflowHandler handles workflow definition requests
type WorkflowHandler struct {
	workflowRepo *repository.WorkflowRepository
}

// NewWorkflowHandler creates a new workflow handler
func NewWorkflowHandler(workflowRepo *repository.WorkflowRepository) *WorkflowHandler {
	return &WorkflowHandler{workflowRepo: workflowRepo}
}

// CreateWorkflowRequest represents a workflow definition submission
type CreateWorkflowRequest struct {
	Name   string `json:"name"`
	Stages []struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		InputUOM  string `json:"input_uom"`
		OutputUOM string `json:"output_uom"`
	} `json:"stages"`
}

// CreateWorkflow handles POST /v1/workflows
func (h *WorkflowHandler) CreateWorkflow(w http.ResponseWriter, r *http.Request) {
	var req CreateWorkflowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Stages) == 0 {
		http.Error(w, "Workflow needs at least one stage", http.StatusBadRequest)
		return
	}

	workflow := &models.Workflow{Name: req.Name}
	seen := map[string]bool{}
	for _, s := range req.Stages {
		if s.ID == "" || seen[s.ID] {
			http.Error(w, "Stage IDs must be unique and non-empty", http.StatusBadRequest)
			return
		}
		seen[s.ID] = true
		workflow.Stages = append(workflow.Stages, models.Stage{
			ID:        s.ID,
			Name:      s.Name,
			InputUOM:  s.InputUOM,
			OutputUOM: s.OutputUOM,
		})
	}

	if err := h.workflowRepo.CreateWorkflow(workflow); err != nil {
		http.Error(w, "Failed to create workflow: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(workflow)
}

// GetWorkflow handles GET /v1/workflows/{id}
func (h *WorkflowHandler) GetWorkflow(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	workflow, err := h.workflowRepo.GetWorkflow(vars["id"])
	if err != nil {
		http.Error(w, "Workflow not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(workflow)
}
