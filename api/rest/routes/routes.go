package routes

import (
	"production-tracker/api/rest/handlers"
	"production-tracker/core/repository"

	"github.com/gorilla/mux"
)

// SetupRoutes configures all API routes
func SetupRoutes(r *mux.Router, db *repository.DB) {
	jobRepo := repository.NewJobRepository(db)
	workflowRepo := repository.NewWorkflowRepository(db)
	runRepo := repository.NewRunRepository(db)
	eventRepo := repository.NewEventRepository(db)

	jobHandler := handlers.NewJobHandler(jobRepo, workflowRepo, runRepo, eventRepo)
	progressHandler := handlers.NewProgressHandler(jobRepo, workflowRepo, runRepo, eventRepo)
	workflowHandler := handlers.NewWorkflowHandler(workflowRepo)
	dashboardHandler := handlers.NewDashboardHandler(jobRepo, workflowRepo, runRepo)

	api := r.PathPrefix("/v1").Subrouter()

	// Job endpoints
	api.HandleFunc("/jobs", jobHandler.SubmitJob).Methods("POST")
	api.HandleFunc("/jobs", jobHandler.ListJobs).Methods("GET")
	api.HandleFunc("/jobs/{id}", jobHandler.GetJob).Methods("GET")
	api.HandleFunc("/jobs/{id}/runs", jobHandler.ReportRun).Methods("POST")
	api.HandleFunc("/jobs/{id}/advance", jobHandler.AdvanceStage).Methods("POST")
	api.HandleFunc("/jobs/{id}/status", jobHandler.UpdateStatus).Methods("POST")
	api.HandleFunc("/jobs/{id}/events", jobHandler.GetJobEvents).Methods("GET")

	// Calculation engine endpoints
	api.HandleFunc("/jobs/{id}/packing", progressHandler.GetPackingPlan).Methods("GET")
	api.HandleFunc("/jobs/{id}/sheets", progressHandler.GetSheetPlan).Methods("GET")
	api.HandleFunc("/jobs/{id}/stages/{stageId}/threshold", progressHandler.GetStageThreshold).Methods("GET")
	api.HandleFunc("/jobs/{id}/timeline", progressHandler.GetTimeline).Methods("GET")

	// Workflow endpoints
	api.HandleFunc("/workflows", workflowHandler.CreateWorkflow).Methods("POST")
	api.HandleFunc("/workflows/{id}", workflowHandler.GetWorkflow).Methods("GET")

	// Dashboard endpoints
	api.HandleFunc("/dashboard/summary", dashboardHandler.GetSummary).Methods("GET")
}
