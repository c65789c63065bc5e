package repository

import (
	"production-tracker/core/models"

	"github.com/google/uuid"
)

// WorkflowRepository handles database operations for workflow definitions
type WorkflowRepository struct {
	db *DB
}

// NewWorkflowRepository creates a new workflow repository
func NewWorkflowRepository(db *DB) *WorkflowRepository {
	return &WorkflowRepository{db: db}
}

// CreateWorkflow creates a workflow and its ordered stage definitions
func (r *WorkflowRepository) CreateWorkflow(workflow *models.Workflow) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	workflowID := uuid.New()
	if workflow.ID != "" {
		workflowID, err = uuid.Parse(workflow.ID)
		if err != nil {
			return err
		}
	}

	_, err = tx.Exec(
		`INSERT INTO workflows (id, name, created_at) VALUES ($1, $2, NOW())`,
		workflowID, workflow.Name,
	)
	if err != nil {
		return err
	}

	stageQuery := `
		INSERT INTO workflow_stages (workflow_id, stage_id, position, name, input_uom, output_uom)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for i, stage := range workflow.Stages {
		if _, err := tx.Exec(stageQuery, workflowID, stage.ID, i, stage.Name, stage.InputUOM, stage.OutputUOM); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	workflow.ID = workflowID.String()
	return nil
}

// GetWorkflow retrieves a workflow with its stages in planned order
func (r *WorkflowRepository) GetWorkflow(id string) (*models.Workflow, error) {
	var workflow models.Workflow
	err := r.db.QueryRow(
		`SELECT id, name FROM workflows WHERE id = $1`, id,
	).Scan(&workflow.ID, &workflow.Name)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(`
		SELECT stage_id, name, input_uom, output_uom
		FROM workflow_stages
		WHERE workflow_id = $1
		ORDER BY position ASC
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var stage models.Stage
		if err := rows.Scan(&stage.ID, &stage.Name, &stage.InputUOM, &stage.OutputUOM); err != nil {
			continue
		}
		workflow.Stages = append(workflow.Stages, stage)
	}

	return &workflow, nil
}
