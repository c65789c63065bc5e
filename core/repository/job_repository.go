package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"production-tracker/core/models"

	"github.com/google/uuid"
)

// JobRepository handles database operations for jobs
type JobRepository struct {
	db *DB
}

// NewJobRepository creates a new job repository
func NewJobRepository(db *DB) *JobRepository {
	return &JobRepository{db: db}
}

// CreateJob creates a new job in the database
func (r *JobRepository) CreateJob(job *models.Job) error {
	query := `
		INSERT INTO jobs (
			id, name, product_code, quantity, unit,
			pcs_per_box, boxes_per_pallet, planned_pallets,
			sheet_width_mm, sheet_length_mm, cut_width_mm, cut_length_mm,
			forme_width_mm, forme_length_mm, number_up, overs_pct, sheet_wastage,
			workflow_id, planned_stage_ids, current_stage_id,
			bom_json, output_json, status, spec_yaml, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26
		)
	`

	jobID := uuid.New()
	if job.ID != "" {
		var err error
		jobID, err = uuid.Parse(job.ID)
		if err != nil {
			return err
		}
	}

	stageIDs, err := json.Marshal(job.PlannedStageIDs)
	if err != nil {
		return err
	}
	bomJSON, err := json.Marshal(job.BOM)
	if err != nil {
		return err
	}
	outputJSON, err := json.Marshal(job.Output)
	if err != nil {
		return err
	}

	now := time.Now()
	_, err = r.db.Exec(query,
		jobID,
		job.Name,
		job.ProductCode,
		job.Quantity,
		job.Unit,
		job.Packaging.PcsPerBox,
		job.Packaging.BoxesPerPallet,
		job.Packaging.PlannedPallets,
		job.ProductionSpecs.SheetWidthMM,
		job.ProductionSpecs.SheetLengthMM,
		job.ProductionSpecs.CutWidthMM,
		job.ProductionSpecs.CutLengthMM,
		job.ProductionSpecs.FormeWidthMM,
		job.ProductionSpecs.FormeLengthMM,
		job.ProductionSpecs.NumberUp,
		job.ProductionSpecs.OversPct,
		job.ProductionSpecs.SheetWastage,
		job.WorkflowID,
		string(stageIDs),
		job.CurrentStageID,
		string(bomJSON),
		string(outputJSON),
		job.Status,
		job.SpecYAML,
		now,
		now,
	)
	if err != nil {
		return err
	}

	job.ID = jobID.String()
	job.CreatedAt = now
	job.UpdatedAt = now
	return nil
}

// GetJob retrieves a job by ID
func (r *JobRepository) GetJob(id string) (*models.Job, error) {
	query := `
		SELECT id, name, product_code, quantity, unit,
			pcs_per_box, boxes_per_pallet, planned_pallets,
			sheet_width_mm, sheet_length_mm, cut_width_mm, cut_length_mm,
			forme_width_mm, forme_length_mm, number_up, overs_pct, sheet_wastage,
			workflow_id, planned_stage_ids, current_stage_id,
			bom_json, output_json, status, spec_yaml,
			created_at, updated_at, completed_at
		FROM jobs
		WHERE id = $1
	`

	var job models.Job
	var stageIDs, bomJSON, outputJSON string
	var completedAt sql.NullTime

	err := r.db.QueryRow(query, id).Scan(
		&job.ID,
		&job.Name,
		&job.ProductCode,
		&job.Quantity,
		&job.Unit,
		&job.Packaging.PcsPerBox,
		&job.Packaging.BoxesPerPallet,
		&job.Packaging.PlannedPallets,
		&job.ProductionSpecs.SheetWidthMM,
		&job.ProductionSpecs.SheetLengthMM,
		&job.ProductionSpecs.CutWidthMM,
		&job.ProductionSpecs.CutLengthMM,
		&job.ProductionSpecs.FormeWidthMM,
		&job.ProductionSpecs.FormeLengthMM,
		&job.ProductionSpecs.NumberUp,
		&job.ProductionSpecs.OversPct,
		&job.ProductionSpecs.SheetWastage,
		&job.WorkflowID,
		&stageIDs,
		&job.CurrentStageID,
		&bomJSON,
		&outputJSON,
		&job.Status,
		&job.SpecYAML,
		&job.CreatedAt,
		&job.UpdatedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	if completedAt.Valid {
		job.CompletedAt = &completedAt.Time
	}
	if stageIDs != "" {
		json.Unmarshal([]byte(stageIDs), &job.PlannedStageIDs)
	}
	if bomJSON != "" {
		json.Unmarshal([]byte(bomJSON), &job.BOM)
	}
	if outputJSON != "" {
		json.Unmarshal([]byte(outputJSON), &job.Output)
	}

	return &job, nil
}

// ListJobs lists jobs with an optional status filter
func (r *JobRepository) ListJobs(status *models.JobStatus, limit int) ([]*models.Job, error) {
	query := `
		SELECT id, name, product_code, quantity, unit, current_stage_id, status, created_at
		FROM jobs
	`
	args := []interface{}{}
	argIndex := 1

	if status != nil {
		query += fmt.Sprintf(" WHERE status = $%d", argIndex)
		args = append(args, *status)
		argIndex++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", argIndex)
	args = append(args, limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*models.Job
	for rows.Next() {
		var job models.Job
		err := rows.Scan(
			&job.ID,
			&job.Name,
			&job.ProductCode,
			&job.Quantity,
			&job.Unit,
			&job.CurrentStageID,
			&job.Status,
			&job.CreatedAt,
		)
		if err != nil {
			continue
		}
		jobs = append(jobs, &job)
	}

	return jobs, nil
}

// UpdateJobStatus updates the job status; moving to done stamps completed_at
func (r *JobRepository) UpdateJobStatus(jobID string, status models.JobStatus) error {
	if status == models.JobStatusDone {
		query := `UPDATE jobs SET status = $1, completed_at = NOW(), updated_at = NOW() WHERE id = $2`
		_, err := r.db.Exec(query, status, jobID)
		return err
	}
	query := `UPDATE jobs SET status = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(query, status, jobID)
	return err
}

// UpdateCurrentStage moves the job to a new current stage
func (r *JobRepository) UpdateCurrentStage(jobID, stageID string) error {
	query := `UPDATE jobs SET current_stage_id = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(query, stageID, jobID)
	return err
}
