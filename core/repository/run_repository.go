package repository

import (
	"time"

	"production-tracker/core/models"

	"github.com/google/uuid"
)

// RunRepository handles database operations for the append-only production
// run log
type RunRepository struct {
	db *DB
}

// NewRunRepository creates a new run repository
func NewRunRepository(db *DB) *RunRepository {
	return &RunRepository{db: db}
}

// CreateRun appends a production run record
func (r *RunRepository) CreateRun(run *models.ProductionRun) error {
	runID := uuid.New()
	if run.At.IsZero() {
		run.At = time.Now()
	}

	query := `
		INSERT INTO production_runs (id, job_id, stage_id, qty_good, at, reported_by)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(query, runID, run.JobID, run.StageID, run.QtyGood, run.At, run.ReportedBy)
	if err != nil {
		return err
	}

	run.ID = runID.String()
	return nil
}

// GetJobRuns retrieves all runs for a job, ascending by timestamp
func (r *RunRepository) GetJobRuns(jobID string) ([]models.ProductionRun, error) {
	query := `
		SELECT id, job_id, stage_id, qty_good, at, reported_by
		FROM production_runs
		WHERE job_id = $1
		ORDER BY at ASC
	`

	rows, err := r.db.Query(query, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []models.ProductionRun
	for rows.Next() {
		var run models.ProductionRun
		err := rows.Scan(
			&run.ID,
			&run.JobID,
			&run.StageID,
			&run.QtyGood,
			&run.At,
			&run.ReportedBy,
		)
		if err != nil {
			continue
		}
		runs = append(runs, run)
	}

	return runs, nil
}
