package repository

import (
	"database/sql"
	"time"

	"production-tracker/core/models"

	"github.com/google/uuid"
)

// EventRepository handles database operations for the append-only job
// history (stage changes and threshold-met hints)
type EventRepository struct {
	db *DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *DB) *EventRepository {
	return &EventRepository{db: db}
}

// CreateEvent appends a history event
func (r *EventRepository) CreateEvent(event *models.HistoryEvent) error {
	eventID := uuid.New()
	if event.At.IsZero() {
		event.At = time.Now()
	}

	query := `
		INSERT INTO job_history (id, job_id, type, previous_stage_id, new_stage_id, at, previous_stage_threshold_met_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(query,
		eventID,
		event.JobID,
		event.Type,
		event.PreviousStageID,
		event.NewStageID,
		event.At,
		event.PreviousStageThresholdMetAt,
	)
	if err != nil {
		return err
	}

	event.ID = eventID.String()
	return nil
}

// GetJobEvents retrieves a job's history, ascending by timestamp
func (r *EventRepository) GetJobEvents(jobID string) ([]models.HistoryEvent, error) {
	query := `
		SELECT id, job_id, type, previous_stage_id, new_stage_id, at, previous_stage_threshold_met_at
		FROM job_history
		WHERE job_id = $1
		ORDER BY at ASC
	`

	rows, err := r.db.Query(query, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.HistoryEvent
	for rows.Next() {
		var event models.HistoryEvent
		var thresholdMetAt sql.NullTime

		err := rows.Scan(
			&event.ID,
			&event.JobID,
			&event.Type,
			&event.PreviousStageID,
			&event.NewStageID,
			&event.At,
			&thresholdMetAt,
		)
		if err != nil {
			continue
		}

		if thresholdMetAt.Valid {
			event.PreviousStageThresholdMetAt = &thresholdMetAt.Time
		}

		events = append(events, event)
	}

	return events, nil
}

// LatestThresholdMet returns when the given stage's threshold-met hint was
// last recorded, or nil if none exists
func (r *EventRepository) LatestThresholdMet(jobID, stageID string) (*time.Time, error) {
	query := `
		SELECT at
		FROM job_history
		WHERE job_id = $1 AND type = $2 AND new_stage_id = $3
		ORDER BY at DESC
		LIMIT 1
	`

	var at time.Time
	err := r.db.QueryRow(query, jobID, models.EventThresholdMet, stageID).Scan(&at)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &at, nil
}
