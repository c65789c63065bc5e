package models

import "time"

// ProductionRun is one reported run against a stage. Append-only; many runs
// may share a stage. QtyGood is already expressed in that stage's output UOM.
type ProductionRun struct {
	ID         string
	JobID      string
	StageID    string
	QtyGood    float64
	At         time.Time
	ReportedBy string
}

// HistoryEventType represents the type of job history event
type HistoryEventType string

const (
	EventStageChange  HistoryEventType = "stage_change"
	EventThresholdMet HistoryEventType = "threshold_met"
)

// HistoryEvent is one entry in a job's append-only event history, ordered
// by At. For stage_change events, PreviousStageThresholdMetAt is an optional
// hint recording when the departed stage's output crossed its completion
// threshold.
type HistoryEvent struct {
	ID                          string
	JobID                       string
	Type                        HistoryEventType
	PreviousStageID             string
	NewStageID                  string
	At                          time.Time
	PreviousStageThresholdMetAt *time.Time
}
