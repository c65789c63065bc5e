package progress

import (
	"sort"
	"time"

	"production-tracker/core/models"
)

// StageDisplayStatus is the inferred per-stage status shown to callers
type StageDisplayStatus string

const (
	StageDone       StageDisplayStatus = "done"
	StageCurrent    StageDisplayStatus = "current"
	StageNotStarted StageDisplayStatus = "not_started"
)

// JobFinishedRowName labels the synthetic trailing row appended for
// completed jobs.
const JobFinishedRowName = "Job Finished"

// StageRow is one row of the reconstructed timeline
type StageRow struct {
	StageID    string             `json:"stage_id,omitempty"`
	StageName  string             `json:"stage_name"`
	StartedAt  *time.Time         `json:"started_at"`
	FinishedAt *time.Time         `json:"finished_at"`
	Status     StageDisplayStatus `json:"status"`
}

// timelineState accumulates start/finish times per stage while folding the
// event stream. It is internal to a single reconstruction pass; the engine
// itself retains nothing between calls.
type timelineState struct {
	startedAt  map[string]time.Time
	finishedAt map[string]time.Time
}

func newTimelineState() *timelineState {
	return &timelineState{
		startedAt:  make(map[string]time.Time),
		finishedAt: make(map[string]time.Time),
	}
}

// ReconstructTimeline merges the stage-change event history with the raw
// production runs to produce a start/finish timestamp and status per
// planned stage. History events are sparse hints; where they are silent the
// truth is recovered from the runs via the threshold-timestamp search.
func ReconstructTimeline(job *models.Job, workflow *models.Workflow, runs []models.ProductionRun, history []models.HistoryEvent) []StageRow {
	state := newTimelineState()

	// Fold over the stage changes in chronological order.
	for _, event := range sortedStageChanges(history) {
		if event.NewStageID != "" {
			// First occurrence wins: re-entering a stage later does
			// not overwrite when it originally started.
			if _, started := state.startedAt[event.NewStageID]; !started {
				state.startedAt[event.NewStageID] = event.At
			}
		}

		prevID := event.PreviousStageID
		if prevID == "" {
			continue
		}
		if _, finished := state.finishedAt[prevID]; finished {
			continue
		}

		finishedAt := event.PreviousStageThresholdMetAt
		if finishedAt == nil {
			planned := ResolveStageQuantity(prevID, job, workflow, runs)
			finishedAt = ThresholdMetAt(prevID, planned.Quantity, runs)
		}
		if finishedAt == nil {
			// Threshold never reached; leave unfinished and let the
			// post-pass (or a later event) settle it.
			continue
		}
		state.finishedAt[prevID] = clampFinish(*finishedAt, event.At, state.startedAt[prevID])
	}

	// A stage can meet its threshold in place, before any stage change
	// records the move. Evaluate every unfinished planned stage against
	// its own run history.
	for _, stageID := range job.PlannedStageIDs {
		if _, finished := state.finishedAt[stageID]; finished {
			continue
		}
		planned := ResolveStageQuantity(stageID, job, workflow, runs)
		metAt := ThresholdMetAt(stageID, planned.Quantity, runs)
		if metAt == nil {
			continue
		}
		if startedAt, started := state.startedAt[stageID]; started && metAt.Before(startedAt) {
			continue
		}
		state.finishedAt[stageID] = *metAt
	}

	// Final clamp pass: an out-of-order history can finish a stage before
	// a later event first marks it started. Finish never precedes start.
	for stageID, finishedAt := range state.finishedAt {
		if startedAt, started := state.startedAt[stageID]; started && finishedAt.Before(startedAt) {
			state.finishedAt[stageID] = startedAt
		}
	}

	jobDone := job.Status == models.JobStatusDone

	rows := make([]StageRow, 0, len(job.PlannedStageIDs)+1)
	for _, stageID := range job.PlannedStageIDs {
		row := StageRow{
			StageID:   stageID,
			StageName: stageName(stageID, workflow),
		}
		if at, ok := state.startedAt[stageID]; ok {
			started := at
			row.StartedAt = &started
		}
		if at, ok := state.finishedAt[stageID]; ok {
			finished := at
			row.FinishedAt = &finished
		}
		row.Status = displayStatus(stageID, row.FinishedAt != nil, job)
		rows = append(rows, row)
	}

	if jobDone {
		rows = append(rows, StageRow{
			StageName:  JobFinishedRowName,
			StartedAt:  job.CompletedAt,
			FinishedAt: job.CompletedAt,
			Status:     StageDone,
		})
	}

	return rows
}

// clampFinish enforces that a stage never finishes before it started. When
// the computed finish precedes the start, the stage-change event time (or
// the start itself, whichever is later) is used instead.
func clampFinish(finishedAt, eventAt time.Time, startedAt time.Time) time.Time {
	if startedAt.IsZero() || !finishedAt.Before(startedAt) {
		return finishedAt
	}
	if eventAt.After(startedAt) {
		return eventAt
	}
	return startedAt
}

func displayStatus(stageID string, finished bool, job *models.Job) StageDisplayStatus {
	if job.Status == models.JobStatusDone || finished {
		return StageDone
	}
	if stageID == job.CurrentStageID && job.Status != models.JobStatusDraft {
		return StageCurrent
	}
	return StageNotStarted
}

func stageName(stageID string, workflow *models.Workflow) string {
	if stage := workflow.StageByID(stageID); stage != nil && stage.Name != "" {
		return stage.Name
	}
	return stageID
}

// sortedStageChanges filters the history down to stage_change events and
// returns them ascending by timestamp without mutating the input.
func sortedStageChanges(history []models.HistoryEvent) []models.HistoryEvent {
	events := make([]models.HistoryEvent, 0, len(history))
	for _, event := range history {
		if event.Type == models.EventStageChange {
			events = append(events, event)
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].At.Before(events[j].At)
	})
	return events
}
