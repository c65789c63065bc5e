package progress

import (
	"math/rand"
	"testing"
	"time"

	"production-tracker/core/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stageChange(prev, next string, at time.Time) models.HistoryEvent {
	return models.HistoryEvent{
		JobID:           "job-1",
		Type:            models.EventStageChange,
		PreviousStageID: prev,
		NewStageID:      next,
		At:              at,
	}
}

// timelineJob plans print -> cut -> pack over a sheet workflow with a BOM
// line giving the first stage a planned quantity of 1000 (threshold 600).
func timelineJob() *models.Job {
	job := testJob()
	job.PlannedStageIDs = []string{"print", "cut", "pack"}
	job.CurrentStageID = "cut"
	job.BOM = []models.BOMLine{{MaterialCode: "SBS-230", UOM: "sheets", QtyRequired: 1000}}
	return job
}

func timelineWorkflow() *models.Workflow {
	return &models.Workflow{
		ID: "wf-1",
		Stages: []models.Stage{
			{ID: "print", Name: "Printing", InputUOM: "sheets", OutputUOM: "sheets"},
			{ID: "cut", Name: "Cutting", InputUOM: "sheets", OutputUOM: "sheets"},
			{ID: "pack", Name: "Packing", InputUOM: "sheets", OutputUOM: "sheets"},
		},
	}
}

func TestReconstructTimeline_FinishFromThresholdSearch(t *testing.T) {
	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	runs := []models.ProductionRun{
		{StageID: "print", QtyGood: 300, At: base},
		{StageID: "print", QtyGood: 350, At: base.Add(time.Hour)}, // Crosses 600 here
		{StageID: "cut", QtyGood: 200, At: base.Add(3 * time.Hour)},
	}
	history := []models.HistoryEvent{
		stageChange("print", "cut", base.Add(2*time.Hour)),
	}

	rows := ReconstructTimeline(timelineJob(), timelineWorkflow(), runs, history)

	require.Len(t, rows, 3)

	print := rows[0]
	assert.Equal(t, "Printing", print.StageName)
	assert.Nil(t, print.StartedAt) // The job began at print with no event
	require.NotNil(t, print.FinishedAt)
	assert.Equal(t, base.Add(time.Hour), *print.FinishedAt)
	assert.Equal(t, StageDone, print.Status)

	cut := rows[1]
	require.NotNil(t, cut.StartedAt)
	assert.Equal(t, base.Add(2*time.Hour), *cut.StartedAt)
	assert.Nil(t, cut.FinishedAt) // 200 of 650 planned: threshold not reached
	assert.Equal(t, StageCurrent, cut.Status)

	pack := rows[2]
	assert.Nil(t, pack.StartedAt)
	assert.Nil(t, pack.FinishedAt)
	assert.Equal(t, StageNotStarted, pack.Status)
}

func TestReconstructTimeline_HintBeatsSearch(t *testing.T) {
	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	hintAt := base.Add(30 * time.Minute)

	event := stageChange("print", "cut", base.Add(2*time.Hour))
	event.PreviousStageThresholdMetAt = &hintAt

	runs := []models.ProductionRun{
		{StageID: "print", QtyGood: 700, At: base.Add(time.Hour)}, // Search would say base+1h
	}

	rows := ReconstructTimeline(timelineJob(), timelineWorkflow(), runs, []models.HistoryEvent{event})

	require.NotNil(t, rows[0].FinishedAt)
	assert.Equal(t, hintAt, *rows[0].FinishedAt)
}

func TestReconstructTimeline_FirstOccurrenceWinsOnReentry(t *testing.T) {
	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	history := []models.HistoryEvent{
		stageChange("print", "cut", base),
		stageChange("cut", "print", base.Add(time.Hour)), // Sent back for rework
		stageChange("print", "cut", base.Add(2*time.Hour)),
	}

	rows := ReconstructTimeline(timelineJob(), timelineWorkflow(), nil, history)

	cut := rows[1]
	require.NotNil(t, cut.StartedAt)
	assert.Equal(t, base, *cut.StartedAt)
}

func TestReconstructTimeline_ClampFinishBeforeStart(t *testing.T) {
	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	// cut starts at base+2h, but the departing event carries a hint from
	// before the start. The clamp replaces it with the event time.
	enter := stageChange("print", "cut", base.Add(2*time.Hour))
	staleHint := base.Add(time.Hour)
	leave := stageChange("cut", "pack", base.Add(4*time.Hour))
	leave.PreviousStageThresholdMetAt = &staleHint

	rows := ReconstructTimeline(timelineJob(), timelineWorkflow(), nil, []models.HistoryEvent{enter, leave})

	cut := rows[1]
	require.NotNil(t, cut.StartedAt)
	require.NotNil(t, cut.FinishedAt)
	assert.Equal(t, base.Add(2*time.Hour), *cut.StartedAt)
	assert.Equal(t, base.Add(4*time.Hour), *cut.FinishedAt)
	assert.False(t, cut.FinishedAt.Before(*cut.StartedAt))
}

func TestReconstructTimeline_ThresholdMetInPlace(t *testing.T) {
	// No stage-change events at all: the stage finished where it stood.
	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	runs := []models.ProductionRun{
		{StageID: "print", QtyGood: 650, At: base},
	}

	job := timelineJob()
	job.CurrentStageID = "print"

	rows := ReconstructTimeline(job, timelineWorkflow(), runs, nil)

	print := rows[0]
	require.NotNil(t, print.FinishedAt)
	assert.Equal(t, base, *print.FinishedAt)
	assert.Equal(t, StageDone, print.Status)
}

func TestReconstructTimeline_UnsortedHistory(t *testing.T) {
	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	history := []models.HistoryEvent{
		stageChange("cut", "pack", base.Add(2*time.Hour)),
		stageChange("print", "cut", base), // Arrives out of order
	}

	rows := ReconstructTimeline(timelineJob(), timelineWorkflow(), nil, history)

	cut := rows[1]
	require.NotNil(t, cut.StartedAt)
	assert.Equal(t, base, *cut.StartedAt)
}

func TestReconstructTimeline_DoneJob(t *testing.T) {
	completed := time.Date(2026, 3, 9, 17, 0, 0, 0, time.UTC)
	job := timelineJob()
	job.Status = models.JobStatusDone
	job.CompletedAt = &completed

	rows := ReconstructTimeline(job, timelineWorkflow(), nil, nil)

	require.Len(t, rows, 4)
	for _, row := range rows {
		assert.Equal(t, StageDone, row.Status)
	}

	last := rows[3]
	assert.Equal(t, JobFinishedRowName, last.StageName)
	require.NotNil(t, last.StartedAt)
	require.NotNil(t, last.FinishedAt)
	assert.Equal(t, completed, *last.StartedAt)
	assert.Equal(t, completed, *last.FinishedAt)
}

func TestReconstructTimeline_DraftJobHasNoCurrentStage(t *testing.T) {
	job := timelineJob()
	job.Status = models.JobStatusDraft
	job.CurrentStageID = "print"

	rows := ReconstructTimeline(job, timelineWorkflow(), nil, nil)

	assert.Equal(t, StageNotStarted, rows[0].Status)
}

func TestReconstructTimeline_ClampInvariantRandomHistories(t *testing.T) {
	// For any history, a stage's finish never precedes its start.
	rng := rand.New(rand.NewSource(7))
	base := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	stages := []string{"print", "cut", "pack"}

	for trial := 0; trial < 200; trial++ {
		var history []models.HistoryEvent
		for i := 0; i < rng.Intn(8); i++ {
			event := stageChange(
				stages[rng.Intn(len(stages))],
				stages[rng.Intn(len(stages))],
				base.Add(time.Duration(rng.Intn(96))*time.Hour),
			)
			if rng.Intn(3) == 0 {
				hint := base.Add(time.Duration(rng.Intn(96)) * time.Hour)
				event.PreviousStageThresholdMetAt = &hint
			}
			history = append(history, event)
		}

		var runs []models.ProductionRun
		for i := 0; i < rng.Intn(10); i++ {
			runs = append(runs, models.ProductionRun{
				StageID: stages[rng.Intn(len(stages))],
				QtyGood: float64(rng.Intn(500)),
				At:      base.Add(time.Duration(rng.Intn(96)) * time.Hour),
			})
		}

		rows := ReconstructTimeline(timelineJob(), timelineWorkflow(), runs, history)
		for _, row := range rows {
			if row.StartedAt != nil && row.FinishedAt != nil {
				assert.False(t, row.FinishedAt.Before(*row.StartedAt),
					"trial %d: stage %s finished %v before start %v", trial, row.StageID, row.FinishedAt, row.StartedAt)
			}
		}
	}
}

func TestReconstructTimeline_IdempotentOverLongerLogs(t *testing.T) {
	// Re-invoking with the same inputs yields the same rows; appending a
	// run that doesn't cross any boundary changes nothing structural.
	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	runs := []models.ProductionRun{{StageID: "print", QtyGood: 650, At: base}}
	history := []models.HistoryEvent{stageChange("print", "cut", base.Add(time.Hour))}

	first := ReconstructTimeline(timelineJob(), timelineWorkflow(), runs, history)
	second := ReconstructTimeline(timelineJob(), timelineWorkflow(), runs, history)

	assert.Equal(t, first, second)
}
