package progress

import (
	"sort"
	"time"

	"production-tracker/core/models"
)

// Fixed tolerance band reflecting expected scrap on press. Output within
// [planned-lower, planned+upper] counts as effectively complete.
const (
	WastageThresholdLower = 400
	WastageThresholdUpper = 500
)

// ThresholdResult is the outcome of a completion-threshold check
type ThresholdResult struct {
	Met            bool    `json:"met"`
	TotalProduced  float64 `json:"total_produced"`
	PlannedQty     float64 `json:"planned_qty"`
	Threshold      float64 `json:"threshold"`       // Lower bound: max(0, planned - 400)
	ThresholdUpper float64 `json:"threshold_upper"` // Upper bound: planned + 500
}

// EvaluateThreshold determines whether a stage's cumulative actual output
// falls within the completion tolerance window around its planned quantity.
// A stage with zero planned quantity is never met: there is no demand
// signal yet. Being met does not require the job to have advanced past the
// stage.
func EvaluateThreshold(stageID string, plannedQty float64, runs []models.ProductionRun) ThresholdResult {
	res := ThresholdResult{
		PlannedQty:     plannedQty,
		TotalProduced:  sumStageOutput(stageID, runs),
		Threshold:      lowerBound(plannedQty),
		ThresholdUpper: plannedQty + WastageThresholdUpper,
	}
	res.Met = plannedQty > 0 && res.TotalProduced >= res.Threshold && res.TotalProduced <= res.ThresholdUpper
	return res
}

// ThresholdMetAt walks the stage's runs chronologically, accumulating good
// output, and returns the timestamp of the run at which the cumulative
// total first reached the completion threshold. Returns nil if the
// threshold was never reached or there is no planned quantity.
func ThresholdMetAt(stageID string, plannedQty float64, runs []models.ProductionRun) *time.Time {
	if plannedQty <= 0 {
		return nil
	}

	stageRuns := make([]models.ProductionRun, 0, len(runs))
	for _, run := range runs {
		if run.StageID == stageID {
			stageRuns = append(stageRuns, run)
		}
	}
	sort.SliceStable(stageRuns, func(i, j int) bool {
		return stageRuns[i].At.Before(stageRuns[j].At)
	})

	threshold := lowerBound(plannedQty)
	var cumulative float64
	for _, run := range stageRuns {
		if run.QtyGood > 0 {
			cumulative += run.QtyGood
		}
		if cumulative >= threshold {
			at := run.At
			return &at
		}
	}
	return nil
}

func lowerBound(plannedQty float64) float64 {
	lower := plannedQty - WastageThresholdLower
	if lower < 0 {
		return 0
	}
	return lower
}
