// Package progress reconstructs where a job actually is in its workflow:
// planned stage quantities, completion thresholds and the per-stage
// timeline. Everything here is a pure function over the job record, the
// workflow definition and the append-only run/event logs.
package progress

import (
	"production-tracker/core/models"
	"production-tracker/core/packing"
	"production-tracker/core/uom"
)

// UnknownPairing records a unit pairing the conversion registry could not
// resolve; the quantity passed through unconverted.
type UnknownPairing struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// QuantityResolution is the planned quantity for a stage, in that stage's
// own output UOM, plus any unit pairings that were passed through
// unconverted on the way.
type QuantityResolution struct {
	Quantity        float64          `json:"quantity"`
	UnknownPairings []UnknownPairing `json:"unknown_pairings,omitempty"`
}

// ResolveStageQuantity computes the planned input/output quantity for the
// given stage. Stages with a predecessor derive it from the predecessor's
// actual output, converting units via the registry; the first stage derives
// it from the packing plan, the BOM or the job's planned output.
func ResolveStageQuantity(stageID string, job *models.Job, workflow *models.Workflow, runs []models.ProductionRun) QuantityResolution {
	prevID := predecessorOf(stageID, job.PlannedStageIDs)
	if prevID == "" {
		return QuantityResolution{Quantity: firstStageQuantity(stageID, job, workflow)}
	}

	previousOutput := sumStageOutput(prevID, runs)
	if previousOutput == 0 {
		// No work has arrived from upstream yet.
		return QuantityResolution{}
	}

	target := workflow.StageByID(stageID)
	prev := workflow.StageByID(prevID)
	if target == nil || prev == nil {
		return QuantityResolution{Quantity: previousOutput}
	}

	res := QuantityResolution{}
	numberUp := job.ProductionSpecs.NumberUp

	// Predecessor output UOM -> this stage's input UOM, then input -> output.
	qty, outcome := uom.Convert(previousOutput, prev.OutputUOM, target.InputUOM, numberUp)
	if outcome == uom.OutcomeUnknown {
		res.UnknownPairings = append(res.UnknownPairings, UnknownPairing{From: uom.Normalize(prev.OutputUOM), To: uom.Normalize(target.InputUOM)})
	}
	qty, outcome = uom.Convert(qty, target.InputUOM, target.OutputUOM, numberUp)
	if outcome == uom.OutcomeUnknown {
		res.UnknownPairings = append(res.UnknownPairings, UnknownPairing{From: uom.Normalize(target.InputUOM), To: uom.Normalize(target.OutputUOM)})
	}

	res.Quantity = qty
	return res
}

// firstStageQuantity derives the baseline planned quantity for a stage with
// no predecessor. Carton-producing stages take it from the packing plan;
// sheet-fed stages take it from the BOM sheet line, falling back to the
// job's first planned output and finally the raw job quantity.
func firstStageQuantity(stageID string, job *models.Job, workflow *models.Workflow) float64 {
	stage := workflow.StageByID(stageID)
	if stage != nil && uom.Normalize(stage.OutputUOM) == uom.Cartoon {
		return packing.PlanPacking(job.Quantity, job.Unit, job.Packaging).PlannedQtyByPack
	}

	for _, line := range job.BOM {
		if uom.IsSheetUnit(line.UOM) && line.QtyRequired > 0 {
			return line.QtyRequired
		}
	}

	if len(job.Output) > 0 && job.Output[0].QtyPlanned > 0 {
		return job.Output[0].QtyPlanned
	}

	if job.Quantity > 0 {
		return job.Quantity
	}
	return 0
}

// predecessorOf returns the stage immediately before stageID in the planned
// order, or "" when the stage is first or not planned at all.
func predecessorOf(stageID string, plannedStageIDs []string) string {
	for i, id := range plannedStageIDs {
		if id == stageID {
			if i == 0 {
				return ""
			}
			return plannedStageIDs[i-1]
		}
	}
	return ""
}

// sumStageOutput totals qtyGood across all runs of a stage. Runs with a
// negative quantity are ignored rather than allowed to reduce the total.
func sumStageOutput(stageID string, runs []models.ProductionRun) float64 {
	var total float64
	for _, run := range runs {
		if run.StageID == stageID && run.QtyGood > 0 {
			total += run.QtyGood
		}
	}
	return total
}
