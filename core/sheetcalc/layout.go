// Package sheetcalc converts product, sheet and cut dimensions plus a
// requested quantity into required sheet counts with overage and wastage
// allowances. Pure calculation, no I/O.
package sheetcalc

import (
	"math"

	"production-tracker/core/models"
	"production-tracker/core/packing"
)

const (
	// productionBufferPct is the fixed production buffer applied to the
	// base sheet requirement.
	productionBufferPct = 5.0
	// makereadySheets is the fixed press makeready allowance added on top
	// of the buffered requirement.
	makereadySheets = 400
)

// Plan holds the results of a sheet layout calculation. Nil pointer fields
// mean "cannot be determined yet" (missing dimensions or number-up), never
// a silent zero.
type Plan struct {
	// TheoreticalNumberUp is derived from sheet/cut dimensions; a
	// disagreement with the entered number-up is a warning, not an error.
	TheoreticalNumberUp *int `json:"theoretical_number_up"`
	NumberUpMismatch    bool `json:"number_up_mismatch"`

	// PieceCount is the requested quantity converted to pieces.
	PieceCount float64 `json:"piece_count"`

	// The sheet chain: base requirement, then the 5% buffer plus
	// 400-sheet makeready floor, then percentage overs, then additive
	// wastage sheets.
	BaseRequiredSheets      *int `json:"base_required_sheets"`
	SheetsNeeded            *int `json:"sheets_needed"`
	SheetsNeededWithOvers   *int `json:"sheets_needed_with_overs"`
	SheetsNeededWithWastage *int `json:"sheets_needed_with_wastage"`
}

// PlanSheetLayout computes the theoretical layout and required sheet counts
// for a job's production specs and requested quantity.
func PlanSheetLayout(specs models.ProductionSpecs, quantity float64, unit models.QuantityUnit, cfg models.PackagingConfig) Plan {
	plan := Plan{
		PieceCount: packing.PieceCount(quantity, unit, cfg),
	}

	plan.TheoreticalNumberUp = theoreticalNumberUp(specs)
	if plan.TheoreticalNumberUp != nil && specs.NumberUp > 0 {
		plan.NumberUpMismatch = *plan.TheoreticalNumberUp != specs.NumberUp
	}

	// The sheet chain propagates "undefined" upward: without a usable
	// number-up there is no base requirement, and without a base there is
	// nothing to buffer.
	if specs.NumberUp <= 0 {
		return plan
	}

	base := int(math.Ceil(plan.PieceCount / float64(specs.NumberUp)))
	plan.BaseRequiredSheets = &base

	needed := int(math.Ceil(float64(base)*(1+productionBufferPct/100) + makereadySheets))
	plan.SheetsNeeded = &needed

	oversPct := specs.OversPct
	if math.IsNaN(oversPct) || oversPct < 0 {
		oversPct = 0
	}
	withOvers := int(math.Ceil(float64(needed) * (1 + oversPct/100)))
	plan.SheetsNeededWithOvers = &withOvers

	wastage := specs.SheetWastage
	if wastage < 0 {
		wastage = 0
	}
	withWastage := withOvers + wastage
	plan.SheetsNeededWithWastage = &withWastage

	return plan
}

// theoreticalNumberUp computes how many cut pieces fit on one sheet, or nil
// when any dimension is missing.
func theoreticalNumberUp(specs models.ProductionSpecs) *int {
	if specs.SheetWidthMM <= 0 || specs.SheetLengthMM <= 0 || specs.CutWidthMM <= 0 || specs.CutLengthMM <= 0 {
		return nil
	}
	across := int(math.Floor(specs.SheetWidthMM / specs.CutWidthMM))
	along := int(math.Floor(specs.SheetLengthMM / specs.CutLengthMM))
	n := across * along
	return &n
}
