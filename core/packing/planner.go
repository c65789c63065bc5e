// Package packing converts a job's requested quantity into packaging units
// (outers and pallets). Pure calculation, no I/O.
package packing

import (
	"math"

	"production-tracker/core/models"
)

// Plan holds the results of a packing calculation
type Plan struct {
	PlannedOuters    int     `json:"planned_outers"`      // Boxes/cartons needed
	Pallets          int     `json:"pallets"`             // Reported pallet count (override wins when set)
	PalletsAuto      int     `json:"pallets_auto"`        // Computed pallet count, kept for mismatch comparison
	FullPallets      int     `json:"full_pallets"`        // Completely filled pallets
	RemainderOuters  int     `json:"remainder_outers"`    // Outers on the partial pallet
	PlannedQtyByPack float64 `json:"planned_qty_by_pack"` // Pieces once rounded up to whole outers
	Leftover         float64 `json:"leftover"`            // PlannedQtyByPack - requested quantity
	OverrideMismatch bool    `json:"override_mismatch"`   // Override set and disagrees with PalletsAuto
}

// PlanPacking computes the packing plan for a requested quantity.
// Divisor configs below 1 default to 1; negative or NaN quantities clamp
// to 0. An override mismatch is signalled, never auto-corrected.
func PlanPacking(quantity float64, unit models.QuantityUnit, cfg models.PackagingConfig) Plan {
	qty := clampQty(quantity)
	pcsPerBox := atLeastOne(cfg.PcsPerBox)
	boxesPerPallet := atLeastOne(cfg.BoxesPerPallet)
	override := cfg.PlannedPallets

	var plan Plan

	switch unit {
	case models.UnitBox, models.UnitUnits:
		// Quantity is a box count.
		totalPieces := qty * float64(pcsPerBox)
		plan.PlannedOuters = ceilDiv(totalPieces, pcsPerBox)
		plan.PlannedQtyByPack = float64(plan.PlannedOuters * pcsPerBox)
		boxes := int(math.Ceil(qty))
		plan.FullPallets = boxes / boxesPerPallet
		plan.RemainderOuters = boxes % boxesPerPallet
		plan.PalletsAuto = plan.FullPallets
		if plan.RemainderOuters > 0 {
			plan.PalletsAuto++
		}
		// No override rule for box counts; the computed value is reported.
		plan.Pallets = plan.PalletsAuto

	case models.UnitPallets:
		// Quantity is a pallet count.
		plan.PlannedOuters = int(math.Ceil(qty * float64(boxesPerPallet)))
		plan.PlannedQtyByPack = float64(plan.PlannedOuters * pcsPerBox)
		plan.FullPallets = plan.PlannedOuters / boxesPerPallet
		plan.RemainderOuters = 0
		plan.PalletsAuto = ceilDiv(float64(plan.PlannedOuters), boxesPerPallet)
		plan.Pallets = reportedPallets(plan.PalletsAuto, override)

	default: // models.UnitPcs
		plan.PlannedOuters = ceilDiv(qty, pcsPerBox)
		plan.PlannedQtyByPack = float64(plan.PlannedOuters * pcsPerBox)
		plan.Leftover = plan.PlannedQtyByPack - qty
		plan.FullPallets = plan.PlannedOuters / boxesPerPallet
		plan.RemainderOuters = plan.PlannedOuters % boxesPerPallet
		plan.PalletsAuto = plan.FullPallets
		if plan.RemainderOuters > 0 {
			plan.PalletsAuto++
		}
		plan.Pallets = reportedPallets(plan.PalletsAuto, override)
	}

	plan.OverrideMismatch = override > 0 && override != plan.PalletsAuto
	return plan
}

// PieceCount converts a requested quantity in any supported unit to a piece
// count, using the same unit rules as PlanPacking.
func PieceCount(quantity float64, unit models.QuantityUnit, cfg models.PackagingConfig) float64 {
	qty := clampQty(quantity)
	pcsPerBox := atLeastOne(cfg.PcsPerBox)
	boxesPerPallet := atLeastOne(cfg.BoxesPerPallet)

	switch unit {
	case models.UnitBox, models.UnitUnits:
		return qty * float64(pcsPerBox)
	case models.UnitPallets:
		return qty * float64(boxesPerPallet) * float64(pcsPerBox)
	default:
		return qty
	}
}

// reportedPallets applies the override-or-computed rule
func reportedPallets(auto, override int) int {
	if override > 0 {
		return override
	}
	return auto
}

// ceilDiv divides a quantity by an integer divisor, rounding up
func ceilDiv(qty float64, divisor int) int {
	if divisor < 1 {
		divisor = 1
	}
	return int(math.Ceil(qty / float64(divisor)))
}

func clampQty(q float64) float64 {
	if math.IsNaN(q) || q < 0 {
		return 0
	}
	return q
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
