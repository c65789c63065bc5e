package sheetcalc

import (
	"testing"

	"production-tracker/core/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanSheetLayout_TheoreticalNumberUp(t *testing.T) {
	specs := models.ProductionSpecs{
		SheetWidthMM:  900,
		SheetLengthMM: 600,
		CutWidthMM:    300,
		CutLengthMM:   200,
		NumberUp:      9,
	}

	plan := PlanSheetLayout(specs, 100, models.UnitPcs, models.PackagingConfig{})

	require.NotNil(t, plan.TheoreticalNumberUp)
	assert.Equal(t, 9, *plan.TheoreticalNumberUp)
	assert.False(t, plan.NumberUpMismatch)
}

func TestPlanSheetLayout_NumberUpMismatchIsWarningOnly(t *testing.T) {
	specs := models.ProductionSpecs{
		SheetWidthMM:  900,
		SheetLengthMM: 600,
		CutWidthMM:    300,
		CutLengthMM:   200,
		NumberUp:      8, // User entered 8, layout says 9
	}

	plan := PlanSheetLayout(specs, 100, models.UnitPcs, models.PackagingConfig{})

	assert.True(t, plan.NumberUpMismatch)
	// The entered number-up still drives the sheet chain.
	require.NotNil(t, plan.BaseRequiredSheets)
	assert.Equal(t, 13, *plan.BaseRequiredSheets) // ceil(100/8)
}

func TestPlanSheetLayout_SheetChainScenario(t *testing.T) {
	specs := models.ProductionSpecs{NumberUp: 9}

	plan := PlanSheetLayout(specs, 9000, models.UnitPcs, models.PackagingConfig{})

	require.NotNil(t, plan.BaseRequiredSheets)
	assert.Equal(t, 1000, *plan.BaseRequiredSheets)
	require.NotNil(t, plan.SheetsNeeded)
	assert.Equal(t, 1450, *plan.SheetsNeeded) // ceil(1000*1.05 + 400)
}

func TestPlanSheetLayout_OversAndWastage(t *testing.T) {
	specs := models.ProductionSpecs{NumberUp: 9, OversPct: 10, SheetWastage: 25}

	plan := PlanSheetLayout(specs, 9000, models.UnitPcs, models.PackagingConfig{})

	require.NotNil(t, plan.SheetsNeededWithOvers)
	assert.Equal(t, 1595, *plan.SheetsNeededWithOvers) // ceil(1450*1.10)
	require.NotNil(t, plan.SheetsNeededWithWastage)
	assert.Equal(t, 1620, *plan.SheetsNeededWithWastage)
}

func TestPlanSheetLayout_BufferFloorInvariant(t *testing.T) {
	// withWastage >= withOvers >= needed >= 400 for any positive demand.
	for _, qty := range []float64{1, 9, 450, 9000, 123456} {
		for _, numberUp := range []int{1, 4, 9, 16} {
			specs := models.ProductionSpecs{NumberUp: numberUp, OversPct: 7.5, SheetWastage: 12}
			plan := PlanSheetLayout(specs, qty, models.UnitPcs, models.PackagingConfig{})

			require.NotNil(t, plan.SheetsNeeded)
			require.NotNil(t, plan.SheetsNeededWithOvers)
			require.NotNil(t, plan.SheetsNeededWithWastage)
			assert.GreaterOrEqual(t, *plan.SheetsNeededWithWastage, *plan.SheetsNeededWithOvers)
			assert.GreaterOrEqual(t, *plan.SheetsNeededWithOvers, *plan.SheetsNeeded)
			assert.GreaterOrEqual(t, *plan.SheetsNeeded, 400)
		}
	}
}

func TestPlanSheetLayout_UndefinedPropagation(t *testing.T) {
	// Missing dimensions: no theoretical number-up, but the entered
	// number-up still yields a sheet chain.
	plan := PlanSheetLayout(models.ProductionSpecs{NumberUp: 4}, 100, models.UnitPcs, models.PackagingConfig{})
	assert.Nil(t, plan.TheoreticalNumberUp)
	assert.NotNil(t, plan.SheetsNeeded)

	// Missing number-up: nothing downstream is defined, and nothing
	// defaults to zero silently.
	plan = PlanSheetLayout(models.ProductionSpecs{SheetWidthMM: 900, SheetLengthMM: 600, CutWidthMM: 300, CutLengthMM: 200}, 100, models.UnitPcs, models.PackagingConfig{})
	assert.NotNil(t, plan.TheoreticalNumberUp)
	assert.Nil(t, plan.BaseRequiredSheets)
	assert.Nil(t, plan.SheetsNeeded)
	assert.Nil(t, plan.SheetsNeededWithOvers)
	assert.Nil(t, plan.SheetsNeededWithWastage)
}

func TestPlanSheetLayout_UnitConversion(t *testing.T) {
	cfg := models.PackagingConfig{PcsPerBox: 100, BoxesPerPallet: 10}
	specs := models.ProductionSpecs{NumberUp: 10}

	// 2 pallets = 2 * 10 * 100 = 2000 pieces = 200 base sheets.
	plan := PlanSheetLayout(specs, 2, models.UnitPallets, cfg)
	assert.Equal(t, 2000.0, plan.PieceCount)
	require.NotNil(t, plan.BaseRequiredSheets)
	assert.Equal(t, 200, *plan.BaseRequiredSheets)

	// 5 boxes = 500 pieces.
	plan = PlanSheetLayout(specs, 5, models.UnitBox, cfg)
	assert.Equal(t, 500.0, plan.PieceCount)
}
