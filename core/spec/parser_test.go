package spec

import (
	"testing"

	"production-tracker/core/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSpec = `
job:
  name: Retail carton run
  product_code: CTN-4481
  quantity: 120000
  unit: pcs
  packaging:
    pcs_per_box: 250
    boxes_per_pallet: 48
    planned_pallets: 11
  production:
    sheet_width_mm: 1020
    sheet_length_mm: 720
    cut_width_mm: 340
    cut_length_mm: 240
    number_up: 9
    overs_pct: 2.5
    sheet_wastage: 150
  workflow: wf-carton-standard
  stages:
    - print
    - cut
    - glue
    - pack
  bom:
    - material: SBS-230
      uom: sht
      qty_required: 14500
    - material: GLU-PVA
      uom: kg
      qty_required: 18
  output:
    - description: Finished cartons
      qty_planned: 120000
`

func TestParseJobSpec(t *testing.T) {
	job, err := ParseJobSpec(sampleSpec)
	require.NoError(t, err)

	assert.Equal(t, "Retail carton run", job.Name)
	assert.Equal(t, "CTN-4481", job.ProductCode)
	assert.Equal(t, 120000.0, job.Quantity)
	assert.Equal(t, models.UnitPcs, job.Unit)
	assert.Equal(t, models.JobStatusDraft, job.Status)

	assert.Equal(t, 250, job.Packaging.PcsPerBox)
	assert.Equal(t, 48, job.Packaging.BoxesPerPallet)
	assert.Equal(t, 11, job.Packaging.PlannedPallets)

	assert.Equal(t, 1020.0, job.ProductionSpecs.SheetWidthMM)
	assert.Equal(t, 9, job.ProductionSpecs.NumberUp)
	assert.Equal(t, 2.5, job.ProductionSpecs.OversPct)
	assert.Equal(t, 150, job.ProductionSpecs.SheetWastage)

	assert.Equal(t, "wf-carton-standard", job.WorkflowID)
	assert.Equal(t, []string{"print", "cut", "glue", "pack"}, job.PlannedStageIDs)
	assert.Equal(t, "print", job.CurrentStageID)

	require.Len(t, job.BOM, 2)
	assert.Equal(t, "SBS-230", job.BOM[0].MaterialCode)
	assert.Equal(t, "sht", job.BOM[0].UOM)
	assert.Equal(t, 14500.0, job.BOM[0].QtyRequired)

	require.Len(t, job.Output, 1)
	assert.Equal(t, 120000.0, job.Output[0].QtyPlanned)

	assert.Equal(t, sampleSpec, job.SpecYAML)
}

func TestParseJobSpec_DefaultUnit(t *testing.T) {
	job, err := ParseJobSpec("job:\n  name: x\n  quantity: 10\n")
	require.NoError(t, err)
	assert.Equal(t, models.UnitPcs, job.Unit)
	assert.Empty(t, job.CurrentStageID)
}

func TestParseJobSpec_Rejections(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"invalid yaml", "job: ["},
		{"unknown unit", "job:\n  quantity: 10\n  unit: crates\n"},
		{"negative quantity", "job:\n  quantity: -5\n"},
		{"duplicate stages", "job:\n  quantity: 5\n  stages: [print, cut, print]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseJobSpec(tt.yaml)
			assert.Error(t, err)
		})
	}
}
