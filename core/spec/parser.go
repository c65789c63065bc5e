package spec

import (
	"fmt"

	"production-tracker/core/models"

	"gopkg.in/yaml.v3"
)

// JobSpec represents the YAML job specification
type JobSpec struct {
	Job JobSpecJob `yaml:"job"`
}

// JobSpecJob represents the job section of the spec
type JobSpecJob struct {
	Name        string             `yaml:"name"`
	ProductCode string             `yaml:"product_code"`
	Quantity    float64            `yaml:"quantity"`
	Unit        string             `yaml:"unit"`
	Packaging   JobSpecPackaging   `yaml:"packaging"`
	Production  JobSpecProduction  `yaml:"production"`
	Workflow    string             `yaml:"workflow"`
	Stages      []string           `yaml:"stages"`
	BOM         []JobSpecBOMLine   `yaml:"bom"`
	Output      []JobSpecOutputRow `yaml:"output"`
}

// JobSpecPackaging represents the packaging configuration
type JobSpecPackaging struct {
	PcsPerBox      int `yaml:"pcs_per_box"`
	BoxesPerPallet int `yaml:"boxes_per_pallet"`
	PlannedPallets int `yaml:"planned_pallets,omitempty"` // Manual override
}

// JobSpecProduction represents the sheet/cut/forme dimensions and allowances
type JobSpecProduction struct {
	SheetWidthMM  float64 `yaml:"sheet_width_mm"`
	SheetLengthMM float64 `yaml:"sheet_length_mm"`
	CutWidthMM    float64 `yaml:"cut_width_mm"`
	CutLengthMM   float64 `yaml:"cut_length_mm"`
	FormeWidthMM  float64 `yaml:"forme_width_mm,omitempty"`
	FormeLengthMM float64 `yaml:"forme_length_mm,omitempty"`
	NumberUp      int     `yaml:"number_up"`
	OversPct      float64 `yaml:"overs_pct"`
	SheetWastage  int     `yaml:"sheet_wastage"`
}

// JobSpecBOMLine represents one material requirement line
type JobSpecBOMLine struct {
	Material    string  `yaml:"material"`
	Description string  `yaml:"description,omitempty"`
	UOM         string  `yaml:"uom"`
	QtyRequired float64 `yaml:"qty_required"`
}

// JobSpecOutputRow represents one planned output record
type JobSpecOutputRow struct {
	Description string  `yaml:"description,omitempty"`
	QtyPlanned  float64 `yaml:"qty_planned"`
}

// ParseJobSpec parses a YAML job specification into a Job model. Structural
// problems (unknown unit, duplicate stages, negative quantity) are rejected
// here at the boundary; the calculation engine itself never errors.
func ParseJobSpec(specYAML string) (*models.Job, error) {
	var spec JobSpec
	if err := yaml.Unmarshal([]byte(specYAML), &spec); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	unit, err := parseUnit(spec.Job.Unit)
	if err != nil {
		return nil, err
	}
	if spec.Job.Quantity < 0 {
		return nil, fmt.Errorf("quantity must not be negative, got %v", spec.Job.Quantity)
	}
	if err := checkStages(spec.Job.Stages); err != nil {
		return nil, err
	}

	job := &models.Job{
		Name:            spec.Job.Name,
		ProductCode:     spec.Job.ProductCode,
		Quantity:        spec.Job.Quantity,
		Unit:            unit,
		WorkflowID:      spec.Job.Workflow,
		PlannedStageIDs: spec.Job.Stages,
		Status:          models.JobStatusDraft,
		SpecYAML:        specYAML,
	}

	job.Packaging = models.PackagingConfig{
		PcsPerBox:      spec.Job.Packaging.PcsPerBox,
		BoxesPerPallet: spec.Job.Packaging.BoxesPerPallet,
		PlannedPallets: spec.Job.Packaging.PlannedPallets,
	}

	job.ProductionSpecs = models.ProductionSpecs{
		SheetWidthMM:  spec.Job.Production.SheetWidthMM,
		SheetLengthMM: spec.Job.Production.SheetLengthMM,
		CutWidthMM:    spec.Job.Production.CutWidthMM,
		CutLengthMM:   spec.Job.Production.CutLengthMM,
		FormeWidthMM:  spec.Job.Production.FormeWidthMM,
		FormeLengthMM: spec.Job.Production.FormeLengthMM,
		NumberUp:      spec.Job.Production.NumberUp,
		OversPct:      spec.Job.Production.OversPct,
		SheetWastage:  spec.Job.Production.SheetWastage,
	}

	for _, line := range spec.Job.BOM {
		job.BOM = append(job.BOM, models.BOMLine{
			MaterialCode: line.Material,
			Description:  line.Description,
			UOM:          line.UOM,
			QtyRequired:  line.QtyRequired,
		})
	}

	for _, row := range spec.Job.Output {
		job.Output = append(job.Output, models.PlannedOutput{
			Description: row.Description,
			QtyPlanned:  row.QtyPlanned,
		})
	}

	if len(job.PlannedStageIDs) > 0 {
		job.CurrentStageID = job.PlannedStageIDs[0]
	}

	return job, nil
}

// parseUnit validates the quantity unit token. An empty unit defaults to
// pieces.
func parseUnit(raw string) (models.QuantityUnit, error) {
	switch models.QuantityUnit(raw) {
	case models.UnitPcs, models.UnitBox, models.UnitUnits, models.UnitPallets:
		return models.QuantityUnit(raw), nil
	case "":
		return models.UnitPcs, nil
	default:
		return "", fmt.Errorf("unknown quantity unit %q", raw)
	}
}

// checkStages rejects duplicate planned stage IDs
func checkStages(stages []string) error {
	seen := make(map[string]bool, len(stages))
	for _, id := range stages {
		if seen[id] {
			return fmt.Errorf("duplicate planned stage %q", id)
		}
		seen[id] = true
	}
	return nil
}
