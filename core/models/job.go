package models

import "time"

// Job represents a manufacturing job submitted to the tracker
type Job struct {
	ID              string
	Name            string
	ProductCode     string
	Quantity        float64
	Unit            QuantityUnit
	Packaging       PackagingConfig
	ProductionSpecs ProductionSpecs
	WorkflowID      string
	PlannedStageIDs []string // Ordered, no duplicates; defines the only valid progression
	CurrentStageID  string
	BOM             []BOMLine
	Output          []PlannedOutput
	Status          JobStatus
	SpecYAML        string // Original submission spec for replay/debug
	CreatedAt       time.Time
	UpdatedAt       time.Time
	CompletedAt     *time.Time
}

// QuantityUnit is the unit the job's requested quantity is expressed in
type QuantityUnit string

const (
	UnitPcs     QuantityUnit = "pcs"
	UnitBox     QuantityUnit = "box"
	UnitUnits   QuantityUnit = "units"
	UnitPallets QuantityUnit = "pallets"
)

// JobStatus represents the current status of a job
type JobStatus string

const (
	JobStatusDraft     JobStatus = "draft"
	JobStatusActive    JobStatus = "active"
	JobStatusOnHold    JobStatus = "on_hold"
	JobStatusDone      JobStatus = "done"
	JobStatusCancelled JobStatus = "cancelled"
)

// PackagingConfig describes how pieces pack into outers and pallets
type PackagingConfig struct {
	PcsPerBox      int
	BoxesPerPallet int
	PlannedPallets int // Manual override; 0 means unset
}

// ProductionSpecs holds the flat-sheet layout parameters for the job.
// Dimensions are millimetres. Zero values mean "not entered yet".
type ProductionSpecs struct {
	SheetWidthMM  float64
	SheetLengthMM float64
	CutWidthMM    float64
	CutLengthMM   float64
	FormeWidthMM  float64
	FormeLengthMM float64
	NumberUp      int     // User-entered units per sheet
	OversPct      float64 // Percentage overs allowance
	SheetWastage  int     // Additive sheet count allowance
}

// BOMLine is one material requirement line on the job
type BOMLine struct {
	MaterialCode string
	Description  string
	UOM          string
	QtyRequired  float64
}

// PlannedOutput is one planned/produced quantity record on the job
type PlannedOutput struct {
	Description string
	QtyPlanned  float64
	QtyProduced float64
}
