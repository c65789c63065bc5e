package models

// Workflow is an ordered list of production stage definitions
type Workflow struct {
	ID     string
	Name   string
	Stages []Stage
}

// Stage defines one step in a workflow. InputUOM/OutputUOM are free-form
// unit tokens (e.g. "sheets", "cartoon") reconciled by the UOM registry.
type Stage struct {
	ID        string
	Name      string
	InputUOM  string
	OutputUOM string
}

// StageByID returns the stage definition for the given ID, or nil
func (w *Workflow) StageByID(id string) *Stage {
	for i := range w.Stages {
		if w.Stages[i].ID == id {
			return &w.Stages[i]
		}
	}
	return nil
}
