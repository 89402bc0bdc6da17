package report

import (
	"github.com/dokai/gitctl/internal/models"
)

// Recorder accumulates outcomes in order for test inspection.
type Recorder struct {
	Outcomes []models.Outcome
}

// NewRecorder creates a new Recorder sink
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Report(outcome models.Outcome) {
	r.Outcomes = append(r.Outcomes, outcome)
}

// ForProject returns the recorded outcomes for one project, in order.
func (r *Recorder) ForProject(name string) []models.Outcome {
	var result []models.Outcome
	for _, o := range r.Outcomes {
		if o.Project == name {
			result = append(result, o)
		}
	}
	return result
}

// Kinds returns the recorded outcome kinds for one project, in order.
func (r *Recorder) Kinds(name string) []models.OutcomeKind {
	var kinds []models.OutcomeKind
	for _, o := range r.ForProject(name) {
		kinds = append(kinds, o.Kind)
	}
	return kinds
}
