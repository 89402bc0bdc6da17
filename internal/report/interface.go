package report

import (
	"github.com/dokai/gitctl/internal/models"
)

// Sink receives the ordered sequence of reconciliation outcomes. The
// reconcilers never print; everything they have to say goes through
// here, so runs are verifiable without text capture.
type Sink interface {
	Report(outcome models.Outcome)
}
