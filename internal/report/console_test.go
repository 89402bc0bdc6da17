package report

import (
	"strings"
	"testing"

	"github.com/dokai/gitctl/internal/models"
	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/require"
)

func TestConsoleSnapshots(t *testing.T) {
	outcomes := []models.Outcome{
		{Project: "gitctl", Kind: models.OutcomeCloned, Revision: "development"},
		{Project: "my.rather.long.project", Kind: models.OutcomeFastForwarded, Branches: []string{"development", "staging"}},
		{Project: "pinned", Kind: models.OutcomePinned, Revision: "a94a8fe5ccb19ba61c4c0873d391e987982fbbd3"},
		{Project: "dirty", Kind: models.OutcomeDirty},
		{Project: "diverged", Kind: models.OutcomeConflict, Branch: "development"},
		{Project: "stale", Kind: models.OutcomeOutOfSync, Branch: "staging"},
		{Project: "skipped", Kind: models.OutcomeSkipped, Reason: "does not follow the promotion model"},
		{Project: "pending", Kind: models.OutcomeAheadBy, Ahead: 3, From: "production", To: "staging"},
		{Project: "broken", Kind: models.OutcomeFatal, Message: "could not resolve host"},
		{Project: "quiet", Kind: models.OutcomeUpToDate},
	}

	t.Run("default output", func(t *testing.T) {
		var buf strings.Builder
		console := NewConsole(&buf, false)
		for _, o := range outcomes {
			console.Report(o)
		}
		snaps.MatchSnapshot(t, buf.String())
	})

	t.Run("verbose output", func(t *testing.T) {
		var buf strings.Builder
		console := NewConsole(&buf, true)
		for _, o := range outcomes {
			console.Report(o)
		}
		snaps.MatchSnapshot(t, buf.String())
	})
}

func TestConsoleHidesQuietOutcomesByDefault(t *testing.T) {
	var buf strings.Builder
	console := NewConsole(&buf, false)

	console.Report(models.Outcome{Project: "app", Kind: models.OutcomeUpToDate})
	require.Empty(t, buf.String())

	console.Report(models.Outcome{Project: "app", Kind: models.OutcomeFetched})
	require.Contains(t, buf.String(), "app")
}

func TestRecorder(t *testing.T) {
	recorder := NewRecorder()
	recorder.Report(models.Outcome{Project: "app", Kind: models.OutcomeConflict, Branch: "development"})
	recorder.Report(models.Outcome{Project: "lib", Kind: models.OutcomeUpToDate})
	recorder.Report(models.Outcome{Project: "app", Kind: models.OutcomeUpToDate})

	require.Len(t, recorder.Outcomes, 3)
	require.Equal(t, []models.OutcomeKind{models.OutcomeConflict, models.OutcomeUpToDate}, recorder.Kinds("app"))
	require.Equal(t, "development", recorder.ForProject("app")[0].Branch)
	require.Empty(t, recorder.ForProject("unknown"))
}
