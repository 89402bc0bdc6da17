package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dokai/gitctl/internal/models"
)

var (
	nameStyle = lipgloss.NewStyle().
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	subtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
)

// nameColumnWidth is the dotted padding width for project names.
const nameColumnWidth = 28

// Console renders one line per outcome to out. Quiet outcomes
// (up-to-date projects) are only shown in verbose mode.
type Console struct {
	out     io.Writer
	verbose bool
}

// NewConsole creates a new Console sink
func NewConsole(out io.Writer, verbose bool) *Console {
	return &Console{
		out:     out,
		verbose: verbose,
	}
}

func (c *Console) Report(outcome models.Outcome) {
	if outcome.Kind == models.OutcomeUpToDate && !c.verbose {
		return
	}

	fmt.Fprintf(c.out, "%s %s\n", pretty(outcome.Project), styleFor(outcome.Kind).Render(outcome.String()))
}

// pretty pads a project name with dots so status messages line up.
func pretty(name string) string {
	padding := nameColumnWidth - len(name)
	if padding < 3 {
		padding = 3
	}
	return nameStyle.Render(name) + " " + subtleStyle.Render(strings.Repeat(".", padding))
}

func styleFor(kind models.OutcomeKind) lipgloss.Style {
	switch kind {
	case models.OutcomeFatal:
		return errorStyle
	case models.OutcomeDirty, models.OutcomeConflict, models.OutcomeOutOfSync, models.OutcomeSkipped:
		return warnStyle
	case models.OutcomeCloned, models.OutcomePinned, models.OutcomeFastForwarded,
		models.OutcomeFetched, models.OutcomeCheckedOut:
		return successStyle
	case models.OutcomeAheadBy:
		return warnStyle
	}
	return subtleStyle
}
