package cli

import (
	"io"

	"github.com/dokai/gitctl/internal/filesystem"
	"github.com/dokai/gitctl/internal/git"
	"github.com/dokai/gitctl/internal/reconcile"
	"github.com/spf13/cobra"
)

// StatusCommand handles the status command
type StatusCommand struct {
	fs  filesystem.FileSystem
	git git.Client
	out io.Writer
}

// NewStatusCommand creates a new status command
func NewStatusCommand(fs filesystem.FileSystem, gitClient git.Client, out io.Writer) *cobra.Command {
	cmd := &StatusCommand{
		fs:  fs,
		git: gitClient,
		out: out,
	}

	cobraCmd := &cobra.Command{
		Use:   "status [project...]",
		Short: "Check which projects drifted from upstream",
		Long: `Compares every mapped branch of each project against its remote
counterpart and reports the branches that are out of sync. A project is
OK only when none of its mapped branches drifted.`,
		RunE: cmd.Run,
	}

	cobraCmd.Flags().Bool("no-fetch", false, "Compare against the already fetched remote refs")

	return cobraCmd
}

// Run executes the status command
func (c *StatusCommand) Run(cmd *cobra.Command, args []string) error {
	noFetch, _ := cmd.Flags().GetBool("no-fetch")

	cfg, reg, err := loadContext(c.fs, cmd)
	if err != nil {
		return err
	}

	status := reconcile.NewStatus(c.fs, c.git, cfg, newSink(cmd, c.out))
	status.Run(reg.Filter(args), noFetch)
	return nil
}
