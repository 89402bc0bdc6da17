package cli

import (
	"io"

	"github.com/dokai/gitctl/internal/filesystem"
	"github.com/dokai/gitctl/internal/git"
	"github.com/dokai/gitctl/internal/reconcile"
	"github.com/spf13/cobra"
)

// UpdateCommand handles the update command
type UpdateCommand struct {
	fs  filesystem.FileSystem
	git git.Client
	out io.Writer
}

// NewUpdateCommand creates a new update command
func NewUpdateCommand(fs filesystem.FileSystem, gitClient git.Client, out io.Writer) *cobra.Command {
	cmd := &UpdateCommand{
		fs:  fs,
		git: gitClient,
		out: out,
	}

	cobraCmd := &cobra.Command{
		Use:   "update [project...]",
		Short: "Bring projects in sync with upstream",
		Long: `Updates the listed projects, or all of them when none are named.

Projects without a local checkout are cloned with tracking branches for
every mapped remote branch. Pinned projects are hard reset to their
revision. Floating projects get a fast-forward-only pull per mapped
branch; a diverged branch is reported and left untouched so no implicit
merge commit is ever created.`,
		Example: `  # Update everything
  gitctl update

  # Update two projects, rebasing diverged branches onto upstream
  gitctl update --rebase frontend backend`,
		RunE: cmd.Run,
	}

	cobraCmd.Flags().Bool("rebase", false, "Rebase diverged branches onto upstream instead of refusing them")

	return cobraCmd
}

// Run executes the update command
func (c *UpdateCommand) Run(cmd *cobra.Command, args []string) error {
	rebase, _ := cmd.Flags().GetBool("rebase")

	cfg, reg, err := loadContext(c.fs, cmd)
	if err != nil {
		return err
	}

	updater := reconcile.NewUpdater(c.fs, c.git, cfg, newSink(cmd, c.out))
	updater.Run(reg.Filter(args), rebase)
	return nil
}
