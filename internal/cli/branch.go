package cli

import (
	"io"

	"github.com/dokai/gitctl/internal/filesystem"
	"github.com/dokai/gitctl/internal/git"
	"github.com/dokai/gitctl/internal/reconcile"
	"github.com/spf13/cobra"
)

// BranchCommand handles the branch command
type BranchCommand struct {
	fs  filesystem.FileSystem
	git git.Client
	out io.Writer
}

// NewBranchCommand creates a new branch command
func NewBranchCommand(fs filesystem.FileSystem, gitClient git.Client, out io.Writer) *cobra.Command {
	cmd := &BranchCommand{
		fs:  fs,
		git: gitClient,
		out: out,
	}

	cobraCmd := &cobra.Command{
		Use:   "branch [project...]",
		Short: "List or switch the active branch of every project",
		Long: `Without flags, lists the currently checked-out branch of each
project. With --checkout, switches every project to the named branch;
dirty projects and projects without that branch are left alone.`,
		RunE: cmd.Run,
	}

	cobraCmd.Flags().String("checkout", "", "Branch to check out in every project")

	return cobraCmd
}

// Run executes the branch command
func (c *BranchCommand) Run(cmd *cobra.Command, args []string) error {
	checkout, _ := cmd.Flags().GetString("checkout")

	_, reg, err := loadContext(c.fs, cmd)
	if err != nil {
		return err
	}

	switcher := reconcile.NewSwitcher(c.fs, c.git, newSink(cmd, c.out))
	if checkout != "" {
		switcher.Checkout(reg.Filter(args), checkout)
		return nil
	}
	switcher.List(reg.Filter(args))
	return nil
}
