package cli

import (
	"io"

	"github.com/dokai/gitctl/internal/filesystem"
	"github.com/dokai/gitctl/internal/git"
	"github.com/dokai/gitctl/internal/reconcile"
	"github.com/spf13/cobra"
)

// FetchCommand handles the fetch command
type FetchCommand struct {
	fs  filesystem.FileSystem
	git git.Client
	out io.Writer
}

// NewFetchCommand creates a new fetch command
func NewFetchCommand(fs filesystem.FileSystem, gitClient git.Client, out io.Writer) *cobra.Command {
	cmd := &FetchCommand{
		fs:  fs,
		git: gitClient,
		out: out,
	}

	return &cobra.Command{
		Use:   "fetch [project...]",
		Short: "Fetch upstream refs for every project",
		Long:  `Updates the remote refs of each project without touching any working tree.`,
		RunE:  cmd.Run,
	}
}

// Run executes the fetch command
func (c *FetchCommand) Run(cmd *cobra.Command, args []string) error {
	cfg, reg, err := loadContext(c.fs, cmd)
	if err != nil {
		return err
	}

	fetcher := reconcile.NewFetcher(c.fs, c.git, cfg, newSink(cmd, c.out))
	fetcher.Run(reg.Filter(args))
	return nil
}
