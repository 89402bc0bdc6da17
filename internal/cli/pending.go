package cli

import (
	"fmt"
	"io"

	"github.com/dokai/gitctl/internal/filesystem"
	"github.com/dokai/gitctl/internal/git"
	"github.com/dokai/gitctl/internal/models"
	"github.com/dokai/gitctl/internal/reconcile"
	"github.com/spf13/cobra"
)

// PendingCommand handles the pending command
type PendingCommand struct {
	fs  filesystem.FileSystem
	git git.Client
	out io.Writer
}

// NewPendingCommand creates a new pending command
func NewPendingCommand(fs filesystem.FileSystem, gitClient git.Client, out io.Writer) *cobra.Command {
	cmd := &PendingCommand{
		fs:  fs,
		git: gitClient,
		out: out,
	}

	cobraCmd := &cobra.Command{
		Use:   "pending --stage STAGE [project...]",
		Short: "Show changes waiting to be promoted between pipeline stages",
		Long: `Compares each project's requested pipeline stage against its
predecessor and reports how many commits are waiting to be promoted:

  production   pinned revision   vs. production branch tip
  staging      production branch vs. staging branch
  development  staging branch    vs. development branch

With --regenerate (production only) the pinned revisions are rewritten
to the promoted tips and the registry is serialized back instead of a
report.`,
		Example: `  # What would go to production?
  gitctl pending --stage production --diff

  # Pin every project at the current production tip
  gitctl pending --stage production --regenerate`,
		RunE: cmd.Run,
	}

	cobraCmd.Flags().String("stage", "", "Pipeline stage to compare: production, staging or development")
	cobraCmd.Flags().Bool("diff", false, "Show the full patch between the compared revisions")
	cobraCmd.Flags().Bool("regenerate", false, "Rewrite pinned revisions to the promoted tips (production only)")
	cobraCmd.Flags().Bool("no-fetch", false, "Compare against the already fetched remote refs")

	return cobraCmd
}

// Run executes the pending command
func (c *PendingCommand) Run(cmd *cobra.Command, args []string) error {
	stageName, _ := cmd.Flags().GetString("stage")
	diff, _ := cmd.Flags().GetBool("diff")
	regenerate, _ := cmd.Flags().GetBool("regenerate")
	noFetch, _ := cmd.Flags().GetBool("no-fetch")

	if stageName == "" {
		return fmt.Errorf("--stage is required: production, staging or development")
	}
	stage, err := models.ParseStage(stageName)
	if err != nil {
		return err
	}

	cfg, reg, err := loadContext(c.fs, cmd)
	if err != nil {
		return err
	}

	comparator := reconcile.NewComparator(c.fs, c.git, cfg, newSink(cmd, c.out))
	mutated, err := comparator.Run(reg.Filter(args), reconcile.PendingOptions{
		Stage:      stage,
		Diff:       diff,
		Regenerate: regenerate,
		NoFetch:    noFetch,
		DiffWriter: c.out,
	})
	if err != nil {
		return err
	}

	if regenerate {
		if mutated {
			if err := reg.Save(); err != nil {
				return err
			}
		}
		serialized, err := reg.Serialize()
		if err != nil {
			return err
		}
		fmt.Fprint(c.out, string(serialized))
	}

	return nil
}
