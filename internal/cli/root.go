package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/dokai/gitctl/internal/filesystem"
	"github.com/dokai/gitctl/internal/git"
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root command
func NewRootCommand(fs filesystem.FileSystem, gitClient git.Client, out io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gitctl",
		Short: "Keep a fleet of git repositories in sync with upstream",
		Long: `gitctl synchronizes a set of independently hosted git repositories
against their upstream and tracks promotion through the
development -> staging -> production pipeline.

Projects are listed in an externals registry; branch mappings and the
pipeline branch names come from the gitctl configuration.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", "gitctl.yaml", "Path to the gitctl configuration")
	rootCmd.PersistentFlags().String("externals", "externals.yaml", "Path to the externals registry")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Also report projects that are up to date")

	// Add subcommands
	rootCmd.AddCommand(NewUpdateCommand(fs, gitClient, out))
	rootCmd.AddCommand(NewStatusCommand(fs, gitClient, out))
	rootCmd.AddCommand(NewPendingCommand(fs, gitClient, out))
	rootCmd.AddCommand(NewFetchCommand(fs, gitClient, out))
	rootCmd.AddCommand(NewBranchCommand(fs, gitClient, out))

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	fs := filesystem.NewOSFileSystem()
	gitClient := git.NewOSClient()

	rootCmd := NewRootCommand(fs, gitClient, os.Stdout)

	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("command failed: %w", err)
	}

	return nil
}
