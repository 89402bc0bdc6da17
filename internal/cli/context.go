package cli

import (
	"io"

	"github.com/dokai/gitctl/internal/config"
	"github.com/dokai/gitctl/internal/filesystem"
	"github.com/dokai/gitctl/internal/registry"
	"github.com/dokai/gitctl/internal/report"
	"github.com/spf13/cobra"
)

// loadContext reads the configuration and the externals registry named
// by the persistent flags. Validation failures abort the run here,
// before any project is touched.
func loadContext(fs filesystem.FileSystem, cmd *cobra.Command) (*config.Config, *registry.Registry, error) {
	configPath, _ := cmd.Flags().GetString("config")
	externalsPath, _ := cmd.Flags().GetString("externals")

	cfg, err := config.Load(fs, configPath)
	if err != nil {
		return nil, nil, err
	}

	reg, err := registry.Load(fs, externalsPath)
	if err != nil {
		return nil, nil, err
	}

	return cfg, reg, nil
}

// newSink builds the console outcome sink for a command invocation.
func newSink(cmd *cobra.Command, out io.Writer) report.Sink {
	verbose, _ := cmd.Flags().GetBool("verbose")
	return report.NewConsole(out, verbose)
}
