package config

import (
	"errors"
	"fmt"

	"github.com/dokai/gitctl/internal/filesystem"
	"github.com/dokai/gitctl/internal/models"
	"gopkg.in/yaml.v3"
)

// ErrInvalid marks a malformed or incomplete configuration. Callers
// abort the whole run on it, before any project is touched.
var ErrInvalid = errors.New("invalid configuration")

// BranchMapping pairs a remote-qualified branch (e.g. "origin/development")
// with the name of its local tracking counterpart.
type BranchMapping struct {
	Remote string `yaml:"remote"`
	Local  string `yaml:"local"`
}

// Config holds the gitctl configuration: the upstream remote, the ordered
// branch mapping and the three pipeline branch names.
type Config struct {
	// Upstream is the name of the git remote all projects sync against.
	Upstream string `yaml:"upstream"`

	// UpstreamURL is the base location new repositories are provisioned
	// under. Only the bootstrap path uses it.
	UpstreamURL string `yaml:"upstream-url,omitempty"`

	// Branches lists the remote branches that get local tracking
	// counterparts, in order.
	Branches []BranchMapping `yaml:"branches"`

	DevelopmentBranch string `yaml:"development-branch"`
	StagingBranch     string `yaml:"staging-branch"`
	ProductionBranch  string `yaml:"production-branch"`

	// Mail hook settings for the bootstrap path. Parsed so a config
	// round-trips untouched; nothing here reads them.
	CommitEmail       string `yaml:"commit-email,omitempty"`
	CommitEmailPrefix string `yaml:"commit-email-prefix,omitempty"`
}

// Load reads and validates the configuration at path.
func Load(fs filesystem.FileSystem, path string) (*Config, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", ErrInvalid, path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s: %v", ErrInvalid, path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the configuration eagerly so a missing field fails the
// run up front instead of deep inside a comparison.
func (c *Config) Validate() error {
	if c.Upstream == "" {
		return fmt.Errorf("%w: upstream remote name is required", ErrInvalid)
	}
	if len(c.Branches) == 0 {
		return fmt.Errorf("%w: at least one branch mapping is required", ErrInvalid)
	}

	seen := make(map[string]bool)
	for i, b := range c.Branches {
		if b.Remote == "" || b.Local == "" {
			return fmt.Errorf("%w: branch mapping %d is missing a remote or local name", ErrInvalid, i)
		}
		if seen[b.Local] {
			return fmt.Errorf("%w: duplicate local branch ``%s`` in branch mapping", ErrInvalid, b.Local)
		}
		seen[b.Local] = true
	}

	for _, branch := range []struct {
		field string
		name  string
	}{
		{"development-branch", c.DevelopmentBranch},
		{"staging-branch", c.StagingBranch},
		{"production-branch", c.ProductionBranch},
	} {
		if branch.name == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalid, branch.field)
		}
	}

	return nil
}

// StageBranch returns the local branch name that represents a pipeline
// stage.
func (c *Config) StageBranch(stage models.Stage) string {
	switch stage {
	case models.StageDevelopment:
		return c.DevelopmentBranch
	case models.StageStaging:
		return c.StagingBranch
	case models.StageProduction:
		return c.ProductionBranch
	}
	return ""
}
