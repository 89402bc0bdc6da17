package config_test

import (
	"testing"

	"github.com/dokai/gitctl/internal/config"
	"github.com/dokai/gitctl/internal/filesystem"
	"github.com/dokai/gitctl/internal/models"
	"github.com/stretchr/testify/require"
)

const validConfig = `
upstream: origin
upstream-url: git@example.com
branches:
  - remote: origin/development
    local: development
  - remote: origin/staging
    local: staging
  - remote: origin/production
    local: production
development-branch: development
staging-branch: staging
production-branch: production
`

func TestLoad(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/etc/gitctl.yaml", []byte(validConfig))

	cfg, err := config.Load(fs, "/etc/gitctl.yaml")
	require.NoError(t, err)

	require.Equal(t, "origin", cfg.Upstream)
	require.Len(t, cfg.Branches, 3)
	require.Equal(t, "origin/development", cfg.Branches[0].Remote)
	require.Equal(t, "development", cfg.Branches[0].Local)
	require.Equal(t, "production", cfg.ProductionBranch)
}

func TestLoad_MissingFile(t *testing.T) {
	fs := filesystem.NewMockFileSystem()

	_, err := config.Load(fs, "/etc/gitctl.yaml")
	require.ErrorIs(t, err, config.ErrInvalid)
}

func TestValidate(t *testing.T) {
	valid := func() *config.Config {
		return &config.Config{
			Upstream: "origin",
			Branches: []config.BranchMapping{
				{Remote: "origin/development", Local: "development"},
			},
			DevelopmentBranch: "development",
			StagingBranch:     "staging",
			ProductionBranch:  "production",
		}
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"missing upstream", func(c *config.Config) { c.Upstream = "" }},
		{"no branch mappings", func(c *config.Config) { c.Branches = nil }},
		{"mapping without local", func(c *config.Config) { c.Branches[0].Local = "" }},
		{"duplicate local branch", func(c *config.Config) {
			c.Branches = append(c.Branches, config.BranchMapping{Remote: "origin/other", Local: "development"})
		}},
		{"missing development branch", func(c *config.Config) { c.DevelopmentBranch = "" }},
		{"missing staging branch", func(c *config.Config) { c.StagingBranch = "" }},
		{"missing production branch", func(c *config.Config) { c.ProductionBranch = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			require.ErrorIs(t, cfg.Validate(), config.ErrInvalid)
		})
	}
}

func TestStageBranch(t *testing.T) {
	cfg := &config.Config{
		DevelopmentBranch: "development",
		StagingBranch:     "staging",
		ProductionBranch:  "production",
	}

	require.Equal(t, "development", cfg.StageBranch(models.StageDevelopment))
	require.Equal(t, "staging", cfg.StageBranch(models.StageStaging))
	require.Equal(t, "production", cfg.StageBranch(models.StageProduction))
}
