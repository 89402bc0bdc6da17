package reconcile_test

import (
	"testing"

	"github.com/dokai/gitctl/internal/config"
	"github.com/dokai/gitctl/internal/filesystem"
	"github.com/dokai/gitctl/internal/git"
	"github.com/dokai/gitctl/internal/models"
	"github.com/dokai/gitctl/internal/report"
	"github.com/stretchr/testify/require"
)

const (
	projectPath = "/work/app"
	projectURL  = "git@example.com:app.git"
)

// fixture wires one synchronized project with the full pipeline layout:
// an upstream with development, staging and production branches, a
// working copy tracking all three, and a recording outcome sink.
type fixture struct {
	fs      *filesystem.MockFileSystem
	client  *git.MockClient
	cfg     *config.Config
	sink    *report.Recorder
	remote  *git.MockRemote
	repo    *git.MockRepository
	project *models.Project
}

func testConfig() *config.Config {
	return &config.Config{
		Upstream: "origin",
		Branches: []config.BranchMapping{
			{Remote: "origin/development", Local: "development"},
			{Remote: "origin/staging", Local: "staging"},
			{Remote: "origin/production", Local: "production"},
		},
		DevelopmentBranch: "development",
		StagingBranch:     "staging",
		ProductionBranch:  "production",
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	remote := git.NewMockRemote("development")
	require.NoError(t, remote.Branch("staging", "development"))
	require.NoError(t, remote.Branch("production", "development"))

	repo := newTrackedRepo(t, remote)

	client := git.NewMockClient()
	client.AddRemote(projectURL, remote)
	client.AddRepository(projectPath, repo)

	fs := filesystem.NewMockFileSystem()
	fs.AddDir(projectPath)

	return &fixture{
		fs:      fs,
		client:  client,
		cfg:     testConfig(),
		sink:    report.NewRecorder(),
		remote:  remote,
		repo:    repo,
		project: models.NewProject("app", projectURL, "development", projectPath),
	}
}

// newTrackedRepo clones remote and arranges local tracking branches for
// the staging and production pipeline branches.
func newTrackedRepo(t *testing.T, remote *git.MockRemote) *git.MockRepository {
	t.Helper()
	repo := git.NewMockRepository(remote, "origin")
	require.NoError(t, repo.CreateTrackingBranch("staging", "origin/staging"))
	require.NoError(t, repo.CreateTrackingBranch("production", "origin/production"))
	return repo
}

func (f *fixture) projects() []*models.Project {
	return []*models.Project{f.project}
}

// requireKinds asserts the exact ordered outcome kinds recorded for the
// fixture project.
func requireKinds(t *testing.T, sink *report.Recorder, kinds ...models.OutcomeKind) {
	t.Helper()
	if len(kinds) == 0 {
		require.Empty(t, sink.Kinds("app"))
		return
	}
	require.Equal(t, kinds, sink.Kinds("app"))
}
