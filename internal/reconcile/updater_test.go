package reconcile_test

import (
	"errors"
	"testing"

	"github.com/dokai/gitctl/internal/filesystem"
	"github.com/dokai/gitctl/internal/git"
	"github.com/dokai/gitctl/internal/models"
	"github.com/dokai/gitctl/internal/reconcile"
	"github.com/dokai/gitctl/internal/report"
	"github.com/stretchr/testify/require"
)

func TestUpdater_ClonesMissingProject(t *testing.T) {
	remote := git.NewMockRemote("development")
	require.NoError(t, remote.Branch("staging", "development"))
	require.NoError(t, remote.Branch("production", "development"))

	client := git.NewMockClient()
	client.AddRemote(projectURL, remote)
	fs := filesystem.NewMockFileSystem()
	sink := report.NewRecorder()

	p := models.NewProject("app", projectURL, "development", projectPath)
	reconcile.NewUpdater(fs, client, testConfig(), sink).Run([]*models.Project{p}, false)

	require.Equal(t, []models.OutcomeKind{models.OutcomeCloned}, sink.Kinds("app"))

	// The clone carries a tracking branch for every mapped remote branch
	// and ends up on the configured treeish.
	repo := client.Repository(projectPath)
	require.NotNil(t, repo)
	locals, err := repo.LocalBranches()
	require.NoError(t, err)
	require.True(t, locals["development"])
	require.True(t, locals["staging"])
	require.True(t, locals["production"])
	require.Equal(t, "development", repo.Head())
}

func TestUpdater_FastForwardsBehindBranches(t *testing.T) {
	f := newFixture(t)
	f.remote.Commit("development", "Add feature")
	f.remote.Commit("staging", "Promote feature")

	updater := reconcile.NewUpdater(f.fs, f.client, f.cfg, f.sink)
	updater.Run(f.projects(), false)

	requireKinds(t, f.sink, models.OutcomeFastForwarded)
	outcome := f.sink.ForProject("app")[0]
	require.Equal(t, []string{"development", "staging"}, outcome.Branches)

	require.Equal(t, f.remote.Tip("development"), f.repo.BranchTip("development"))
	require.Equal(t, f.remote.Tip("staging"), f.repo.BranchTip("staging"))
	require.Equal(t, f.remote.Tip("production"), f.repo.BranchTip("production"))
}

func TestUpdater_RestoresActiveBranchAfterUpdate(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.repo.Checkout("production"))
	f.remote.Commit("development", "Add feature")

	updater := reconcile.NewUpdater(f.fs, f.client, f.cfg, f.sink)
	updater.Run(f.projects(), false)

	require.Equal(t, "production", f.repo.Head())
}

func TestUpdater_Idempotence(t *testing.T) {
	f := newFixture(t)
	f.remote.Commit("development", "Add feature")

	updater := reconcile.NewUpdater(f.fs, f.client, f.cfg, f.sink)
	updater.Run(f.projects(), false)
	requireKinds(t, f.sink, models.OutcomeFastForwarded)

	// A second run with no upstream changes reports nothing to do and
	// leaves every branch tip in place.
	tip := f.repo.BranchTip("development")
	second := report.NewRecorder()
	reconcile.NewUpdater(f.fs, f.client, f.cfg, second).Run(f.projects(), false)

	require.Equal(t, []models.OutcomeKind{models.OutcomeUpToDate}, second.Kinds("app"))
	require.Equal(t, tip, f.repo.BranchTip("development"))
}

func TestUpdater_PinnedProjectHardResets(t *testing.T) {
	f := newFixture(t)
	pin := f.remote.Tip("development")
	f.remote.Commit("development", "Later work")
	require.NoError(t, f.repo.Fetch("origin"))
	require.NoError(t, f.repo.Checkout(pin))

	f.project.Treeish = pin
	f.repo.CommitLocal("development", "Unrelated local commit")

	updater := reconcile.NewUpdater(f.fs, f.client, f.cfg, f.sink)
	updater.Run(f.projects(), false)

	// HEAD already sits on the pin, so the reset is a no-op.
	requireKinds(t, f.sink, models.OutcomeUpToDate)
	require.Equal(t, pin, f.repo.Head())
}

func TestUpdater_PinnedProjectMovesToPin(t *testing.T) {
	f := newFixture(t)
	pin := f.remote.Tip("development")
	f.remote.Commit("development", "Later work")

	f.project.Treeish = pin

	updater := reconcile.NewUpdater(f.fs, f.client, f.cfg, f.sink)
	updater.Run(f.projects(), false)

	requireKinds(t, f.sink, models.OutcomePinned)
	head, err := f.repo.RevParse("HEAD")
	require.NoError(t, err)
	require.Equal(t, pin, head)
}

func TestUpdater_DirtyProjectIsNeverTouched(t *testing.T) {
	f := newFixture(t)
	f.repo.SetDirty(true)
	f.remote.Commit("development", "Upstream change")

	updater := reconcile.NewUpdater(f.fs, f.client, f.cfg, f.sink)
	updater.Run(f.projects(), false)

	requireKinds(t, f.sink, models.OutcomeDirty)

	// No fetch happened: the remote-tracking ref still points at the
	// pre-change tip.
	stale, err := f.repo.RevParse("origin/development")
	require.NoError(t, err)
	require.NotEqual(t, f.remote.Tip("development"), stale)
}

func TestUpdater_ConflictIsolatedPerBranch(t *testing.T) {
	f := newFixture(t)
	f.repo.CommitLocal("development", "Diverging local commit")
	f.remote.Commit("development", "Diverging upstream commit")
	f.remote.Commit("staging", "Promote fix")

	updater := reconcile.NewUpdater(f.fs, f.client, f.cfg, f.sink)
	updater.Run(f.projects(), false)

	// The diverged branch is reported and skipped; the clean one still
	// advances, and the run still counts as an update.
	requireKinds(t, f.sink, models.OutcomeConflict, models.OutcomeFastForwarded)

	outcomes := f.sink.ForProject("app")
	require.Equal(t, "development", outcomes[0].Branch)
	require.Equal(t, []string{"staging"}, outcomes[1].Branches)
	require.Equal(t, f.remote.Tip("staging"), f.repo.BranchTip("staging"))
}

func TestUpdater_FatalSuppressesUpdateVerdict(t *testing.T) {
	f := newFixture(t)
	f.remote.Commit("development", "Ok change")
	f.remote.Commit("staging", "Broken change")
	f.repo.PullFailures["staging"] = "fatal: unable to access remote"

	updater := reconcile.NewUpdater(f.fs, f.client, f.cfg, f.sink)
	updater.Run(f.projects(), false)

	requireKinds(t, f.sink, models.OutcomeFatal)
}

func TestUpdater_RebasePullRewritesDivergedBranch(t *testing.T) {
	f := newFixture(t)
	f.repo.CommitLocal("development", "Local commit")
	f.remote.Commit("development", "Upstream commit")

	updater := reconcile.NewUpdater(f.fs, f.client, f.cfg, f.sink)
	updater.Run(f.projects(), true)

	requireKinds(t, f.sink, models.OutcomeFastForwarded)

	// The rebased tip sits on top of the upstream commit instead of
	// merging it.
	log, err := f.repo.Log("origin/development", "development")
	require.NoError(t, err)
	require.Len(t, log, 1)
}

func TestUpdater_FetchErrorIsFatalAndConfined(t *testing.T) {
	f := newFixture(t)
	f.repo.FetchError = errors.New("could not resolve host")

	other := models.NewProject("lib", projectURL, "development", "/work/lib")
	remote := f.remote
	repo := newTrackedRepo(t, remote)
	f.client.AddRepository("/work/lib", repo)
	f.fs.AddDir("/work/lib")

	updater := reconcile.NewUpdater(f.fs, f.client, f.cfg, f.sink)
	updater.Run([]*models.Project{f.project, other}, false)

	requireKinds(t, f.sink, models.OutcomeFatal)
	require.Equal(t, []models.OutcomeKind{models.OutcomeUpToDate}, f.sink.Kinds("lib"))
}
