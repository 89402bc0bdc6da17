package reconcile

import (
	"strings"

	"github.com/dokai/gitctl/internal/config"
	"github.com/dokai/gitctl/internal/filesystem"
	"github.com/dokai/gitctl/internal/git"
	"github.com/dokai/gitctl/internal/models"
	"github.com/dokai/gitctl/internal/report"
)

// Updater brings projects to a consistent state with upstream: a clone
// with tracking branches for missing checkouts, a hard reset for pinned
// projects, and per-branch fast-forward pulls for floating ones. No step
// ever synthesizes a merge commit.
type Updater struct {
	fs     filesystem.FileSystem
	client git.Client
	cfg    *config.Config
	sink   report.Sink
}

// NewUpdater creates a new Updater
func NewUpdater(fs filesystem.FileSystem, client git.Client, cfg *config.Config, sink report.Sink) *Updater {
	return &Updater{
		fs:     fs,
		client: client,
		cfg:    cfg,
		sink:   sink,
	}
}

// Run updates each project in turn. A failure in one project is
// reported and confined to it; the loop always advances.
func (u *Updater) Run(projects []*models.Project, rebase bool) {
	for _, p := range projects {
		u.updateProject(p, rebase)
	}
}

func (u *Updater) updateProject(p *models.Project, rebase bool) {
	if !u.fs.Exists(p.Path) {
		u.cloneProject(p)
		return
	}

	repo, err := u.client.Open(p.Path)
	if err != nil {
		u.fatal(p, err)
		return
	}

	// The dirty check comes before any fetch or mutation: a project with
	// uncommitted changes is left entirely alone.
	dirty, err := repo.IsDirty()
	if err != nil {
		u.fatal(p, err)
		return
	}
	if dirty {
		u.sink.Report(models.Outcome{Project: p.Name, Kind: models.OutcomeDirty})
		return
	}

	if err := repo.Fetch(u.cfg.Upstream); err != nil {
		u.fatal(p, err)
		return
	}

	if p.Pinned() {
		u.pinProject(p, repo)
		return
	}

	u.fastForwardProject(p, repo, rebase)
}

// cloneProject creates a fresh checkout: clone with the working tree
// suppressed, arrange a tracking branch for every mapped remote branch,
// then check out the configured treeish.
func (u *Updater) cloneProject(p *models.Project) {
	repo, err := u.client.Clone(u.cfg.Upstream, p.URL, p.Path, true)
	if err != nil {
		u.fatal(p, err)
		return
	}

	remoteBranches, err := repo.RemoteBranches()
	if err != nil {
		u.fatal(p, err)
		return
	}
	localBranches, err := repo.LocalBranches()
	if err != nil {
		u.fatal(p, err)
		return
	}

	for _, b := range u.cfg.Branches {
		if !remoteBranches[b.Remote] || localBranches[b.Local] {
			continue
		}
		if err := repo.CreateTrackingBranch(b.Local, b.Remote); err != nil {
			u.fatal(p, err)
			return
		}
	}

	if err := repo.Checkout(p.Treeish); err != nil {
		u.fatal(p, err)
		return
	}

	u.sink.Report(models.Outcome{Project: p.Name, Kind: models.OutcomeCloned, Revision: p.Treeish})
}

// pinProject hard-resets the working tree to the pinned revision. This
// discards unpushed local commits.
func (u *Updater) pinProject(p *models.Project, repo git.Repository) {
	pinnedAt, err := repo.RevParse("HEAD")
	if err != nil {
		u.fatal(p, err)
		return
	}

	if err := repo.HardReset(p.Treeish); err != nil {
		u.fatal(p, err)
		return
	}

	if pinnedAt == p.Treeish {
		u.sink.Report(models.Outcome{Project: p.Name, Kind: models.OutcomeUpToDate})
		return
	}
	u.sink.Report(models.Outcome{Project: p.Name, Kind: models.OutcomePinned, Revision: p.Treeish})
}

// fastForwardProject updates every mapped branch that exists both
// remotely and locally. Each branch is checked out before its pull so
// the refspec update never creates an implicit merge; a diverged branch
// is reported as a conflict and left untouched while the remaining
// branches still update.
func (u *Updater) fastForwardProject(p *models.Project, repo git.Repository, rebase bool) {
	active, err := repo.CurrentBranch()
	if err != nil {
		u.fatal(p, err)
		return
	}
	restore := active
	if restore == "" {
		restore = p.Treeish
	}

	remoteBranches, err := repo.RemoteBranches()
	if err != nil {
		u.fatal(p, err)
		return
	}
	localBranches, err := repo.LocalBranches()
	if err != nil {
		u.fatal(p, err)
		return
	}

	mode := git.PullFFOnly
	if rebase {
		mode = git.PullRebase
	}

	var forwarded []string
	failed := false

	for _, b := range u.cfg.Branches {
		if !remoteBranches[b.Remote] || !localBranches[b.Local] {
			continue
		}

		remoteTip, err := repo.RevParse(b.Remote)
		if err != nil {
			u.fatal(p, err)
			failed = true
			continue
		}
		localTip, err := repo.RevParse(b.Local)
		if err != nil {
			u.fatal(p, err)
			failed = true
			continue
		}
		if remoteTip == localTip {
			continue
		}

		if err := repo.Checkout(b.Local); err != nil {
			u.fatal(p, err)
			failed = true
			continue
		}

		result, err := repo.Pull(u.cfg.Upstream, b.Local+":"+b.Local, mode)
		if err != nil {
			u.fatal(p, err)
			failed = true
			continue
		}

		if !result.OK {
			if isNonFastForward(result.Stderr) {
				u.sink.Report(models.Outcome{Project: p.Name, Kind: models.OutcomeConflict, Branch: b.Local})
			} else {
				u.sink.Report(models.Outcome{
					Project: p.Name,
					Kind:    models.OutcomeFatal,
					Message: strings.TrimSpace(result.Stderr),
				})
				failed = true
			}
			continue
		}

		forwarded = append(forwarded, b.Local)
	}

	if err := repo.Checkout(restore); err != nil {
		u.fatal(p, err)
		failed = true
	}

	// Conflicts on individual branches do not suppress the overall
	// verdict; a fatal failure does, so the fatal line stands alone.
	if failed {
		return
	}
	if len(forwarded) > 0 {
		u.sink.Report(models.Outcome{Project: p.Name, Kind: models.OutcomeFastForwarded, Branches: forwarded})
		return
	}
	u.sink.Report(models.Outcome{Project: p.Name, Kind: models.OutcomeUpToDate})
}

func (u *Updater) fatal(p *models.Project, err error) {
	u.sink.Report(models.Outcome{Project: p.Name, Kind: models.OutcomeFatal, Message: err.Error()})
}

// isNonFastForward recognizes git's refusal to update a diverged branch.
// Older versions spell it without hyphens.
func isNonFastForward(stderr string) bool {
	lower := strings.ToLower(stderr)
	return strings.Contains(lower, "non-fast-forward") || strings.Contains(lower, "non fast forward")
}
