package reconcile

import (
	"fmt"
	"io"

	"github.com/dokai/gitctl/internal/config"
	"github.com/dokai/gitctl/internal/filesystem"
	"github.com/dokai/gitctl/internal/git"
	"github.com/dokai/gitctl/internal/models"
	"github.com/dokai/gitctl/internal/report"
)

// PendingOptions selects which stage transition to inspect and how to
// report it.
type PendingOptions struct {
	// Stage is the target of the transition. Production compares the
	// pinned revision against the production tip, staging compares
	// production against staging, development compares staging against
	// development.
	Stage models.Stage

	// Diff appends the full patch between the endpoints to DiffWriter.
	Diff bool

	// Regenerate rewrites each project's treeish to the newly promoted
	// revision instead of reporting. Only valid for the production
	// transition.
	Regenerate bool

	// NoFetch skips the upstream fetch before comparing.
	NoFetch bool

	DiffWriter io.Writer
}

// Comparator computes promotion drift between adjacent pipeline stages.
type Comparator struct {
	fs     filesystem.FileSystem
	client git.Client
	cfg    *config.Config
	sink   report.Sink
}

// NewComparator creates a new Comparator
func NewComparator(fs filesystem.FileSystem, client git.Client, cfg *config.Config, sink report.Sink) *Comparator {
	return &Comparator{
		fs:     fs,
		client: client,
		cfg:    cfg,
		sink:   sink,
	}
}

// Run compares every project and reports the commit distance between the
// requested stage and its predecessor. It returns true when regenerate
// mode rewrote at least one treeish, in which case the caller serializes
// the project list back through the registry.
func (c *Comparator) Run(projects []*models.Project, opts PendingOptions) (bool, error) {
	if opts.Regenerate && opts.Stage != models.StageProduction {
		return false, fmt.Errorf("%w: regenerate mode only applies to the production transition", config.ErrInvalid)
	}

	mutated := false
	for _, p := range projects {
		if c.compareProject(p, opts) {
			mutated = true
		}
	}
	return mutated, nil
}

// compareProject handles one project and reports whether its treeish was
// rewritten.
func (c *Comparator) compareProject(p *models.Project, opts PendingOptions) bool {
	if !c.fs.Exists(p.Path) {
		c.skip(p, "not checked out locally, run update first")
		return false
	}

	repo, err := c.client.Open(p.Path)
	if err != nil {
		c.fatal(p, err)
		return false
	}

	localBranches, err := repo.LocalBranches()
	if err != nil {
		c.fatal(p, err)
		return false
	}

	// Projects without the development branch do not share the pipeline
	// layout (third-party packages, typically) and are out of scope.
	if !localBranches[c.cfg.DevelopmentBranch] {
		c.skip(p, "does not follow the promotion model")
		return false
	}

	dirty, err := repo.IsDirty()
	if err != nil {
		c.fatal(p, err)
		return false
	}
	if dirty {
		c.sink.Report(models.Outcome{Project: p.Name, Kind: models.OutcomeDirty})
		return false
	}

	if !opts.NoFetch {
		if err := repo.Fetch(c.cfg.Upstream); err != nil {
			c.fatal(p, err)
			return false
		}
	}

	// Non-production comparisons run against local pipeline branches, so
	// stale ones would make the commit distance meaningless. Production
	// compares against the remote tip and is exempt.
	if opts.Stage != models.StageProduction {
		if c.reportStaleBranches(p, repo, localBranches) {
			c.skip(p, "out of sync with upstream, run update first")
			return false
		}
	}

	from, to, fromLabel, toLabel, ok := c.resolveEndpoints(p, repo, opts.Stage, localBranches)
	if !ok {
		return false
	}

	if from == to {
		c.sink.Report(models.Outcome{Project: p.Name, Kind: models.OutcomeUpToDate})
		return false
	}

	if opts.Regenerate {
		// Capture the newly promoted pin; reporting is replaced by the
		// serialized registry.
		p.Treeish = to
		return true
	}

	commits, err := repo.Log(from, to)
	if err != nil {
		c.fatal(p, err)
		return false
	}

	c.sink.Report(models.Outcome{
		Project: p.Name,
		Kind:    models.OutcomeAheadBy,
		Ahead:   len(commits),
		From:    fromLabel,
		To:      toLabel,
	})

	if opts.Diff && opts.DiffWriter != nil {
		patch, err := repo.LogPatch(from, to)
		if err != nil {
			c.fatal(p, err)
			return false
		}
		fmt.Fprint(opts.DiffWriter, patch)
	}

	return false
}

// reportStaleBranches emits an out-of-sync line for every mapped branch
// that differs from its remote counterpart and reports whether any did.
func (c *Comparator) reportStaleBranches(p *models.Project, repo git.Repository, localBranches map[string]bool) bool {
	remoteBranches, err := repo.RemoteBranches()
	if err != nil {
		c.fatal(p, err)
		return true
	}

	stale := false
	for _, b := range c.cfg.Branches {
		if !remoteBranches[b.Remote] || !localBranches[b.Local] {
			continue
		}
		diff, err := repo.Diff(b.Remote, b.Local)
		if err != nil {
			c.fatal(p, err)
			stale = true
			continue
		}
		if diff != "" {
			c.sink.Report(models.Outcome{Project: p.Name, Kind: models.OutcomeOutOfSync, Branch: b.Local})
			stale = true
		}
	}
	return stale
}

// resolveEndpoints maps the requested transition to its two comparison
// commits and their report labels.
func (c *Comparator) resolveEndpoints(p *models.Project, repo git.Repository, stage models.Stage, localBranches map[string]bool) (from, to, fromLabel, toLabel string, ok bool) {
	assertBranch := func(branch string) bool {
		if localBranches[branch] {
			return true
		}
		c.skip(p, fmt.Sprintf("branch ``%s`` does not exist", branch))
		return false
	}

	resolve := func(ref string) (string, bool) {
		sha, err := repo.RevParse(ref)
		if err != nil {
			c.fatal(p, err)
			return "", false
		}
		return sha, true
	}

	switch stage {
	case models.StageProduction:
		if !assertBranch(c.cfg.ProductionBranch) {
			return
		}
		if !p.Pinned() {
			c.skip(p, fmt.Sprintf("treeish is not a SHA1 revision: %s", p.Treeish))
			return
		}
		if from, ok = resolve(p.Treeish); !ok {
			return
		}
		if to, ok = resolve(c.cfg.Upstream + "/" + c.cfg.ProductionBranch); !ok {
			return
		}
		fromLabel = fmt.Sprintf("the pinned revision %s", from)
		toLabel = c.cfg.ProductionBranch

	case models.StageStaging:
		if !assertBranch(c.cfg.ProductionBranch) || !assertBranch(c.cfg.StagingBranch) {
			return
		}
		if from, ok = resolve(c.cfg.ProductionBranch); !ok {
			return
		}
		if to, ok = resolve(c.cfg.StagingBranch); !ok {
			return
		}
		fromLabel = c.cfg.ProductionBranch
		toLabel = c.cfg.StagingBranch

	case models.StageDevelopment:
		if !assertBranch(c.cfg.StagingBranch) || !assertBranch(c.cfg.DevelopmentBranch) {
			return
		}
		if from, ok = resolve(c.cfg.StagingBranch); !ok {
			return
		}
		if to, ok = resolve(c.cfg.DevelopmentBranch); !ok {
			return
		}
		fromLabel = c.cfg.StagingBranch
		toLabel = c.cfg.DevelopmentBranch
	}

	return from, to, fromLabel, toLabel, ok
}

func (c *Comparator) skip(p *models.Project, reason string) {
	c.sink.Report(models.Outcome{Project: p.Name, Kind: models.OutcomeSkipped, Reason: reason})
}

func (c *Comparator) fatal(p *models.Project, err error) {
	c.sink.Report(models.Outcome{Project: p.Name, Kind: models.OutcomeFatal, Message: err.Error()})
}
