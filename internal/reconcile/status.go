package reconcile

import (
	"github.com/dokai/gitctl/internal/config"
	"github.com/dokai/gitctl/internal/filesystem"
	"github.com/dokai/gitctl/internal/git"
	"github.com/dokai/gitctl/internal/models"
	"github.com/dokai/gitctl/internal/report"
)

// Status checks branch-by-branch drift between each project's local
// branches and their remote counterparts, independent of promotion
// order.
type Status struct {
	fs     filesystem.FileSystem
	client git.Client
	cfg    *config.Config
	sink   report.Sink
}

// NewStatus creates a new Status checker
func NewStatus(fs filesystem.FileSystem, client git.Client, cfg *config.Config, sink report.Sink) *Status {
	return &Status{
		fs:     fs,
		client: client,
		cfg:    cfg,
		sink:   sink,
	}
}

// Run reports the sync state of every project. A project is OK only if
// none of its mapped branches drifted from upstream.
func (s *Status) Run(projects []*models.Project, noFetch bool) {
	for _, p := range projects {
		s.checkProject(p, noFetch)
	}
}

func (s *Status) checkProject(p *models.Project, noFetch bool) {
	if !s.fs.Exists(p.Path) {
		s.sink.Report(models.Outcome{Project: p.Name, Kind: models.OutcomeSkipped, Reason: "not checked out locally, run update first"})
		return
	}

	repo, err := s.client.Open(p.Path)
	if err != nil {
		s.fatal(p, err)
		return
	}

	dirty, err := repo.IsDirty()
	if err != nil {
		s.fatal(p, err)
		return
	}
	if dirty {
		s.sink.Report(models.Outcome{Project: p.Name, Kind: models.OutcomeDirty})
		return
	}

	if !noFetch {
		if err := repo.Fetch(s.cfg.Upstream); err != nil {
			s.fatal(p, err)
			return
		}
	}

	remoteBranches, err := repo.RemoteBranches()
	if err != nil {
		s.fatal(p, err)
		return
	}

	inSync := true
	for _, b := range s.cfg.Branches {
		if !remoteBranches[b.Remote] {
			continue
		}
		diff, err := repo.Diff(b.Remote, b.Local)
		if err != nil {
			s.fatal(p, err)
			inSync = false
			continue
		}
		if diff != "" {
			s.sink.Report(models.Outcome{Project: p.Name, Kind: models.OutcomeOutOfSync, Branch: b.Local})
			inSync = false
		}
	}

	if inSync {
		s.sink.Report(models.Outcome{Project: p.Name, Kind: models.OutcomeUpToDate})
	}
}

func (s *Status) fatal(p *models.Project, err error) {
	s.sink.Report(models.Outcome{Project: p.Name, Kind: models.OutcomeFatal, Message: err.Error()})
}
