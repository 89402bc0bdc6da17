package reconcile

import (
	"fmt"

	"github.com/dokai/gitctl/internal/filesystem"
	"github.com/dokai/gitctl/internal/git"
	"github.com/dokai/gitctl/internal/models"
	"github.com/dokai/gitctl/internal/report"
)

// Switcher operates on project branches: listing the active branch or
// switching every project to a named one.
type Switcher struct {
	fs     filesystem.FileSystem
	client git.Client
	sink   report.Sink
}

// NewSwitcher creates a new Switcher
func NewSwitcher(fs filesystem.FileSystem, client git.Client, sink report.Sink) *Switcher {
	return &Switcher{
		fs:     fs,
		client: client,
		sink:   sink,
	}
}

// List reports the currently checked-out branch of every project.
func (s *Switcher) List(projects []*models.Project) {
	for _, p := range projects {
		repo, ok := s.open(p)
		if !ok {
			continue
		}

		active, err := repo.CurrentBranch()
		if err != nil {
			s.fatal(p, err)
			continue
		}
		s.sink.Report(models.Outcome{Project: p.Name, Kind: models.OutcomeActiveBranch, Branch: active})
	}
}

// Checkout switches every project to branch. Dirty projects and projects
// without the branch are left alone.
func (s *Switcher) Checkout(projects []*models.Project, branch string) {
	for _, p := range projects {
		repo, ok := s.open(p)
		if !ok {
			continue
		}

		dirty, err := repo.IsDirty()
		if err != nil {
			s.fatal(p, err)
			continue
		}
		if dirty {
			s.sink.Report(models.Outcome{Project: p.Name, Kind: models.OutcomeDirty})
			continue
		}

		localBranches, err := repo.LocalBranches()
		if err != nil {
			s.fatal(p, err)
			continue
		}
		if !localBranches[branch] {
			s.sink.Report(models.Outcome{Project: p.Name, Kind: models.OutcomeSkipped, Reason: fmt.Sprintf("no such branch: ``%s``", branch)})
			continue
		}

		active, err := repo.CurrentBranch()
		if err != nil {
			s.fatal(p, err)
			continue
		}
		if active == branch {
			s.sink.Report(models.Outcome{Project: p.Name, Kind: models.OutcomeUpToDate})
			continue
		}

		if err := repo.Checkout(branch); err != nil {
			s.fatal(p, err)
			continue
		}
		s.sink.Report(models.Outcome{Project: p.Name, Kind: models.OutcomeCheckedOut, Branch: branch})
	}
}

func (s *Switcher) open(p *models.Project) (git.Repository, bool) {
	if !s.fs.Exists(p.Path) {
		s.sink.Report(models.Outcome{Project: p.Name, Kind: models.OutcomeSkipped, Reason: "not checked out locally, run update first"})
		return nil, false
	}

	repo, err := s.client.Open(p.Path)
	if err != nil {
		s.fatal(p, err)
		return nil, false
	}
	return repo, true
}

func (s *Switcher) fatal(p *models.Project, err error) {
	s.sink.Report(models.Outcome{Project: p.Name, Kind: models.OutcomeFatal, Message: err.Error()})
}
