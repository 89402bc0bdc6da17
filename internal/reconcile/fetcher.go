package reconcile

import (
	"github.com/dokai/gitctl/internal/config"
	"github.com/dokai/gitctl/internal/filesystem"
	"github.com/dokai/gitctl/internal/git"
	"github.com/dokai/gitctl/internal/models"
	"github.com/dokai/gitctl/internal/report"
)

// Fetcher updates remote refs for every project without touching any
// working tree.
type Fetcher struct {
	fs     filesystem.FileSystem
	client git.Client
	cfg    *config.Config
	sink   report.Sink
}

// NewFetcher creates a new Fetcher
func NewFetcher(fs filesystem.FileSystem, client git.Client, cfg *config.Config, sink report.Sink) *Fetcher {
	return &Fetcher{
		fs:     fs,
		client: client,
		cfg:    cfg,
		sink:   sink,
	}
}

// Run fetches each project from upstream in turn.
func (f *Fetcher) Run(projects []*models.Project) {
	for _, p := range projects {
		if !f.fs.Exists(p.Path) {
			f.sink.Report(models.Outcome{Project: p.Name, Kind: models.OutcomeSkipped, Reason: "not checked out locally, run update first"})
			continue
		}

		repo, err := f.client.Open(p.Path)
		if err != nil {
			f.sink.Report(models.Outcome{Project: p.Name, Kind: models.OutcomeFatal, Message: err.Error()})
			continue
		}

		if err := repo.Fetch(f.cfg.Upstream); err != nil {
			f.sink.Report(models.Outcome{Project: p.Name, Kind: models.OutcomeFatal, Message: err.Error()})
			continue
		}

		f.sink.Report(models.Outcome{Project: p.Name, Kind: models.OutcomeFetched})
	}
}
