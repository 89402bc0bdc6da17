package git

import (
	"context"
)

// PullMode selects how a pull integrates upstream commits.
type PullMode int

const (
	// PullFFOnly refuses any pull that would require a merge commit.
	// Divergence surfaces as a non-fast-forward rejection in the pull
	// result instead of an implicit merge.
	PullFFOnly PullMode = iota

	// PullRebase replays local commits on top of the upstream tip.
	PullRebase
)

// PullResult is the typed outcome of a pull attempt. A refused pull is
// data for the caller to classify, not an error: Stderr carries the
// native tool's explanation verbatim.
type PullResult struct {
	OK     bool
	Stderr string
}

// Commit is one entry of a commit log.
type Commit struct {
	SHA     string
	Subject string
}

// Client opens and creates local working copies.
type Client interface {
	// Open returns a handle for an existing working copy at path.
	Open(path string) (Repository, error)

	// Clone creates a working copy of url at path, naming the upstream
	// remote after remote. With noCheckout the working tree is left
	// unpopulated so tracking branches can be arranged first.
	Clone(remote, url, path string, noCheckout bool) (Repository, error)

	// Context support for network operations
	WithContext(ctx context.Context) Client
}

// Repository provides an abstraction over one working copy's git
// operations for testability. All other components consume this
// contract; no other VCS access path exists.
//
// Every operation either succeeds with a typed result or fails with an
// *ExecError carrying the native tool's exit status and stderr; none
// fail silently.
type Repository interface {
	Fetch(remote string) error

	LocalBranches() (map[string]bool, error)
	RemoteBranches() (map[string]bool, error)
	CurrentBranch() (string, error)

	IsDirty() (bool, error)

	RevParse(ref string) (string, error)
	Diff(a, b string) (string, error)

	// Log lists the commits reachable from to but not from from, i.e.
	// the exclusive range from..to.
	Log(from, to string) ([]Commit, error)

	// LogPatch renders the full patch (stat, summary and diff) for the
	// range from..to.
	LogPatch(from, to string) (string, error)

	Checkout(ref string) error
	HardReset(ref string) error
	CreateTrackingBranch(local, remote string) error

	Pull(remote, refspec string, mode PullMode) (PullResult, error)
}
