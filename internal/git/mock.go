package git

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// MockCommit represents a git commit
type MockCommit struct {
	SHA     string
	Parents []string
	Subject string
}

// Simple counter for unique commit hashes
var (
	hashCounterMu    sync.Mutex
	hashCounterValue uint64
)

// generateSHA generates a unique full-length commit hash
func generateSHA() string {
	hashCounterMu.Lock()
	defer hashCounterMu.Unlock()
	hashCounterValue++
	return fmt.Sprintf("%040x", hashCounterValue)
}

// MockRemote simulates one upstream repository. Clones and fetches of
// the same remote share its state, so advancing an upstream branch is
// visible to every working copy that syncs against it.
type MockRemote struct {
	mu            sync.Mutex
	commits       map[string]*MockCommit
	branches      map[string]string // branch name -> tip SHA
	defaultBranch string
}

// NewMockRemote creates an upstream repository with an initial commit on
// defaultBranch.
func NewMockRemote(defaultBranch string) *MockRemote {
	r := &MockRemote{
		commits:       make(map[string]*MockCommit),
		branches:      make(map[string]string),
		defaultBranch: defaultBranch,
	}

	sha := generateSHA()
	r.commits[sha] = &MockCommit{SHA: sha, Subject: "Initial commit"}
	r.branches[defaultBranch] = sha
	return r
}

// Commit appends a commit to branch and returns its SHA. A missing
// branch is created at the new commit.
func (r *MockRemote) Commit(branch, subject string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var parents []string
	if tip, ok := r.branches[branch]; ok {
		parents = []string{tip}
	}

	sha := generateSHA()
	r.commits[sha] = &MockCommit{SHA: sha, Parents: parents, Subject: subject}
	r.branches[branch] = sha
	return sha
}

// Branch creates branch at the tip of from.
func (r *MockRemote) Branch(name, from string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tip, ok := r.branches[from]
	if !ok {
		return fmt.Errorf("branch %s not found", from)
	}
	r.branches[name] = tip
	return nil
}

// Tip returns the current tip of branch, or "" if absent.
func (r *MockRemote) Tip(branch string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.branches[branch]
}

// MockClient implements Client over a set of scripted remotes and
// working copies.
type MockClient struct {
	mu      sync.Mutex
	remotes map[string]*MockRemote     // url -> upstream fixture
	repos   map[string]*MockRepository // path -> working copy
	ctx     context.Context

	// Hooks for testing error scenarios
	OpenError  error
	CloneError error
}

// NewMockClient creates a new MockClient
func NewMockClient() *MockClient {
	return &MockClient{
		remotes: make(map[string]*MockRemote),
		repos:   make(map[string]*MockRepository),
		ctx:     context.Background(),
	}
}

// WithContext returns a new client with the given context
func (c *MockClient) WithContext(ctx context.Context) Client {
	c.mu.Lock()
	defer c.mu.Unlock()

	return &MockClient{
		remotes:    c.remotes,
		repos:      c.repos,
		ctx:        ctx,
		OpenError:  c.OpenError,
		CloneError: c.CloneError,
	}
}

// AddRemote registers an upstream fixture under url (for test setup)
func (c *MockClient) AddRemote(url string, remote *MockRemote) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remotes[url] = remote
}

// AddRepository registers an existing working copy at path (for test setup)
func (c *MockClient) AddRepository(path string, repo *MockRepository) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.repos[path] = repo
}

// Repository returns the working copy registered at path (for test inspection)
func (c *MockClient) Repository(path string) *MockRepository {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.repos[path]
}

func (c *MockClient) Open(path string) (Repository, error) {
	if c.OpenError != nil {
		return nil, c.OpenError
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	repo, ok := c.repos[path]
	if !ok {
		return nil, fmt.Errorf("not a git repository: %s", path)
	}
	return repo, nil
}

func (c *MockClient) Clone(remote, url, path string, noCheckout bool) (Repository, error) {
	if c.CloneError != nil {
		return nil, c.CloneError
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	upstream, ok := c.remotes[url]
	if !ok {
		return nil, fmt.Errorf("repository not found: %s", url)
	}

	repo := NewMockRepository(upstream, remote)
	c.repos[path] = repo
	return repo, nil
}

// MockRepository implements Repository with an in-memory commit graph,
// local branches and remote-tracking refs backed by a MockRemote.
type MockRepository struct {
	mu         sync.Mutex
	upstream   *MockRemote
	remoteName string

	commits       map[string]*MockCommit
	localBranches map[string]string // branch name -> tip SHA
	remoteRefs    map[string]string // "origin/development" -> tip SHA

	head     string // branch name, or commit SHA when detached
	detached bool
	dirty    bool

	// Hooks for testing error scenarios
	FetchError error

	// PullFailures maps a destination branch to stderr text returned as
	// a failed pull verdict, overriding the simulated behavior.
	PullFailures map[string]string
}

// NewMockRepository creates a working copy cloned from upstream, with a
// local branch for the upstream default branch and remote-tracking refs
// for every upstream branch.
func NewMockRepository(upstream *MockRemote, remoteName string) *MockRepository {
	repo := &MockRepository{
		upstream:      upstream,
		remoteName:    remoteName,
		commits:       make(map[string]*MockCommit),
		localBranches: make(map[string]string),
		remoteRefs:    make(map[string]string),
		PullFailures:  make(map[string]string),
	}
	repo.syncFromUpstream()

	defaultBranch := upstream.defaultBranch
	repo.localBranches[defaultBranch] = repo.remoteRefs[remoteName+"/"+defaultBranch]
	repo.head = defaultBranch
	return repo
}

// syncFromUpstream copies the upstream object store and remote refs into
// the working copy. Callers hold r.mu.
func (r *MockRepository) syncFromUpstream() {
	r.upstream.mu.Lock()
	defer r.upstream.mu.Unlock()

	for sha, commit := range r.upstream.commits {
		r.commits[sha] = commit
	}
	for branch, tip := range r.upstream.branches {
		r.remoteRefs[r.remoteName+"/"+branch] = tip
	}
}

// SetDirty marks the working tree as having uncommitted changes (for test setup)
func (r *MockRepository) SetDirty(dirty bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dirty = dirty
}

// CommitLocal appends a local-only commit to branch and returns its SHA.
// Used to diverge a working copy from its upstream (for test setup).
func (r *MockRepository) CommitLocal(branch, subject string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var parents []string
	if tip, ok := r.localBranches[branch]; ok {
		parents = []string{tip}
	}

	sha := generateSHA()
	r.commits[sha] = &MockCommit{SHA: sha, Parents: parents, Subject: subject}
	r.localBranches[branch] = sha
	return sha
}

// SetBranch points a local branch at an explicit SHA (for test setup)
func (r *MockRepository) SetBranch(branch, sha string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.localBranches[branch] = sha
}

// DeleteBranch removes a local branch (for test setup)
func (r *MockRepository) DeleteBranch(branch string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.localBranches, branch)
}

// Head returns the current HEAD ref (for test inspection)
func (r *MockRepository) Head() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.head
}

// BranchTip returns the tip of a local branch (for test inspection)
func (r *MockRepository) BranchTip(branch string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.localBranches[branch]
}

func (r *MockRepository) Fetch(remote string) error {
	if r.FetchError != nil {
		return r.FetchError
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.syncFromUpstream()
	return nil
}

func (r *MockRepository) LocalBranches() (map[string]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	branches := make(map[string]bool, len(r.localBranches))
	for name := range r.localBranches {
		branches[name] = true
	}
	return branches, nil
}

func (r *MockRepository) RemoteBranches() (map[string]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	branches := make(map[string]bool, len(r.remoteRefs))
	for name := range r.remoteRefs {
		branches[name] = true
	}
	return branches, nil
}

func (r *MockRepository) CurrentBranch() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.detached {
		return "", nil
	}
	return r.head, nil
}

func (r *MockRepository) IsDirty() (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dirty, nil
}

// resolve maps a ref to a commit SHA. Callers hold r.mu.
func (r *MockRepository) resolve(ref string) (string, error) {
	switch {
	case ref == "HEAD":
		if r.detached {
			return r.head, nil
		}
		return r.localBranches[r.head], nil
	default:
		if sha, ok := r.localBranches[ref]; ok {
			return sha, nil
		}
		if sha, ok := r.remoteRefs[ref]; ok {
			return sha, nil
		}
		if _, ok := r.commits[ref]; ok {
			return ref, nil
		}
	}
	return "", fmt.Errorf("unknown revision: %s", ref)
}

func (r *MockRepository) RevParse(ref string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolve(ref)
}

func (r *MockRepository) Diff(a, b string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	shaA, err := r.resolve(a)
	if err != nil {
		return "", err
	}
	shaB, err := r.resolve(b)
	if err != nil {
		return "", err
	}

	if shaA == shaB {
		return "", nil
	}
	return fmt.Sprintf("diff --git %s %s\n", shaA, shaB), nil
}

// isAncestor checks if ancestor is reachable from descendant using BFS
// over the parent chain. Callers hold r.mu.
func (r *MockRepository) isAncestor(ancestor, descendant string) bool {
	if ancestor == descendant {
		return true
	}

	visited := make(map[string]bool)
	queue := []string{descendant}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if visited[current] {
			continue
		}
		visited[current] = true

		if current == ancestor {
			return true
		}

		if commit, ok := r.commits[current]; ok {
			queue = append(queue, commit.Parents...)
		}
	}

	return false
}

// reachable collects every commit reachable from sha. Callers hold r.mu.
func (r *MockRepository) reachable(sha string) map[string]bool {
	seen := make(map[string]bool)
	queue := []string{sha}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if seen[current] {
			continue
		}
		seen[current] = true

		if commit, ok := r.commits[current]; ok {
			queue = append(queue, commit.Parents...)
		}
	}

	return seen
}

func (r *MockRepository) Log(from, to string) ([]Commit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fromSHA, err := r.resolve(from)
	if err != nil {
		return nil, err
	}
	toSHA, err := r.resolve(to)
	if err != nil {
		return nil, err
	}

	excluded := r.reachable(fromSHA)

	var commits []Commit
	for sha := range r.reachable(toSHA) {
		if excluded[sha] {
			continue
		}
		commits = append(commits, Commit{SHA: sha, Subject: r.commits[sha].Subject})
	}

	// Newest first; mock SHAs are monotonic so ordering by SHA matches
	// creation order.
	sort.Slice(commits, func(i, j int) bool {
		return commits[i].SHA > commits[j].SHA
	})
	return commits, nil
}

func (r *MockRepository) LogPatch(from, to string) (string, error) {
	commits, err := r.Log(from, to)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, c := range commits {
		fmt.Fprintf(&b, "commit %s\n\n    %s\n\n 1 file changed\n", c.SHA, c.Subject)
	}
	return b.String(), nil
}

func (r *MockRepository) Checkout(ref string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.localBranches[ref]; ok {
		r.head = ref
		r.detached = false
		return nil
	}

	if _, ok := r.commits[ref]; ok {
		r.head = ref
		r.detached = true
		return nil
	}

	return fmt.Errorf("pathspec %q did not match any file(s) known to git", ref)
}

func (r *MockRepository) HardReset(ref string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sha, err := r.resolve(ref)
	if err != nil {
		return err
	}

	if r.detached {
		r.head = sha
	} else {
		r.localBranches[r.head] = sha
	}
	r.dirty = false
	return nil
}

func (r *MockRepository) CreateTrackingBranch(local, remote string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tip, ok := r.remoteRefs[remote]
	if !ok {
		return fmt.Errorf("not a valid object name: %s", remote)
	}
	r.localBranches[local] = tip
	return nil
}

func (r *MockRepository) Pull(remote, refspec string, mode PullMode) (PullResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	src, dst, found := strings.Cut(refspec, ":")
	if !found {
		dst = src
	}

	if stderr, ok := r.PullFailures[dst]; ok {
		return PullResult{OK: false, Stderr: stderr}, nil
	}

	// A pull starts with a fetch.
	r.syncFromUpstream()

	remoteTip := r.upstream.Tip(src)
	if remoteTip == "" {
		return PullResult{OK: false, Stderr: fmt.Sprintf("fatal: couldn't find remote ref %s", src)}, nil
	}

	localTip, ok := r.localBranches[dst]
	if !ok {
		return PullResult{OK: false, Stderr: fmt.Sprintf("error: unknown branch %s", dst)}, nil
	}

	if localTip == remoteTip {
		return PullResult{OK: true}, nil
	}

	if r.isAncestor(localTip, remoteTip) {
		r.localBranches[dst] = remoteTip
		return PullResult{OK: true}, nil
	}

	if mode == PullRebase {
		sha := generateSHA()
		r.commits[sha] = &MockCommit{
			SHA:     sha,
			Parents: []string{remoteTip},
			Subject: fmt.Sprintf("rebased %s", dst),
		}
		r.localBranches[dst] = sha
		return PullResult{OK: true}, nil
	}

	stderr := fmt.Sprintf(" ! [rejected]        %s -> %s (non-fast-forward)", src, dst)
	return PullResult{OK: false, Stderr: stderr}, nil
}
