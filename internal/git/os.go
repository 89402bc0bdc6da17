package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// OSClient implements Client using real git commands
type OSClient struct {
	ctx context.Context
}

// NewOSClient creates a new OSClient
func NewOSClient() *OSClient {
	return &OSClient{
		ctx: context.Background(),
	}
}

// WithContext returns a new client with the given context
func (c *OSClient) WithContext(ctx context.Context) Client {
	return &OSClient{
		ctx: ctx,
	}
}

// Open returns a handle for the working copy at path. It fails when path
// is not inside a git repository.
func (c *OSClient) Open(path string) (Repository, error) {
	repo := &OSRepository{ctx: c.ctx, dir: path}
	if _, err := repo.run("rev-parse", "--git-dir"); err != nil {
		return nil, fmt.Errorf("not a git repository: %s: %w", path, err)
	}
	return repo, nil
}

// Clone creates a working copy of url at path. The upstream remote is
// named after remote instead of the default origin.
func (c *OSClient) Clone(remote, url, path string, noCheckout bool) (Repository, error) {
	args := []string{"clone"}
	if noCheckout {
		args = append(args, "--no-checkout")
	}
	args = append(args, "--origin", remote, url, path)

	cmd := exec.CommandContext(c.ctx, "git", args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, &ExecError{
			Args:     args,
			ExitCode: exitCode(cmd),
			Stderr:   stderr.String(),
			Err:      err,
		}
	}

	return &OSRepository{ctx: c.ctx, dir: path}, nil
}

// OSRepository implements Repository by running git in the working copy.
type OSRepository struct {
	ctx context.Context
	dir string
}

// run executes one git command in the repository directory and returns
// its stdout.
func (r *OSRepository) run(args ...string) (string, error) {
	cmd := exec.CommandContext(r.ctx, "git", args...)
	cmd.Dir = r.dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", &ExecError{
			Args:     args,
			ExitCode: exitCode(cmd),
			Stderr:   stderr.String(),
			Err:      err,
		}
	}

	return stdout.String(), nil
}

// exitCode reads the exit status of a finished command; -1 when the
// command never ran.
func exitCode(cmd *exec.Cmd) int {
	if cmd.ProcessState == nil {
		return -1
	}
	return cmd.ProcessState.ExitCode()
}

func (r *OSRepository) Fetch(remote string) error {
	if _, err := r.run("fetch", remote); err != nil {
		return fmt.Errorf("failed to fetch from %s: %w", remote, err)
	}
	return nil
}

func (r *OSRepository) LocalBranches() (map[string]bool, error) {
	out, err := r.run("branch", "--format=%(refname:short)")
	if err != nil {
		return nil, fmt.Errorf("failed to list local branches: %w", err)
	}
	return branchSet(out), nil
}

// RemoteBranches lists remote-tracking branches as remote-qualified
// names, e.g. "origin/development". The symbolic HEAD entry is dropped.
func (r *OSRepository) RemoteBranches() (map[string]bool, error) {
	out, err := r.run("branch", "-r", "--format=%(refname:short)")
	if err != nil {
		return nil, fmt.Errorf("failed to list remote branches: %w", err)
	}

	branches := branchSet(out)
	for name := range branches {
		if strings.HasSuffix(name, "/HEAD") {
			delete(branches, name)
		}
	}
	return branches, nil
}

func branchSet(out string) map[string]bool {
	branches := make(map[string]bool)
	for _, line := range strings.Split(out, "\n") {
		name := strings.TrimSpace(line)
		if name != "" {
			branches[name] = true
		}
	}
	return branches
}

func (r *OSRepository) CurrentBranch() (string, error) {
	out, err := r.run("branch", "--show-current")
	if err != nil {
		return "", fmt.Errorf("failed to get current branch: %w", err)
	}
	// Empty on a detached HEAD.
	return strings.TrimSpace(out), nil
}

func (r *OSRepository) IsDirty() (bool, error) {
	out, err := r.run("status", "--porcelain")
	if err != nil {
		return false, fmt.Errorf("failed to check working tree state: %w", err)
	}
	return strings.TrimSpace(out) != "", nil
}

func (r *OSRepository) RevParse(ref string) (string, error) {
	out, err := r.run("rev-parse", "--verify", ref)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", ref, err)
	}
	return strings.TrimSpace(out), nil
}

func (r *OSRepository) Diff(a, b string) (string, error) {
	out, err := r.run("diff", a, b)
	if err != nil {
		return "", fmt.Errorf("failed to diff %s against %s: %w", a, b, err)
	}
	return out, nil
}

func (r *OSRepository) Log(from, to string) ([]Commit, error) {
	out, err := r.run("log", "--pretty=format:%H%x09%s", fmt.Sprintf("%s..%s", from, to))
	if err != nil {
		return nil, fmt.Errorf("failed to log %s..%s: %w", from, to, err)
	}

	var commits []Commit
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		sha, subject, _ := strings.Cut(line, "\t")
		commits = append(commits, Commit{SHA: sha, Subject: subject})
	}
	return commits, nil
}

func (r *OSRepository) LogPatch(from, to string) (string, error) {
	out, err := r.run("log", "--stat", "--summary", "-p", fmt.Sprintf("%s..%s", from, to))
	if err != nil {
		return "", fmt.Errorf("failed to log patch %s..%s: %w", from, to, err)
	}
	return out, nil
}

func (r *OSRepository) Checkout(ref string) error {
	if _, err := r.run("checkout", ref); err != nil {
		return fmt.Errorf("failed to check out %s: %w", ref, err)
	}
	return nil
}

func (r *OSRepository) HardReset(ref string) error {
	if _, err := r.run("reset", "--hard", ref); err != nil {
		return fmt.Errorf("failed to reset to %s: %w", ref, err)
	}
	return nil
}

func (r *OSRepository) CreateTrackingBranch(local, remote string) error {
	if _, err := r.run("branch", "-f", "--track", local, remote); err != nil {
		return fmt.Errorf("failed to create tracking branch %s -> %s: %w", local, remote, err)
	}
	return nil
}

// Pull attempts to integrate upstream commits for refspec. The refspec
// carries no force prefix, so a diverged branch is rejected by git as
// non-fast-forward; that rejection is returned as a failed PullResult
// with the stderr text for the caller to classify.
func (r *OSRepository) Pull(remote, refspec string, mode PullMode) (PullResult, error) {
	args := []string{"pull"}
	switch mode {
	case PullFFOnly:
		args = append(args, "--ff-only")
	case PullRebase:
		args = append(args, "--rebase")
	}
	args = append(args, remote, refspec)

	cmd := exec.CommandContext(r.ctx, "git", args...)
	cmd.Dir = r.dir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if cmd.ProcessState == nil {
			// git never ran; this is not a pull verdict
			return PullResult{}, &ExecError{Args: args, ExitCode: exitCode(cmd), Stderr: stderr.String(), Err: err}
		}
		return PullResult{OK: false, Stderr: stderr.String()}, nil
	}

	return PullResult{OK: true, Stderr: stderr.String()}, nil
}
