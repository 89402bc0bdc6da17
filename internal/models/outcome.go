package models

import (
	"fmt"
	"strings"
)

// OutcomeKind tags the per-project result of one reconciliation step.
type OutcomeKind string

const (
	// OutcomeSkipped marks a project outside the requested operation's
	// model, e.g. a third-party package without a development branch.
	OutcomeSkipped OutcomeKind = "skipped"

	// OutcomeDirty marks a project with uncommitted local changes. Dirty
	// projects are never fetched, reset or checked out.
	OutcomeDirty OutcomeKind = "dirty"

	// OutcomeCloned marks a fresh clone with tracking branches set up.
	OutcomeCloned OutcomeKind = "cloned"

	// OutcomePinned marks a hard reset to an explicit revision.
	OutcomePinned OutcomeKind = "pinned"

	// OutcomeFastForwarded marks a floating update that advanced at
	// least one mapped branch.
	OutcomeFastForwarded OutcomeKind = "fast-forwarded"

	// OutcomeConflict marks a branch whose upstream has diverged so a
	// fast-forward was refused. Non-fatal; other branches still update.
	OutcomeConflict OutcomeKind = "conflict"

	// OutcomeFatal marks any other failing native operation, confined
	// to the project it occurred in.
	OutcomeFatal OutcomeKind = "fatal"

	// OutcomeUpToDate marks a project that required no mutation.
	OutcomeUpToDate OutcomeKind = "up-to-date"

	// OutcomeAheadBy reports promotion drift between two pipeline stages.
	OutcomeAheadBy OutcomeKind = "ahead-by"

	// OutcomeOutOfSync marks one mapped branch that differs from its
	// remote counterpart.
	OutcomeOutOfSync OutcomeKind = "out-of-sync"

	// OutcomeFetched marks a completed fetch from upstream.
	OutcomeFetched OutcomeKind = "fetched"

	// OutcomeCheckedOut marks a branch switch performed by the branch
	// command.
	OutcomeCheckedOut OutcomeKind = "checked-out"

	// OutcomeActiveBranch reports the currently checked-out branch of a
	// project.
	OutcomeActiveBranch OutcomeKind = "active-branch"
)

// Outcome is one reconciliation result for one project. Exactly one
// primary outcome is emitted per project per run; branch-level events
// (Conflict, Fatal, OutOfSync) are additional records that do not
// replace the primary one.
type Outcome struct {
	Project string
	Kind    OutcomeKind

	// Reason explains Skipped outcomes.
	Reason string

	// Revision carries the target SHA1 for Pinned outcomes.
	Revision string

	// Branch names the affected branch for Conflict, OutOfSync and
	// CheckedOut outcomes.
	Branch string

	// Branches lists the branches advanced by a FastForwarded outcome.
	Branches []string

	// Message carries the native tool's error text for Fatal outcomes.
	Message string

	// Ahead, From and To describe an AheadBy outcome: the number of
	// commits reachable from To but not From, and the two endpoints'
	// labels.
	Ahead int
	From  string
	To    string
}

// String renders the outcome the way gitctl reports it, without the
// project name prefix.
func (o Outcome) String() string {
	switch o.Kind {
	case OutcomeSkipped:
		if o.Reason != "" {
			return fmt.Sprintf("Skipped: %s", o.Reason)
		}
		return "Skipped"
	case OutcomeDirty:
		return "Uncommitted local changes. Please commit or stash and try again."
	case OutcomeCloned:
		return fmt.Sprintf("Cloned and checked out ``%s``", o.Revision)
	case OutcomePinned:
		return fmt.Sprintf("Checked out revision ``%s``", o.Revision)
	case OutcomeFastForwarded:
		return fmt.Sprintf("Updated (%s)", strings.Join(o.Branches, ", "))
	case OutcomeConflict:
		return fmt.Sprintf("Fast forward merge not possible for branch ``%s``. Try syncing with upstream manually (pull, push or merge).", o.Branch)
	case OutcomeFatal:
		return fmt.Sprintf("Update failure: %s", o.Message)
	case OutcomeUpToDate:
		return "OK"
	case OutcomeAheadBy:
		unit := "commits"
		if o.Ahead == 1 {
			unit = "commit"
		}
		return fmt.Sprintf("``%s`` is %d %s ahead of ``%s``", o.To, o.Ahead, unit, o.From)
	case OutcomeOutOfSync:
		return fmt.Sprintf("Branch ``%s`` out of sync with upstream", o.Branch)
	case OutcomeFetched:
		return "Fetched"
	case OutcomeCheckedOut:
		return fmt.Sprintf("Checked out ``%s``", o.Branch)
	case OutcomeActiveBranch:
		if o.Branch == "" {
			return "(detached HEAD)"
		}
		return o.Branch
	}
	return string(o.Kind)
}
