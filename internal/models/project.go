package models

import "regexp"

var sha1Pattern = regexp.MustCompile(`^[0-9a-f]{40}$`)

// IsSHA1 reports whether treeish is a full 40-character lowercase hex
// commit hash. Anything else is treated as a floating ref name.
func IsSHA1(treeish string) bool {
	return sha1Pattern.MatchString(treeish)
}

// Project represents one externally hosted repository under gitctl control.
type Project struct {
	// Name is the project identifier (unique within the registry)
	Name string

	// URL is the upstream repository location
	URL string

	// Treeish is either a branch name (floating) or a full SHA1 (pinned).
	// The mode is inferred by format, never declared explicitly.
	Treeish string

	// Path is the absolute path to the local working copy
	Path string
}

// NewProject creates a new Project instance
func NewProject(name, url, treeish, path string) *Project {
	return &Project{
		Name:    name,
		URL:     url,
		Treeish: treeish,
		Path:    path,
	}
}

// Pinned reports whether the project is frozen at an explicit revision.
func (p *Project) Pinned() bool {
	return IsSHA1(p.Treeish)
}
