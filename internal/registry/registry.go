package registry

import (
	"fmt"
	"path/filepath"

	"github.com/dokai/gitctl/internal/config"
	"github.com/dokai/gitctl/internal/filesystem"
	"github.com/dokai/gitctl/internal/models"
	"gopkg.in/yaml.v3"
)

// entry is the on-disk shape of one registry record. Serialization keeps
// these around so untouched fields and ordering round-trip losslessly.
type entry struct {
	Name    string `yaml:"name"`
	URL     string `yaml:"url"`
	Treeish string `yaml:"treeish"`
	Path    string `yaml:"path,omitempty"`
}

// Registry is the parsed externals registry: the ordered list of projects
// under gitctl control.
type Registry struct {
	fs   filesystem.FileSystem
	path string

	entries []entry

	// Projects holds the parsed projects in registry order. Treeish
	// mutations made here are written back by Serialize/Save.
	Projects []*models.Project
}

// Load reads the registry at path. Each project's working-copy path is
// resolved relative to the registry file unless the entry overrides it.
func Load(fs filesystem.FileSystem, path string) (*Registry, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read registry %s: %v", config.ErrInvalid, path, err)
	}

	var entries []entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: failed to parse registry %s: %v", config.ErrInvalid, path, err)
	}

	root := filepath.Dir(path)
	seen := make(map[string]bool)
	projects := make([]*models.Project, 0, len(entries))

	for i, e := range entries {
		if e.Name == "" || e.URL == "" || e.Treeish == "" {
			return nil, fmt.Errorf("%w: registry entry %d is missing a name, url or treeish", config.ErrInvalid, i)
		}
		if seen[e.Name] {
			return nil, fmt.Errorf("%w: duplicate project ``%s`` in registry", config.ErrInvalid, e.Name)
		}
		seen[e.Name] = true

		workingCopy := e.Path
		if workingCopy == "" {
			workingCopy = e.Name
		}
		if !filepath.IsAbs(workingCopy) {
			workingCopy = filepath.Join(root, workingCopy)
		}

		projects = append(projects, models.NewProject(e.Name, e.URL, e.Treeish, workingCopy))
	}

	return &Registry{
		fs:       fs,
		path:     path,
		entries:  entries,
		Projects: projects,
	}, nil
}

// Filter returns the projects whose names are in names, in registry
// order. An empty selection means all projects.
func (r *Registry) Filter(names []string) []*models.Project {
	if len(names) == 0 {
		return r.Projects
	}

	selected := make(map[string]bool, len(names))
	for _, name := range names {
		selected[name] = true
	}

	var result []*models.Project
	for _, p := range r.Projects {
		if selected[p.Name] {
			result = append(result, p)
		}
	}
	return result
}

// Serialize renders the registry back to its textual form, carrying over
// any treeish mutations and leaving every other field untouched.
func (r *Registry) Serialize() ([]byte, error) {
	for i, p := range r.Projects {
		r.entries[i].Treeish = p.Treeish
	}

	data, err := yaml.Marshal(r.entries)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize registry: %w", err)
	}
	return data, nil
}

// Save writes the registry back to the file it was loaded from.
func (r *Registry) Save() error {
	data, err := r.Serialize()
	if err != nil {
		return err
	}

	if err := r.fs.WriteFile(r.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write registry %s: %w", r.path, err)
	}
	return nil
}
