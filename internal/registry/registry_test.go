package registry_test

import (
	"strings"
	"testing"

	"github.com/dokai/gitctl/internal/config"
	"github.com/dokai/gitctl/internal/filesystem"
	"github.com/dokai/gitctl/internal/registry"
	"github.com/stretchr/testify/require"
)

const testRegistry = `
- name: frontend
  url: git@example.com:frontend.git
  treeish: development
- name: backend
  url: git@example.com:backend.git
  treeish: aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa
- name: vendored
  url: git@example.com:vendored.git
  treeish: master
  path: third-party/vendored
`

func load(t *testing.T) *registry.Registry {
	t.Helper()

	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/work/externals.yaml", []byte(testRegistry))

	reg, err := registry.Load(fs, "/work/externals.yaml")
	require.NoError(t, err)
	return reg
}

func TestLoad(t *testing.T) {
	reg := load(t)

	require.Len(t, reg.Projects, 3)

	require.Equal(t, "frontend", reg.Projects[0].Name)
	require.Equal(t, "git@example.com:frontend.git", reg.Projects[0].URL)
	require.Equal(t, "development", reg.Projects[0].Treeish)
	require.Equal(t, "/work/frontend", reg.Projects[0].Path)

	// An explicit path overrides the name-derived one.
	require.Equal(t, "/work/third-party/vendored", reg.Projects[2].Path)
}

func TestLoad_MalformedEntries(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing treeish", "- name: app\n  url: git@example.com:app.git\n"},
		{"missing name", "- url: git@example.com:app.git\n  treeish: master\n"},
		{"duplicate name", "- name: app\n  url: a\n  treeish: x\n- name: app\n  url: b\n  treeish: y\n"},
		{"not a list", "name: app\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := filesystem.NewMockFileSystem()
			fs.AddFile("/work/externals.yaml", []byte(tt.content))

			_, err := registry.Load(fs, "/work/externals.yaml")
			require.ErrorIs(t, err, config.ErrInvalid)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	reg := load(t)

	serialized, err := reg.Serialize()
	require.NoError(t, err)

	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/work/externals.yaml", serialized)

	reloaded, err := registry.Load(fs, "/work/externals.yaml")
	require.NoError(t, err)

	require.Equal(t, reg.Projects, reloaded.Projects)
}

func TestSerialize_CarriesTreeishMutation(t *testing.T) {
	reg := load(t)

	promoted := strings.Repeat("b", 40)
	reg.Projects[1].Treeish = promoted

	serialized, err := reg.Serialize()
	require.NoError(t, err)
	require.Contains(t, string(serialized), promoted)

	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/work/externals.yaml", serialized)

	reloaded, err := registry.Load(fs, "/work/externals.yaml")
	require.NoError(t, err)

	require.Equal(t, promoted, reloaded.Projects[1].Treeish)
	// Untouched fields and ordering survive.
	require.Equal(t, "frontend", reloaded.Projects[0].Name)
	require.Equal(t, "development", reloaded.Projects[0].Treeish)
	require.Equal(t, "/work/third-party/vendored", reloaded.Projects[2].Path)
}

func TestSave(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/work/externals.yaml", []byte(testRegistry))

	reg, err := registry.Load(fs, "/work/externals.yaml")
	require.NoError(t, err)

	reg.Projects[0].Treeish = strings.Repeat("c", 40)
	require.NoError(t, reg.Save())

	reloaded, err := registry.Load(fs, "/work/externals.yaml")
	require.NoError(t, err)
	require.Equal(t, strings.Repeat("c", 40), reloaded.Projects[0].Treeish)
}

func TestFilter(t *testing.T) {
	reg := load(t)

	all := reg.Filter(nil)
	require.Len(t, all, 3)

	selected := reg.Filter([]string{"backend", "frontend"})
	require.Len(t, selected, 2)
	// Registry order wins over selection order.
	require.Equal(t, "frontend", selected[0].Name)
	require.Equal(t, "backend", selected[1].Name)

	require.Empty(t, reg.Filter([]string{"unknown"}))
}
