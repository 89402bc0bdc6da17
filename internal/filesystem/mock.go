package filesystem

import (
	"fmt"
	"io/fs"
	"path/filepath"
)

// MockFileSystem provides an in-memory filesystem for testing
type MockFileSystem struct {
	files map[string][]byte

	// Dirs marks paths that exist as directories (e.g. working copies).
	dirs map[string]bool
}

// NewMockFileSystem creates a new MockFileSystem
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{
		files: make(map[string][]byte),
		dirs:  make(map[string]bool),
	}
}

// AddFile adds a file to the mock filesystem
func (mfs *MockFileSystem) AddFile(path string, content []byte) {
	mfs.files[filepath.Clean(path)] = content
}

// AddDir marks a directory as existing
func (mfs *MockFileSystem) AddDir(path string) {
	mfs.dirs[filepath.Clean(path)] = true
}

func (mfs *MockFileSystem) ReadFile(path string) ([]byte, error) {
	content, ok := mfs.files[filepath.Clean(path)]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", path)
	}
	return content, nil
}

func (mfs *MockFileSystem) WriteFile(path string, data []byte, perm fs.FileMode) error {
	mfs.files[filepath.Clean(path)] = data
	return nil
}

func (mfs *MockFileSystem) Exists(path string) bool {
	cleanPath := filepath.Clean(path)
	if _, ok := mfs.files[cleanPath]; ok {
		return true
	}
	return mfs.dirs[cleanPath]
}
