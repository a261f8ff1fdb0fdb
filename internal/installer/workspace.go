package installer

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Workspace is the temporary directory one installation runs in.
// Callers defer Release right after NewWorkspace succeeds.
type Workspace struct {
	Dir string
}

// NewWorkspace creates a fresh directory below parent, or below the OS
// temp directory when parent is empty.
func NewWorkspace(parent string) (*Workspace, error) {
	// A configured parent may not exist yet
	if parent != "" {
		if err := os.MkdirAll(parent, 0755); err != nil {
			return nil, fmt.Errorf("failed to create temp parent %s: %w", parent, err)
		}
	}
	dir, err := os.MkdirTemp(parent, "appimage-installer-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary directory: %w", err)
	}
	return &Workspace{Dir: dir}, nil
}

// Path joins elem onto the workspace directory.
func (w *Workspace) Path(elem ...string) string {
	return filepath.Join(append([]string{w.Dir}, elem...)...)
}

// Release removes the workspace and everything in it.
// Extracted trees can contain read-only directories, so a failed first
// attempt makes every directory writable and retries.
func (w *Workspace) Release() error {
	// Fast path: the tree is fully writable
	err := os.RemoveAll(w.Dir)
	if err == nil {
		return nil
	}
	// Unlock every directory that is still there, ignoring walk errors
	_ = filepath.WalkDir(w.Dir, func(path string, d fs.DirEntry, err error) error {
		if err == nil && d.IsDir() {
			_ = os.Chmod(path, 0700)
		}
		return nil
	})
	if err := os.RemoveAll(w.Dir); err != nil {
		return fmt.Errorf("failed to remove temporary directory %s: %w", w.Dir, err)
	}
	return nil
}
