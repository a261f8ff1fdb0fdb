package installer

import (
	"errors"        // errors.Is and errors.Join
	"fmt"           // Error wrapping
	"io/fs"         // fs.ErrNotExist
	"os"            // File operations
	"path/filepath" // Symlink resolution and parent directories
	"syscall"       // EXDEV for cross-device renames

	cp "github.com/otiai10/copy" // File copy with permissions and fsync

	"appimage-installer/internal/logger"
)

// copyFile copies src to dst, following src if it is a symbolic link.
// Missing directories in the destination path are created and an existing
// dst is replaced. A non-zero modeOverride is applied to dst afterwards,
// otherwise the source mode is kept.
func copyFile(src, dst string, modeOverride os.FileMode) error {
	// Resolve symlinks so the real file content is copied, not the link
	resolved, err := filepath.EvalSymlinks(src)
	if err != nil {
		return fmt.Errorf("resolve %s failed: %w", src, err)
	}
	if resolved != src {
		logger.Debug("[DEBUG] %s is a symlink to %s\n", src, resolved)
	}

	// Ensure the destination directory exists
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("mkdir failed: %w", err)
	}
	// Replace rather than truncate; the old file may be read-only
	if err := os.Remove(dst); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove existing %s failed: %w", dst, err)
	}

	// Copy content and permission bits, syncing to disk before returning
	if err := cp.Copy(resolved, dst, cp.Options{Sync: true}); err != nil {
		return fmt.Errorf("copy failed: %w", err)
	}

	// Apply the requested mode, e.g. 0755 for launcher entries
	if modeOverride != 0 {
		if err := os.Chmod(dst, modeOverride); err != nil {
			return fmt.Errorf("chmod failed: %w", err)
		}
	}
	return nil
}

// writeFile writes data to dst with mode, creating missing directories and
// replacing an existing dst.
func writeFile(dst string, data []byte, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("mkdir failed: %w", err)
	}
	if err := os.Remove(dst); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove existing %s failed: %w", dst, err)
	}
	if err := os.WriteFile(dst, data, mode); err != nil {
		return fmt.Errorf("write failed: %w", err)
	}
	// WriteFile is subject to the umask
	return os.Chmod(dst, mode)
}

// moveFile renames src to dst, overwriting dst. When both live on different
// filesystems it copies next to dst first and renames into place, so dst is
// never left half written.
func moveFile(src, dst string) error {
	// A plain rename works whenever the workspace and dst share a filesystem
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return fmt.Errorf("move %s failed: %w", src, err)
	}

	logger.Debug("[DEBUG] %s is on another filesystem, copying instead\n", dst)
	// Copy next to dst, then swap it in with a same-filesystem rename
	partial := dst + ".partial"
	if err := copyFile(src, partial, 0); err != nil {
		return err
	}
	if err := os.Rename(partial, dst); err != nil {
		_ = os.Remove(partial)
		return fmt.Errorf("move %s failed: %w", partial, err)
	}
	// The source is inside the workspace, so failing to remove it only warns
	if err := os.Remove(src); err != nil {
		logger.Warn("[WARN] Failed to remove %s after copying: %v\n", src, err)
	}
	return nil
}

// removeFiles deletes every path, ignoring ones that are already gone.
func removeFiles(paths ...string) error {
	var errs []error
	// Try every path and report all failures together
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logger.Error("[ERROR] Failed to remove %s: %v\n", p, err)
			errs = append(errs, err)
			continue
		}
		logger.Debug("[DEBUG] Removed %s\n", p)
	}
	return errors.Join(errs...)
}
