package installer

import (
	"os"
	"path/filepath"

	"appimage-installer/internal/logger"
)

// Icon patterns in order of preference: raster first.
var iconPatterns = []string{"*.png", "*.svg"}

// findDesktopAndIcon scans the top level of an extracted tree.
// The first launcher entry in glob order is required; the icon is optional
// and empty when none matches.
func findDesktopAndIcon(root string) (desktop, icon string, err error) {
	// The launcher entry is mandatory
	desktop = firstFile(root, "*.desktop")
	if desktop == "" {
		return "", "", ErrNoDesktopEntry
	}
	logger.Debug("[DEBUG] Found desktop file %s\n", desktop)

	// The icon is not; take the first match of the preferred pattern
	for _, pattern := range iconPatterns {
		if icon = firstFile(root, pattern); icon != "" {
			logger.Debug("[DEBUG] Found icon %s\n", icon)
			break
		}
	}
	return desktop, icon, nil
}

// firstFile returns the first match of pattern in dir that is, or links
// to, a regular file.
func firstFile(dir, pattern string) string {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return ""
	}
	// Skip directories and dangling links named like a match
	for _, m := range matches {
		if info, err := os.Stat(m); err == nil && info.Mode().IsRegular() {
			return m
		}
	}
	return ""
}
