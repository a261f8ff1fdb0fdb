package installer

import (
	"appimage-installer/internal/logger"
	"appimage-installer/internal/state"
)

// Uninstall removes the bundle, icon and launcher entry of an installed
// AppImage. Files that are already gone are skipped.
func Uninstall(rec state.Record) error {
	logger.Info("[INFO] Uninstalling %s...\n", rec.Name)
	return removeFiles(rec.Files()...)
}
