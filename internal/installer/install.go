package installer

import (
	"fmt"
	"os"
	"path/filepath"

	"appimage-installer/internal/logger"
)

// installAppImage moves the staged bundle into installDir and returns its
// final path. An existing file with the same name is replaced.
func installAppImage(bundle, installDir string) (string, error) {
	logger.Info("[INFO] Installing AppImage to %s...\n", installDir)
	if err := os.MkdirAll(installDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create install directory: %w", err)
	}
	installed := filepath.Join(installDir, filepath.Base(bundle))
	if err := moveFile(bundle, installed); err != nil {
		return "", err
	}
	return installed, nil
}

// installDesktopFile writes the rewritten launcher entry to dst.
// The file is made executable; some desktop environments only render the
// icon of trusted (executable) launcher entries.
func installDesktopFile(entry []byte, dst string) error {
	logger.Debug("[DEBUG] Moving desktop file...\n")
	if err := writeFile(dst, entry, 0755); err != nil {
		return fmt.Errorf("failed to install desktop file: %w", err)
	}
	return nil
}

// installIconFile copies the icon to dst. An empty icon only warns.
func installIconFile(icon, dst string) error {
	if icon == "" {
		logger.Warn("[WARN] No suitable icon file found in AppImage.\n")
		return nil
	}
	logger.Debug("[DEBUG] Moving icon file...\n")
	if err := copyFile(icon, dst, 0); err != nil {
		return fmt.Errorf("failed to install icon: %w", err)
	}
	return nil
}

// iconDestination returns where icon will be installed in dir, or "" when
// there is no icon.
func iconDestination(icon, dir string) string {
	if icon == "" {
		return ""
	}
	return filepath.Join(dir, filepath.Base(icon))
}
