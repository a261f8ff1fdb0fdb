// Package installer installs AppImages for the current user and integrates
// them with the desktop.
package installer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"appimage-installer/internal/archive"
	"appimage-installer/internal/config"
	"appimage-installer/internal/logger"
	"appimage-installer/internal/state"
)

// Installer runs installations against one set of settings.
type Installer struct {
	settings config.Settings
}

// New returns an Installer using settings for every directory it touches.
func New(settings config.Settings) *Installer {
	return &Installer{settings: settings}
}

// Install installs the AppImage at source into installDir (the configured
// install directory when empty) and integrates it with the desktop.
//
// Steps run strictly in order: stage a copy in a temporary workspace,
// self-extract it, find the launcher entry and icon, rewrite the launcher
// entry in memory, move the bundle into place, write the launcher entry and
// copy the icon.
// Every check that can fail the run happens before the first file is placed
// outside the workspace. The workspace is removed on every return path.
func (in *Installer) Install(ctx context.Context, source, installDir string) (rec state.Record, err error) {
	if installDir == "" {
		installDir = in.settings.InstallDir
	}

	// Validate the input before anything is created
	source, err = filepath.Abs(source)
	if err != nil {
		return rec, err
	}
	if info, serr := os.Stat(source); serr != nil || !info.Mode().IsRegular() {
		return rec, fmt.Errorf("%w: %s", ErrBundleNotFound, source)
	}

	// Everything up to the final moves happens inside the workspace
	ws, err := NewWorkspace(in.settings.TempDir)
	if err != nil {
		return rec, err
	}
	defer func() {
		if rerr := ws.Release(); rerr != nil {
			logger.Warn("[WARN] %v\n", rerr)
		}
	}()

	bundle, err := in.stage(source, ws)
	if err != nil {
		return rec, err
	}

	// Run the bundle's self-extraction, bounded by the optional timeout
	if in.settings.ExtractTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, in.settings.ExtractTimeout)
		defer cancel()
	}
	if err := extractBundle(ctx, bundle, ws.Dir, in.settings.ExtractFlag); err != nil {
		return rec, err
	}

	// Locate the launcher entry and icon in the extracted tree
	desktopFile, iconFile, err := findDesktopAndIcon(ws.Path(in.settings.ExtractRoot))
	if err != nil {
		return rec, err
	}

	// The final paths depend only on file names, so the launcher entry is
	// rewritten, and rejected if broken, before anything leaves the workspace
	installed := filepath.Join(installDir, filepath.Base(bundle))
	destDesktop := filepath.Join(in.settings.ApplicationsDir, filepath.Base(desktopFile))
	destIcon := iconDestination(iconFile, in.settings.IconsDir)
	entry, err := renderDesktopFile(desktopFile, destDesktop, installed, destIcon, in.settings.RemoveCommand)
	if err != nil {
		return rec, err
	}

	// Place the bundle, the rewritten entry and the icon
	if installed, err = installAppImage(bundle, installDir); err != nil {
		return rec, err
	}
	if err := installDesktopFile(entry, destDesktop); err != nil {
		return rec, err
	}
	if err := installIconFile(iconFile, destIcon); err != nil {
		return rec, err
	}

	return state.Record{
		Name:        filepath.Base(installed),
		AppImage:    installed,
		DesktopFile: destDesktop,
		Icon:        destIcon,
		Source:      source,
		InstalledAt: time.Now().UTC(),
	}, nil
}

// stage copies the bundle into the workspace. Archives are unpacked first
// and the AppImage inside them is staged instead.
func (in *Installer) stage(source string, ws *Workspace) (string, error) {
	if archive.IsArchive(source) {
		logger.Debug("[DEBUG] Unpacking archive %s...\n", source)
		unpacked := ws.Path("unpacked")
		if err := archive.Unpack(source, unpacked); err != nil {
			return "", fmt.Errorf("failed to unpack %s: %w", source, err)
		}
		found, err := archive.FindBundle(unpacked)
		if err != nil {
			return "", err
		}
		source = found
	}

	logger.Debug("[DEBUG] Copying AppImage to temporary directory...\n")
	staged := ws.Path(filepath.Base(source))
	if err := copyFile(source, staged, 0755); err != nil {
		return "", fmt.Errorf("failed to copy AppImage: %w", err)
	}
	return staged, nil
}
