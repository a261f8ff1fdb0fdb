package installer

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"appimage-installer/internal/desktopentry"
	"appimage-installer/internal/logger"
)

const (
	// UninstallAction is the desktop action id added to every installed entry.
	UninstallAction = "Uninstall-Proper"
	uninstallName   = "Uninstall (Proper)"
)

// renderDesktopFile reads the extracted launcher entry at src and returns
// its rewritten text, pointing at the installed bundle and icon and carrying
// the uninstall action. dest is where the entry will be installed; the
// uninstall action removes it. Nothing is written, so a broken entry is
// rejected while the bundle is still in the workspace.
func renderDesktopFile(src, dest, appImage, icon, removeCommand string) ([]byte, error) {
	logger.Debug("[DEBUG] Updating desktop file...\n")

	// Read the entry as extracted, following a symlink if there is one
	data, err := os.ReadFile(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read desktop file: %w", err)
	}
	entry, err := desktopentry.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(src), err)
	}

	if err := rewriteEntry(entry, dest, appImage, icon, removeCommand); err != nil {
		return nil, fmt.Errorf("failed to update %s: %w", filepath.Base(src), err)
	}
	return entry.Bytes(), nil
}

// rewriteEntry edits entry in place. desktopFile is the installed path of
// the entry itself.
func rewriteEntry(entry *desktopentry.Entry, desktopFile, appImage, icon, removeCommand string) error {
	main := entry.Main()
	if main == nil {
		return fmt.Errorf("missing [%s] group", desktopentry.MainGroup)
	}

	// Main launcher: program and TryExec become the installed bundle
	exec, _ := main.Get("Exec")
	main.Set("Exec", desktopentry.RetargetExec(exec, appImage))
	if main.Has("TryExec") {
		main.SetString("TryExec", appImage)
	}
	if icon != "" {
		main.SetString("Icon", icon)
	}

	// Existing actions still name the extracted program
	uninstallGroup := desktopentry.ActionGroupPrefix + UninstallAction
	for _, g := range entry.ActionGroups() {
		if g.Name == uninstallGroup {
			continue
		}
		if v, ok := g.Get("Exec"); ok {
			g.Set("Exec", desktopentry.ReplaceExecProgram(v, appImage))
		}
	}

	// Register the uninstall action and (re)write its group last
	main.AppendToList("Actions", UninstallAction)

	args := []string{removeCommand, "-f", appImage}
	if icon != "" {
		args = append(args, icon)
	}
	args = append(args, desktopFile)
	entry.ReplaceGroup(&desktopentry.Group{
		Name: uninstallGroup,
		Lines: []desktopentry.Line{
			{Key: "Name", Value: uninstallName},
			{Key: "Exec", Value: desktopentry.BuildExec(args...)},
		},
	})
	return nil
}
