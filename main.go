package main

import (
	"os"

	"appimage-installer/cmd" // CLI commands and execution logic
)

// main delegates to cmd.Execute, which parses the command line, runs the
// installation and maps any failure to exit code 1.
//
// appimage-installer installs an AppImage for the current user:
//   - copies the AppImage into a temporary workspace and runs its
//     --appimage-extract mode to get at the bundled desktop file and icon
//   - moves the AppImage into ~/.local/bin (or the given directory)
//   - copies the desktop file to ~/.local/share/applications and the icon to
//     ~/.local/share/icons
//   - points the desktop file's Exec and Icon at the installed copies and
//     adds an "Uninstall (Proper)" desktop action removing all three files
//
// Installs are recorded in a JSON state file so `list` and `uninstall` can
// find them later.
func main() {
	os.Exit(cmd.Execute())
}
