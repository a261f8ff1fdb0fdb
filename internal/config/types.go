package config

import "time"

// Settings holds every location and command the installer touches.
// It is built once by Default/Load and passed explicitly to the installer,
// so tests can point all directories at a temporary tree.
type Settings struct {
	InstallDir      string `yaml:"install_dir"`      // Where bundles are moved, e.g. ~/.local/bin
	ApplicationsDir string `yaml:"applications_dir"` // Per-user launcher entries
	IconsDir        string `yaml:"icons_dir"`        // Per-user icons
	StateFile       string `yaml:"state_file"`       // JSON record of installed bundles
	TempDir         string `yaml:"temp_dir"`         // Parent of the scoped workspace; empty means os.TempDir()

	ExtractFlag    string        `yaml:"extract_flag"`    // Self-extraction flag understood by the bundle
	ExtractRoot    string        `yaml:"extract_root"`    // Directory the bundle extracts into
	ExtractTimeout time.Duration `yaml:"extract_timeout"` // Zero waits forever
	RemoveCommand  string        `yaml:"remove_command"`  // Program used by the uninstall desktop action
}

const (
	DefaultExtractFlag   = "--appimage-extract"
	DefaultExtractRoot   = "squashfs-root"
	DefaultRemoveCommand = "/usr/bin/rm"
)
