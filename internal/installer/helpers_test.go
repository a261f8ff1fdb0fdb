package installer

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	"appimage-installer/internal/config"
	"appimage-installer/internal/logger"
)

const myAppDesktop = `[Desktop Entry]
Type=Application
Name=MyApp
Exec=oldpath %U
Icon=oldicon
Categories=Utility;
`

// fakeApp describes what a fake AppImage extracts.
type fakeApp struct {
	desktop  map[string]string // launcher entries by file name
	files    map[string]string // other regular files by path below squashfs-root
	symlinks map[string]string // link name -> target, below squashfs-root
	exitCode int
	stderr   string
}

// writeFakeAppImage writes a shell script that behaves like an AppImage
// when run with --appimage-extract.
func writeFakeAppImage(t *testing.T, path string, app fakeApp) {
	t.Helper()
	var b strings.Builder
	b.WriteString("#!/bin/sh\n")
	b.WriteString("if [ \"$1\" != \"--appimage-extract\" ]; then echo \"unexpected argument $1\" >&2; exit 64; fi\n")
	if app.exitCode != 0 {
		fmt.Fprintf(&b, "echo '%s' >&2\nexit %d\n", app.stderr, app.exitCode)
	}
	b.WriteString("mkdir -p squashfs-root\n")

	for _, name := range sortedKeys(app.desktop) {
		fmt.Fprintf(&b, "cat > 'squashfs-root/%s' <<'EOF'\n%sEOF\n", name, app.desktop[name])
	}
	for _, name := range sortedKeys(app.files) {
		fmt.Fprintf(&b, "mkdir -p \"$(dirname 'squashfs-root/%s')\"\n", name)
		fmt.Fprintf(&b, "printf '%%s' '%s' > 'squashfs-root/%s'\n", app.files[name], name)
	}
	for _, name := range sortedKeys(app.symlinks) {
		fmt.Fprintf(&b, "ln -s '%s' 'squashfs-root/%s'\n", app.symlinks[name], name)
	}
	b.WriteString("echo squashfs-root/AppRun\n")

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0644))
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// testSettings points every directory into a fresh temp tree.
func testSettings(t *testing.T) config.Settings {
	t.Helper()
	root := t.TempDir()
	return config.Settings{
		InstallDir:      filepath.Join(root, "bin"),
		ApplicationsDir: filepath.Join(root, "applications"),
		IconsDir:        filepath.Join(root, "icons"),
		StateFile:       filepath.Join(root, "state.json"),
		TempDir:         filepath.Join(root, "tmp"),
		ExtractFlag:     config.DefaultExtractFlag,
		ExtractRoot:     config.DefaultExtractRoot,
		RemoveCommand:   config.DefaultRemoveCommand,
	}
}

// captureLog routes logger output into a buffer for the test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	noColor := color.NoColor
	color.NoColor = true
	buf := &bytes.Buffer{}
	prev := logger.SetOutput(buf)
	t.Cleanup(func() {
		logger.SetOutput(prev)
		color.NoColor = noColor
	})
	return buf
}

// requireNoWorkspace asserts that no workspace is left in the temp parent.
func requireNoWorkspace(t *testing.T, settings config.Settings) {
	t.Helper()
	entries, err := os.ReadDir(settings.TempDir)
	if os.IsNotExist(err) {
		return
	}
	require.NoError(t, err)
	require.Empty(t, entries, "workspace left behind in %s", settings.TempDir)
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
