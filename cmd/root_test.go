package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appimage-installer/internal/logger"
)

const fakeAppImage = `#!/bin/sh
[ "$1" = "--appimage-extract" ] || exit 64
mkdir -p squashfs-root
%s
`

const writeDesktop = `cat > squashfs-root/MyApp.desktop <<'EOF'
[Desktop Entry]
Name=MyApp
Exec=oldpath %U
Icon=oldicon
EOF
printf 'PNG' > squashfs-root/icon.png`

type testEnv struct {
	root   string
	config string
	logs   *bytes.Buffer
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	root := t.TempDir()
	cfg := filepath.Join(root, "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte(fmt.Sprintf(`
install_dir: %[1]s/bin
applications_dir: %[1]s/applications
icons_dir: %[1]s/icons
state_file: %[1]s/state/state.json
temp_dir: %[1]s/tmp
`, root)), 0644))

	noColor := color.NoColor
	color.NoColor = true
	logs := &bytes.Buffer{}
	prev := logger.SetOutput(logs)
	t.Cleanup(func() {
		logger.SetOutput(prev)
		color.NoColor = noColor
	})
	return testEnv{root: root, config: cfg, logs: logs}
}

func (e testEnv) bundle(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(e.root, "downloads", name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf(fakeAppImage, body)), 0644))
	return path
}

func (e testEnv) tmpEntries(t *testing.T) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(e.root, "tmp"))
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	return entries
}

func TestInstallListUninstall(t *testing.T) {
	env := newTestEnv(t)
	source := env.bundle(t, "App-1.0.AppImage", writeDesktop)

	require.Equal(t, 0, run([]string{"-c", env.config, source}))
	assert.Contains(t, env.logs.String(), "Installation complete!")
	assert.Empty(t, env.tmpEntries(t))

	bundle := filepath.Join(env.root, "bin", "App-1.0.AppImage")
	desktop := filepath.Join(env.root, "applications", "MyApp.desktop")
	icon := filepath.Join(env.root, "icons", "icon.png")
	assert.FileExists(t, bundle)
	assert.FileExists(t, icon)
	data, err := os.ReadFile(desktop)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Exec="+bundle+" %U")

	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	t.Cleanup(func() { rootCmd.SetOut(nil) })
	require.Equal(t, 0, run([]string{"-c", env.config, "list"}))
	assert.Contains(t, out.String(), "App-1.0.AppImage")
	assert.Contains(t, out.String(), desktop)

	require.Equal(t, 0, run([]string{"-c", env.config, "uninstall", "MyApp"}))
	assert.NoFileExists(t, bundle)
	assert.NoFileExists(t, desktop)
	assert.NoFileExists(t, icon)

	assert.Equal(t, 1, run([]string{"-c", env.config, "uninstall", "MyApp"}))
}

func TestInstallIntoGivenDirectory(t *testing.T) {
	env := newTestEnv(t)
	source := env.bundle(t, "App.AppImage", writeDesktop)
	target := filepath.Join(env.root, "opt")

	require.Equal(t, 0, run([]string{"-c", env.config, source, target}))
	assert.FileExists(t, filepath.Join(target, "App.AppImage"))
}

func TestExitCodeOnFatalErrors(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, 1, run([]string{"-c", env.config, filepath.Join(env.root, "missing.AppImage")}))
	assert.Contains(t, env.logs.String(), "AppImage file not found")

	noDesktop := env.bundle(t, "Empty.AppImage", "printf 'PNG' > squashfs-root/icon.png")
	assert.Equal(t, 1, run([]string{"-c", env.config, noDesktop}))
	assert.Contains(t, env.logs.String(), "no desktop file found")
	assert.NoDirExists(t, filepath.Join(env.root, "bin"))

	failing := env.bundle(t, "Bad.AppImage", "echo 'cannot mount' >&2; exit 2")
	assert.Equal(t, 1, run([]string{"-c", env.config, failing}))
	assert.Contains(t, env.logs.String(), "cannot mount")

	assert.Empty(t, env.tmpEntries(t))
}

func TestUsageErrors(t *testing.T) {
	env := newTestEnv(t)
	rootCmd.SetErr(&bytes.Buffer{})
	t.Cleanup(func() { rootCmd.SetErr(nil) })

	assert.Equal(t, 1, run([]string{"-c", env.config}))
	assert.Equal(t, 1, run([]string{"-c", filepath.Join(env.root, "missing.yaml"), "x.AppImage"}))
}
