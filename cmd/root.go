package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"appimage-installer/internal/config"
	"appimage-installer/internal/installer"
	"appimage-installer/internal/logger"
	"appimage-installer/internal/state"
)

// Global flags shared by every subcommand.
var (
	verbose    bool
	configPath string
	logFile    string
	timeout    time.Duration
)

// settings is loaded once in PersistentPreRunE and read by the commands.
var settings config.Settings

// rootCmd installs an AppImage. Subcommands manage what it installed.
var rootCmd = &cobra.Command{
	Use:   "appimage-installer <appimage> [install-dir]",
	Short: "Light weight AppImage installer with proper desktop integration",
	Long: `Installs an AppImage into a local bin directory (default ~/.local/bin),
copies its desktop file and icon into ~/.local/share and points the desktop
file at the installed AppImage, adding an "Uninstall (Proper)" action.`,
	Args:          cobra.RangeArgs(1, 2),
	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Set up logging first so settings problems are reported normally
		logger.Init(verbose)
		if err := logger.SetFile(logFile); err != nil {
			return err
		}

		// An explicit --config must exist; the default file is optional
		path, required := configPath, true
		if path == "" {
			var err error
			if path, err = config.DefaultConfigFile(); err != nil {
				return err
			}
			required = false
		}
		st, err := config.Load(path, required)
		if err != nil {
			return err
		}
		// Command line flags win over the settings file
		if cmd.Flags().Changed("timeout") {
			st.ExtractTimeout = timeout
		}
		settings = st
		logger.Debug("[DEBUG] Settings: %+v\n", settings)
		return nil
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		// The optional second argument overrides the configured install directory
		installDir := settings.InstallDir
		if len(args) == 2 {
			dir, err := config.ExpandPath(args[1])
			if err != nil {
				return err
			}
			installDir = dir
		}

		rec, err := installer.New(settings).Install(cmd.Context(), args[0], installDir)
		if err != nil {
			return err
		}

		recordInstall(rec)
		logger.Info("[INFO] Installation complete!\n")
		return nil
	},
}

// recordInstall stores rec in the state file. Failing to do so does not
// undo the installation.
func recordInstall(rec state.Record) {
	st, err := state.Load(settings.StateFile)
	if err != nil {
		logger.Warn("[WARN] Could not record installation: %v\n", err)
		return
	}
	st.Put(rec)
	if err := st.Save(settings.StateFile); err != nil {
		logger.Warn("[WARN] Could not record installation: %v\n", err)
	}
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	return run(os.Args[1:])
}

// run executes the command line args. Ctrl-C cancels the context so a
// running extraction is stopped and its workspace still removed.
func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer logger.Close()

	rootCmd.SetArgs(args)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Error("[ERROR] %v\n", err)
		return 1
	}
	return 0
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show verbose log output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML settings file (default ~/.config/appimage-installer/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also append log output to this file")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 0, "abort extraction after this long (0 waits forever)")
}
