package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"appimage-installer/internal/installer"
	"appimage-installer/internal/logger"
	"appimage-installer/internal/state"
)

// listCmd prints the AppImages recorded in the state file.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List AppImages installed by this tool",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := state.Load(settings.StateFile)
		if err != nil {
			return err
		}
		records := st.Sorted()
		if len(records) == 0 {
			logger.Info("[INFO] No AppImages installed.\n")
			return nil
		}

		// Print an aligned table, one row per installed AppImage
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tAPPIMAGE\tDESKTOP FILE\tINSTALLED")
		for _, r := range records {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Name, r.AppImage, r.DesktopFile, r.InstalledAt.Local().Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

// uninstallCmd removes an installed AppImage, its icon and its desktop file.
var uninstallCmd = &cobra.Command{
	Use:   "uninstall <name>",
	Short: "Remove an installed AppImage with its desktop file and icon",
	Long: `Removes the same files as the "Uninstall (Proper)" desktop action.
<name> is the AppImage file name, the desktop file name (with or without
.desktop) or the installed AppImage path.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := state.Load(settings.StateFile)
		if err != nil {
			return err
		}
		rec, ok := st.Find(args[0])
		if !ok {
			return fmt.Errorf("%s is not installed", args[0])
		}

		// Remove the files first; the record is only dropped once they are gone
		if err := installer.Uninstall(rec); err != nil {
			return err
		}
		st.Delete(rec.Name)
		if err := st.Save(settings.StateFile); err != nil {
			return err
		}
		logger.Info("[INFO] Uninstalled %s\n", rec.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(uninstallCmd)
}
