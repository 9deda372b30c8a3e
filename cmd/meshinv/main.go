// Meshinv is a read-only viewer for the device inventory collected by a mesh
// discovery service.
//
// It fetches the device list from the service's CGI endpoint, classifies
// devices by vendor, and presents them as an interactive terminal dashboard,
// plain CLI output, CSV, or an embedded web dashboard.
//
// Usage:
//
//	meshinv [command] [flags]
//
// Running without arguments launches the interactive dashboard.
// See 'meshinv --help' for available commands.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/muurk/meshinv/internal/source"
	"github.com/muurk/meshinv/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if source.IsUnavailable(err) || source.IsMalformed(err) || source.IsHTTPError(err) {
			fmt.Fprintf(os.Stderr, "\n%s\n", source.TroubleshootingHint(err))
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "meshinv",
	Short: "Mesh Device Inventory",
	Long: `A viewer for the devices found by a mesh network discovery service.

Lists every device the service has seen with its vendor-derived type
(printer, NAS, camera or other), lets you search and filter them, trigger
a new discovery scan, and export the inventory as CSV.

If no command is specified, the interactive dashboard will launch.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runDashboard,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "meshinv %s (commit: %s)\n", version.Version, version.Commit)
	},
}
