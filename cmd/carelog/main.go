// Carelog is a terminal client for a care-recipient record service.
//
// It provides an interactive multi-step registration flow, record browsing
// with name search, detail display, editing, deletion and webcam photo
// capture, talking to the records API over HTTP.
//
// Usage:
//
//	carelog [command] [flags]
//
// Running without arguments launches the interactive interface.
// See 'carelog --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/carelog/carelog/internal/logging"
	"github.com/carelog/carelog/internal/version"
)

func main() {
	logging.InitializeFromEnv()
	defer logging.Sync()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "carelog",
	Short: "Care Record Terminal Client",
	Long: `A terminal client for the care-recipient record service.

Provides an interactive multi-step registration flow, record browsing
with name search, editing, deletion and webcam photo capture.

If no command is specified, the interactive interface launches.`,
	Version: version.Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive(cmd, args)
	},
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
		fmt.Printf("carelog %s (commit: %s)\n", version.Version, version.Commit)
	},
}
