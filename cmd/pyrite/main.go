package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"pyrite/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "pyrite",
	Short: "Pyrite source analyzer and scoring tool",
	Long:  `Pyrite inspects source files for convention, refactor, warning and error findings and rates the code on a 10-point scale`,
}

// main initializes the CLI by setting the command version, registering
// subcommands and persistent flags, and then executes the root command.
// If command execution returns an error, the process exits with status code 1.
func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
