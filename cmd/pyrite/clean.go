package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pyrite/internal/statscache"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove cached run statistics",
	Long:  "Remove the per-project run records used for the previous-score comparison line.",
	Args:  cobra.NoArgs,
	RunE:  runClean,
}

func runClean(_ *cobra.Command, _ []string) error {
	cache, err := statscache.Open("pyrite")
	if err != nil {
		return fmt.Errorf("failed to open stats cache: %w", err)
	}
	if err := cache.DropAll(); err != nil {
		return fmt.Errorf("failed to remove stats cache: %w", err)
	}
	_, _ = fmt.Fprintln(os.Stdout, "removed cached run statistics")
	return nil
}
