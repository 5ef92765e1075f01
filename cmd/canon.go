package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/clubstats/internal/canon"
)

var canonCmd = &cobra.Command{
	Use:   "canon <field-name> [...]",
	Short: "Show the canonical form of raw field names",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCanon,
}

func runCanon(cmd *cobra.Command, args []string) error {
	printCanon(args)
	return nil
}

func printCanon(names []string) {
	width := 0
	for _, n := range names {
		width = max(width, len(n))
	}
	for _, n := range names {
		fmt.Fprintf(os.Stdout, "%-*s  ->  %s\n", width, n, canon.Canonicalize(n))
	}
}
