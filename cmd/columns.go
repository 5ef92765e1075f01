package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/clubstats/internal/classify"
	"github.com/pable/clubstats/internal/dedupe"
	"github.com/pable/clubstats/internal/ingest"
	"github.com/pable/clubstats/internal/model"
	"github.com/pable/clubstats/internal/report"
)

var columnsCmd = &cobra.Command{
	Use:   "columns <file.csv|file.json> [...]",
	Short: "List the canonical columns of uploaded stat sheets, grouped by category",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runColumns,
}

func runColumns(cmd *cobra.Command, args []string) error {
	var all []model.RawRecord
	for _, path := range args {
		recs, err := ingest.ParseFile(path)
		if err != nil {
			return err
		}
		all = append(all, recs...)
	}
	cols := dedupe.DeduplicateColumns(all)
	fmt.Fprintf(os.Stdout, "%d record(s), %d canonical column(s)\n", len(all), len(cols))
	report.PrintCategoryGroups(os.Stdout, classify.GroupByCategory(cols), nil)
	return nil
}
