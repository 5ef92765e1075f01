package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/clubstats/internal/classify"
	"github.com/pable/clubstats/internal/report"
	"github.com/pable/clubstats/internal/storage"
)

var showFlat bool

var showCmd = &cobra.Command{
	Use:   "show <id-prefix>",
	Short: "Show a stored match by id prefix, grouped by category",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id-prefix>",
	Short: "Delete a stored match by id prefix",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	showCmd.Flags().BoolVar(&showFlat, "flat", false, "print a single FIELD | VALUE table")
}

func runShow(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()
	return showMatch(db, args[0], showFlat, os.Stdout)
}

func showMatch(db *storage.DB, prefix string, flat bool, w io.Writer) error {
	m, err := db.GetMatch(prefix)
	if err != nil {
		return fmt.Errorf("query match: %w", err)
	}
	if m == nil {
		return fmt.Errorf("no match found with id prefix %q", prefix)
	}

	report.PrintMatchHeader(w, *m)
	if flat {
		report.PrintRecordTable(w, m.Stats)
		return nil
	}
	report.PrintCategoryGroups(w, classify.GroupByCategory(recordKeys(m.Stats)), m.Stats)
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	m, err := db.GetMatch(args[0])
	if err != nil {
		return fmt.Errorf("query match: %w", err)
	}
	if m == nil {
		return fmt.Errorf("no match found with id prefix %q", args[0])
	}
	if _, err := db.DeleteMatch(m.ID); err != nil {
		return fmt.Errorf("delete match: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Deleted match %s (%s vs %s)\n", m.ID[:8], orDash(m.MatchDate), orDash(m.Opponent))
	return nil
}
