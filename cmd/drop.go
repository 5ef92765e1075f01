package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var dropForce bool

// dropCmd deletes the club stats database file and its WAL sidecars.
var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Delete the club stats database",
	Long:  "Permanently delete the SQLite club stats database. All teams, seasons, and matches will be lost. Re-import your stat sheets afterwards to rebuild.",
	Args:  cobra.NoArgs,
	RunE:  runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
}

func runDrop(cmd *cobra.Command, args []string) error {
	if dbPath == ":memory:" {
		return errors.New("in-memory database has no file to drop")
	}
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete: %s\n", dbPath)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	removed, err := removeDatabase(dbPath)
	if err != nil {
		return err
	}
	if len(removed) == 0 {
		fmt.Fprintln(os.Stdout, "Database does not exist, nothing to drop.")
		return nil
	}
	for _, p := range removed {
		fmt.Fprintf(os.Stdout, "Deleted: %s\n", p)
	}
	return nil
}

// removeDatabase deletes path and the -wal/-shm files journal_mode=WAL
// leaves next to it. Missing files are skipped; it returns what was removed.
func removeDatabase(path string) ([]string, error) {
	var removed []string
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return removed, fmt.Errorf("remove %s: %w", p, err)
		}
		removed = append(removed, p)
	}
	return removed, nil
}
