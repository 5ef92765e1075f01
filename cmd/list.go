package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/clubstats/internal/report"
	"github.com/pable/clubstats/internal/storage"
)

var listTeam string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored matches",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listTeam, "team", "", "only list matches of this team")
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	var filter storage.MatchFilter
	if listTeam != "" {
		team, err := requireTeam(db, listTeam)
		if err != nil {
			return err
		}
		filter.TeamID = team.ID
	}

	matches, err := db.ListMatches(filter)
	if err != nil {
		return fmt.Errorf("list matches: %w", err)
	}
	if len(matches) == 0 {
		fmt.Fprintln(os.Stdout, "No matches stored yet. Run 'clubstats import <sheet.csv> --team <name>' to add some.")
		return nil
	}
	report.PrintMatchList(os.Stdout, matches)
	return nil
}
