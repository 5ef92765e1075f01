package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pable/clubstats/internal/model"
	"github.com/pable/clubstats/internal/storage"
)

var seasonLabel string

var teamCmd = &cobra.Command{
	Use:   "team",
	Short: "Manage teams",
}

var teamAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Register a team",
	Args:  cobra.ExactArgs(1),
	RunE:  runTeamAdd,
}

var teamListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered teams",
	Args:  cobra.NoArgs,
	RunE:  runTeamList,
}

var seasonCmd = &cobra.Command{
	Use:   "season",
	Short: "Manage a team's seasons",
}

var seasonAddCmd = &cobra.Command{
	Use:   "add <team> <year>",
	Short: "Add (or relabel) a season for a team",
	Args:  cobra.ExactArgs(2),
	RunE:  runSeasonAdd,
}

var seasonListCmd = &cobra.Command{
	Use:   "list <team>",
	Short: "List a team's seasons",
	Args:  cobra.ExactArgs(1),
	RunE:  runSeasonList,
}

func init() {
	teamCmd.AddCommand(teamAddCmd)
	teamCmd.AddCommand(teamListCmd)

	seasonAddCmd.Flags().StringVar(&seasonLabel, "label", "", "display label (default: the year)")
	seasonCmd.AddCommand(seasonAddCmd)
	seasonCmd.AddCommand(seasonListCmd)
}

func runTeamAdd(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	team, err := db.CreateTeam(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Added team %s (%s)\n", team.Name, team.ID[:8])
	return nil
}

func runTeamList(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	teams, err := db.ListTeams()
	if err != nil {
		return fmt.Errorf("list teams: %w", err)
	}
	if len(teams) == 0 {
		fmt.Fprintln(os.Stdout, "No teams yet. Run 'clubstats team add <name>' to add one.")
		return nil
	}
	fmt.Fprintf(os.Stdout, "%-10s  %-30s  %s\n", "ID", "NAME", "CREATED")
	fmt.Fprintf(os.Stdout, "%-10s  %-30s  %s\n", "──────────", "──────────────────────────────", "──────────")
	for _, t := range teams {
		fmt.Fprintf(os.Stdout, "%-10s  %-30s  %s\n", t.ID[:8], t.Name, t.CreatedAt.Format("2006-01-02"))
	}
	return nil
}

func runSeasonAdd(cmd *cobra.Command, args []string) error {
	year, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid year %q: %w", args[1], err)
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	team, err := requireTeam(db, args[0])
	if err != nil {
		return err
	}
	season, err := db.CreateSeason(team.ID, year, seasonLabel)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Season %s (%d) for %s\n", season.Label, season.Year, team.Name)
	return nil
}

func runSeasonList(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	team, err := requireTeam(db, args[0])
	if err != nil {
		return err
	}
	seasons, err := db.ListSeasons(team.ID)
	if err != nil {
		return fmt.Errorf("list seasons: %w", err)
	}
	if len(seasons) == 0 {
		fmt.Fprintf(os.Stdout, "No seasons for %s.\n", team.Name)
		return nil
	}
	for _, s := range seasons {
		fmt.Fprintf(os.Stdout, "%d  %s\n", s.Year, s.Label)
	}
	return nil
}

// requireTeam resolves a team by name and fails with a hint when absent.
func requireTeam(db *storage.DB, name string) (*model.Team, error) {
	team, err := db.GetTeamByName(name)
	if err != nil {
		return nil, fmt.Errorf("find team: %w", err)
	}
	if team == nil {
		return nil, fmt.Errorf("no team named %q (run 'clubstats team add %s')", name, name)
	}
	return team, nil
}
