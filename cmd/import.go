package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/clubstats/internal/aggregator"
	"github.com/pable/clubstats/internal/dedupe"
	"github.com/pable/clubstats/internal/ingest"
	"github.com/pable/clubstats/internal/logger"
	"github.com/pable/clubstats/internal/model"
	"github.com/pable/clubstats/internal/storage"
)

var (
	importTeam   string
	importSeason int
	importDryRun bool
)

var importCmd = &cobra.Command{
	Use:   "import <file.csv|file.json> [...]",
	Short: "Import stat sheets, normalizing field names, and store one match per row",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runImport,
}

func init() {
	importCmd.Flags().StringVar(&importTeam, "team", "", "team the matches belong to (required)")
	importCmd.Flags().IntVar(&importSeason, "season", 0, "season year (default: year of each match date)")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "print normalized records without storing them")
	importCmd.MarkFlagRequired("team")
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := logger.Named("import")

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	team, err := requireTeam(db, importTeam)
	if err != nil {
		return err
	}

	total := 0
	for _, path := range args {
		raw, err := ingest.ParseFile(path)
		if err != nil {
			return err
		}
		records := dedupe.DeduplicateAll(raw)
		log.Info(ctx, "parsed upload",
			logger.String("file", path),
			logger.Int("rows", len(records)),
			logger.Int("columns", len(dedupe.DeduplicateColumns(raw))))

		matches, err := buildMatches(db, team, records, importSeason, filepath.Base(path), !importDryRun)
		if err != nil {
			return err
		}
		if importDryRun {
			for _, m := range matches {
				fmt.Fprintf(os.Stdout, "%s vs %s\n", orDash(m.MatchDate), orDash(m.Opponent))
			}
			continue
		}
		if err := db.InsertMatches(matches); err != nil {
			return fmt.Errorf("store %s: %w", path, err)
		}
		total += len(matches)
	}

	if !importDryRun {
		fmt.Fprintf(os.Stdout, "Imported %d match(es) for %s\n", total, team.Name)
	}
	return nil
}

// buildMatches wraps canonical records as matches for team. The season comes
// from seasonYear when set, otherwise from each record's date. Missing
// seasons are created only when createSeasons is set; otherwise the match
// keeps its season year without a season id.
func buildMatches(db *storage.DB, team *model.Team, records []model.CanonicalRecord, seasonYear int, source string, createSeasons bool) ([]model.Match, error) {
	seasons := map[int]string{}
	out := make([]model.Match, 0, len(records))
	for _, rec := range records {
		m := model.Match{
			TeamID:   team.ID,
			TeamName: team.Name,
			Source:   source,
			Stats:    rec,
			Opponent: stringField(rec, "Opponent"),
		}
		if t, ok := aggregator.ParseDate(rec["Date"]); ok {
			m.MatchDate = t.Format("2006-01-02")
		} else {
			m.MatchDate = stringField(rec, "Date")
		}

		year := seasonYear
		if year == 0 {
			if t, ok := aggregator.ParseDate(rec["Date"]); ok {
				year = t.Year()
			}
		}
		if year != 0 {
			id, ok := seasons[year]
			if !ok {
				s, err := db.GetSeason(team.ID, year)
				if err != nil {
					return nil, fmt.Errorf("find season %d: %w", year, err)
				}
				switch {
				case s != nil:
					id = s.ID
				case createSeasons:
					if s, err = db.CreateSeason(team.ID, year, ""); err != nil {
						return nil, err
					}
					id = s.ID
				}
				seasons[year] = id
			}
			m.SeasonID = id
			m.SeasonYear = year
		}
		out = append(out, m)
	}
	return out, nil
}

func stringField(rec model.CanonicalRecord, key string) string {
	v, ok := rec[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return fmt.Sprint(v)
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
