package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pable/clubstats/internal/classify"
	"github.com/pable/clubstats/internal/dedupe"
	"github.com/pable/clubstats/internal/ingest"
	"github.com/pable/clubstats/internal/logger"
	"github.com/pable/clubstats/internal/model"
	"github.com/pable/clubstats/internal/report"
	"github.com/pable/clubstats/internal/vision"
)

var (
	extractAPIKey string
	extractModel  string
	extractTeam   string
	extractSeason int
	extractSave   bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <image>",
	Short: "Read a stat sheet screenshot with AI (requires ANTHROPIC_API_KEY)",
	Long: `Send a screenshot of a match stat sheet to an Anthropic vision model, normalize
the returned labels, and print them grouped by category. With --save the
result is stored as a match for --team.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVar(&extractAPIKey, "api-key", "", "Anthropic API key (falls back to $ANTHROPIC_API_KEY)")
	extractCmd.Flags().StringVar(&extractModel, "model", "", "Anthropic model to use (default from config)")
	extractCmd.Flags().StringVar(&extractTeam, "team", "", "team to store the match under (with --save)")
	extractCmd.Flags().IntVar(&extractSeason, "season", 0, "season year (default: year of the match date)")
	extractCmd.Flags().BoolVar(&extractSave, "save", false, "store the extracted match")
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := logger.Named("extract")

	modelID := extractModel
	if modelID == "" {
		modelID = cfg.VisionModel
	}
	ex, err := vision.NewExtractor(extractAPIKey, modelID, cfg.VisionMaxTokens)
	if err != nil {
		return err
	}

	raw, err := ex.Extract(ctx, args[0])
	if err != nil {
		return fmt.Errorf("extract %s: %w", args[0], err)
	}
	team, opp := ingest.SplitOpponent(raw)
	log.Info(ctx, "extracted stat sheet",
		logger.Int("team_fields", len(team)),
		logger.Int("opponent_fields", len(opp)))

	rec := dedupe.Deduplicate(raw)
	report.PrintCategoryGroups(os.Stdout, sheetGroups(team, opp), rec)

	if !extractSave {
		return nil
	}
	if extractTeam == "" {
		return fmt.Errorf("--save requires --team")
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	t, err := requireTeam(db, extractTeam)
	if err != nil {
		return err
	}
	matches, err := buildMatches(db, t, []model.CanonicalRecord{rec}, extractSeason, filepath.Base(args[0]), true)
	if err != nil {
		return err
	}
	if err := db.InsertMatches(matches); err != nil {
		return fmt.Errorf("store match: %w", err)
	}
	fmt.Fprintf(os.Stdout, "\nSaved match %s for %s\n", matches[0].ID[:8], t.Name)
	return nil
}

// sheetGroups lays out the extracted sheet using the sides the model
// reported rather than re-deriving them from the canonical names.
func sheetGroups(team, opp model.RawRecord) []classify.Group {
	return classify.GroupSides(
		recordKeys(dedupe.Deduplicate(team)),
		recordKeys(dedupe.Deduplicate(opp)),
	)
}

func recordKeys(rec model.CanonicalRecord) []string {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	return keys
}
