package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/clubstats/internal/aggregator"
	"github.com/pable/clubstats/internal/logger"
	"github.com/pable/clubstats/internal/model"
	"github.com/pable/clubstats/internal/report"
	"github.com/pable/clubstats/internal/storage"
)

var (
	chartRequest string
	chartTeam    string
	chartSince   string
	chartOutput  string
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Build chart series from stored matches",
	Long: `Aggregate stored matches into chart series described by a JSON render request:

  {
    "xAxis":   {"key": "Date", "label": "Date"},
    "series":  [{"key": "Shots For", "label": "Shots", "aggregation": "avg"}],
    "filters": {"opponents": ["Rovers"], "seasons": [2024],
                "dateRange": {"start": "2024-01-01", "end": "2024-06-30"}},
    "groupBy": "match"
  }

aggregation is avg, sum, or none; groupBy is match, date, or team.`,
	Args: cobra.NoArgs,
	RunE: runChart,
}

func init() {
	chartCmd.Flags().StringVar(&chartRequest, "request", "", "render request JSON file, or - for stdin (required)")
	chartCmd.Flags().StringVar(&chartTeam, "team", "", "only load matches of this team")
	chartCmd.Flags().StringVar(&chartSince, "since", "", "only load matches on or after this date (YYYY-MM-DD)")
	chartCmd.Flags().StringVarP(&chartOutput, "output", "o", "", "table or json (default from config)")
	chartCmd.MarkFlagRequired("request")
}

func runChart(cmd *cobra.Command, args []string) error {
	req, err := readChartRequest(chartRequest)
	if err != nil {
		return err
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	filter := storage.MatchFilter{Since: chartSince}
	if chartTeam != "" {
		team, err := requireTeam(db, chartTeam)
		if err != nil {
			return err
		}
		filter.TeamID = team.ID
	}

	output := chartOutput
	if output == "" {
		output = cfg.Output
	}
	return renderChart(cmd, db, filter, req, output, os.Stdout)
}

func readChartRequest(path string) (model.ChartRenderRequest, error) {
	var req model.ChartRenderRequest
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return req, fmt.Errorf("open request: %w", err)
		}
		defer f.Close()
		r = f
	}
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return req, fmt.Errorf("decode request: %w", err)
	}
	return req, nil
}

// renderChart loads matches, aggregates them, and writes the collection to w.
func renderChart(cmd *cobra.Command, db *storage.DB, filter storage.MatchFilter, req model.ChartRenderRequest, output string, w io.Writer) error {
	ctx := cmd.Context()
	log := logger.Named("chart")

	for i := range req.Series {
		if req.Series[i].Aggregation == "" {
			req.Series[i].Aggregation = model.Aggregation(cfg.DefaultAggregation)
		}
	}

	matches, err := db.ListMatches(filter)
	if err != nil {
		return fmt.Errorf("list matches: %w", err)
	}
	records := make([]model.CanonicalRecord, len(matches))
	for i, m := range matches {
		records[i] = m.ChartRecord()
	}

	coll, err := aggregator.Aggregate(records, req)
	if err != nil {
		return fmt.Errorf("invalid chart request: %w", err)
	}
	points := 0
	if len(coll.Series) > 0 {
		points = len(coll.Series[0].Data)
	}
	log.Debug(ctx, "aggregated chart",
		logger.Int("matches", len(matches)),
		logger.Int("series", len(coll.Series)),
		logger.Int("points", points))

	if output == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(coll)
	}
	report.PrintSeriesTable(w, coll)
	return nil
}
