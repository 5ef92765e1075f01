// Package report renders match records, category groups, and chart series as
// terminal tables.
package report

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/clubstats/internal/classify"
	"github.com/pable/clubstats/internal/model"
)

var cCategory = color.New(color.FgCyan, color.Bold)

const missing = "—"

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// PrintMatchHeader prints a one-line summary header for the match.
func PrintMatchHeader(w io.Writer, m model.Match) {
	season := missing
	if m.SeasonYear != 0 {
		season = strconv.Itoa(m.SeasonYear)
	}
	fmt.Fprintf(w, "\nTeam: %s  |  Opponent: %s  |  Date: %s  |  Season: %s  |  ID: %s\n\n",
		m.TeamName, orMissing(m.Opponent), orMissing(m.MatchDate), season, shortID(m.ID))
}

// PrintMatchList prints one row per stored match.
func PrintMatchList(w io.Writer, matches []model.Match) {
	table := newTable(w)
	table.Header("ID", "DATE", "TEAM", "OPPONENT", "SEASON", "FIELDS", "SOURCE")
	for _, m := range matches {
		season := missing
		if m.SeasonYear != 0 {
			season = strconv.Itoa(m.SeasonYear)
		}
		table.Append(
			shortID(m.ID),
			orMissing(m.MatchDate),
			m.TeamName,
			orMissing(m.Opponent),
			season,
			strconv.Itoa(len(m.Stats)),
			orMissing(m.Source),
		)
	}
	table.Render()
}

// PrintRecordTable prints a canonical record as FIELD | VALUE rows, sorted by field.
func PrintRecordTable(w io.Writer, rec model.CanonicalRecord) {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	table := newTable(w)
	table.Header("FIELD", "VALUE")
	for _, k := range keys {
		table.Append(k, FormatValue(rec[k]))
	}
	table.Render()
}

// PrintCategoryGroups prints one table per category with the team's fields
// beside the opponent's. When rec is nil only field names are shown.
func PrintCategoryGroups(w io.Writer, groups []classify.Group, rec model.CanonicalRecord) {
	for _, g := range groups {
		cCategory.Fprintf(w, "\n%s (%d)\n", g.Category, g.Len())
		if g.Len() == 0 {
			fmt.Fprintln(w, "  (none)")
			continue
		}

		table := newTable(w)
		if rec == nil {
			table.Header("TEAM", "OPPONENT")
		} else {
			table.Header("TEAM", "VALUE", "OPPONENT", "VALUE")
		}
		n := max(len(g.Team), len(g.Opponent))
		for i := 0; i < n; i++ {
			team, opp := at(g.Team, i), at(g.Opponent, i)
			if rec == nil {
				table.Append(team, opp)
				continue
			}
			table.Append(team, cellFor(rec, team), opp, cellFor(rec, opp))
		}
		table.Render()
	}
}

// PrintSeriesTable prints a chart collection with one row per x value and
// one column per series.
func PrintSeriesTable(w io.Writer, c model.ChartSeriesCollection) {
	table := newTable(w)
	header := []any{c.XLabel}
	for _, s := range c.Series {
		header = append(header, s.Label)
	}
	table.Header(header...)

	rows := 0
	for _, s := range c.Series {
		rows = max(rows, len(s.Data))
	}
	for i := 0; i < rows; i++ {
		row := make([]any, 0, len(c.Series)+1)
		x := missing
		for _, s := range c.Series {
			if i < len(s.Data) {
				x = FormatValue(s.Data[i].X)
				break
			}
		}
		row = append(row, x)
		for _, s := range c.Series {
			if i >= len(s.Data) || s.Data[i].Y == nil {
				row = append(row, missing)
				continue
			}
			row = append(row, formatFloat(*s.Data[i].Y))
		}
		table.Append(row...)
	}
	table.Render()
}

// FormatValue renders a record value for display. nil and blank strings
// show as a dash.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return missing
	case string:
		return orMissing(t)
	case float64:
		return formatFloat(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		if f, ok := model.Numeric(t); ok {
			return formatFloat(f)
		}
		return fmt.Sprint(t)
	}
}

func formatFloat(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', 0, 64)
	}
	return strconv.FormatFloat(f, 'f', 2, 64)
}

func cellFor(rec model.CanonicalRecord, key string) string {
	if key == "" {
		return ""
	}
	return FormatValue(rec[key])
}

func at(s []string, i int) string {
	if i < len(s) {
		return s[i]
	}
	return ""
}

func orMissing(s string) string {
	if s == "" {
		return missing
	}
	return s
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
