package aggregator

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/pable/clubstats/internal/model"
)

const isoDate = "2006-01-02"

var dateLayouts = []string{
	isoDate,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
}

// Columns probed (case-insensitively) for each filter. A filter whose
// columns are all absent from a record does not restrict it.
var (
	teamColumns     = []string{"Team", "Team Name", "Club"}
	opponentColumns = []string{"Opponent", "Opponent Name"}
	seasonColumns   = []string{"Season", "Season Year", "Year"}
)

// ParseDate interprets v as a calendar date. Only strings and time.Time
// values are accepted.
func ParseDate(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if d, err := time.Parse(layout, s); err == nil {
				return d, true
			}
		}
	}
	return time.Time{}, false
}

// Filter keeps the records that pass every supplied filter. Team, opponent,
// and season filters fail open when their column is missing or unreadable;
// an active date range excludes any record whose x value is not a date.
func Filter(records []model.CanonicalRecord, xKey string, f model.ChartFilters) []model.CanonicalRecord {
	start, end, dateActive := dateBounds(f.DateRange)

	out := make([]model.CanonicalRecord, 0, len(records))
	for _, r := range records {
		if !matchesAny(r, teamColumns, f.Teams) {
			continue
		}
		if !matchesAny(r, opponentColumns, f.Opponents) {
			continue
		}
		if !matchesSeason(r, f.Seasons) {
			continue
		}
		if dateActive {
			d, ok := ParseDate(r[xKey])
			if !ok {
				continue
			}
			day := d.Format(isoDate)
			if start != "" && day < start {
				continue
			}
			if end != "" && day > end {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

func dateBounds(dr model.DateRange) (start, end string, active bool) {
	if !dr.Active() {
		return "", "", false
	}
	if d, ok := ParseDate(dr.Start); ok {
		start = d.Format(isoDate)
	}
	if d, ok := ParseDate(dr.End); ok {
		end = d.Format(isoDate)
	}
	return start, end, true
}

// lookup returns the values of every column in cols present in r.
func lookup(r model.CanonicalRecord, cols []string) []any {
	var out []any
	for k, v := range r {
		for _, c := range cols {
			if strings.EqualFold(k, c) {
				out = append(out, v)
				break
			}
		}
	}
	return out
}

func matchesAny(r model.CanonicalRecord, cols, needles []string) bool {
	var wanted []string
	for _, n := range needles {
		if n = strings.ToLower(strings.TrimSpace(n)); n != "" {
			wanted = append(wanted, n)
		}
	}
	if len(wanted) == 0 {
		return true
	}
	values := lookup(r, cols)
	if len(values) == 0 {
		return true
	}
	for _, v := range values {
		if v == nil {
			continue
		}
		hay := strings.ToLower(fmt.Sprint(v))
		for _, n := range wanted {
			if strings.Contains(hay, n) {
				return true
			}
		}
	}
	return false
}

func matchesSeason(r model.CanonicalRecord, seasons []int) bool {
	if len(seasons) == 0 {
		return true
	}
	values := lookup(r, seasonColumns)
	if len(values) == 0 {
		return true
	}
	readable := false
	for _, v := range values {
		f, ok := model.Numeric(v)
		if !ok || f != math.Trunc(f) {
			continue
		}
		readable = true
		for _, s := range seasons {
			if int(f) == s {
				return true
			}
		}
	}
	return !readable
}
