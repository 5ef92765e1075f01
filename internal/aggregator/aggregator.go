package aggregator

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/pable/clubstats/internal/model"
)

// unknownDateKey buckets records whose x value is not a date under groupBy=date.
const unknownDateKey = "unknown"

var (
	ErrMissingXAxis       = errors.New("chart request: missing x-axis key")
	ErrNoSeries           = errors.New("chart request: no series requested")
	ErrEmptySeriesKey     = errors.New("chart request: series key is empty")
	ErrUnknownAggregation = errors.New("chart request: unknown aggregation")
	ErrUnknownGroupBy     = errors.New("chart request: unknown groupBy")
	ErrBadDateRange       = errors.New("chart request: unparseable date range bound")
)

// Validate rejects malformed requests before they reach the pipeline. Once a
// request passes, Aggregate cannot fail.
func Validate(req model.ChartRenderRequest) error {
	if strings.TrimSpace(req.XAxis.Key) == "" {
		return ErrMissingXAxis
	}
	if len(req.Series) == 0 {
		return ErrNoSeries
	}
	for i, s := range req.Series {
		if strings.TrimSpace(s.Key) == "" {
			return fmt.Errorf("series %d: %w", i, ErrEmptySeriesKey)
		}
		switch s.Aggregation {
		case "", model.AggregationAvg, model.AggregationSum, model.AggregationNone:
		default:
			return fmt.Errorf("series %q: %w %q", s.Key, ErrUnknownAggregation, s.Aggregation)
		}
	}
	switch req.GroupBy {
	case "", model.GroupByMatch, model.GroupByDate, model.GroupByTeam:
	default:
		return fmt.Errorf("%w %q", ErrUnknownGroupBy, req.GroupBy)
	}
	for _, bound := range []string{req.Filters.DateRange.Start, req.Filters.DateRange.End} {
		if strings.TrimSpace(bound) == "" {
			continue
		}
		if _, ok := ParseDate(bound); !ok {
			return fmt.Errorf("%w %q", ErrBadDateRange, bound)
		}
	}
	return nil
}

// Aggregate filters, groups, and reduces records into chart-ready series.
// Every requested series is present in the result; an empty input (or a
// filter that removes everything) gives each series an empty data slice.
func Aggregate(records []model.CanonicalRecord, req model.ChartRenderRequest) (model.ChartSeriesCollection, error) {
	if err := Validate(req); err != nil {
		return model.ChartSeriesCollection{}, err
	}

	filtered := Filter(records, req.XAxis.Key, req.Filters)
	groups := groupRecords(filtered, req.XAxis.Key, req.GroupBy)
	order := sortOrder(groups)

	xLabel := req.XAxis.Label
	if xLabel == "" {
		xLabel = req.XAxis.Key
	}
	out := model.ChartSeriesCollection{
		XKey:   req.XAxis.Key,
		XLabel: xLabel,
		Series: make([]model.Series, 0, len(req.Series)),
	}

	for _, spec := range req.Series {
		label := spec.Label
		if label == "" {
			label = spec.Key
		}
		s := model.Series{
			Key:   spec.Key,
			Label: label,
			Data:  make([]model.Point, 0, len(groups)),
		}
		for _, gi := range order {
			g := groups[gi]
			s.Data = append(s.Data, model.Point{X: g.x, Y: reduce(g.records, spec)})
		}
		out.Series = append(out.Series, s)
	}
	return out, nil
}

// ---- Grouping ----

type group struct {
	x       any
	records []model.CanonicalRecord
}

// groupRecords buckets by ISO date for groupBy=date; every other mode plots
// one point per record, the team/match split having happened upstream.
func groupRecords(records []model.CanonicalRecord, xKey string, by model.GroupBy) []group {
	if by != model.GroupByDate {
		out := make([]group, len(records))
		for i, r := range records {
			out[i] = group{x: r[xKey], records: []model.CanonicalRecord{r}}
		}
		return out
	}

	var out []group
	index := make(map[string]int)
	for _, r := range records {
		key := unknownDateKey
		if d, ok := ParseDate(r[xKey]); ok {
			key = d.Format(isoDate)
		}
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, group{x: key})
		}
		out[i].records = append(out[i].records, r)
	}
	return out
}

// ---- Reduction ----

func reduce(records []model.CanonicalRecord, spec model.SeriesSpec) *float64 {
	if len(records) == 1 {
		if f, ok := model.Numeric(records[0][spec.Key]); ok {
			return &f
		}
		return nil
	}

	var vals []float64
	for _, r := range records {
		if f, ok := model.Numeric(r[spec.Key]); ok {
			vals = append(vals, f)
		}
	}
	if len(vals) == 0 {
		return nil
	}

	var y float64
	switch spec.Aggregation {
	case model.AggregationSum:
		for _, v := range vals {
			y += v
		}
	case model.AggregationNone:
		// First parseable value in record order, not sorted.
		y = vals[0]
	default:
		for _, v := range vals {
			y += v
		}
		y /= float64(len(vals))
	}
	return &y
}

// ---- Ordering ----

// sortOrder returns group indices sorted by x: collation order when every x
// is a string, numeric order when every x is a number, and input order when
// the kinds are mixed or missing.
func sortOrder(groups []group) []int {
	order := make([]int, len(groups))
	for i := range order {
		order[i] = i
	}
	if len(groups) < 2 {
		return order
	}

	allStrings, allNumbers := true, true
	for _, g := range groups {
		if _, ok := g.x.(string); !ok {
			allStrings = false
		}
		if !model.IsNumber(g.x) {
			allNumbers = false
		}
	}

	switch {
	case allStrings:
		c := collate.New(language.Und)
		sort.SliceStable(order, func(a, b int) bool {
			return c.CompareString(groups[order[a]].x.(string), groups[order[b]].x.(string)) < 0
		})
	case allNumbers:
		sort.SliceStable(order, func(a, b int) bool {
			fa, _ := model.Numeric(groups[order[a]].x)
			fb, _ := model.Numeric(groups[order[b]].x)
			return fa < fb
		})
	}
	return order
}
