// Package model holds the record, category, and chart types shared by the
// canonicalization, classification, and aggregation pipeline.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ---- Records ----

// Field is one raw key/value observation. Value is nil, a string, a bool,
// or a Go numeric kind.
type Field struct {
	Key   string
	Value any
}

// RawRecord is a flat record as produced by spreadsheet parsing, vision
// extraction, or manual entry. Keys may repeat semantically under different
// spellings; the slice order is the observation order.
type RawRecord []Field

// Get returns the first value stored under exactly key.
func (r RawRecord) Get(key string) (any, bool) {
	for _, f := range r {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Keys returns the raw keys in observation order.
func (r RawRecord) Keys() []string {
	out := make([]string, len(r))
	for i, f := range r {
		out[i] = f.Key
	}
	return out
}

// UnmarshalJSON decodes a JSON object while keeping its key order.
func (r *RawRecord) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("raw record: expected JSON object, got %v", tok)
	}

	var out RawRecord
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("raw record: unexpected key token %v", keyTok)
		}
		var raw any
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("raw record: decode %q: %w", key, err)
		}
		out = append(out, Field{Key: key, Value: scalar(raw)})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*r = out
	return nil
}

// MarshalJSON encodes the record as a JSON object in observation order.
// Repeated keys are written as they are; consumers keep the last one.
func (r RawRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// scalar flattens decoded JSON into the scalar kinds a record may hold.
// Nested objects and arrays are kept as their compact JSON text.
func scalar(v any) any {
	switch t := v.(type) {
	case nil, string, bool:
		return t
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}

// CanonicalRecord maps canonical field names to a single value each.
type CanonicalRecord map[string]any

// ---- Value predicates ----

// IsEmptyPlaceholder reports whether v stands for "no observation": nil, a
// blank string, or numeric zero. It is the single definition of emptiness
// shared by record merging and numeric coercion.
func IsEmptyPlaceholder(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	}
	if f, ok := number(v); ok {
		return f == 0
	}
	return false
}

// Numeric coerces v to a finite float64. Numbers pass through; strings are
// parsed after trimming. NaN, infinities, anything else, or an unparseable
// string report false.
func Numeric(v any) (float64, bool) {
	if f, ok := number(v); ok {
		if !isFinite(f) {
			return 0, false
		}
		return f, true
	}
	if IsEmptyPlaceholder(v) {
		return 0, false
	}
	s, ok := v.(string)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || !isFinite(f) {
		return 0, false
	}
	return f, true
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func number(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int8:
		return float64(t), true
	case int16:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint8:
		return float64(t), true
	case uint16:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	}
	return 0, false
}

// IsNumber reports whether v holds a Go numeric kind (not a numeric string).
func IsNumber(v any) bool {
	_, ok := number(v)
	return ok
}

// ---- Categories ----

// Category is a display grouping bucket for canonical fields.
type Category string

const (
	CategoryGameInfo           Category = "Game Info"
	CategoryBasicFirstHalf     Category = "Basic Stats (1st Half)"
	CategoryBasicSecondHalf    Category = "Basic Stats (2nd Half)"
	CategorySetPieces          Category = "Set Pieces"
	CategoryPassStrings        Category = "Pass Strings"
	CategoryShotsMap           Category = "Shots Map"
	CategoryPossessionLocation Category = "Possession Location"
	CategoryPassLocation       Category = "Pass Location"
	CategoryOther              Category = "Other"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryGameInfo,
	CategoryBasicFirstHalf,
	CategoryBasicSecondHalf,
	CategorySetPieces,
	CategoryPassStrings,
	CategoryShotsMap,
	CategoryPossessionLocation,
	CategoryPassLocation,
	CategoryOther,
}

// ---- Chart request / response ----

// Aggregation is the reduction applied to several observations in one group.
type Aggregation string

const (
	AggregationAvg  Aggregation = "avg"
	AggregationSum  Aggregation = "sum"
	AggregationNone Aggregation = "none"
)

// GroupBy selects how records are bucketed before aggregation.
type GroupBy string

const (
	GroupByMatch GroupBy = "match"
	GroupByDate  GroupBy = "date"
	GroupByTeam  GroupBy = "team"
)

// AxisSpec names the shared x-axis column.
type AxisSpec struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// SeriesSpec requests one plotted metric.
type SeriesSpec struct {
	Key         string      `json:"key"`
	Label       string      `json:"label"`
	Aggregation Aggregation `json:"aggregation,omitempty"`
}

// DateRange bounds are inclusive ISO dates; either side may be empty.
type DateRange struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// Active reports whether either bound is set.
func (d DateRange) Active() bool {
	return strings.TrimSpace(d.Start) != "" || strings.TrimSpace(d.End) != ""
}

// ChartFilters restrict which records feed a chart.
type ChartFilters struct {
	Teams     []string  `json:"teams,omitempty"`
	Opponents []string  `json:"opponents,omitempty"`
	Seasons   []int     `json:"seasons,omitempty"`
	DateRange DateRange `json:"dateRange,omitempty"`
}

// ChartRenderRequest is built by the chart-builder client for one render.
type ChartRenderRequest struct {
	XAxis   AxisSpec     `json:"xAxis"`
	Series  []SeriesSpec `json:"series"`
	Filters ChartFilters `json:"filters,omitempty"`
	GroupBy GroupBy      `json:"groupBy,omitempty"`
}

// Point is one (x, y) pair. Y is nil when the group had no numeric value.
type Point struct {
	X any      `json:"x"`
	Y *float64 `json:"y"`
}

// Series is the data for one requested metric.
type Series struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Data  []Point `json:"data"`
}

// ChartSeriesCollection is handed directly to the chart widget.
type ChartSeriesCollection struct {
	XKey   string   `json:"xKey"`
	XLabel string   `json:"xLabel"`
	Series []Series `json:"series"`
}

// ---- Stored entities ----

// Team is a club side whose matches are tracked.
type Team struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Season groups a team's matches by year.
type Season struct {
	ID     string
	TeamID string
	Year   int
	Label  string
}

// Match is one stored stat sheet.
type Match struct {
	ID         string
	TeamID     string
	TeamName   string
	SeasonID   string
	SeasonYear int
	MatchDate  string
	Opponent   string
	Source     string
	Stats      CanonicalRecord
	CreatedAt  time.Time
}

// ChartRecord returns the match stats with the relational columns filled
// in where the sheet itself did not carry them.
func (m Match) ChartRecord() CanonicalRecord {
	out := make(CanonicalRecord, len(m.Stats)+4)
	for k, v := range m.Stats {
		out[k] = v
	}
	fill := func(key string, v any) {
		if cur, ok := out[key]; ok && !IsEmptyPlaceholder(cur) {
			return
		}
		if IsEmptyPlaceholder(v) {
			return
		}
		out[key] = v
	}
	fill("Team", m.TeamName)
	fill("Date", m.MatchDate)
	fill("Opponent", m.Opponent)
	if m.SeasonYear != 0 {
		fill("Season", m.SeasonYear)
	}
	return out
}
