// Package ingest turns uploaded spreadsheets, JSON exports, and vision
// extraction output into raw records for deduplication.
package ingest

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pable/clubstats/internal/classify"
	"github.com/pable/clubstats/internal/model"
)

// ErrUnsupportedFormat is returned by ParseFile for unknown extensions.
var ErrUnsupportedFormat = errors.New("unsupported upload format")

// ParseFile dispatches on the file extension (.csv or .json).
func ParseFile(path string) ([]model.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ParseCSV(f)
	case ".json":
		return ParseJSON(f)
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
}

// ParseCSV reads a header row followed by one match per row. Numeric cells
// become float64; blank cells stay as "" so the column is still present.
func ParseCSV(r io.Reader) ([]model.RawRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var out []model.RawRecord
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}
		if blankRow(row) {
			continue
		}
		rec := make(model.RawRecord, 0, len(header))
		for i, key := range header {
			if strings.TrimSpace(key) == "" {
				continue
			}
			var cell string
			if i < len(row) {
				cell = row[i]
			}
			rec = append(rec, model.Field{Key: key, Value: cellValue(cell)})
		}
		out = append(out, rec)
	}
	return out, nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func cellValue(cell string) any {
	s := strings.TrimSpace(cell)
	if s == "" {
		return ""
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f
	}
	return s
}

// ParseJSON accepts either one JSON object or an array of objects. Key order
// inside each object is preserved.
func ParseJSON(r io.Reader) ([]model.RawRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read json: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	if data[0] == '{' {
		var rec model.RawRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("decode json object: %w", err)
		}
		return []model.RawRecord{rec}, nil
	}

	var recs []model.RawRecord
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("decode json array: %w", err)
	}
	return recs, nil
}

// SplitOpponent separates a flat extraction into the team's fields and the
// opponent's fields by the opponent-name substring check.
func SplitOpponent(rec model.RawRecord) (team, opponent model.RawRecord) {
	for _, f := range rec {
		if classify.IsOpponentField(f.Key) {
			opponent = append(opponent, f)
		} else {
			team = append(team, f)
		}
	}
	return team, opponent
}
