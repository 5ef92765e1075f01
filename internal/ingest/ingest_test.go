package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/pable/clubstats/internal/model"
)

func TestParseCSV(t *testing.T) {
	in := "\ufeffmatchDate,opponentName,shotsFor,Notes\n" +
		"2024-01-01,Rovers,7,\n" +
		",,,\n" +
		"2024-01-08, Lakeside ,n/a,windy\n"
	recs, err := ParseCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records (blank row skipped), got %d", len(recs))
	}
	want := model.RawRecord{
		{Key: "matchDate", Value: "2024-01-01"},
		{Key: "opponentName", Value: "Rovers"},
		{Key: "shotsFor", Value: 7.0},
		{Key: "Notes", Value: ""},
	}
	if !reflect.DeepEqual(recs[0], want) {
		t.Errorf("row 1 = %v, want %v", recs[0], want)
	}
	if v, _ := recs[1].Get("opponentName"); v != "Lakeside" {
		t.Errorf("trimmed cell = %q", v)
	}
	if v, _ := recs[1].Get("shotsFor"); v != "n/a" {
		t.Errorf("non-numeric cell = %v", v)
	}
}

func TestParseCSV_NonFiniteCellsStayText(t *testing.T) {
	recs, err := ParseCSV(strings.NewReader("a,b,c,d\nNaN,inf,-Infinity,2\n"))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	want := model.RawRecord{
		{Key: "a", Value: "NaN"},
		{Key: "b", Value: "inf"},
		{Key: "c", Value: "-Infinity"},
		{Key: "d", Value: 2.0},
	}
	if !reflect.DeepEqual(recs[0], want) {
		t.Errorf("row = %v, want %v", recs[0], want)
	}
}

func TestParseCSV_ShortRows(t *testing.T) {
	recs, err := ParseCSV(strings.NewReader("a,b,c\n1\n"))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if got := recs[0].Keys(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("keys = %v", got)
	}
}

func TestParseJSON_PreservesOrder(t *testing.T) {
	in := `[{"opponentName":"Rovers","Opponent":"","Shots For":3,"Notes":null}]`
	recs, err := ParseJSON(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if got := recs[0].Keys(); !reflect.DeepEqual(got, []string{"opponentName", "Opponent", "Shots For", "Notes"}) {
		t.Errorf("keys = %v", got)
	}
	if v, _ := recs[0].Get("Shots For"); v != 3.0 {
		t.Errorf("number = %#v", v)
	}
	if v, ok := recs[0].Get("Notes"); !ok || v != nil {
		t.Errorf("null = %#v, %v", v, ok)
	}
}

func TestParseJSON_SingleObject(t *testing.T) {
	recs, err := ParseJSON(strings.NewReader(` {"Date":"2024-01-01"} `))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
}

func TestParseFile_UnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheet.xlsx")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ParseFile(path); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("got %v, want ErrUnsupportedFormat", err)
	}
}

func TestSplitOpponent(t *testing.T) {
	rec := model.RawRecord{
		{Key: "Shots For", Value: 5.0},
		{Key: "Shots Against", Value: 2.0},
		{Key: "Opp Corners", Value: 1.0},
		{Key: "Corners", Value: 4.0},
	}
	team, opp := SplitOpponent(rec)
	if !reflect.DeepEqual(team.Keys(), []string{"Shots For", "Corners"}) {
		t.Errorf("team = %v", team.Keys())
	}
	if !reflect.DeepEqual(opp.Keys(), []string{"Shots Against", "Opp Corners"}) {
		t.Errorf("opponent = %v", opp.Keys())
	}
}
