package cmd

import (
	"reflect"
	"testing"

	"github.com/pable/clubstats/internal/model"
	"github.com/pable/clubstats/internal/storage"
)

func TestBuildMatches(t *testing.T) {
	db, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	team, err := db.CreateTeam("Harbour FC")
	if err != nil {
		t.Fatalf("CreateTeam: %v", err)
	}
	if _, err := db.CreateSeason(team.ID, 2024, "Spring 2024"); err != nil {
		t.Fatalf("CreateSeason: %v", err)
	}

	records := []model.CanonicalRecord{
		{"Date": "03/02/2024", "Opponent": " Rovers ", "Shots For": 4.0},
		{"Date": "2025-01-10", "Opponent": "Lakeside"},
		{"Opponent": "Nowhere"},
	}
	matches, err := buildMatches(db, team, records, 0, "sheet.csv", true)
	if err != nil {
		t.Fatalf("buildMatches: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(matches))
	}
	if matches[0].MatchDate != "2024-03-02" || matches[0].Opponent != "Rovers" || matches[0].SeasonYear != 2024 {
		t.Errorf("match 0 = %+v", matches[0])
	}
	if matches[1].SeasonYear != 2025 || matches[1].SeasonID == "" {
		t.Errorf("expected a 2025 season to be created, got %+v", matches[1])
	}
	if matches[2].SeasonID != "" || matches[2].MatchDate != "" {
		t.Errorf("undated match should have no season: %+v", matches[2])
	}

	seasons, _ := db.ListSeasons(team.ID)
	if len(seasons) != 2 || seasons[1].Label != "Spring 2024" {
		t.Errorf("existing season label must be kept: %+v", seasons)
	}

	if err := db.InsertMatches(matches); err != nil {
		t.Fatalf("InsertMatches: %v", err)
	}
}

func TestBuildMatches_DryRunCreatesNoSeasons(t *testing.T) {
	db, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	team, err := db.CreateTeam("Harbour FC")
	if err != nil {
		t.Fatalf("CreateTeam: %v", err)
	}

	records := []model.CanonicalRecord{
		{"Date": "2024-03-02", "Opponent": "Rovers"},
		{"Date": "2025-01-10", "Opponent": "Lakeside"},
	}
	matches, err := buildMatches(db, team, records, 0, "sheet.csv", false)
	if err != nil {
		t.Fatalf("buildMatches: %v", err)
	}
	if matches[0].SeasonYear != 2024 || matches[0].SeasonID != "" {
		t.Errorf("dry run should keep the year without a season id: %+v", matches[0])
	}

	seasons, err := db.ListSeasons(team.ID)
	if err != nil {
		t.Fatalf("ListSeasons: %v", err)
	}
	if len(seasons) != 0 {
		t.Errorf("dry run wrote %d season(s)", len(seasons))
	}
}

func TestSplitNames(t *testing.T) {
	got := splitNames([]string{"Opponent", "Name,", "passedComp", ",,", "xG"})
	want := []string{"Opponent Name", "passedComp", "xG"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("splitNames = %v, want %v", got, want)
	}
}
