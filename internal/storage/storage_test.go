package storage

import (
	"testing"

	"github.com/pable/clubstats/internal/model"
)

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func mustTeam(t *testing.T, db *DB, name string) *model.Team {
	t.Helper()
	team, err := db.CreateTeam(name)
	if err != nil {
		t.Fatalf("CreateTeam(%q): %v", name, err)
	}
	return team
}

// ---- team tests ----

func TestCreateAndGetTeam(t *testing.T) {
	db := openMemDB(t)
	created := mustTeam(t, db, "Harbour FC")

	got, err := db.GetTeamByName("harbour fc")
	if err != nil {
		t.Fatalf("GetTeamByName: %v", err)
	}
	if got == nil || got.ID != created.ID {
		t.Fatalf("expected case-insensitive lookup to find %s, got %+v", created.ID, got)
	}

	missing, err := db.GetTeamByName("Nobody United")
	if err != nil || missing != nil {
		t.Errorf("expected nil, nil for missing team; got %+v, %v", missing, err)
	}
}

func TestCreateTeam_Duplicate(t *testing.T) {
	db := openMemDB(t)
	mustTeam(t, db, "Harbour FC")
	if _, err := db.CreateTeam("HARBOUR FC"); err == nil {
		t.Error("expected unique violation for duplicate team name")
	}
	if _, err := db.CreateTeam("  "); err == nil {
		t.Error("expected error for blank name")
	}
}

func TestListTeams(t *testing.T) {
	db := openMemDB(t)
	mustTeam(t, db, "zebras")
	mustTeam(t, db, "Acorns")
	teams, err := db.ListTeams()
	if err != nil {
		t.Fatalf("ListTeams: %v", err)
	}
	if len(teams) != 2 || teams[0].Name != "Acorns" {
		t.Errorf("expected Acorns first, got %+v", teams)
	}
}

// ---- season tests ----

func TestCreateSeason_Upsert(t *testing.T) {
	db := openMemDB(t)
	team := mustTeam(t, db, "Harbour FC")

	first, err := db.CreateSeason(team.ID, 2024, "")
	if err != nil {
		t.Fatalf("CreateSeason: %v", err)
	}
	if first.Label != "2024" {
		t.Errorf("default label = %q", first.Label)
	}
	again, err := db.CreateSeason(team.ID, 2024, "Spring 2024")
	if err != nil {
		t.Fatalf("CreateSeason again: %v", err)
	}
	if again.ID != first.ID {
		t.Errorf("expected same season id, got %s vs %s", again.ID, first.ID)
	}

	db.CreateSeason(team.ID, 2025, "")
	seasons, err := db.ListSeasons(team.ID)
	if err != nil {
		t.Fatalf("ListSeasons: %v", err)
	}
	if len(seasons) != 2 || seasons[0].Year != 2025 {
		t.Errorf("expected newest first, got %+v", seasons)
	}
	if seasons[1].Label != "Spring 2024" {
		t.Errorf("label not updated: %q", seasons[1].Label)
	}

	got, err := db.GetSeason(team.ID, 2023)
	if err != nil || got != nil {
		t.Errorf("expected nil, nil for missing season; got %+v, %v", got, err)
	}
}

// ---- match tests ----

func TestInsertAndListMatches(t *testing.T) {
	db := openMemDB(t)
	team := mustTeam(t, db, "Harbour FC")
	other := mustTeam(t, db, "Lakeside")
	season, _ := db.CreateSeason(team.ID, 2024, "")

	matches := []model.Match{
		{TeamID: team.ID, SeasonID: season.ID, MatchDate: "2024-03-01", Opponent: "Rovers",
			Source: "upload", Stats: model.CanonicalRecord{"Shots For": 7.0, "Opponent": "Rovers"}},
		{TeamID: team.ID, MatchDate: "2024-02-01", Opponent: "Wanderers",
			Stats: model.CanonicalRecord{"Shots For": 3.0}},
		{TeamID: other.ID, MatchDate: "2024-01-01", Stats: model.CanonicalRecord{}},
	}
	if err := db.InsertMatches(matches); err != nil {
		t.Fatalf("InsertMatches: %v", err)
	}
	for _, m := range matches {
		if m.ID == "" {
			t.Fatal("expected ids assigned in place")
		}
	}

	list, err := db.ListMatches(MatchFilter{TeamID: team.ID})
	if err != nil {
		t.Fatalf("ListMatches: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 matches for team, got %d", len(list))
	}
	if list[0].MatchDate != "2024-02-01" {
		t.Errorf("expected oldest first, got %s", list[0].MatchDate)
	}
	if list[1].TeamName != "Harbour FC" || list[1].SeasonYear != 2024 {
		t.Errorf("joined fields missing: %+v", list[1])
	}
	if list[1].Stats["Shots For"] != 7.0 {
		t.Errorf("stats round trip: %v", list[1].Stats)
	}

	bySeason, _ := db.ListMatches(MatchFilter{SeasonID: season.ID})
	if len(bySeason) != 1 {
		t.Errorf("expected 1 match in season, got %d", len(bySeason))
	}
	since, _ := db.ListMatches(MatchFilter{Since: "2024-02-01"})
	if len(since) != 2 {
		t.Errorf("expected 2 matches since Feb, got %d", len(since))
	}
}

func TestInsertMatch_RequiresTeam(t *testing.T) {
	db := openMemDB(t)
	if err := db.InsertMatch(&model.Match{Stats: model.CanonicalRecord{}}); err == nil {
		t.Error("expected error for match without team")
	}
}

func TestGetMatchByPrefixAndDelete(t *testing.T) {
	db := openMemDB(t)
	team := mustTeam(t, db, "Harbour FC")
	m := model.Match{ID: "deadbeef1234", TeamID: team.ID, MatchDate: "2024-01-01",
		Stats: model.CanonicalRecord{"Date": "2024-01-01"}}
	if err := db.InsertMatch(&m); err != nil {
		t.Fatalf("InsertMatch: %v", err)
	}

	got, err := db.GetMatch("deadbeef")
	if err != nil {
		t.Fatalf("GetMatch: %v", err)
	}
	if got == nil || got.ID != "deadbeef1234" {
		t.Fatalf("expected deadbeef1234, got %+v", got)
	}
	if none, _ := db.GetMatch("cafe"); none != nil {
		t.Errorf("expected nil for unknown prefix, got %+v", none)
	}

	ok, err := db.DeleteMatch("deadbeef1234")
	if err != nil || !ok {
		t.Fatalf("DeleteMatch: %v, %v", ok, err)
	}
	ok, _ = db.DeleteMatch("deadbeef1234")
	if ok {
		t.Error("second delete should report missing")
	}
}

// ---- raw query tests ----

func TestQueryRaw(t *testing.T) {
	db := openMemDB(t)
	mustTeam(t, db, "Harbour FC")

	cols, rows, err := db.QueryRaw("SELECT name, NULL AS nothing, 2 AS n FROM teams")
	if err != nil {
		t.Fatalf("QueryRaw: %v", err)
	}
	if len(cols) != 3 || cols[1] != "nothing" {
		t.Errorf("cols = %v", cols)
	}
	if len(rows) != 1 || rows[0][0] != "Harbour FC" || rows[0][1] != "NULL" || rows[0][2] != "2" {
		t.Errorf("rows = %v", rows)
	}

	if _, _, err := db.QueryRaw("SELECT * FROM nope"); err == nil {
		t.Error("expected error for unknown table")
	}
}
