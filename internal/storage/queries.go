package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pable/clubstats/internal/model"
)

// ErrTeamNotFound is returned when a match or season references an unknown team.
var ErrTeamNotFound = errors.New("team not found")

// ---- teams ----

// CreateTeam inserts a team with a fresh id and returns it.
func (db *DB) CreateTeam(name string) (*model.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("team name must not be empty")
	}
	t := model.Team{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	_, err := db.conn.Exec(`INSERT INTO teams(id, name, created_at) VALUES (?, ?, ?)`,
		t.ID, t.Name, t.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("insert team %q: %w", name, err)
	}
	return &t, nil
}

// GetTeamByName looks a team up case-insensitively. Returns nil, nil when absent.
func (db *DB) GetTeamByName(name string) (*model.Team, error) {
	var t model.Team
	var created string
	err := db.conn.QueryRow(`SELECT id, name, created_at FROM teams WHERE name = ? COLLATE NOCASE`,
		strings.TrimSpace(name)).Scan(&t.ID, &t.Name, &created)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	t.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return &t, nil
}

// ListTeams returns all teams ordered by name.
func (db *DB) ListTeams() ([]model.Team, error) {
	rows, err := db.conn.Query(`SELECT id, name, created_at FROM teams ORDER BY name COLLATE NOCASE`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Team
	for rows.Next() {
		var t model.Team
		var created string
		if err := rows.Scan(&t.ID, &t.Name, &created); err != nil {
			return nil, err
		}
		t.CreatedAt, _ = time.Parse(time.RFC3339, created)
		out = append(out, t)
	}
	return out, rows.Err()
}

// ---- seasons ----

// CreateSeason adds a season for teamID. An existing (team, year) season is
// returned unchanged apart from its label.
func (db *DB) CreateSeason(teamID string, year int, label string) (*model.Season, error) {
	if label == "" {
		label = fmt.Sprintf("%d", year)
	}
	s := model.Season{ID: uuid.NewString(), TeamID: teamID, Year: year, Label: label}
	_, err := db.conn.Exec(`
		INSERT INTO seasons(id, team_id, year, label) VALUES (?, ?, ?, ?)
		ON CONFLICT(team_id, year) DO UPDATE SET label = excluded.label`,
		s.ID, s.TeamID, s.Year, s.Label)
	if err != nil {
		return nil, fmt.Errorf("insert season %d: %w", year, err)
	}
	err = db.conn.QueryRow(`SELECT id FROM seasons WHERE team_id = ? AND year = ?`, teamID, year).Scan(&s.ID)
	if err != nil {
		return nil, fmt.Errorf("read season %d: %w", year, err)
	}
	return &s, nil
}

// GetSeason returns the team's season for year, or nil, nil.
func (db *DB) GetSeason(teamID string, year int) (*model.Season, error) {
	var s model.Season
	err := db.conn.QueryRow(`SELECT id, team_id, year, label FROM seasons WHERE team_id = ? AND year = ?`,
		teamID, year).Scan(&s.ID, &s.TeamID, &s.Year, &s.Label)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListSeasons returns a team's seasons, newest first.
func (db *DB) ListSeasons(teamID string) ([]model.Season, error) {
	rows, err := db.conn.Query(`
		SELECT id, team_id, year, label FROM seasons
		WHERE team_id = ? ORDER BY year DESC`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Season
	for rows.Next() {
		var s model.Season
		if err := rows.Scan(&s.ID, &s.TeamID, &s.Year, &s.Label); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ---- matches ----

// InsertMatches stores canonical match records in one transaction, assigning
// ids and creation times. The slice is updated in place.
func (db *DB) InsertMatches(matches []model.Match) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO matches(
			id, team_id, season_id, match_date, opponent, source, stats_json, created_at
		) VALUES (?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC().Truncate(time.Second)
	for i := range matches {
		m := &matches[i]
		if m.TeamID == "" {
			return fmt.Errorf("insert match: %w", ErrTeamNotFound)
		}
		if m.ID == "" {
			m.ID = uuid.NewString()
		}
		if m.CreatedAt.IsZero() {
			m.CreatedAt = now
		}
		stats, err := json.Marshal(m.Stats)
		if err != nil {
			return fmt.Errorf("encode stats for match %s: %w", m.ID, err)
		}
		_, err = stmt.Exec(m.ID, m.TeamID, nullString(m.SeasonID), m.MatchDate, m.Opponent,
			m.Source, string(stats), m.CreatedAt.Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("insert match %s: %w", m.ID, err)
		}
	}
	return tx.Commit()
}

// InsertMatch stores a single match.
func (db *DB) InsertMatch(m *model.Match) error {
	batch := []model.Match{*m}
	if err := db.InsertMatches(batch); err != nil {
		return err
	}
	*m = batch[0]
	return nil
}

const matchSelect = `
	SELECT m.id, m.team_id, t.name, COALESCE(m.season_id, ''), COALESCE(s.year, 0),
	       m.match_date, m.opponent, m.source, m.stats_json, m.created_at
	FROM matches m
	JOIN teams t ON t.id = m.team_id
	LEFT JOIN seasons s ON s.id = m.season_id`

// GetMatch finds the first match whose id starts with prefix. Returns nil, nil when absent.
func (db *DB) GetMatch(prefix string) (*model.Match, error) {
	rows, err := db.conn.Query(matchSelect+` WHERE m.id LIKE ? ORDER BY m.id LIMIT 1`, prefix+"%")
	if err != nil {
		return nil, err
	}
	out, err := scanMatches(rows)
	if err != nil || len(out) == 0 {
		return nil, err
	}
	return &out[0], nil
}

// MatchFilter narrows ListMatches. Zero fields do not restrict.
type MatchFilter struct {
	TeamID   string
	SeasonID string
	Since    string // inclusive YYYY-MM-DD lower bound on match_date
}

// ListMatches returns matches ordered by match_date then creation time.
func (db *DB) ListMatches(f MatchFilter) ([]model.Match, error) {
	var where []string
	var args []any
	if f.TeamID != "" {
		where = append(where, "m.team_id = ?")
		args = append(args, f.TeamID)
	}
	if f.SeasonID != "" {
		where = append(where, "m.season_id = ?")
		args = append(args, f.SeasonID)
	}
	if f.Since != "" {
		where = append(where, "m.match_date >= ?")
		args = append(args, f.Since)
	}
	q := matchSelect
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY m.match_date, m.created_at, m.id"

	rows, err := db.conn.Query(q, args...)
	if err != nil {
		return nil, err
	}
	return scanMatches(rows)
}

// DeleteMatch removes a match by exact id and reports whether it existed.
func (db *DB) DeleteMatch(id string) (bool, error) {
	res, err := db.conn.Exec(`DELETE FROM matches WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func scanMatches(rows *sql.Rows) ([]model.Match, error) {
	defer rows.Close()
	var out []model.Match
	for rows.Next() {
		var m model.Match
		var stats, created string
		if err := rows.Scan(&m.ID, &m.TeamID, &m.TeamName, &m.SeasonID, &m.SeasonYear,
			&m.MatchDate, &m.Opponent, &m.Source, &stats, &created); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(stats), &m.Stats); err != nil {
			return nil, fmt.Errorf("decode stats for match %s: %w", m.ID, err)
		}
		m.CreatedAt, _ = time.Parse(time.RFC3339, created)
		out = append(out, m)
	}
	return out, rows.Err()
}

// ---- raw ----

// QueryRaw runs an arbitrary query and returns column names and rows rendered
// as strings. NULL becomes "NULL".
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			switch t := v.(type) {
			case nil:
				row[i] = "NULL"
			case []byte:
				row[i] = string(t)
			default:
				row[i] = fmt.Sprint(t)
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
