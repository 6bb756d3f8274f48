// Package storage provides SQLite-based persistence for finished voyages
// and autopilot training history.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// Run is one finished voyage.
type Run struct {
	ID          int64
	Mode        string // Game id: starhop or starhop_autopilot
	Player      string // SSH user or local
	Difficulty  string
	Score       int // Score on the final planet
	TotalScore  int
	Planet      string
	PlanetIndex int
	CreatedAt   time.Time
}

// Episode is one autopilot training episode.
type Episode struct {
	ID        int64
	RunID     string // Training run uuid
	Agent     string // qlearn or dqn
	Episode   int
	Reward    float64
	Score     int
	Steps     int
	Epsilon   float64
	CreatedAt time.Time
}

// PlanetReach counts how many runs ended at a planet.
type PlanetReach struct {
	PlanetIndex int
	Planet      string
	Runs        int
}

// ModeStats contains aggregated statistics for a game mode.
type ModeStats struct {
	Mode       string
	RunsCount  int
	HighScore  int
	AvgScore   float64
	Furthest   int
	LastPlayed time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			mode TEXT NOT NULL,
			player TEXT NOT NULL DEFAULT '',
			difficulty TEXT NOT NULL DEFAULT 'normal',
			score INTEGER NOT NULL,
			total_score INTEGER NOT NULL,
			planet TEXT NOT NULL,
			planet_index INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_mode ON runs(mode);
		CREATE INDEX IF NOT EXISTS idx_runs_top ON runs(mode, total_score DESC);

		CREATE TABLE IF NOT EXISTS training_episodes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			agent TEXT NOT NULL,
			episode INTEGER NOT NULL,
			reward REAL NOT NULL,
			score INTEGER NOT NULL,
			steps INTEGER NOT NULL,
			epsilon REAL NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_episodes_run ON training_episodes(run_id, episode);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// parseTime handles both time.Time and the SQLite text form.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// SaveRun records a finished voyage.
// Returns the ID of the inserted record.
func (s *Store) SaveRun(r Run) (int64, error) {
	if r.Difficulty == "" {
		r.Difficulty = "normal"
	}
	result, err := s.db.Exec(
		`INSERT INTO runs (mode, player, difficulty, score, total_score, planet, planet_index)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.Mode, r.Player, r.Difficulty, r.Score, r.TotalScore, r.Planet, r.PlanetIndex,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopRuns retrieves the best N runs for a mode, ordered by total score
// and then by how far they got.
func (s *Store) TopRuns(mode string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, mode, player, difficulty, score, total_score, planet, planet_index, created_at
		 FROM runs
		 WHERE mode = ?
		 ORDER BY total_score DESC, planet_index DESC, id ASC
		 LIMIT ?`,
		mode, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var createdAt any
		if err := rows.Scan(&r.ID, &r.Mode, &r.Player, &r.Difficulty, &r.Score, &r.TotalScore,
			&r.Planet, &r.PlanetIndex, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// HighScore returns the best total score for a mode.
// Returns 0 if no runs exist.
func (s *Store) HighScore(mode string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(total_score) FROM runs WHERE mode = ?",
		mode,
	).Scan(&score)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// ClearRuns deletes all runs for a mode.
func (s *Store) ClearRuns(mode string) error {
	_, err := s.db.Exec("DELETE FROM runs WHERE mode = ?", mode)
	if err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// PlanetReachStats counts runs by the planet they ended on, in voyage order.
func (s *Store) PlanetReachStats(mode string) ([]PlanetReach, error) {
	rows, err := s.db.Query(
		`SELECT planet_index, planet, COUNT(*)
		 FROM runs
		 WHERE mode = ?
		 GROUP BY planet_index, planet
		 ORDER BY planet_index ASC`,
		mode,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query planet stats: %w", err)
	}
	defer rows.Close()

	var out []PlanetReach
	for rows.Next() {
		var p PlanetReach
		if err := rows.Scan(&p.PlanetIndex, &p.Planet, &p.Runs); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		out = append(out, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return out, nil
}

// GetModeStats retrieves aggregated statistics for a mode.
func (s *Store) GetModeStats(mode string) (*ModeStats, error) {
	stats := &ModeStats{Mode: mode}

	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(total_score), 0), COALESCE(AVG(total_score), 0),
		        COALESCE(MAX(planet_index), 0), MAX(created_at)
		 FROM runs WHERE mode = ?`,
		mode,
	).Scan(&stats.RunsCount, &stats.HighScore, &stats.AvgScore, &stats.Furthest, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get mode stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	return stats, nil
}

// SaveEpisode records one training episode.
func (s *Store) SaveEpisode(e Episode) (int64, error) {
	if e.RunID == "" {
		return 0, errors.New("storage: episode needs a run id")
	}
	result, err := s.db.Exec(
		`INSERT INTO training_episodes (run_id, agent, episode, reward, score, steps, epsilon)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.RunID, e.Agent, e.Episode, e.Reward, e.Score, e.Steps, e.Epsilon,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save episode: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// RecentEpisodes returns the last N episodes of a training run, newest first.
// An empty runID selects across all runs.
func (s *Store) RecentEpisodes(runID string, limit int) ([]Episode, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT id, run_id, agent, episode, reward, score, steps, epsilon, created_at
		 FROM training_episodes`
	args := []any{}
	if runID != "" {
		query += ` WHERE run_id = ?`
		args = append(args, runID)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query episodes: %w", err)
	}
	defer rows.Close()

	var out []Episode
	for rows.Next() {
		var e Episode
		var createdAt any
		if err := rows.Scan(&e.ID, &e.RunID, &e.Agent, &e.Episode, &e.Reward, &e.Score,
			&e.Steps, &e.Epsilon, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		out = append(out, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return out, nil
}
