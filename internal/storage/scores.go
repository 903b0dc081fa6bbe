package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ScoreEntry is one finished game.
type ScoreEntry struct {
	ID        int64
	Mode      string // rules preset
	Score     int
	Lines     int
	Level     int
	CreatedAt time.Time
}

// ModeStats aggregates the games of one mode.
type ModeStats struct {
	Mode       string
	GamesCount int
	HighScore  int
	AvgScore   float64
	TotalLines int64
	BestLevel  int
	LastPlayed time.Time
}

// SaveScore records a game and returns its ID.
func (s *Store) SaveScore(e ScoreEntry) (int64, error) {
	res, err := s.db.Exec(
		"INSERT INTO scores (mode, score, lines, level) VALUES (?, ?, ?, ?)",
		e.Mode, e.Score, e.Lines, e.Level)
	if err != nil {
		return 0, fmt.Errorf("storage: save score: %w", err)
	}
	return res.LastInsertId()
}

func scanScore(rows *sql.Rows) (ScoreEntry, error) {
	var (
		e  ScoreEntry
		at any
	)
	err := rows.Scan(&e.ID, &e.Mode, &e.Score, &e.Lines, &e.Level, &at)
	e.CreatedAt = timestamp(at)
	return e, err
}

// TopScores returns the best games of a mode, best first. Equal scores
// rank by lines, then by the earlier game. limit <= 0 means 10.
func (s *Store) TopScores(mode string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	scores, err := collect(s.db, scanScore,
		`SELECT id, mode, score, lines, level, created_at FROM scores
		 WHERE mode = ? ORDER BY score DESC, lines DESC, id LIMIT ?`,
		mode, limit)
	if err != nil {
		return nil, fmt.Errorf("storage: top scores of %s: %w", mode, err)
	}
	return scores, nil
}

// HighScore returns the best score of a mode, 0 when none was played.
func (s *Store) HighScore(mode string) (int, error) {
	var best sql.NullInt64
	if err := s.db.QueryRow("SELECT MAX(score) FROM scores WHERE mode = ?", mode).Scan(&best); err != nil {
		return 0, fmt.Errorf("storage: high score of %s: %w", mode, err)
	}
	return int(best.Int64), nil
}

// ClearScores deletes a mode's games and their replays.
func (s *Store) ClearScores(mode string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: clear %s: %w", mode, err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, q := range []string{
		"DELETE FROM replays WHERE score_id IN (SELECT id FROM scores WHERE mode = ?)",
		"DELETE FROM scores WHERE mode = ?",
	} {
		if _, err := tx.Exec(q, mode); err != nil {
			return fmt.Errorf("storage: clear %s: %w", mode, err)
		}
	}
	return tx.Commit()
}

// SaveReplay stores the encoded replay of a game, replacing any earlier one.
func (s *Store) SaveReplay(scoreID int64, data []byte) error {
	if _, err := s.db.Exec("INSERT OR REPLACE INTO replays (score_id, data) VALUES (?, ?)", scoreID, data); err != nil {
		return fmt.Errorf("storage: save replay %d: %w", scoreID, err)
	}
	return nil
}

// Replay returns the encoded replay of a game, or nil if it has none.
func (s *Store) Replay(scoreID int64) ([]byte, error) {
	var data []byte
	err := s.db.QueryRow("SELECT data FROM replays WHERE score_id = ?", scoreID).Scan(&data)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("storage: load replay %d: %w", scoreID, err)
	}
	return data, nil
}

const statsColumns = `COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0),
	COALESCE(SUM(lines), 0), COALESCE(MAX(level), 0), MAX(created_at)`

func scanStats(row interface{ Scan(...any) error }, st *ModeStats, extra ...any) error {
	var last any
	dest := append(extra, &st.GamesCount, &st.HighScore, &st.AvgScore, &st.TotalLines, &st.BestLevel, &last)
	if err := row.Scan(dest...); err != nil {
		return err
	}
	st.LastPlayed = timestamp(last)
	return nil
}

// GetModeStats aggregates one mode. An unplayed mode has zero counts.
func (s *Store) GetModeStats(mode string) (*ModeStats, error) {
	st := &ModeStats{Mode: mode}
	row := s.db.QueryRow("SELECT "+statsColumns+" FROM scores WHERE mode = ?", mode)
	if err := scanStats(row, st); err != nil {
		return nil, fmt.Errorf("storage: stats of %s: %w", mode, err)
	}
	return st, nil
}

// GetAllModesStats aggregates every played mode, keyed by mode.
func (s *Store) GetAllModesStats() (map[string]*ModeStats, error) {
	list, err := collect(s.db, func(rows *sql.Rows) (*ModeStats, error) {
		st := &ModeStats{}
		return st, scanStats(rows, st, &st.Mode)
	}, "SELECT mode, "+statsColumns+" FROM scores GROUP BY mode")
	if err != nil {
		return nil, fmt.Errorf("storage: stats: %w", err)
	}

	out := make(map[string]*ModeStats, len(list))
	for _, st := range list {
		out[st.Mode] = st
	}
	return out, nil
}
