package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/vovakirdan/tui-tetris/internal/multiplayer"
)

// OnlineMatchResult is a finished versus match.
type OnlineMatchResult struct {
	ID             int64
	MatchID        string
	Preset         string
	Player1Session string
	Player2Session string
	Score1         int
	Score2         int
	WinnerSession  string // empty on a draw
	EndReason      string
	Duration       int // seconds
	CreatedAt      time.Time
}

// SaveOnlineMatch records a versus match and returns its row ID.
func (s *Store) SaveOnlineMatch(r OnlineMatchResult) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO online_matches (match_id, preset, player1_session, player2_session,
			score1, score2, winner_session, end_reason, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.MatchID, r.Preset, r.Player1Session, r.Player2Session,
		r.Score1, r.Score2, r.WinnerSession, r.EndReason, r.Duration)
	if err != nil {
		return 0, fmt.Errorf("storage: save match %s: %w", r.MatchID, err)
	}
	return res.LastInsertId()
}

func scanMatch(rows *sql.Rows) (OnlineMatchResult, error) {
	var (
		r      OnlineMatchResult
		winner sql.NullString
		at     any
	)
	err := rows.Scan(&r.ID, &r.MatchID, &r.Preset, &r.Player1Session, &r.Player2Session,
		&r.Score1, &r.Score2, &winner, &r.EndReason, &r.Duration, &at)
	r.WinnerSession = winner.String
	r.CreatedAt = timestamp(at)
	return r, err
}

// RecentOnlineMatches returns the latest matches, newest first.
// limit <= 0 means 20.
func (s *Store) RecentOnlineMatches(limit int) ([]OnlineMatchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	matches, err := collect(s.db, scanMatch,
		`SELECT id, match_id, preset, player1_session, player2_session,
			score1, score2, winner_session, end_reason, duration_secs, created_at
		 FROM online_matches ORDER BY created_at DESC, id DESC LIMIT ?`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("storage: recent matches: %w", err)
	}
	return matches, nil
}

// SaveMatchResult lets the coordinator persist results without importing
// this package.
func (s *Store) SaveMatchResult(d multiplayer.MatchResultData) error {
	_, err := s.SaveOnlineMatch(OnlineMatchResult{
		MatchID:        d.MatchID,
		Preset:         d.Preset,
		Player1Session: d.Player1Session,
		Player2Session: d.Player2Session,
		Score1:         d.Score1,
		Score2:         d.Score2,
		WinnerSession:  d.WinnerSession,
		EndReason:      d.EndReason,
		Duration:       d.DurationSecs,
	})
	return err
}

var _ multiplayer.MatchResultSaver = (*Store)(nil)
