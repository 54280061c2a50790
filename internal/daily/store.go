// internal/daily/store.go
//
// SQLite-backed persistence for Daily Challenge results. One row per
// user per date, enforced by UNIQUE(user_id, date); repeat inserts are
// ignored so completing a day is idempotent.

package daily

import (
	"context"
	"database/sql"
)

// Result is one user's finished attempt at the daily puzzle.
type Result struct {
	UserID       string  `json:"userId"`
	Date         string  `json:"date"` // YYYY-MM-DD (UTC cutoff)
	StartWord    string  `json:"startWord"`
	EndWord      string  `json:"endWord"`
	Won          bool    `json:"won"` // false when the player gave up
	Moves        int     `json:"moves"`
	OptimalMoves int     `json:"optimalMoves"`
	Accuracy     float64 `json:"accuracy"` // 0 when no moves were made
	ElapsedMs    int     `json:"elapsedMs"`
}

// Store wraps the daily_results table.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// AlreadyPlayed reports whether the user has a persisted result for date.
func (s *Store) AlreadyPlayed(ctx context.Context, userID, date string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM daily_results WHERE user_id=? AND date=?",
		userID, date,
	).Scan(&cnt)
	return cnt > 0, err
}

// InsertResult records a finished daily run. Respects UNIQUE(user_id, date).
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	won := 0
	if r.Won {
		won = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results
		     (user_id, date, start_word, end_word, won, moves, optimal_moves, accuracy, elapsed_ms)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		r.UserID, r.Date, r.StartWord, r.EndWord, won, r.Moves, r.OptimalMoves, r.Accuracy, r.ElapsedMs,
	)
	return err
}

// LBRow is one leaderboard entry.
type LBRow struct {
	UserID    string  `json:"userId"`
	Moves     int     `json:"moves"`
	Accuracy  float64 `json:"accuracy"`
	ElapsedMs int     `json:"elapsedMs"`
}

// Leaderboard returns the top winning results for a date, fewest moves
// first, ties broken by elapsed time then insertion order.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, moves, accuracy, elapsed_ms
		 FROM daily_results
		 WHERE date=? AND won=1
		 ORDER BY moves ASC, elapsed_ms ASC, created_at ASC
		 LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []LBRow
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.UserID, &r.Moves, &r.Accuracy, &r.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
