package persist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// MatchResult is one finished match, written once.
type MatchResult struct {
	Code         string
	Arena        string
	LeftName     string
	RightName    string
	LeftScore    int
	RightScore   int
	Winner       string // "left" or "right"
	Forfeit      bool
	LongestRally int
	TopSpeed     float64
	StartedAt    time.Time
	EndedAt      time.Time
}

// PlayerRecord is a row of the leaderboard.
type PlayerRecord struct {
	Name         string
	Wins         int
	Losses       int
	GoalsFor     int
	GoalsAgainst int
	UpdatedAt    time.Time
}

// ResultSaver is what the persistence system needs from a repository.
type ResultSaver interface {
	Save(ctx context.Context, r MatchResult) error
}

type MatchRepo struct {
	db *DB
}

func NewMatchRepo(db *DB) *MatchRepo {
	return &MatchRepo{db: db}
}

// Save writes the match row and both players' tallies in one transaction.
// Bot seats are recorded in the match row but get no player record.
func (r *MatchRepo) Save(ctx context.Context, m MatchResult) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("save match begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO matches (code, arena, left_name, right_name, left_score, right_score,
		                      winner, forfeit, longest_rally, top_speed, started_at, ended_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		m.Code, m.Arena, m.LeftName, m.RightName, m.LeftScore, m.RightScore,
		m.Winner, m.Forfeit, m.LongestRally, m.TopSpeed, m.StartedAt, m.EndedAt,
	); err != nil {
		return fmt.Errorf("insert match: %w", err)
	}

	type tally struct {
		name        string
		won         bool
		scored, let int
	}
	for _, t := range []tally{
		{m.LeftName, m.Winner == "left", m.LeftScore, m.RightScore},
		{m.RightName, m.Winner == "right", m.RightScore, m.LeftScore},
	} {
		if t.name == "" {
			continue
		}
		win, loss := 0, 1
		if t.won {
			win, loss = 1, 0
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO player_records (name, wins, losses, goals_for, goals_against, updated_at)
			 VALUES ($1, $2, $3, $4, $5, NOW())
			 ON CONFLICT (name) DO UPDATE SET
			     wins = player_records.wins + EXCLUDED.wins,
			     losses = player_records.losses + EXCLUDED.losses,
			     goals_for = player_records.goals_for + EXCLUDED.goals_for,
			     goals_against = player_records.goals_against + EXCLUDED.goals_against,
			     updated_at = NOW()`,
			t.name, win, loss, t.scored, t.let,
		); err != nil {
			return fmt.Errorf("upsert player %s: %w", t.name, err)
		}
	}

	return tx.Commit(ctx)
}

// Leaderboard returns the top players by wins.
func (r *MatchRepo) Leaderboard(ctx context.Context, limit int) ([]PlayerRecord, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT name, wins, losses, goals_for, goals_against, updated_at
		 FROM player_records
		 ORDER BY wins DESC, goals_for - goals_against DESC, name
		 LIMIT $1`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PlayerRecord
	for rows.Next() {
		var p PlayerRecord
		if err := rows.Scan(&p.Name, &p.Wins, &p.Losses, &p.GoalsFor, &p.GoalsAgainst, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Record loads one player's tallies. Returns nil, nil if the player has none.
func (r *MatchRepo) Record(ctx context.Context, name string) (*PlayerRecord, error) {
	p := &PlayerRecord{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT name, wins, losses, goals_for, goals_against, updated_at
		 FROM player_records WHERE name = $1`, name,
	).Scan(&p.Name, &p.Wins, &p.Losses, &p.GoalsFor, &p.GoalsAgainst, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

type discard struct{}

func (discard) Save(context.Context, MatchResult) error { return nil }

// Discard drops results. Used when the database is disabled.
var Discard ResultSaver = discard{}

// LeaderboardSource is what the ranking system reads.
type LeaderboardSource interface {
	Leaderboard(ctx context.Context, limit int) ([]PlayerRecord, error)
}
