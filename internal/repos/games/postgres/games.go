package games

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"propledger/internal/repos/games"
)

var _ games.Games = (*gamesRepo)(nil)

type gamesRepo struct{ db *sql.DB }

func New(db *sql.DB) *gamesRepo {
	return &gamesRepo{db: db}
}

const gameColumns = `
	id, sport, home_team, away_team, game_time, status,
	home_score, away_score, box_scores, finalized_at
`

type scanner interface {
	Scan(dest ...any) error
}

func scanGame(s scanner) (*games.GameEvent, error) {
	var (
		g           games.GameEvent
		rawBox      []byte
		finalizedAt sql.NullTime
	)

	err := s.Scan(
		&g.ID, &g.Sport, &g.HomeTeam, &g.AwayTeam, &g.GameTime, &g.Status,
		&g.HomeScore, &g.AwayScore, &rawBox, &finalizedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(rawBox) > 0 {
		err = json.Unmarshal(rawBox, &g.BoxScores)
		if err != nil {
			return nil, fmt.Errorf("decode box scores: %w", err)
		}
	}

	if finalizedAt.Valid {
		t := finalizedAt.Time
		g.FinalizedAt = &t
	}

	return &g, nil
}

func (r *gamesRepo) Get(ctx context.Context, gameID string) (*games.GameEvent, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+gameColumns+`
		FROM game_events
		WHERE id = $1
	`, gameID)

	g, err := scanGame(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, games.ErrGameNotFound
		}

		return nil, fmt.Errorf("get game: %w", err)
	}

	return g, nil
}

func (r *gamesRepo) PendingGames(ctx context.Context, sport string) ([]games.GameEvent, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM game_events
		WHERE status IN ('scheduled', 'in_progress')
	`
	args := []any{}
	if sport != "" {
		query += ` AND sport = $1`
		args = append(args, sport)
	}
	query += ` ORDER BY game_time`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query pending games: %w", err)
	}
	defer rows.Close()

	var out []games.GameEvent
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		out = append(out, *g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate games: %w", err)
	}

	return out, nil
}

func (r *gamesRepo) MarkFinal(ctx context.Context, gameID string, at time.Time) error {
	// No affected-rows check: a repeat scan seeing the game already final
	// is the expected idempotent path, not an error.
	_, err := r.db.ExecContext(ctx, `
		UPDATE game_events
		SET status = 'final',
		    finalized_at = COALESCE(finalized_at, $2)
		WHERE id = $1
		  AND status <> 'final'
	`, gameID, at)
	if err != nil {
		return fmt.Errorf("mark final: %w", err)
	}

	return nil
}

func (r *gamesRepo) Upsert(ctx context.Context, g *games.GameEvent) error {
	box, err := json.Marshal(g.BoxScores)
	if err != nil {
		return fmt.Errorf("encode box scores: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO game_events (
			id, sport, home_team, away_team, game_time, status,
			home_score, away_score, box_scores
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			home_score = EXCLUDED.home_score,
			away_score = EXCLUDED.away_score,
			box_scores = EXCLUDED.box_scores
	`,
		g.ID, g.Sport, g.HomeTeam, g.AwayTeam, g.GameTime, g.Status,
		g.HomeScore, g.AwayScore, box,
	)
	if err != nil {
		return fmt.Errorf("upsert game: %w", err)
	}

	return nil
}
