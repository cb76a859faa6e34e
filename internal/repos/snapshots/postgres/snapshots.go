package snapshots

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"propledger/internal/repos/snapshots"
)

var ErrNoSnapshots = errors.New("no snapshots for user")

var _ snapshots.Snapshots = (*snapshotsRepo)(nil)

type snapshotsRepo struct{ db *sql.DB }

func New(db *sql.DB) *snapshotsRepo {
	return &snapshotsRepo{db: db}
}

func (r *snapshotsRepo) Insert(ctx context.Context, s *snapshots.Snapshot) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO performance_snapshots (
			id, user_id, bankroll, total_wagers, wins, losses, pushes,
			win_rate, roi, avg_clv, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		s.ID, s.UserID, s.BankrollCents, s.TotalWagers, s.Wins, s.Losses,
		s.Pushes, s.WinRate, s.ROI, s.AvgCLV, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}

	return nil
}

func (r *snapshotsRepo) LatestByUser(ctx context.Context, userID uint64) (*snapshots.Snapshot, error) {
	var s snapshots.Snapshot

	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, bankroll, total_wagers, wins, losses, pushes,
		       win_rate, roi, avg_clv, created_at
		FROM performance_snapshots
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, userID).Scan(
		&s.ID, &s.UserID, &s.BankrollCents, &s.TotalWagers, &s.Wins,
		&s.Losses, &s.Pushes, &s.WinRate, &s.ROI, &s.AvgCLV, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoSnapshots
		}

		return nil, fmt.Errorf("latest snapshot: %w", err)
	}

	return &s, nil
}
