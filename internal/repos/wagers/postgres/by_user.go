package wagers

import (
	"context"
	"fmt"

	"propledger/internal/repos/wagers"
)

func (r *wagersRepo) ByUser(ctx context.Context, userID uint64) ([]wagers.Wager, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+wagerColumns+`
		FROM wagers
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query wagers by user: %w", err)
	}
	defer rows.Close()

	var out []wagers.Wager
	for rows.Next() {
		w, err := scanWager(rows)
		if err != nil {
			return nil, fmt.Errorf("scan wager: %w", err)
		}
		out = append(out, *w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wagers: %w", err)
	}

	return out, nil
}
