package wagers

import (
	"context"
	"fmt"

	"propledger/internal/repos/wagers"
)

func (r *wagersRepo) PendingByProp(ctx context.Context, propID string) ([]wagers.Wager, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+wagerColumns+`
		FROM wagers
		WHERE prop_id = $1
		  AND status = 'pending'
		ORDER BY created_at
	`, propID)
	if err != nil {
		return nil, fmt.Errorf("query pending wagers: %w", err)
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
