package wagers

import (
	"database/sql"
	"fmt"

	"propledger/internal/repos/wagers"
)

func (r *wagersRepo) Insert(tx *sql.Tx, w *wagers.Wager) error {
	_, err := tx.Exec(`
		INSERT INTO wagers (
			id, user_id, slip_id, prop_id, stake, odds,
			potential_return, status, opening_line, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		w.ID, w.UserID, nullIfEmpty(w.SlipID), nullIfEmpty(w.PropID),
		w.StakeCents, w.Odds, w.PotentialReturnCents, w.Status,
		w.OpeningLine, w.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert wager: %w", err)
	}

	return nil
}
