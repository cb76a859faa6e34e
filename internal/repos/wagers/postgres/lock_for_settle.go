package wagers

import (
	"database/sql"
	"errors"
	"fmt"

	"propledger/internal/repos/wagers"
)

func (r *wagersRepo) LockForSettle(tx *sql.Tx, wagerID string) (*wagers.Wager, error) {
	row := tx.QueryRow(`
		SELECT `+wagerColumns+`
		FROM wagers
		WHERE id = $1
		FOR UPDATE
	`, wagerID)

	w, err := scanWager(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, wagers.ErrWagerNotFound
		}

		return nil, fmt.Errorf("lock wager: %w", err)
	}

	return w, nil
}
