package wagers

import (
	"database/sql"
	"fmt"
	"time"

	"propledger/internal/repos/wagers"
)

// MarkSettled writes the terminal state. The status = 'pending' guard makes
// a lost race show up as zero affected rows instead of a second transition.
func (r *wagersRepo) MarkSettled(tx *sql.Tx, wagerID string, status wagers.Status, closingLine, clv float64, settledAt time.Time) error {
	res, err := tx.Exec(`
		UPDATE wagers
		SET status = $2,
		    closing_line = $3,
		    clv = $4,
		    settled_at = $5
		WHERE id = $1
		  AND status = 'pending'
	`, wagerID, status, closingLine, clv, settledAt)
	if err != nil {
		return fmt.Errorf("mark settled: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return wagers.ErrAlreadySettled
	}

	return nil
}
