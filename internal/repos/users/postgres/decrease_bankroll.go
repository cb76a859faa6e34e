package users

import (
	"database/sql"
	"fmt"

	"propledger/internal/repos/users"
)

// DecreaseBankroll debits the user, refusing to go below zero. The guard in
// the WHERE clause keeps the invariant even if a caller skips the locked
// pre-check.
func (r *usersRepo) DecreaseBankroll(tx *sql.Tx, userID uint64, amount int64) error {
	res, err := tx.Exec(`
		UPDATE users
		SET bankroll = bankroll - $2
		WHERE id = $1
		  AND bankroll >= $2
	`, userID, amount)
	if err != nil {
		return fmt.Errorf("decrease bankroll: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return users.ErrInsufficientFunds
	}

	return nil
}
