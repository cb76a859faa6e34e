package users

import (
	"database/sql"
	"errors"
	"fmt"

	"propledger/internal/repos/users"
)

// LockAndGetBankroll takes an exclusive row lock on the user for the
// lifetime of tx. Every bankroll check-then-write goes through this lock;
// that is the per-user serialization boundary.
func (r *usersRepo) LockAndGetBankroll(tx *sql.Tx, userID uint64) (int64, error) {
	var bankroll int64

	err := tx.QueryRow(`
		SELECT bankroll
		FROM users
		WHERE id = $1
		FOR UPDATE
	`, userID).Scan(&bankroll)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, users.ErrUserNotFound
		}

		return 0, fmt.Errorf("lock/get bankroll: %w", err)
	}

	return bankroll, nil
}
