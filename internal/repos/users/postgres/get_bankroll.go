package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"propledger/internal/repos/users"
)

func (r *usersRepo) GetBankroll(ctx context.Context, userID uint64) (int64, error) {
	var bankroll int64

	err := r.db.QueryRowContext(ctx, `
		SELECT bankroll
		FROM users
		WHERE id = $1
	`, userID).Scan(&bankroll)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, users.ErrUserNotFound
		}

		return 0, fmt.Errorf("get bankroll: %w", err)
	}

	return bankroll, nil
}
