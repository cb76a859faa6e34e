package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"propledger/internal/repos/users"
)

func (r *usersRepo) Get(ctx context.Context, userID uint64) (*users.User, error) {
	u := users.User{ID: userID}

	err := r.db.QueryRowContext(ctx, `
		SELECT bankroll, initial_bankroll, risk_pct
		FROM users
		WHERE id = $1
	`, userID).Scan(&u.BankrollCents, &u.InitialBankrollCents, &u.RiskPct)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, users.ErrUserNotFound
		}

		return nil, fmt.Errorf("get user: %w", err)
	}

	return &u, nil
}
