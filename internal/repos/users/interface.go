package users

import (
	"context"
	"database/sql"
	"errors"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrUserNotFound      = errors.New("user not found")
)

// User is a bankroll holder. Bankroll amounts are integer cents; only the
// wager ledger mutates them.
type User struct {
	ID                   uint64
	BankrollCents        int64
	InitialBankrollCents int64
	RiskPct              float64
}

type Users interface {
	Get(ctx context.Context, userID uint64) (*User, error)
	Exists(tx *sql.Tx, userID uint64) error
	GetBankroll(ctx context.Context, userID uint64) (int64, error)
	LockAndGetBankroll(tx *sql.Tx, userID uint64) (int64, error)
	IncreaseBankroll(tx *sql.Tx, userID uint64, amount int64) error
	DecreaseBankroll(tx *sql.Tx, userID uint64, amount int64) error
}
