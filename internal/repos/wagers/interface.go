package wagers

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var (
	ErrWagerNotFound  = errors.New("wager not found")
	ErrAlreadySettled = errors.New("wager already settled")
)

// Status transitions are monotonic: pending moves to exactly one of the
// terminal states and never leaves it.
type Status string

const (
	StatusPending Status = "pending"
	StatusWon     Status = "won"
	StatusLost    Status = "lost"
	StatusPushed  Status = "pushed"
)

// Terminal reports whether s is a settled state.
func (s Status) Terminal() bool {
	return s == StatusWon || s == StatusLost || s == StatusPushed
}

// Wager is a stake placed against a prop. Amounts are integer cents.
// ClosingLine, CLV and SettledAt stay nil until settlement.
type Wager struct {
	ID                   string
	UserID               uint64
	SlipID               string
	PropID               string
	StakeCents           int64
	Odds                 float64
	PotentialReturnCents int64
	Status               Status
	OpeningLine          float64
	ClosingLine          *float64
	CLV                  *float64
	SettledAt            *time.Time
	CreatedAt            time.Time
}

type Wagers interface {
	Insert(tx *sql.Tx, w *Wager) error
	// LockForSettle loads the wager under FOR UPDATE so the settlement
	// status check and the bankroll credit commit or roll back together.
	LockForSettle(tx *sql.Tx, wagerID string) (*Wager, error)
	MarkSettled(tx *sql.Tx, wagerID string, status Status, closingLine, clv float64, settledAt time.Time) error
	ByUser(ctx context.Context, userID uint64) ([]Wager, error)
	PendingByProp(ctx context.Context, propID string) ([]Wager, error)
}
