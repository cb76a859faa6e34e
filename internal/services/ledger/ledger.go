// Package ledger owns the two atomic bankroll transitions: place (create a
// pending wager and debit the stake) and settle (move the wager to a
// terminal state and credit the payout, refund, or nothing). Operations for
// the same user are totally ordered; operations for different users run in
// parallel.
//
// Two backends implement the same contract: a Postgres one built on row
// locks (sound across processes, used in production) and an in-memory one
// built on a per-user keyed mutex (standalone mode and tests).
package ledger

import (
	"context"
	"errors"

	"propledger/internal/repos/wagers"
)

// ErrInvalidStake rejects non-positive stakes before any store is touched.
var ErrInvalidStake = errors.New("stake must be positive")

// PlaceRequest creates a pending wager. PotentialReturnCents is precomputed
// by the caller (stake × payout multiplier); the ledger does not price.
type PlaceRequest struct {
	UserID               uint64
	StakeCents           int64
	Odds                 float64
	PotentialReturnCents int64
	PropID               string
	SlipID               string
	OpeningLine          float64
}

// SettleRequest resolves a pending wager. Outcome must be a terminal status.
type SettleRequest struct {
	WagerID     string
	Outcome     wagers.Status
	ClosingLine float64
	CLV         float64
}

// SettleResult reports the bankroll credit the settlement applied:
// potential return for a win, the stake back for a push, zero for a loss.
type SettleResult struct {
	UserID              uint64
	PropID              string
	BankrollChangeCents int64
}

type Ledger interface {
	// Place debits the stake and creates the wager as one atomic unit.
	// Returns users.ErrUserNotFound, users.ErrInsufficientFunds or
	// ErrInvalidStake without mutating anything.
	Place(ctx context.Context, req PlaceRequest) (*wagers.Wager, error)

	// Settle transitions the wager out of pending exactly once. A second
	// call returns wagers.ErrAlreadySettled and changes nothing, which
	// makes redundant invocation (scanner retry, concurrent admin
	// trigger) safe.
	Settle(ctx context.Context, req SettleRequest) (SettleResult, error)

	// Bankroll returns the user's current balance in cents.
	Bankroll(ctx context.Context, userID uint64) (int64, error)
}

// creditFor maps an outcome to the bankroll credit it carries. Lost wagers
// credit nothing: the stake was forfeited at placement.
func creditFor(w *wagers.Wager, outcome wagers.Status) (int64, error) {
	switch outcome {
	case wagers.StatusWon:
		return w.PotentialReturnCents, nil
	case wagers.StatusPushed:
		return w.StakeCents, nil
	case wagers.StatusLost:
		return 0, nil
	default:
		return 0, errors.New("outcome is not a terminal status: " + string(outcome))
	}
}
