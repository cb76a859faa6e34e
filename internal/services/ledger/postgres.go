package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"propledger/internal/infra/pgutils"
	"propledger/internal/repos/entries"
	pgentries "propledger/internal/repos/entries/postgres"
	"propledger/internal/repos/users"
	pgusers "propledger/internal/repos/users/postgres"
	"propledger/internal/repos/wagers"
	pgwagers "propledger/internal/repos/wagers/postgres"
)

// PostgresLedger serializes per-user operations with an exclusive row lock
// on the user record, held for the whole check-then-write. This is sound
// across process restarts and multiple service instances, which is why it
// is the production backend.
type PostgresLedger struct {
	db      *sql.DB
	users   users.Users
	wagers  wagers.Wagers
	entries entries.Entries
	now     func() time.Time
	newID   func() string
}

var _ Ledger = (*PostgresLedger)(nil)

func NewPostgres(db *sql.DB) *PostgresLedger {
	return &PostgresLedger{
		db:      db,
		users:   pgusers.New(db),
		wagers:  pgwagers.New(db),
		entries: pgentries.New(db),
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Place runs the full flow in a single DB transaction:
//
// 1) Lock user row (FOR UPDATE).
// 2) Pre-check stake against the locked bankroll.
// 3) Debit and insert the wager.
// 4) Journal the stake.
func (l *PostgresLedger) Place(ctx context.Context, req PlaceRequest) (*wagers.Wager, error) {
	if req.StakeCents <= 0 {
		return nil, ErrInvalidStake
	}

	w := &wagers.Wager{
		ID:                   l.newID(),
		UserID:               req.UserID,
		SlipID:               req.SlipID,
		PropID:               req.PropID,
		StakeCents:           req.StakeCents,
		Odds:                 req.Odds,
		PotentialReturnCents: req.PotentialReturnCents,
		Status:               wagers.StatusPending,
		OpeningLine:          req.OpeningLine,
		CreatedAt:            l.now(),
	}

	err := pgutils.WithTx(ctx, l.db, func(tx *sql.Tx) error {
		bankroll, err := l.users.LockAndGetBankroll(tx, req.UserID)
		if err != nil {
			return fmt.Errorf("lock and get bankroll: %w", err)
		}

		// Pre-check against the locked balance.
		if bankroll < req.StakeCents {
			return fmt.Errorf("pre-check stake: %w", users.ErrInsufficientFunds)
		}

		err = l.users.DecreaseBankroll(tx, req.UserID, req.StakeCents)
		if err != nil {
			return fmt.Errorf("decrease bankroll: %w", err)
		}

		err = l.wagers.Insert(tx, w)
		if err != nil {
			return fmt.Errorf("insert wager: %w", err)
		}

		err = l.entries.Insert(tx, entries.Entry{
			WagerID:     w.ID,
			UserID:      req.UserID,
			Kind:        entries.KindStake,
			AmountCents: -req.StakeCents,
		})
		if err != nil {
			return fmt.Errorf("journal stake: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("place wager: %w", err)
	}

	return w, nil
}

// Settle locks the wager row first, then the user row, in that order
// everywhere, so concurrent settles and placements cannot deadlock. The
// pending check under the wager lock is the exactly-once gate.
func (l *PostgresLedger) Settle(ctx context.Context, req SettleRequest) (SettleResult, error) {
	var result SettleResult

	err := pgutils.WithTx(ctx, l.db, func(tx *sql.Tx) error {
		w, err := l.wagers.LockForSettle(tx, req.WagerID)
		if err != nil {
			return fmt.Errorf("lock wager: %w", err)
		}

		if w.Status != wagers.StatusPending {
			return wagers.ErrAlreadySettled
		}

		_, err = l.users.LockAndGetBankroll(tx, w.UserID)
		if err != nil {
			return fmt.Errorf("lock user: %w", err)
		}

		credit, err := creditFor(w, req.Outcome)
		if err != nil {
			return err
		}

		err = l.wagers.MarkSettled(tx, w.ID, req.Outcome, req.ClosingLine, req.CLV, l.now())
		if err != nil {
			return fmt.Errorf("mark settled: %w", err)
		}

		if credit > 0 {
			err = l.users.IncreaseBankroll(tx, w.UserID, credit)
			if err != nil {
				return fmt.Errorf("increase bankroll: %w", err)
			}

			kind := entries.KindPayout
			if req.Outcome == wagers.StatusPushed {
				kind = entries.KindRefund
			}

			err = l.entries.Insert(tx, entries.Entry{
				WagerID:     w.ID,
				UserID:      w.UserID,
				Kind:        kind,
				AmountCents: credit,
			})
			if err != nil {
				return fmt.Errorf("journal credit: %w", err)
			}
		}

		result = SettleResult{
			UserID:              w.UserID,
			PropID:              w.PropID,
			BankrollChangeCents: credit,
		}

		return nil
	})
	if err != nil {
		return SettleResult{}, fmt.Errorf("settle wager: %w", err)
	}

	return result, nil
}

func (l *PostgresLedger) Bankroll(ctx context.Context, userID uint64) (int64, error) {
	bankroll, err := l.users.GetBankroll(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("get bankroll: %w", err)
	}

	return bankroll, nil
}
