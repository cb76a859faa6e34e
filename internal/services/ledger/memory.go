package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"propledger/internal/infra/keylock"
	"propledger/internal/repos/users"
	"propledger/internal/repos/wagers"
)

// MemoryLedger keeps bankrolls and wagers in process memory and serializes
// mutation per user with a keyed mutex, so operations on different users
// run in parallel. It satisfies the same contract as the Postgres backend
// and additionally exposes the wager read side, so standalone mode and
// tests can run the scanner and the snapshot builder against it without a
// database.
//
// Locking: the keyed mutex covers the whole check-then-write for one user.
// The inner RWMutex only guards the maps themselves; balances and wager
// fields are only touched while their owner's key lock is held.
type MemoryLedger struct {
	locks *keylock.KeyedMutex[uint64]

	mu       sync.RWMutex
	accounts map[uint64]*account
	wagers   map[string]*wagers.Wager

	now   func() time.Time
	newID func() string
}

type account struct {
	bankroll int64
	initial  int64
}

var _ Ledger = (*MemoryLedger)(nil)

func NewMemory() *MemoryLedger {
	return &MemoryLedger{
		locks:    keylock.New[uint64](),
		accounts: make(map[uint64]*account),
		wagers:   make(map[string]*wagers.Wager),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// CreateUser funds a new account. Calling it again for the same id resets
// the bankroll, which is convenient in tests and harmless in standalone
// mode.
func (l *MemoryLedger) CreateUser(userID uint64, initialCents int64) {
	unlock := l.locks.Lock(userID)
	defer unlock()

	l.mu.Lock()
	defer l.mu.Unlock()
	l.accounts[userID] = &account{bankroll: initialCents, initial: initialCents}
}

func (l *MemoryLedger) Place(_ context.Context, req PlaceRequest) (*wagers.Wager, error) {
	if req.StakeCents <= 0 {
		return nil, ErrInvalidStake
	}

	unlock := l.locks.Lock(req.UserID)
	defer unlock()

	acct, ok := l.account(req.UserID)
	if !ok {
		return nil, users.ErrUserNotFound
	}

	if acct.bankroll < req.StakeCents {
		return nil, fmt.Errorf("pre-check stake: %w", users.ErrInsufficientFunds)
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

	acct.bankroll -= req.StakeCents

	l.mu.Lock()
	l.wagers[w.ID] = w
	l.mu.Unlock()

	copied := *w

	return &copied, nil
}

func (l *MemoryLedger) Settle(_ context.Context, req SettleRequest) (SettleResult, error) {
	// The wager's owner is immutable, so reading it before taking the
	// user lock is safe; the pending check happens under the lock.
	l.mu.RLock()
	w, ok := l.wagers[req.WagerID]
	l.mu.RUnlock()
	if !ok {
		return SettleResult{}, wagers.ErrWagerNotFound
	}

	unlock := l.locks.Lock(w.UserID)
	defer unlock()

	if w.Status != wagers.StatusPending {
		return SettleResult{}, wagers.ErrAlreadySettled
	}

	credit, err := creditFor(w, req.Outcome)
	if err != nil {
		return SettleResult{}, err
	}

	acct, ok := l.account(w.UserID)
	if !ok {
		return SettleResult{}, users.ErrUserNotFound
	}

	settledAt := l.now()
	closing := req.ClosingLine
	clv := req.CLV

	// Write lock on the maps so readers iterating wagers never observe a
	// half-written settlement.
	l.mu.Lock()
	w.Status = req.Outcome
	w.ClosingLine = &closing
	w.CLV = &clv
	w.SettledAt = &settledAt
	l.mu.Unlock()

	acct.bankroll += credit

	return SettleResult{
		UserID:              w.UserID,
		PropID:              w.PropID,
		BankrollChangeCents: credit,
	}, nil
}

func (l *MemoryLedger) Bankroll(_ context.Context, userID uint64) (int64, error) {
	unlock := l.locks.Lock(userID)
	defer unlock()

	acct, ok := l.account(userID)
	if !ok {
		return 0, users.ErrUserNotFound
	}

	return acct.bankroll, nil
}

// User returns the account as a users.User, for the snapshot builder.
func (l *MemoryLedger) User(_ context.Context, userID uint64) (*users.User, error) {
	unlock := l.locks.Lock(userID)
	defer unlock()

	acct, ok := l.account(userID)
	if !ok {
		return nil, users.ErrUserNotFound
	}

	return &users.User{
		ID:                   userID,
		BankrollCents:        acct.bankroll,
		InitialBankrollCents: acct.initial,
	}, nil
}

// PendingByProp implements the wager read side the scanner needs.
func (l *MemoryLedger) PendingByProp(_ context.Context, propID string) ([]wagers.Wager, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []wagers.Wager
	for _, w := range l.wagers {
		if w.PropID == propID && w.Status == wagers.StatusPending {
			out = append(out, *w)
		}
	}

	return out, nil
}

// ByUser implements the wager read side the snapshot builder needs.
func (l *MemoryLedger) ByUser(_ context.Context, userID uint64) ([]wagers.Wager, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []wagers.Wager
	for _, w := range l.wagers {
		if w.UserID == userID {
			out = append(out, *w)
		}
	}

	return out, nil
}

func (l *MemoryLedger) account(userID uint64) (*account, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	acct, ok := l.accounts[userID]

	return acct, ok
}
