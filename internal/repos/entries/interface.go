// Package entries is the bankroll journal: one row per debit or credit a
// wager caused. The UNIQUE (wager_id, kind) constraint is a database-level
// backstop: a second credit for the same wager trips the constraint instead
// of drifting the bankroll.
package entries

import (
	"database/sql"
	"errors"
)

var ErrDuplicateEntry = errors.New("duplicate bankroll entry")

type Kind string

const (
	KindStake  Kind = "stake"  // debit at placement
	KindPayout Kind = "payout" // credit on a won wager
	KindRefund Kind = "refund" // credit on a pushed wager
)

type Entry struct {
	WagerID     string
	UserID      uint64
	Kind        Kind
	AmountCents int64
}

type Entries interface {
	Insert(tx *sql.Tx, e Entry) error
}
