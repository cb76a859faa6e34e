package entries

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"propledger/internal/repos/entries"
)

var _ entries.Entries = (*entriesRepo)(nil)

type entriesRepo struct{ db *sql.DB }

func New(db *sql.DB) *entriesRepo {
	return &entriesRepo{db: db}
}

func (r *entriesRepo) Insert(tx *sql.Tx, e entries.Entry) error {
	_, err := tx.Exec(`
		INSERT INTO bankroll_entries (wager_id, user_id, kind, amount)
		VALUES ($1, $2, $3, $4)
	`, e.WagerID, e.UserID, e.Kind, e.AmountCents)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // unique_violation
				return entries.ErrDuplicateEntry
			}
		}

		return fmt.Errorf("insert bankroll entry: %w", err)
	}

	return nil
}
