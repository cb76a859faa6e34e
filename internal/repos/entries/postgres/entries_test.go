package entries

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"propledger/internal/infra/pgtestutil"
	"propledger/internal/repos/entries"
)

func seed(t *testing.T, db *sql.DB) {
	t.Helper()

	_, err := db.Exec(`INSERT INTO users (id, bankroll, initial_bankroll) VALUES (1, 10000, 10000)`)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	_, err = db.Exec(`
		INSERT INTO wagers (id, user_id, stake, odds, potential_return, status)
		VALUES ('w1', 1, 1000, 1.91, 1910, 'pending')
	`)
	if err != nil {
		t.Fatalf("seed wager: %v", err)
	}
}

func TestEntries_Insert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		entries []entries.Entry
		wantErr error
	}{
		{
			name: "ok_insert",
			entries: []entries.Entry{
				{WagerID: "w1", UserID: 1, Kind: entries.KindStake, AmountCents: -1_000},
			},
		},
		{
			name: "stake_and_payout_coexist",
			entries: []entries.Entry{
				{WagerID: "w1", UserID: 1, Kind: entries.KindStake, AmountCents: -1_000},
				{WagerID: "w1", UserID: 1, Kind: entries.KindPayout, AmountCents: 1_910},
			},
		},
		{
			name: "duplicate_kind_for_wager",
			entries: []entries.Entry{
				{WagerID: "w1", UserID: 1, Kind: entries.KindPayout, AmountCents: 1_910},
				{WagerID: "w1", UserID: 1, Kind: entries.KindPayout, AmountCents: 1_910},
			},
			wantErr: entries.ErrDuplicateEntry,
		},
		{
			name: "wager_not_exist_fk_violation",
			entries: []entries.Entry{
				{WagerID: "ghost", UserID: 1, Kind: entries.KindStake, AmountCents: -500},
			},
			wantErr: &pgconn.PgError{},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db, cleanup := pgtestutil.NewTestDB(t)
			defer cleanup()

			seed(t, db)

			repo := New(db)

			tx, err := db.Begin()
			if err != nil {
				t.Fatalf("begin tx: %v", err)
			}
			defer tx.Rollback()

			var lastErr error
			for _, e := range tt.entries {
				lastErr = repo.Insert(tx, e)
				if lastErr != nil {
					break
				}
			}

			if tt.wantErr == nil {
				if lastErr != nil {
					t.Fatalf("unexpected error: %v", lastErr)
				}
				return
			}

			var pgErr *pgconn.PgError
			if errors.As(tt.wantErr, &pgErr) {
				if !errors.As(lastErr, &pgErr) {
					t.Fatalf("expected pg error, got %v", lastErr)
				}
				return
			}

			if !errors.Is(lastErr, tt.wantErr) {
				t.Fatalf("unexpected error: got %v, want %v", lastErr, tt.wantErr)
			}
		})
	}
}
