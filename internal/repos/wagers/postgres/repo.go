package wagers

import (
	"database/sql"

	"propledger/internal/repos/wagers"
)

var _ wagers.Wagers = (*wagersRepo)(nil)

type wagersRepo struct{ db *sql.DB }

func New(db *sql.DB) *wagersRepo {
	return &wagersRepo{db: db}
}

const wagerColumns = `
	id, user_id, slip_id, prop_id, stake, odds, potential_return,
	status, opening_line, closing_line, clv, settled_at, created_at
`

// scanner matches both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanWager(s scanner) (*wagers.Wager, error) {
	var (
		w           wagers.Wager
		slipID      sql.NullString
		propID      sql.NullString
		closingLine sql.NullFloat64
		clv         sql.NullFloat64
		settledAt   sql.NullTime
	)

	err := s.Scan(
		&w.ID, &w.UserID, &slipID, &propID, &w.StakeCents, &w.Odds,
		&w.PotentialReturnCents, &w.Status, &w.OpeningLine,
		&closingLine, &clv, &settledAt, &w.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	w.SlipID = slipID.String
	w.PropID = propID.String
	if closingLine.Valid {
		w.ClosingLine = &closingLine.Float64
	}
	if clv.Valid {
		w.CLV = &clv.Float64
	}
	if settledAt.Valid {
		t := settledAt.Time
		w.SettledAt = &t
	}

	return &w, nil
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
