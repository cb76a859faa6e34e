package props

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"propledger/internal/repos/props"
)

var _ props.Props = (*propsRepo)(nil)

type propsRepo struct{ db *sql.DB }

func New(db *sql.DB) *propsRepo {
	return &propsRepo{db: db}
}

const propColumns = `
	id, sport, player, team, opponent, stat_type, line, direction,
	platform, current_line, game_id, game_time, active
`

type scanner interface {
	Scan(dest ...any) error
}

func scanProp(s scanner) (*props.Prop, error) {
	var (
		p      props.Prop
		gameID sql.NullString
	)

	err := s.Scan(
		&p.ID, &p.Sport, &p.Player, &p.Team, &p.Opponent, &p.StatType,
		&p.Line, &p.Direction, &p.Platform, &p.CurrentLine, &gameID,
		&p.GameTime, &p.Active,
	)
	if err != nil {
		return nil, err
	}

	p.GameID = gameID.String

	return &p, nil
}

func (r *propsRepo) Get(ctx context.Context, propID string) (*props.Prop, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+propColumns+`
		FROM props
		WHERE id = $1
	`, propID)

	p, err := scanProp(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, props.ErrPropNotFound
		}

		return nil, fmt.Errorf("get prop: %w", err)
	}

	return p, nil
}

func (r *propsRepo) ActiveProps(ctx context.Context) ([]props.Prop, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+propColumns+`
		FROM props
		WHERE active
		ORDER BY game_time, player
	`)
	if err != nil {
		return nil, fmt.Errorf("query active props: %w", err)
	}
	defer rows.Close()

	var out []props.Prop
	for rows.Next() {
		p, err := scanProp(rows)
		if err != nil {
			return nil, fmt.Errorf("scan prop: %w", err)
		}
		out = append(out, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate props: %w", err)
	}

	return out, nil
}

func (r *propsRepo) Insert(ctx context.Context, p *props.Prop) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO props (
			id, sport, player, team, opponent, stat_type, line,
			direction, platform, current_line, game_id, game_time, active
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`,
		p.ID, p.Sport, p.Player, p.Team, p.Opponent, p.StatType, p.Line,
		p.Direction, p.Platform, p.CurrentLine,
		sql.NullString{String: p.GameID, Valid: p.GameID != ""},
		p.GameTime, p.Active,
	)
	if err != nil {
		return fmt.Errorf("insert prop: %w", err)
	}

	return nil
}

func (r *propsRepo) UpdateCurrentLine(ctx context.Context, propID string, line float64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE props
		SET current_line = $2
		WHERE id = $1
	`, propID, line)
	if err != nil {
		return fmt.Errorf("update current line: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return props.ErrPropNotFound
	}

	return nil
}

func (r *propsRepo) Deactivate(ctx context.Context, propID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE props
		SET active = FALSE
		WHERE id = $1
	`, propID)
	if err != nil {
		return fmt.Errorf("deactivate prop: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return props.ErrPropNotFound
	}

	return nil
}
