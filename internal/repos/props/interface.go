package props

import (
	"context"
	"errors"
	"time"
)

var ErrPropNotFound = errors.New("prop not found")

type Direction string

const (
	Over  Direction = "over"
	Under Direction = "under"
)

// Prop is a wagerable proposition on a player statistic. Line is the number
// the prop opened at; CurrentLine tracks the market afterwards and feeds
// closing-line value. GameID is set when ingestion could tie the prop to a
// game event; older listings carry only team pair + game time.
type Prop struct {
	ID          string
	Sport       string
	Player      string
	Team        string
	Opponent    string
	StatType    string
	Line        float64
	Direction   Direction
	Platform    string
	CurrentLine float64
	GameID      string
	GameTime    time.Time
	Active      bool
}

type Props interface {
	Get(ctx context.Context, propID string) (*Prop, error)
	ActiveProps(ctx context.Context) ([]Prop, error)
	Insert(ctx context.Context, p *Prop) error
	UpdateCurrentLine(ctx context.Context, propID string, line float64) error
	Deactivate(ctx context.Context, propID string) error
}
