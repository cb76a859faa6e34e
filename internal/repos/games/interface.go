package games

import (
	"context"
	"errors"
	"time"
)

var ErrGameNotFound = errors.New("game not found")

type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in_progress"
	StatusFinal      Status = "final"
	StatusPostponed  Status = "postponed"
)

// BoxScore maps player name to stat name to value.
type BoxScore map[string]map[string]float64

// GameEvent mirrors what the external scoreboard poller writes. The
// settlement side only reads these rows and stamps FinalizedAt when a scan
// consumes the game.
type GameEvent struct {
	ID          string
	Sport       string
	HomeTeam    string
	AwayTeam    string
	GameTime    time.Time
	Status      Status
	HomeScore   int
	AwayScore   int
	BoxScores   BoxScore
	FinalizedAt *time.Time
}

type Games interface {
	Get(ctx context.Context, gameID string) (*GameEvent, error)
	// PendingGames returns games still scheduled or in_progress,
	// optionally filtered by sport ("" means all).
	PendingGames(ctx context.Context, sport string) ([]GameEvent, error)
	// MarkFinal is idempotent: a game already final is left untouched.
	MarkFinal(ctx context.Context, gameID string, at time.Time) error
	Upsert(ctx context.Context, g *GameEvent) error
}
