package games

import (
	"context"
	"errors"
	"testing"
	"time"

	"propledger/internal/infra/pgtestutil"
	"propledger/internal/repos/games"
)

func sampleGame(id string, status games.Status, gameTime time.Time) *games.GameEvent {
	return &games.GameEvent{
		ID:       id,
		Sport:    "nba",
		HomeTeam: "LAL",
		AwayTeam: "BOS",
		GameTime: gameTime,
		Status:   status,
		BoxScores: games.BoxScore{
			"LeBron James": {"points": 31, "rebounds": 7},
		},
	}
}

func TestGames_UpsertAndGet(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	repo := New(db)
	ctx := context.Background()

	gameTime := time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC)

	err := repo.Upsert(ctx, sampleGame("g1", games.StatusScheduled, gameTime))
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := repo.Get(ctx, "g1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != games.StatusScheduled || !got.GameTime.Equal(gameTime) {
		t.Fatalf("round trip: %+v", got)
	}
	if got.BoxScores["LeBron James"]["points"] != 31 {
		t.Fatalf("box scores lost: %+v", got.BoxScores)
	}

	// Second upsert is an update of the mutable feed fields.
	updated := sampleGame("g1", games.StatusInProgress, gameTime)
	updated.HomeScore = 60
	if err := repo.Upsert(ctx, updated); err != nil {
		t.Fatalf("upsert update: %v", err)
	}

	got, err = repo.Get(ctx, "g1")
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if got.Status != games.StatusInProgress || got.HomeScore != 60 {
		t.Fatalf("update not applied: %+v", got)
	}

	_, err = repo.Get(ctx, "missing")
	if !errors.Is(err, games.ErrGameNotFound) {
		t.Fatalf("want ErrGameNotFound, got %v", err)
	}
}

func TestGames_PendingGamesFilter(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	repo := New(db)
	ctx := context.Background()

	gameTime := time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC)

	seed := []*games.GameEvent{
		sampleGame("scheduled", games.StatusScheduled, gameTime),
		sampleGame("running", games.StatusInProgress, gameTime.Add(time.Hour)),
		sampleGame("done", games.StatusFinal, gameTime),
		sampleGame("off", games.StatusPostponed, gameTime),
	}
	for _, g := range seed {
		if err := repo.Upsert(ctx, g); err != nil {
			t.Fatalf("upsert %s: %v", g.ID, err)
		}
	}

	nhl := sampleGame("nhl-game", games.StatusScheduled, gameTime)
	nhl.Sport = "nhl"
	if err := repo.Upsert(ctx, nhl); err != nil {
		t.Fatalf("upsert nhl: %v", err)
	}

	pending, err := repo.PendingGames(ctx, "")
	if err != nil {
		t.Fatalf("pending all: %v", err)
	}
	if len(pending) != 3 {
		t.Fatalf("want scheduled+running+nhl, got %d: %+v", len(pending), pending)
	}

	pending, err = repo.PendingGames(ctx, "nba")
	if err != nil {
		t.Fatalf("pending nba: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("sport filter: want 2, got %d", len(pending))
	}
	// Ordered by game time.
	if pending[0].ID != "scheduled" || pending[1].ID != "running" {
		t.Fatalf("ordering: %+v", pending)
	}
}

func TestGames_MarkFinal_Idempotent(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	repo := New(db)
	ctx := context.Background()

	gameTime := time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC)
	if err := repo.Upsert(ctx, sampleGame("g1", games.StatusInProgress, gameTime)); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	first := time.Date(2025, 3, 1, 22, 0, 0, 0, time.UTC)
	if err := repo.MarkFinal(ctx, "g1", first); err != nil {
		t.Fatalf("mark final: %v", err)
	}

	got, err := repo.Get(ctx, "g1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != games.StatusFinal {
		t.Fatalf("status: %s", got.Status)
	}
	if got.FinalizedAt == nil || !got.FinalizedAt.Equal(first) {
		t.Fatalf("finalized at: %v", got.FinalizedAt)
	}

	// A later repeat keeps the original timestamp and does not error.
	if err := repo.MarkFinal(ctx, "g1", first.Add(time.Hour)); err != nil {
		t.Fatalf("repeat mark final: %v", err)
	}

	got, _ = repo.Get(ctx, "g1")
	if !got.FinalizedAt.Equal(first) {
		t.Fatalf("finalized at overwritten: %v", got.FinalizedAt)
	}

	// Unknown game is a no-op as well.
	if err := repo.MarkFinal(ctx, "missing", first); err != nil {
		t.Fatalf("mark final on missing game: %v", err)
	}
}
