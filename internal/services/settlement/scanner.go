package settlement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"propledger/internal/metrics"
	"propledger/internal/repos/games"
	"propledger/internal/repos/props"
	"propledger/internal/repos/wagers"
	"propledger/internal/services/ledger"
	"propledger/pkg/contracts/events"
)

// Collaborator surfaces the scanner drives. Satisfied by the Postgres repos
// in production and by the memory ledger plus stubs in tests.
type (
	GameStore interface {
		PendingGames(ctx context.Context, sport string) ([]games.GameEvent, error)
		MarkFinal(ctx context.Context, gameID string, at time.Time) error
	}

	PropStore interface {
		ActiveProps(ctx context.Context) ([]props.Prop, error)
	}

	WagerStore interface {
		PendingByProp(ctx context.Context, propID string) ([]wagers.Wager, error)
	}

	Settler interface {
		Settle(ctx context.Context, req ledger.SettleRequest) (ledger.SettleResult, error)
	}

	Publisher interface {
		PublishWagerSettled(ctx context.Context, e events.WagerSettled) error
	}
)

// Scanner walks games old enough to be over, resolves every pending wager
// tied to their props, and drives the ledger. Safe to run concurrently with
// itself (timer vs. admin trigger): Settle is idempotent per wager, so the
// loser of a race just logs and moves on.
type Scanner struct {
	games   GameStore
	props   PropStore
	wagers  WagerStore
	ledger  Settler
	pub     Publisher // optional
	metrics *metrics.Recorder
	log     *slog.Logger

	finalAfter time.Duration
	now        func() time.Time
}

func NewScanner(
	g GameStore,
	p PropStore,
	w WagerStore,
	l Settler,
	pub Publisher,
	rec *metrics.Recorder,
	log *slog.Logger,
	finalAfter time.Duration,
) *Scanner {
	if log == nil {
		log = slog.Default()
	}

	return &Scanner{
		games:      g,
		props:      p,
		wagers:     w,
		ledger:     l,
		pub:        pub,
		metrics:    rec,
		log:        log,
		finalAfter: finalAfter,
		now:        time.Now,
	}
}

// Run executes one scan. A failing game is recorded in the report and does
// not stop the batch; only a failure to list games or props aborts.
func (s *Scanner) Run(ctx context.Context, sport string) (*Report, error) {
	start := s.now()
	report := &Report{}

	pending, err := s.games.PendingGames(ctx, sport)
	if err != nil {
		return nil, fmt.Errorf("fetch pending games: %w", err)
	}

	active, err := s.props.ActiveProps(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch active props: %w", err)
	}

	for _, game := range pending {
		if !s.presumedFinal(game) {
			continue
		}

		err := s.processGame(ctx, game, active, report)
		if err != nil {
			// One bad game must not abort the batch.
			s.log.Error("settlement failed for game",
				"game_id", game.ID, "error", err)
			report.Errors = append(report.Errors,
				fmt.Sprintf("game %s: %v", game.ID, err))
			continue
		}

		report.GamesProcessed++
	}

	s.metrics.ScanCompleted(s.now().Sub(start), len(report.Errors))
	s.log.Info("settlement scan finished",
		"games", report.GamesProcessed,
		"settled", report.WagersSettled,
		"unresolved", report.Unresolved,
		"errors", len(report.Errors),
	)

	return report, nil
}

// presumedFinal applies the staleness tolerance: trust a final status when
// present, otherwise assume a game that started finalAfter ago is over even
// if the upstream feed has not caught up.
func (s *Scanner) presumedFinal(g games.GameEvent) bool {
	if g.Status == games.StatusFinal {
		return true
	}
	if g.Status == games.StatusPostponed {
		return false
	}

	return s.now().Sub(g.GameTime) >= s.finalAfter
}

func (s *Scanner) processGame(ctx context.Context, game games.GameEvent, active []props.Prop, report *Report) error {
	err := s.games.MarkFinal(ctx, game.ID, s.now())
	if err != nil {
		return fmt.Errorf("mark final: %w", err)
	}

	for _, prop := range active {
		if !propMatchesGame(prop, game) {
			continue
		}

		err := s.settleProp(ctx, prop, game, report)
		if err != nil {
			return err
		}
	}

	return nil
}

func (s *Scanner) settleProp(ctx context.Context, prop props.Prop, game games.GameEvent, report *Report) error {
	pendingWagers, err := s.wagers.PendingByProp(ctx, prop.ID)
	if err != nil {
		return fmt.Errorf("pending wagers for prop %s: %w", prop.ID, err)
	}

	for _, w := range pendingWagers {
		actual, err := StatValue(game, prop.Player, prop.StatType)
		if err != nil {
			if errors.Is(err, ErrNoStatData) {
				// Not an outcome: leave pending, a later scan retries.
				report.Unresolved++
				s.log.Warn("no stat data, wager left pending",
					"wager_id", w.ID, "player", prop.Player, "stat", prop.StatType)
				continue
			}

			return err
		}

		res := Resolve(prop, actual)

		settled, err := s.ledger.Settle(ctx, ledger.SettleRequest{
			WagerID:     w.ID,
			Outcome:     res.Outcome,
			ClosingLine: res.ClosingLine,
			CLV:         res.CLV,
		})
		if err != nil {
			// Both mean another path got there first or the reference is
			// stale. Never a reason to abort the rest of the batch.
			if errors.Is(err, wagers.ErrAlreadySettled) || errors.Is(err, wagers.ErrWagerNotFound) {
				s.log.Info("wager skipped during settlement",
					"wager_id", w.ID, "reason", err)
				continue
			}

			return fmt.Errorf("settle wager %s: %w", w.ID, err)
		}

		s.metrics.WagerSettled(string(res.Outcome))
		report.record(WagerResult{
			WagerID:             w.ID,
			UserID:              settled.UserID,
			PropID:              prop.ID,
			Player:              prop.Player,
			StatType:            prop.StatType,
			Outcome:             res.Outcome,
			ActualValue:         actual,
			Line:                prop.Line,
			CLV:                 res.CLV,
			BankrollChangeCents: settled.BankrollChangeCents,
		})

		s.publishSettled(ctx, w, settled, res)
	}

	return nil
}

func (s *Scanner) publishSettled(ctx context.Context, w wagers.Wager, settled ledger.SettleResult, res Resolution) {
	if s.pub == nil {
		return
	}

	err := s.pub.PublishWagerSettled(ctx, events.WagerSettled{
		WagerID:             w.ID,
		UserID:              settled.UserID,
		PropID:              w.PropID,
		Outcome:             string(res.Outcome),
		BankrollChangeCents: settled.BankrollChangeCents,
		ClosingLine:         res.ClosingLine,
		CLV:                 res.CLV,
	})
	if err != nil {
		// Event delivery is best-effort; settlement already committed.
		s.log.Warn("publish wager_settled failed", "wager_id", w.ID, "error", err)
	}
}

// propMatchesGame ties a prop to a game. The explicit game id wins when
// ingestion recorded one; otherwise fall back to the legacy join key of
// team pair plus exact game time. The fallback silently misses when the two
// stored times diverge by even a second, hence the id.
func propMatchesGame(p props.Prop, g games.GameEvent) bool {
	if p.GameID != "" {
		return p.GameID == g.ID
	}

	samePair := (p.Team == g.HomeTeam && p.Opponent == g.AwayTeam) ||
		(p.Team == g.AwayTeam && p.Opponent == g.HomeTeam)

	return samePair && p.GameTime.Equal(g.GameTime)
}
