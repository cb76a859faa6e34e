// Package performance derives aggregate statistics from settled wagers and
// appends immutable snapshots. Downstream of the ledger; plain reads, no
// locking concerns.
package performance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"propledger/internal/repos/snapshots"
	"propledger/internal/repos/users"
	"propledger/internal/repos/wagers"
)

type (
	WagerReader interface {
		ByUser(ctx context.Context, userID uint64) ([]wagers.Wager, error)
	}

	UserReader interface {
		Get(ctx context.Context, userID uint64) (*users.User, error)
	}

	SnapshotWriter interface {
		Insert(ctx context.Context, s *snapshots.Snapshot) error
	}
)

type Service struct {
	wagers WagerReader
	users  UserReader
	sink   SnapshotWriter
	now    func() time.Time
	newID  func() string
}

func New(w WagerReader, u UserReader, sink SnapshotWriter) *Service {
	return &Service{
		wagers: w,
		users:  u,
		sink:   sink,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// CreateSnapshot rolls up the user's settled wagers and appends one
// snapshot record.
//
// ROI is (totalReturns − totalStaked) / totalStaked × 100 over settled
// wagers, where a won wager returns its potential return and a pushed one
// returns its stake. Pending wagers are excluded from both sides.
func (s *Service) CreateSnapshot(ctx context.Context, userID uint64) (*snapshots.Snapshot, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	all, err := s.wagers.ByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get wagers: %w", err)
	}

	snap := &snapshots.Snapshot{
		ID:            s.newID(),
		UserID:        userID,
		BankrollCents: user.BankrollCents,
		CreatedAt:     s.now(),
	}

	var (
		totalStaked  int64
		totalReturns int64
		clvSum       float64
		clvCount     int
	)

	for _, w := range all {
		if !w.Status.Terminal() {
			continue
		}

		snap.TotalWagers++
		totalStaked += w.StakeCents

		switch w.Status {
		case wagers.StatusWon:
			snap.Wins++
			totalReturns += w.PotentialReturnCents
		case wagers.StatusLost:
			snap.Losses++
		case wagers.StatusPushed:
			snap.Pushes++
			totalReturns += w.StakeCents
		}

		if w.CLV != nil {
			clvSum += *w.CLV
			clvCount++
		}
	}

	if snap.TotalWagers > 0 {
		snap.WinRate = float64(snap.Wins) / float64(snap.TotalWagers) * 100
	}
	if totalStaked > 0 {
		snap.ROI = float64(totalReturns-totalStaked) / float64(totalStaked) * 100
	}
	if clvCount > 0 {
		snap.AvgCLV = clvSum / float64(clvCount)
	}

	err = s.sink.Insert(ctx, snap)
	if err != nil {
		return nil, fmt.Errorf("insert snapshot: %w", err)
	}

	return snap, nil
}
