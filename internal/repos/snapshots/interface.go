package snapshots

import (
	"context"
	"time"
)

// Snapshot is an append-only rollup of a user's settled wagers. WinRate and
// ROI are percentages; AvgCLV averages over wagers that carry a CLV.
type Snapshot struct {
	ID            string
	UserID        uint64
	BankrollCents int64
	TotalWagers   int
	Wins          int
	Losses        int
	Pushes        int
	WinRate       float64
	ROI           float64
	AvgCLV        float64
	CreatedAt     time.Time
}

type Snapshots interface {
	Insert(ctx context.Context, s *Snapshot) error
	LatestByUser(ctx context.Context, userID uint64) (*Snapshot, error)
}
