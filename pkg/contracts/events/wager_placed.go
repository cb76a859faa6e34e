package events

// WagerPlaced is emitted after a wager has been created and the stake
// debited from the user's bankroll.
type WagerPlaced struct {
	WagerID     string  `json:"wager_id"`
	UserID      uint64  `json:"user_id"`
	PropID      string  `json:"prop_id,omitempty"`
	SlipID      string  `json:"slip_id,omitempty"`
	StakeCents  int64   `json:"stake_cents"`
	Odds        float64 `json:"odds"`
	OpeningLine float64 `json:"opening_line"`
	TsUnixMs    int64   `json:"ts_unix_ms"`
}
