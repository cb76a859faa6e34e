package events

// WagerSettled is emitted after a wager has been resolved and the bankroll
// credit (or no-op for losses) applied.
type WagerSettled struct {
	WagerID             string  `json:"wager_id"`
	UserID              uint64  `json:"user_id"`
	PropID              string  `json:"prop_id,omitempty"`
	Outcome             string  `json:"outcome"`
	BankrollChangeCents int64   `json:"bankroll_change_cents"`
	ClosingLine         float64 `json:"closing_line"`
	CLV                 float64 `json:"clv"`
	TsUnixMs            int64   `json:"ts_unix_ms"`
}
