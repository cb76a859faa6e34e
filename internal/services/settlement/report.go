package settlement

import "propledger/internal/repos/wagers"

// Report aggregates one settlement scan. Per-game failures land in Errors
// and never abort the batch, so a manual trigger always gets the full
// picture including partial failures.
type Report struct {
	GamesProcessed      int           `json:"gamesProcessed"`
	WagersSettled       int           `json:"wagersSettled"`
	Wins                int           `json:"wins"`
	Losses              int           `json:"losses"`
	Pushes              int           `json:"pushes"`
	Unresolved          int           `json:"unresolved"`
	BankrollChangeCents int64         `json:"bankrollChangeCents"`
	Results             []WagerResult `json:"results"`
	Errors              []string      `json:"errors"`
}

// WagerResult records one settled wager inside a report.
type WagerResult struct {
	WagerID             string        `json:"wagerId"`
	UserID              uint64        `json:"userId"`
	PropID              string        `json:"propId"`
	Player              string        `json:"player"`
	StatType            string        `json:"statType"`
	Outcome             wagers.Status `json:"outcome"`
	ActualValue         float64       `json:"actualValue"`
	Line                float64       `json:"line"`
	CLV                 float64       `json:"clv"`
	BankrollChangeCents int64         `json:"bankrollChangeCents"`
}

func (r *Report) record(res WagerResult) {
	r.WagersSettled++
	r.BankrollChangeCents += res.BankrollChangeCents
	r.Results = append(r.Results, res)

	switch res.Outcome {
	case wagers.StatusWon:
		r.Wins++
	case wagers.StatusLost:
		r.Losses++
	case wagers.StatusPushed:
		r.Pushes++
	}
}
