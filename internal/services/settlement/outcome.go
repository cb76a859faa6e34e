package settlement

import (
	"errors"
	"math"
	"strings"

	"propledger/internal/repos/games"
	"propledger/internal/repos/props"
	"propledger/internal/repos/wagers"
)

// ErrNoStatData means the box score has no value for the prop's player and
// stat. It is not an outcome: the caller leaves the wager pending and a
// later scan retries once the score feed catches up.
var ErrNoStatData = errors.New("no stat data for player")

// Epsilon absorbs decimal rounding when comparing a stat to the line. A
// stat within it is a push.
const Epsilon = 0.01

// Resolution is the outcome of a wager against the actual stat.
type Resolution struct {
	Outcome     wagers.Status
	ClosingLine float64
	CLV         float64
}

// Resolve classifies a wager on p given the stat value actually achieved.
// Pure: no I/O, no clock.
func Resolve(p props.Prop, actual float64) Resolution {
	res := Resolution{
		ClosingLine: p.CurrentLine,
		CLV:         closingLineValue(p),
	}

	switch {
	case math.Abs(actual-p.Line) < Epsilon:
		res.Outcome = wagers.StatusPushed
	case p.Direction == props.Over && actual > p.Line:
		res.Outcome = wagers.StatusWon
	case p.Direction == props.Under && actual < p.Line:
		res.Outcome = wagers.StatusWon
	default:
		res.Outcome = wagers.StatusLost
	}

	return res
}

// closingLineValue scores how the line moved after the bet. For an over,
// the bettor got a better number when the line dropped; for an under, when
// it rose. The raw movement is doubled, two points of value per point of
// movement.
func closingLineValue(p props.Prop) float64 {
	movement := p.CurrentLine - p.Line
	if movement == 0 {
		return 0
	}

	if p.Direction == props.Over {
		return -movement * 2
	}

	return movement * 2
}

// StatValue looks up the player's stat in the game's box score. The player
// match tries the exact name first, then a case-insensitive pass, since
// prop feeds and score feeds disagree on capitalization.
func StatValue(g games.GameEvent, player, statType string) (float64, error) {
	stats, ok := g.BoxScores[player]
	if !ok {
		for name, s := range g.BoxScores {
			if strings.EqualFold(name, player) {
				stats = s
				ok = true
				break
			}
		}
	}
	if !ok {
		return 0, ErrNoStatData
	}

	v, ok := stats[statType]
	if !ok {
		return 0, ErrNoStatData
	}

	return v, nil
}
