package cards

import (
	"errors"

	"github.com/Ashenafi-pixel/spin-to-win/prize"
)

// CardCount is the size of the 3x3 grid.
const CardCount = 9

// Front-end pacing, in milliseconds.
const (
	RevealDelayMs = 700
	AwardDelayMs  = 3000
)

var ErrInvalidPick = errors.New("card index out of range")

// Layout is the shuffled grid. Every card hides the same pre-drawn prize; the
// pick only chooses which card flips.
type Layout struct {
	Cards         []int `json:"cards"`
	RevealDelayMs int   `json:"revealDelayMs"`
	AwardDelayMs  int   `json:"awardDelayMs"`
}

// Deal shuffles card ids 0..CardCount-1 (Fisher-Yates, from the back).
func Deal(rng prize.RandomSource) Layout {
	if rng == nil {
		rng = prize.CryptoSource{}
	}
	idx := make([]int, CardCount)
	for i := range idx {
		idx[i] = i
	}
	for i := len(idx) - 1; i > 0; i-- {
		j := int(rng.Float64() * float64(i+1))
		if j > i {
			j = i
		}
		idx[i], idx[j] = idx[j], idx[i]
	}
	return Layout{Cards: idx, RevealDelayMs: RevealDelayMs, AwardDelayMs: AwardDelayMs}
}

// Pick validates the chosen card id.
func (l Layout) Pick(card int) error {
	for _, c := range l.Cards {
		if c == card {
			return nil
		}
	}
	return ErrInvalidPick
}
