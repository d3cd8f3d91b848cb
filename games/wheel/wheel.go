package wheel

import (
	"math"

	"github.com/Ashenafi-pixel/spin-to-win/prize"
)

// BaseSpins is the number of full turns before the wheel settles.
const BaseSpins = 5

// SpinDuration is how long the front end animates the spin, in milliseconds.
const SpinDuration = 4200

// Spin is the wheel outcome handed to the front end.
type Spin struct {
	WinningIndex    int      `json:"winningIndex"`
	Segments        int      `json:"segments"`
	DegreesPerPrize float64  `json:"degreesPerPrize"`
	TargetRotation  float64  `json:"targetRotation"`
	SpinDurationMs  int      `json:"spinDurationMs"`
	SegmentColors   []string `json:"segmentColors"`
}

// SegmentAngle returns the degrees each prize occupies; 0 for an empty wheel.
func SegmentAngle(n int) float64 {
	if n <= 0 {
		return 0
	}
	return 360 / float64(n)
}

// TargetRotation returns the clockwise rotation that leaves the pointer inside
// segment idx: BaseSpins full turns, back to the segment start, half a segment in,
// plus a jitter of up to ±40% of a segment so the wheel never stops dead centre.
func TargetRotation(n, idx int, rng prize.RandomSource) float64 {
	deg := SegmentAngle(n)
	if deg == 0 {
		return 0
	}
	offset := (rng.Float64() - 0.5) * deg * 0.8
	return BaseSpins*360 + (360 - float64(idx)*deg) - deg/2 + offset
}

// New spins the wheel so it lands on the prize at winningIndex.
func New(prizes []prize.Prize, winningIndex int, rng prize.RandomSource) Spin {
	if rng == nil {
		rng = prize.CryptoSource{}
	}
	colors := make([]string, len(prizes))
	for i, p := range prizes {
		colors[i] = p.Color
	}
	return Spin{
		WinningIndex:    winningIndex,
		Segments:        len(prizes),
		DegreesPerPrize: SegmentAngle(len(prizes)),
		TargetRotation:  TargetRotation(len(prizes), winningIndex, rng),
		SpinDurationMs:  SpinDuration,
		SegmentColors:   colors,
	}
}

// Landed returns the segment under the pointer after rotating an n-segment wheel
// by rotation degrees clockwise, or -1 for an empty wheel.
func Landed(n int, rotation float64) int {
	deg := SegmentAngle(n)
	if deg == 0 {
		return -1
	}
	a := math.Mod(-rotation, 360)
	if a < 0 {
		a += 360
	}
	return int(a/deg) % n
}
