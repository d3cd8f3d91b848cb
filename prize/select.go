package prize

import (
	"crypto/rand"
	"encoding/binary"
	"math"
)

// RandomSource yields uniform values in [0, 1).
type RandomSource interface {
	Float64() float64
}

// RandomFunc adapts a plain function (e.g. a fixed sequence in tests) to RandomSource.
type RandomFunc func() float64

func (f RandomFunc) Float64() float64 { return f() }

// CryptoSource draws from crypto/rand (CSPRNG).
type CryptoSource struct{}

// Float64 returns a uniform float64 in [0, 1) built from 53 random bits.
// On a read failure it returns 0, which selects the first prize.
func (CryptoSource) Float64() float64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0
	}
	return float64(binary.BigEndian.Uint64(b[:])>>11) / (1 << 53)
}

// Select draws one prize with probability proportional to its weight.
//
// r is drawn from [0, total) and each weight is subtracted in catalog order; the
// first prize at which the remainder drops to <= 0 wins. When the total weight is
// not positive, or the scan runs out (all-zero weights, float rounding), the first
// prize in the catalog is returned. ok is false only for an empty catalog.
func Select(prizes []Prize, rng RandomSource) (Prize, bool) {
	idx := SelectIndex(prizes, rng)
	if idx < 0 {
		return Prize{}, false
	}
	return prizes[idx], true
}

// SelectIndex is Select returning the catalog position instead; -1 for an empty catalog.
func SelectIndex(prizes []Prize, rng RandomSource) int {
	if len(prizes) == 0 {
		return -1
	}
	var total float64
	for _, p := range prizes {
		total += p.Weight
	}
	if total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return 0
	}
	if rng == nil {
		rng = CryptoSource{}
	}
	r := rng.Float64() * total
	for i, p := range prizes {
		r -= p.Weight
		if r <= 0 {
			return i
		}
	}
	return 0
}
