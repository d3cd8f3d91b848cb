package prize

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixed(v float64) RandomSource {
	return RandomFunc(func() float64 { return v })
}

func TestSelect_EmptyCatalog(t *testing.T) {
	_, ok := Select(nil, fixed(0.5))
	assert.False(t, ok)
	_, ok = Select([]Prize{}, fixed(0.5))
	assert.False(t, ok)
	assert.Equal(t, -1, SelectIndex(nil, fixed(0.5)))
}

func TestSelect_ZeroRandomPicksFirst(t *testing.T) {
	c := DefaultCatalog()
	for i := 0; i < 10; i++ {
		p, ok := Select(c, fixed(0))
		require.True(t, ok)
		assert.Equal(t, "WCOSND-SNDP", p.CodePrefix)
	}
}

func TestSelect_JustPastFirstWeightPicksSecond(t *testing.T) {
	c := DefaultCatalog() // weights 40,15,15,15,15 -> total 100
	p, ok := Select(c, fixed(0.41))
	require.True(t, ok)
	assert.Equal(t, "WCOSND-DAYP", p.CodePrefix)

	// exactly at the boundary the remainder is 0, which still belongs to the first prize
	p, _ = Select(c, fixed(0.40))
	assert.Equal(t, "WCOSND-SNDP", p.CodePrefix)
}

func TestSelect_LastSegment(t *testing.T) {
	c := DefaultCatalog()
	p, _ := Select(c, fixed(0.999999))
	assert.Equal(t, "WCOSND-CFE", p.CodePrefix)
}

func TestSelect_ZeroTotalFallsBackToFirst(t *testing.T) {
	c := []Prize{
		{Name: "A", CodePrefix: "A", Weight: 0},
		{Name: "B", CodePrefix: "B", Weight: 0},
	}
	p, ok := Select(c, fixed(0.9))
	require.True(t, ok)
	assert.Equal(t, "A", p.CodePrefix)
}

func TestSelect_ExhaustedScanFallsBackToFirst(t *testing.T) {
	// a source outside [0,1) leaves a positive remainder after the scan
	c := []Prize{
		{Name: "A", CodePrefix: "A", Weight: 1},
		{Name: "B", CodePrefix: "B", Weight: 1},
	}
	p, ok := Select(c, fixed(5))
	require.True(t, ok)
	assert.Equal(t, "A", p.CodePrefix)
}

func TestSelect_AlwaysReturnsMember(t *testing.T) {
	c := DefaultCatalog()
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		p, ok := Select(c, rng)
		require.True(t, ok)
		assert.GreaterOrEqual(t, c.IndexOf(p.CodePrefix), 0)
	}
}

func TestSelect_Distribution(t *testing.T) {
	c := DefaultCatalog()
	const rounds = 100_000
	count := map[string]int{}
	var src CryptoSource
	for i := 0; i < rounds; i++ {
		p, ok := Select(c, src)
		require.True(t, ok)
		count[p.CodePrefix]++
	}
	tol := 0.02
	for i, share := range c.Share() {
		got := float64(count[c[i].CodePrefix]) / rounds
		assert.InDelta(t, share, got, tol, "prize %s", c[i].Name)
	}
}

func TestSelect_DistributionSkewed(t *testing.T) {
	c := []Prize{
		{Name: "common", CodePrefix: "C", Weight: 70},
		{Name: "rare", CodePrefix: "R", Weight: 20},
		{Name: "epic", CodePrefix: "E", Weight: 10},
	}
	rng := rand.New(rand.NewSource(42))
	const rounds = 100_000
	count := map[string]int{}
	for i := 0; i < rounds; i++ {
		p, _ := Select(c, rng)
		count[p.CodePrefix]++
	}
	assert.InDelta(t, 0.70, float64(count["C"])/rounds, 0.02)
	assert.InDelta(t, 0.20, float64(count["R"])/rounds, 0.02)
	assert.InDelta(t, 0.10, float64(count["E"])/rounds, 0.02)
}

func TestCryptoSource_Range(t *testing.T) {
	var src CryptoSource
	for i := 0; i < 10_000; i++ {
		v := src.Float64()
		if v < 0 || v >= 1 {
			t.Fatalf("value %v out of [0,1)", v)
		}
	}
}
