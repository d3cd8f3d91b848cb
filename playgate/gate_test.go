package playgate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t.Add(10 * time.Hour)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "spin:a@b.com:2024-09-23", Key("a@b.com", day("2024-09-23")))
}

func TestKey_UsesUTCDate(t *testing.T) {
	// 23:30 on the 22nd in UTC-5 is already the 23rd in UTC
	loc := time.FixedZone("UTC-5", -5*3600)
	local := time.Date(2024, 9, 22, 23, 30, 0, 0, loc)
	assert.Equal(t, "spin:a@b.com:2024-09-23", Key("a@b.com", local))
}

func TestKey_EmailVerbatim(t *testing.T) {
	now := day("2024-09-23")
	assert.NotEqual(t, Key("A@B.com", now), Key("a@b.com", now))
	assert.NotEqual(t, Key(" a@b.com", now), Key("a@b.com", now))
}

func TestHasPlayedToday_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	played, err := HasPlayedToday(ctx, store, "a@b.com", day("2024-09-23"))
	require.NoError(t, err)
	assert.False(t, played)

	require.NoError(t, RecordPlayedToday(ctx, store, "a@b.com", day("2024-09-23")))

	played, err = HasPlayedToday(ctx, store, "a@b.com", day("2024-09-23"))
	require.NoError(t, err)
	assert.True(t, played)

	played, err = HasPlayedToday(ctx, store, "a@b.com", day("2024-09-24"))
	require.NoError(t, err)
	assert.False(t, played, "next day must not be gated")

	played, _ = HasPlayedToday(ctx, store, "other@b.com", day("2024-09-23"))
	assert.False(t, played)

	v, _ := store.Get(ctx, "spin:a@b.com:2024-09-23")
	assert.Equal(t, PlayedValue, v)
}

func TestHasPlayedToday_EmptyValueIsAbsent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, Key("a@b.com", day("2024-09-23")), ""))
	played, err := HasPlayedToday(ctx, store, "a@b.com", day("2024-09-23"))
	require.NoError(t, err)
	assert.False(t, played)
}

func TestGate_Clock(t *testing.T) {
	ctx := context.Background()
	now := day("2024-09-23")
	g := New(NewMemoryStore(), func() time.Time { return now })

	played, err := g.HasPlayedToday(ctx, "a@b.com")
	require.NoError(t, err)
	assert.False(t, played)
	require.NoError(t, g.RecordPlayedToday(ctx, "a@b.com"))
	played, _ = g.HasPlayedToday(ctx, "a@b.com")
	assert.True(t, played)

	now = now.Add(24 * time.Hour)
	played, _ = g.HasPlayedToday(ctx, "a@b.com")
	assert.False(t, played)
	assert.Equal(t, 1, g.Store().(*MemoryStore).Len(), "stale keys are kept")
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) (string, error) { return "", errors.New("boom") }
func (failingStore) Set(context.Context, string, string) error { return errors.New("boom") }

func TestGate_StoreErrors(t *testing.T) {
	ctx := context.Background()
	_, err := HasPlayedToday(ctx, failingStore{}, "a@b.com", day("2024-09-23"))
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	err = RecordPlayedToday(ctx, failingStore{}, "a@b.com", day("2024-09-23"))
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}
