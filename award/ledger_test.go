package award

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger_AppendGet(t *testing.T) {
	l := NewLedger(t.TempDir())
	at := time.Date(2024, 9, 23, 10, 0, 0, 0, time.UTC)

	got, err := l.GetByCode("nope")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, l.Append(&Record{Code: "A-1", CodePrefix: "A", AwardedAt: at}))
	require.NoError(t, l.Append(&Record{Code: "B-1", CodePrefix: "B", AwardedAt: at}))
	require.NoError(t, l.Append(&Record{Code: "A-2", CodePrefix: "A", AwardedAt: at}))

	got, err = l.GetByCode("B-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "B", got.CodePrefix)
	assert.True(t, got.AwardedAt.Equal(at))

	counts, err := l.Count()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"A": 2, "B": 1}, counts)
}

func TestLedger_Persistence(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, NewLedger(dir).Append(&Record{Code: "X-1", CodePrefix: "X"}))
	got, err := NewLedger(dir).GetByCode("X-1")
	require.NoError(t, err)
	require.NotNil(t, got)
}

func TestLedger_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "awards.json"), []byte("[{"), 0644))
	l := NewLedger(dir)
	_, err := l.GetByCode("X")
	assert.Error(t, err)
	// the unreadable file is moved aside, then a fresh list starts
	require.NoError(t, l.Append(&Record{Code: "Y"}))
	got, err := l.GetByCode("Y")
	require.NoError(t, err)
	assert.NotNil(t, got)

	aside, err := filepath.Glob(filepath.Join(dir, "awards.json.corrupt-*"))
	require.NoError(t, err)
	require.Len(t, aside, 1)
	kept, err := os.ReadFile(aside[0])
	require.NoError(t, err)
	assert.Equal(t, "[{", string(kept))
}
