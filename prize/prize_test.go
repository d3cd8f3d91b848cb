package prize

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog_Valid(t *testing.T) {
	c := DefaultCatalog()
	require.NoError(t, c.Validate())
	assert.Len(t, c, 5)
	assert.Equal(t, 100.0, c.TotalWeight())
	assert.InDelta(t, 0.40, c.Share()[0], 1e-9)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		c    Catalog
		want error
	}{
		{"empty", Catalog{}, ErrEmptyCatalog},
		{"zero total", Catalog{{CodePrefix: "A"}, {CodePrefix: "B"}}, ErrNonPositiveSum},
		{"negative", Catalog{{CodePrefix: "A", Weight: -1}, {CodePrefix: "B", Weight: 3}}, ErrNegativeWeight},
		{"missing prefix", Catalog{{CodePrefix: " ", Weight: 1}}, ErrMissingPrefix},
		{"duplicate", Catalog{{CodePrefix: "A", Weight: 1}, {CodePrefix: "A", Weight: 1}}, ErrDuplicatePrefix},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.c.Validate(), tc.want)
		})
	}
}

func TestShare_ZeroTotal(t *testing.T) {
	assert.Equal(t, []float64{0, 0}, Catalog{{}, {}}.Share())
}

func TestLoad_EmptyPathUsesDefault(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultCatalog(), c)
}

func TestSaveLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "catalog.json")
	want := Catalog{
		{Name: "Mug", Emoji: "☕", Color: "#000", CodePrefix: "MUG", Weight: 3},
		{Name: "Pen", Emoji: "🖊", Color: "#fff", CodePrefix: "PEN", Weight: 1},
	}
	require.NoError(t, SaveFile(path, want))
	got, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadFile_RejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"prizes":[{"name":"x","codePrefix":"X","weight":0}]}`), 0644))
	_, err := LoadFile(path)
	assert.ErrorIs(t, err, ErrNonPositiveSum)

	require.NoError(t, os.WriteFile(path, []byte(`not json`), 0644))
	_, err = LoadFile(path)
	assert.Error(t, err)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
