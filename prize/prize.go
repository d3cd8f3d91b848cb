package prize

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyCatalog    = errors.New("prize catalog is empty")
	ErrNonPositiveSum  = errors.New("prize catalog total weight must be positive")
	ErrMissingPrefix   = errors.New("prize code prefix is required")
	ErrDuplicatePrefix = errors.New("prize code prefix must be unique")
	ErrNegativeWeight  = errors.New("prize weight must not be negative")
)

// Prize is one catalog entry. Weight is relative; the catalog does not need to sum to 100.
type Prize struct {
	Name       string  `json:"name"`
	Emoji      string  `json:"emoji"`
	Color      string  `json:"color"`
	CodePrefix string  `json:"codePrefix"`
	Weight     float64 `json:"weight"`
}

// Catalog is the fixed prize list, in draw order.
type Catalog []Prize

// DefaultCatalog returns the Work&Co promotion prizes.
func DefaultCatalog() Catalog {
	return Catalog{
		{Name: "SND Package", Emoji: "🧩", Color: "#ffdd55", CodePrefix: "WCOSND-SNDP", Weight: 40},
		{Name: "Free Day Pass", Emoji: "🎟️", Color: "#ff7aa0", CodePrefix: "WCOSND-DAYP", Weight: 15},
		{Name: "4h Quiet Zone", Emoji: "🤫", Color: "#7abaff", CodePrefix: "WCOSND-QZ4", Weight: 15},
		{Name: "1h Free", Emoji: "⏱️", Color: "#8be68b", CodePrefix: "WCOSND-1H", Weight: 15},
		{Name: "Free Coffee", Emoji: "☕", Color: "#9b7bff", CodePrefix: "WCOSND-CFE", Weight: 15},
	}
}

// TotalWeight sums all weights.
func (c Catalog) TotalWeight() float64 {
	var total float64
	for _, p := range c {
		total += p.Weight
	}
	return total
}

// Validate checks the catalog invariants: non-empty, positive total weight,
// no negative weights, and a non-empty unique code prefix per prize.
func (c Catalog) Validate() error {
	if len(c) == 0 {
		return ErrEmptyCatalog
	}
	seen := make(map[string]struct{}, len(c))
	for i, p := range c {
		if p.Weight < 0 {
			return fmt.Errorf("prize %d (%s): %w", i, p.Name, ErrNegativeWeight)
		}
		prefix := strings.TrimSpace(p.CodePrefix)
		if prefix == "" {
			return fmt.Errorf("prize %d (%s): %w", i, p.Name, ErrMissingPrefix)
		}
		if _, ok := seen[prefix]; ok {
			return fmt.Errorf("prize %d (%s) prefix %q: %w", i, p.Name, prefix, ErrDuplicatePrefix)
		}
		seen[prefix] = struct{}{}
	}
	if c.TotalWeight() <= 0 {
		return ErrNonPositiveSum
	}
	return nil
}

// IndexOf returns the position of the prize with the given code prefix, or -1.
func (c Catalog) IndexOf(codePrefix string) int {
	for i, p := range c {
		if p.CodePrefix == codePrefix {
			return i
		}
	}
	return -1
}

// Share returns the configured draw probability of each prize, in catalog order.
func (c Catalog) Share() []float64 {
	out := make([]float64, len(c))
	total := c.TotalWeight()
	if total <= 0 {
		return out
	}
	for i, p := range c {
		out[i] = p.Weight / total
	}
	return out
}
