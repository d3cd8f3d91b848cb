package games

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/Ashenafi-pixel/spin-to-win/games/cards"
	"github.com/Ashenafi-pixel/spin-to-win/games/wheel"
	"github.com/Ashenafi-pixel/spin-to-win/prize"
)

const (
	VariantWheel = "wheel"
	VariantCards = "cards"
)

var (
	ErrUnknownVariant = errors.New("unknown game variant")
	ErrInvalidChoice  = errors.New("invalid choice for game variant")
)

// Round is what a variant prepares once the prize is drawn: exactly one of
// Wheel or Cards is set.
type Round struct {
	Variant string        `json:"variant"`
	Wheel   *wheel.Spin   `json:"wheel,omitempty"`
	Cards   *cards.Layout `json:"cards,omitempty"`
}

// Variant presents a pre-drawn prize. Prepare never draws; the prize index is
// fixed by the caller so every variant shares the same weighted selector.
type Variant interface {
	ID() string
	Prepare(prizes []prize.Prize, winningIndex int, rng prize.RandomSource) Round
	// Validate checks the player's action (card id for cards, ignored for the wheel).
	Validate(r Round, choice int) error
}

type Registry struct {
	mu       sync.RWMutex
	variants map[string]Variant
}

// NewRegistry returns a registry with the wheel and cards variants.
func NewRegistry() *Registry {
	r := &Registry{variants: make(map[string]Variant)}
	r.Register(wheelVariant{})
	r.Register(cardsVariant{})
	return r
}

func (r *Registry) Register(v Variant) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.variants[v.ID()] = v
}

func (r *Registry) Get(id string) (Variant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.variants[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, id)
	}
	return v, nil
}

func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.variants))
	for id := range r.variants {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

type wheelVariant struct{}

func (wheelVariant) ID() string { return VariantWheel }

func (wheelVariant) Prepare(prizes []prize.Prize, winningIndex int, rng prize.RandomSource) Round {
	spin := wheel.New(prizes, winningIndex, rng)
	return Round{Variant: VariantWheel, Wheel: &spin}
}

func (wheelVariant) Validate(r Round, _ int) error {
	if r.Wheel == nil {
		return ErrInvalidChoice
	}
	return nil
}

type cardsVariant struct{}

func (cardsVariant) ID() string { return VariantCards }

func (cardsVariant) Prepare(_ []prize.Prize, _ int, rng prize.RandomSource) Round {
	layout := cards.Deal(rng)
	return Round{Variant: VariantCards, Cards: &layout}
}

func (cardsVariant) Validate(r Round, choice int) error {
	if r.Cards == nil {
		return ErrInvalidChoice
	}
	if err := r.Cards.Pick(choice); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidChoice, err)
	}
	return nil
}
