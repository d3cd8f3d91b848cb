// Package playgate limits a player to one play per email per UTC calendar day.
//
// A play is recorded under the key "spin:{email}:{YYYY-MM-DD}". Only the presence
// of a non-empty value matters. Keys are never cleaned up; once the date changes
// the old key simply stops matching.
package playgate

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	keyPrefix = "spin:"
	// PlayedValue is the sentinel written on record.
	PlayedValue = "true"
	dateLayout  = "2006-01-02"
)

var ErrStoreUnavailable = errors.New("play store unavailable")

// Store is the key-value capability the gate reads and writes.
// Get returns "" with a nil error when the key is absent.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// DateUTC returns the calendar date of t in UTC as YYYY-MM-DD.
func DateUTC(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// Key builds the gate key. The email is used verbatim: no case folding or trimming.
func Key(email string, now time.Time) string {
	return keyPrefix + email + ":" + DateUTC(now)
}

// HasPlayedToday reports whether a play was recorded for email on now's UTC date.
func HasPlayedToday(ctx context.Context, store Store, email string, now time.Time) (bool, error) {
	v, err := store.Get(ctx, Key(email, now))
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return v != "", nil
}

// RecordPlayedToday marks email as played on now's UTC date.
// Call it once per award, after the prize is final.
func RecordPlayedToday(ctx context.Context, store Store, email string, now time.Time) error {
	if err := store.Set(ctx, Key(email, now), PlayedValue); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Gate binds a Store to a clock.
type Gate struct {
	store Store
	now   func() time.Time
}

// New returns a Gate over store. A nil clock means time.Now.
func New(store Store, now func() time.Time) *Gate {
	if now == nil {
		now = time.Now
	}
	return &Gate{store: store, now: now}
}

func (g *Gate) HasPlayedToday(ctx context.Context, email string) (bool, error) {
	return HasPlayedToday(ctx, g.store, email, g.now())
}

func (g *Gate) RecordPlayedToday(ctx context.Context, email string) error {
	return RecordPlayedToday(ctx, g.store, email, g.now())
}

// Store exposes the underlying store.
func (g *Gate) Store() Store { return g.store }
