// Package countdown tracks the time left on a ticket.
package countdown

import (
	"fmt"
	"time"
)

// State is one countdown reading. Hours are not capped at 24.
type State struct {
	Hours       int64 `json:"hours"`
	Minutes     int64 `json:"minutes"`
	Seconds     int64 `json:"seconds"`
	RemainingMs int64 `json:"remainingMs"`
}

// Tick computes the remaining time until expiry as seen at now.
func Tick(expiry, now time.Time) State {
	ms := expiry.Sub(now).Milliseconds()
	if ms < 0 {
		ms = 0
	}
	return State{
		Hours:       ms / 3_600_000,
		Minutes:     ms / 60_000 % 60,
		Seconds:     ms / 1000 % 60,
		RemainingMs: ms,
	}
}

// Expired is the terminal state.
func (s State) Expired() bool {
	return s.RemainingMs <= 0
}

func (s State) String() string {
	if s.Expired() {
		return "Ticket Expired"
	}
	return fmt.Sprintf("⏳ Expires in %02dh %02dm %02ds", s.Hours, s.Minutes, s.Seconds)
}
