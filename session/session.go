// Package session runs one player's pass through the game as an explicit state machine:
//
//	login --Start--> game --Play--> ticket --PlayAgain--> already_played
//	login --Start (played today)--> already_played
//	any   --Reset--> login
package session

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/Ashenafi-pixel/spin-to-win/games"
	"github.com/Ashenafi-pixel/spin-to-win/prize"
	"github.com/Ashenafi-pixel/spin-to-win/ticket"
)

type View string

const (
	ViewLogin         View = "login"
	ViewGame          View = "game"
	ViewTicket        View = "ticket"
	ViewAlreadyPlayed View = "already_played"
)

var (
	ErrNotFound          = errors.New("session not found")
	ErrInvalidInput      = errors.New("name and a valid email are required")
	ErrInvalidTransition = errors.New("action not allowed in current view")
	ErrTicketNotFound    = errors.New("ticket not found")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail applies the login form check: something@something.tld, no whitespace.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// CanStart reports whether the login form may be submitted.
func CanStart(name, email string) bool {
	return strings.TrimSpace(name) != "" && ValidEmail(email)
}

// Session is one player's game state. PrizeIndex is -1 until the draw, and the
// draw never changes afterwards until Reset.
type Session struct {
	ID         string         `json:"id"`
	View       View           `json:"view"`
	Name       string         `json:"name,omitempty"`
	Email      string         `json:"email,omitempty"`
	Variant    string         `json:"variant,omitempty"`
	PrizeIndex int            `json:"prizeIndex"`
	Prize      *prize.Prize   `json:"prize,omitempty"`
	Round      *games.Round   `json:"round,omitempty"`
	Ticket     *ticket.Ticket `json:"ticket,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

func newSession(id string, now time.Time) *Session {
	return &Session{
		ID:         id,
		View:       ViewLogin,
		PrizeIndex: -1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// clone copies s deep enough that callers cannot mutate stored state.
func (s *Session) clone() *Session {
	c := *s
	if s.Prize != nil {
		p := *s.Prize
		c.Prize = &p
	}
	if s.Round != nil {
		r := *s.Round
		c.Round = &r
	}
	if s.Ticket != nil {
		t := *s.Ticket
		c.Ticket = &t
	}
	return &c
}

// reset returns to login and forgets identity and draw.
func (s *Session) reset(now time.Time) {
	s.View = ViewLogin
	s.Name = ""
	s.Email = ""
	s.Variant = ""
	s.PrizeIndex = -1
	s.Prize = nil
	s.Round = nil
	s.Ticket = nil
	s.UpdatedAt = now
}
