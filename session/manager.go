package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/Ashenafi-pixel/spin-to-win/award"
	"github.com/Ashenafi-pixel/spin-to-win/games"
	"github.com/Ashenafi-pixel/spin-to-win/playgate"
	"github.com/Ashenafi-pixel/spin-to-win/prize"
	"github.com/Ashenafi-pixel/spin-to-win/ticket"
)

// Observer is told about draws, blocked logins and awards (metrics hook).
type Observer interface {
	Started(variant string)
	Blocked()
	Awarded(p prize.Prize, variant string)
}

type nopObserver struct{}

func (nopObserver) Started(string)              {}
func (nopObserver) Blocked()                    {}
func (nopObserver) Awarded(prize.Prize, string) {}

// Options configures a Manager. Store, Gate and Catalog are required.
type Options struct {
	Store          *Store
	Gate           *playgate.Gate
	Catalog        prize.Catalog
	Games          *games.Registry
	Ledger         *award.Ledger
	Random         prize.RandomSource
	Now            func() time.Time
	TicketTTL      time.Duration
	DefaultVariant string
	Observer       Observer
}

// Manager applies view transitions. All transitions run under one mutex; the
// game is single-player per session and volume is low.
type Manager struct {
	mu             sync.Mutex
	store          *Store
	gate           *playgate.Gate
	catalog        prize.Catalog
	games          *games.Registry
	ledger         *award.Ledger
	rng            prize.RandomSource
	now            func() time.Time
	ttl            time.Duration
	defaultVariant string
	observer       Observer
}

func NewManager(opts Options) *Manager {
	m := &Manager{
		store:          opts.Store,
		gate:           opts.Gate,
		catalog:        opts.Catalog,
		games:          opts.Games,
		ledger:         opts.Ledger,
		rng:            opts.Random,
		now:            opts.Now,
		ttl:            opts.TicketTTL,
		defaultVariant: opts.DefaultVariant,
		observer:       opts.Observer,
	}
	if m.games == nil {
		m.games = games.NewRegistry()
	}
	if m.rng == nil {
		m.rng = prize.CryptoSource{}
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.ttl <= 0 {
		m.ttl = ticket.DefaultTTL
	}
	if m.defaultVariant == "" {
		m.defaultVariant = games.VariantCards
	}
	if m.observer == nil {
		m.observer = nopObserver{}
	}
	return m
}

func (m *Manager) Catalog() prize.Catalog { return m.catalog }

func (m *Manager) Games() *games.Registry { return m.games }

// Create opens a session in the login view.
func (m *Manager) Create() (*Session, error) {
	sess := newSession(uuid.New().String(), m.now())
	if err := m.store.Put(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (m *Manager) Get(id string) (*Session, error) {
	sess, ok := m.store.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return sess, nil
}

// Begin is Create followed by Start.
func (m *Manager) Begin(ctx context.Context, name, email, variant string) (*Session, error) {
	if !CanStart(name, email) {
		return nil, ErrInvalidInput
	}
	sess, err := m.Create()
	if err != nil {
		return nil, err
	}
	return m.Start(ctx, sess.ID, name, email, variant)
}

// Start submits the login form. A player who already played today lands in
// already_played; otherwise the prize is drawn now, once, and the view becomes game.
func (m *Manager) Start(ctx context.Context, id, name, email, variant string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.store.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	if sess.View != ViewLogin {
		return nil, fmt.Errorf("%w: start from %s", ErrInvalidTransition, sess.View)
	}
	if !CanStart(name, email) {
		return nil, ErrInvalidInput
	}
	variant = normalizeVariant(variant)
	if variant == "" {
		variant = m.defaultVariant
	}
	v, err := m.games.Get(variant)
	if err != nil {
		return nil, err
	}

	played, err := m.gate.HasPlayedToday(ctx, email)
	if err != nil {
		return nil, err
	}
	now := m.now()
	sess.Name = name
	sess.Email = email
	sess.Variant = v.ID()
	sess.UpdatedAt = now
	if played {
		sess.View = ViewAlreadyPlayed
		m.observer.Blocked()
		log.WithFields(log.Fields{"session": sess.ID, "email": email}).Info("Player already played today")
		return sess, m.store.Put(sess)
	}

	idx := prize.SelectIndex(m.catalog, m.rng)
	if idx < 0 {
		return nil, prize.ErrEmptyCatalog
	}
	p := m.catalog[idx]
	round := v.Prepare(m.catalog, idx, m.rng)
	sess.PrizeIndex = idx
	sess.Prize = &p
	sess.Round = &round
	sess.View = ViewGame
	m.observer.Started(sess.Variant)
	log.WithFields(log.Fields{
		"session": sess.ID,
		"variant": sess.Variant,
		"prize":   p.CodePrefix,
	}).Debug("Prize drawn")
	return sess, m.store.Put(sess)
}

// Play finishes the game: records today's play, issues the ticket and moves to
// the ticket view. Repeating Play from the ticket view returns the same ticket.
func (m *Manager) Play(ctx context.Context, id string, choice int) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.store.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	switch sess.View {
	case ViewTicket:
		return sess, nil
	case ViewGame:
	default:
		return nil, fmt.Errorf("%w: play from %s", ErrInvalidTransition, sess.View)
	}
	v, err := m.games.Get(sess.Variant)
	if err != nil {
		return nil, err
	}
	if err := v.Validate(*sess.Round, choice); err != nil {
		return nil, err
	}

	now := m.now()
	// Another session for the same email may have been awarded since Start.
	played, err := m.gate.HasPlayedToday(ctx, sess.Email)
	if err != nil {
		return nil, err
	}
	if played {
		sess.View = ViewAlreadyPlayed
		sess.UpdatedAt = now
		m.observer.Blocked()
		log.WithFields(log.Fields{"session": sess.ID, "email": sess.Email}).Info("Player already awarded today in another session")
		return sess, m.store.Put(sess)
	}
	tk := ticket.New(*sess.Prize, sess.Name, sess.Email, now, m.ttl)
	// Gate only on award so an abandoned game can be retried.
	if err := m.gate.RecordPlayedToday(ctx, sess.Email); err != nil {
		return nil, err
	}
	sess.Ticket = tk
	sess.View = ViewTicket
	sess.UpdatedAt = now
	m.observer.Awarded(*sess.Prize, sess.Variant)
	m.appendLedger(sess)
	log.WithFields(log.Fields{
		"session": sess.ID,
		"code":    tk.Code,
		"prize":   sess.Prize.Name,
		"expires": tk.ExpiresAt.Format(time.RFC3339),
	}).Info("Ticket issued")
	return sess, m.store.Put(sess)
}

func (m *Manager) appendLedger(sess *Session) {
	if m.ledger == nil {
		return
	}
	err := m.ledger.Append(&award.Record{
		SessionID:  sess.ID,
		Code:       sess.Ticket.Code,
		CodePrefix: sess.Prize.CodePrefix,
		PrizeName:  sess.Prize.Name,
		Name:       sess.Name,
		Email:      sess.Email,
		Variant:    sess.Variant,
		AwardedAt:  sess.Ticket.AwardedAt,
		ExpiresAt:  sess.Ticket.ExpiresAt,
	})
	if err != nil {
		log.WithError(err).WithField("session", sess.ID).Warn("Failed to append award ledger")
	}
}

// LookupTicket returns the ledger record for a redemption code.
func (m *Manager) LookupTicket(code string) (*award.Record, error) {
	if m.ledger == nil {
		return nil, ErrTicketNotFound
	}
	rec, err := m.ledger.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrTicketNotFound
	}
	return rec, nil
}

// PlayAgain leaves the ticket view for the already-played notice.
func (m *Manager) PlayAgain(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.store.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	if sess.View != ViewTicket {
		return nil, fmt.Errorf("%w: play again from %s", ErrInvalidTransition, sess.View)
	}
	sess.View = ViewAlreadyPlayed
	sess.UpdatedAt = m.now()
	return sess, m.store.Put(sess)
}

// Reset goes back to login from any view.
func (m *Manager) Reset(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.store.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	sess.reset(m.now())
	return sess, m.store.Put(sess)
}

// Prune drops sessions idle for longer than maxAge.
func (m *Manager) Prune(maxAge time.Duration) (int, error) {
	return m.store.Prune(m.now().Add(-maxAge))
}

// normalizeVariant trims and lowercases a client-supplied variant id.
func normalizeVariant(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}
