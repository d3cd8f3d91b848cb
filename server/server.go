package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	spinwin "github.com/Ashenafi-pixel/spin-to-win"
	"github.com/Ashenafi-pixel/spin-to-win/award"
	"github.com/Ashenafi-pixel/spin-to-win/config"
	"github.com/Ashenafi-pixel/spin-to-win/games"
	"github.com/Ashenafi-pixel/spin-to-win/playgate"
	"github.com/Ashenafi-pixel/spin-to-win/prize"
	"github.com/Ashenafi-pixel/spin-to-win/session"
)

type Server struct {
	cfg      *config.Config
	sessions *session.Manager
	registry *prometheus.Registry
	now      func() time.Time
}

// New wires the catalog, play store, ledger and session manager from cfg.
func New(cfg *config.Config) (*Server, error) {
	catalog, err := prize.Load(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	store, err := openPlayStore(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s play store: %w", cfg.PlayStore, err)
	}
	reg := prometheus.NewRegistry()
	metrics := newMetrics(reg)
	mgr := session.NewManager(session.Options{
		Store:          session.NewStore(cfg.DataDir),
		Gate:           playgate.New(store, nil),
		Catalog:        catalog,
		Games:          games.NewRegistry(),
		Ledger:         award.NewLedger(cfg.DataDir),
		DefaultVariant: cfg.DefaultVariant,
		Observer:       metrics,
	})
	log.WithFields(log.Fields{
		"store":   cfg.PlayStore,
		"prizes":  len(catalog),
		"variant": cfg.DefaultVariant,
	}).Info("Spin server configured")
	return NewWithManager(cfg, mgr, reg), nil
}

// NewWithManager builds a Server around an existing manager. reg may be nil.
func NewWithManager(cfg *config.Config, mgr *session.Manager, reg *prometheus.Registry) *Server {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	return &Server{cfg: cfg, sessions: mgr, registry: reg, now: time.Now}
}

func openPlayStore(ctx context.Context, cfg *config.Config) (playgate.Store, error) {
	switch cfg.PlayStore {
	case config.StoreMemory:
		return playgate.NewMemoryStore(), nil
	case config.StorePostgres:
		db, err := spinwin.GetDB(cfg)
		if err != nil {
			return nil, err
		}
		if err := spinwin.Migrate(db); err != nil {
			return nil, err
		}
		return playgate.NewPostgresStore(db), nil
	case config.StoreRedis:
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return playgate.DialRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	default:
		return playgate.NewFileStore(cfg.DataDir)
	}
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.health)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /api/prizes", s.handlePrizes)
	mux.HandleFunc("GET /api/games", s.handleGames)
	mux.HandleFunc("POST /api/sessions", s.handleCreateSession)
	mux.HandleFunc("GET /api/sessions/{id}", s.handleGetSession)
	mux.HandleFunc("POST /api/sessions/{id}/start", s.handleStart)
	mux.HandleFunc("POST /api/sessions/{id}/play", s.handlePlay)
	mux.HandleFunc("POST /api/sessions/{id}/play-again", s.handlePlayAgain)
	mux.HandleFunc("POST /api/sessions/{id}/reset", s.handleReset)
	mux.HandleFunc("GET /api/sessions/{id}/countdown", s.handleCountdown)
	mux.HandleFunc("GET /api/sessions/{id}/countdown/stream", s.handleCountdownStream)
	mux.HandleFunc("GET /api/sessions/{id}/ticket/qr.png", s.handleTicketQR)
	mux.HandleFunc("GET /api/tickets/{code...}", s.handleLookupTicket)
	return cors(requestLogger(mux))
}

func (s *Server) Run() error {
	if s.cfg.SessionMaxAge > 0 {
		if n, err := s.sessions.Prune(s.cfg.SessionMaxAge); err != nil {
			log.WithError(err).Warn("Failed to prune stale sessions")
		} else if n > 0 {
			log.WithField("removed", n).Info("Pruned stale sessions")
		}
	}
	port := s.cfg.Port
	if port <= 0 {
		port = 8080
	}
	addr := ":" + strconv.Itoa(port)
	log.WithField("addr", addr).Info("Spin server listening")
	return http.ListenAndServe(addr, s.Handler())
}

func cors(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.ServeHTTP(w, r)
	})
}

// requestLogger logs method and path for each request (no body: it carries emails).
func requestLogger(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		h.ServeHTTP(w, r)
		log.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start).String(),
		}).Debug("HTTP request")
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "spin"})
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
