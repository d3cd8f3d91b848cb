package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/Ashenafi-pixel/spin-to-win/countdown"
	"github.com/Ashenafi-pixel/spin-to-win/session"
	"github.com/Ashenafi-pixel/spin-to-win/ticket"
)

const (
	minQRSize = 64
	maxQRSize = 1024
)

type startRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Variant string `json:"variant"`
}

type playRequest struct {
	Choice int `json:"choice"`
}

// sessionResponse is the session plus what the current view needs to render.
type sessionResponse struct {
	*session.Session
	Countdown      *countdown.State `json:"countdown,omitempty"`
	TicketFilename string           `json:"ticketFilename,omitempty"`
	QRURL          string           `json:"qrUrl,omitempty"`
}

func (s *Server) respondSession(w http.ResponseWriter, code int, sess *session.Session) {
	resp := sessionResponse{Session: sess}
	if sess.View == session.ViewTicket && sess.Ticket != nil {
		st := countdown.Tick(sess.Ticket.ExpiresAt, s.now())
		resp.Countdown = &st
		resp.TicketFilename = sess.Ticket.Filename()
		resp.QRURL = "/api/sessions/" + sess.ID + "/ticket/qr.png"
	}
	writeJSON(w, code, resp)
}

// decodeBody reads a JSON body; an empty body leaves v untouched.
func decodeBody(r *http.Request, v interface{}) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == io.EOF {
		return nil
	}
	return err
}

func (s *Server) handlePrizes(w http.ResponseWriter, r *http.Request) {
	catalog := s.sessions.Catalog()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"prizes": catalog,
		"shares": catalog.Share(),
	})
}

func (s *Server) handleGames(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"variants": s.sessions.Games().List(),
		"default":  s.cfg.DefaultVariant,
	})
}

// handleCreateSession submits the login form in one call: POST /api/sessions {name,email,variant}.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "INVALID_BODY")
		return
	}
	sess, err := s.sessions.Begin(r.Context(), req.Name, req.Email, req.Variant)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	s.respondSession(w, http.StatusCreated, sess)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.PathValue("id"))
	if err != nil {
		writeSessionError(w, err)
		return
	}
	s.respondSession(w, http.StatusOK, sess)
}

// handleStart submits the login form for an existing session (after a reset).
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "INVALID_BODY")
		return
	}
	sess, err := s.sessions.Start(r.Context(), r.PathValue("id"), req.Name, req.Email, req.Variant)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	s.respondSession(w, http.StatusOK, sess)
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	var req playRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "INVALID_BODY")
		return
	}
	sess, err := s.sessions.Play(r.Context(), r.PathValue("id"), req.Choice)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	s.respondSession(w, http.StatusOK, sess)
}

func (s *Server) handlePlayAgain(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.PlayAgain(r.PathValue("id"))
	if err != nil {
		writeSessionError(w, err)
		return
	}
	s.respondSession(w, http.StatusOK, sess)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Reset(r.PathValue("id"))
	if err != nil {
		writeSessionError(w, err)
		return
	}
	s.respondSession(w, http.StatusOK, sess)
}

// ticketFor loads the session and its ticket, writing the error response when either is missing.
func (s *Server) ticketFor(w http.ResponseWriter, id string) (*ticket.Ticket, bool) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		writeSessionError(w, err)
		return nil, false
	}
	if sess.View != session.ViewTicket || sess.Ticket == nil {
		writeError(w, http.StatusNotFound, "no ticket for session", "NO_TICKET")
		return nil, false
	}
	return sess.Ticket, true
}

func (s *Server) handleCountdown(w http.ResponseWriter, r *http.Request) {
	tk, ok := s.ticketFor(w, r.PathValue("id"))
	if !ok {
		return
	}
	st := countdown.Tick(tk.ExpiresAt, s.now())
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"countdown": st,
		"expired":   st.Expired(),
		"label":     st.String(),
	})
}

// handleCountdownStream pushes one "tick" event per second as Server-Sent Events
// and ends with an "expired" event. The timer stops when the client goes away.
func (s *Server) handleCountdownStream(w http.ResponseWriter, r *http.Request) {
	tk, ok := s.ticketFor(w, r.PathValue("id"))
	if !ok {
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported", "STREAM_UNSUPPORTED")
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ctx, cancel := context.WithCancel(r.Context())
	timer := countdown.NewTimer(s.now, countdown.Interval)
	defer timer.Stop()
	defer cancel()

	states := make(chan countdown.State, 1)
	if err := timer.Start(ctx, tk.ExpiresAt, func(st countdown.State) {
		select {
		case states <- st:
		case <-ctx.Done():
		}
	}); err != nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case st := <-states:
			event := "tick"
			if st.Expired() {
				event = "expired"
			}
			data, _ := json.Marshal(st)
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
				return
			}
			flusher.Flush()
			if st.Expired() {
				return
			}
		}
	}
}

// handleTicketQR renders the ticket code as a PNG. A rendering failure answers 503
// and leaves the rest of the ticket usable.
func (s *Server) handleTicketQR(w http.ResponseWriter, r *http.Request) {
	tk, ok := s.ticketFor(w, r.PathValue("id"))
	if !ok {
		return
	}
	size := s.cfg.QRSize
	if v := strings.TrimSpace(r.URL.Query().Get("size")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			size = n
		}
	}
	if size < minQRSize {
		size = minQRSize
	}
	if size > maxQRSize {
		size = maxQRSize
	}
	png, err := ticket.QRCode(tk.Code, size)
	if err != nil {
		log.WithError(err).WithField("code", tk.Code).Warn("QR rendering failed")
		writeError(w, http.StatusServiceUnavailable, "qr unavailable", "QR_UNAVAILABLE")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": tk.Filename()}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// handleLookupTicket lets staff check a presented code against issued tickets.
func (s *Server) handleLookupTicket(w http.ResponseWriter, r *http.Request) {
	rec, err := s.sessions.LookupTicket(r.PathValue("code"))
	if err != nil {
		writeSessionError(w, err)
		return
	}
	st := countdown.Tick(rec.ExpiresAt, s.now())
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ticket":  rec,
		"expired": st.Expired(),
		"label":   st.String(),
	})
}
