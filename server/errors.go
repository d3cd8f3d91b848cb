package server

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/Ashenafi-pixel/spin-to-win/games"
	"github.com/Ashenafi-pixel/spin-to-win/playgate"
	"github.com/Ashenafi-pixel/spin-to-win/session"
)

// APIError is the standard error response.
type APIError struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

func writeError(w http.ResponseWriter, code int, errMsg, codeStr string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(APIError{
		Error:   errMsg,
		Code:    codeStr,
		Message: errMsg,
	})
}

// writeSessionError maps session manager errors to HTTP responses.
func writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error(), "SESSION_NOT_FOUND")
	case errors.Is(err, session.ErrTicketNotFound):
		writeError(w, http.StatusNotFound, err.Error(), "TICKET_NOT_FOUND")
	case errors.Is(err, session.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_INPUT")
	case errors.Is(err, session.ErrInvalidTransition):
		writeError(w, http.StatusConflict, err.Error(), "INVALID_TRANSITION")
	case errors.Is(err, games.ErrUnknownVariant):
		writeError(w, http.StatusBadRequest, err.Error(), "UNKNOWN_VARIANT")
	case errors.Is(err, games.ErrInvalidChoice):
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_CHOICE")
	case errors.Is(err, playgate.ErrStoreUnavailable):
		log.WithError(err).Error("Play store unavailable")
		writeError(w, http.StatusServiceUnavailable, "play store unavailable", "STORE_UNAVAILABLE")
	default:
		log.WithError(err).Error("Session request failed")
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL")
	}
}
