package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/reelpulse/reelpulse/internal/engine"
	"github.com/reelpulse/reelpulse/internal/store"
)

// envelope is the uniform response shape for every endpoint.
type envelope struct {
	Status    string `json:"status"` // "success" or "error"
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
	Timestamp string `json:"timestamp"`
}

func respondJSON(w http.ResponseWriter, code int, env envelope) {
	env.Timestamp = time.Now().UTC().Format(time.RFC3339)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		slog.Error("write response", slog.Any("error", err))
	}
}

// respondOK writes a 200 success envelope.
func respondOK(w http.ResponseWriter, data any) {
	respondJSON(w, http.StatusOK, envelope{Status: "success", Data: data})
}

// respondError writes an error envelope with the given status code.
func respondError(w http.ResponseWriter, code int, msg string) {
	respondJSON(w, code, envelope{Status: "error", Error: msg})
}

// respondFor maps an error to its HTTP status: invalid input → 400,
// missing rows → 404, anything downstream → 500 with the message surfaced.
func respondFor(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

// decodeBody decodes a JSON request body into v. Malformed JSON → 400.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "malformed JSON body: "+err.Error())
		return false
	}
	return true
}
