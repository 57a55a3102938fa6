package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gameshelf/newsletter/internal/domain"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// mapError translates domain sentinel errors to HTTP status codes.
// All mapping lives here so individual handlers stay concise.
func mapError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrNoRunsYet):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnknownJob):
		respondError(w, http.StatusInternalServerError, err.Error())
	case errors.Is(err, domain.ErrBusFull):
		respondError(w, http.StatusServiceUnavailable, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
