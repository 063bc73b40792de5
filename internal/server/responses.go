package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/at-ishikawa/devnote/internal/journal"
	"github.com/at-ishikawa/devnote/internal/persistence"
	"github.com/at-ishikawa/devnote/internal/review"
)

// StorageWarningHeader is set when a change was applied in memory but could not be saved.
const StorageWarningHeader = "X-Devnote-Storage-Warning"

type ErrorResponse struct {
	Error string `json:"error"`
}

func respondWithJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func (h *Handler) respondWithError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, journal.ErrProjectNotFound),
		errors.Is(err, journal.ErrLogNotFound),
		errors.Is(err, journal.ErrSnippetNotFound):
		status = http.StatusNotFound
	case errors.Is(err, journal.ErrInvalidRecord),
		errors.Is(err, review.ErrInvalidUnderstanding),
		errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		message = http.StatusText(status)
	} else {
		h.logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}
	respondWithJSON(w, status, ErrorResponse{Error: message})
}

// respondAfterMutation treats a failed save as a warning: the change stays in memory for the session.
func (h *Handler) respondAfterMutation(w http.ResponseWriter, r *http.Request, status int, data any, err error) {
	if err != nil && !errors.Is(err, persistence.ErrStorageUnavailable) {
		h.respondWithError(w, r, err)
		return
	}
	if err != nil {
		h.logger.Warn("change kept in memory only", "method", r.Method, "path", r.URL.Path, "error", err)
		w.Header().Set(StorageWarningHeader, "changes could not be saved")
	}
	if data == nil {
		w.WriteHeader(status)
		return
	}
	respondWithJSON(w, status, data)
}
