package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"lingo-shooter/internal/app"
	"lingo-shooter/internal/domain"
)

const (
	defaultScoreLimit = 10
	maxLimit          = 100
)

// HistoryStore persists answer history posted by clients.
type HistoryStore interface {
	Save(ctx context.Context, rec domain.HistoryRecord) error
	Recent(ctx context.Context, userID string, limit int) ([]domain.HistoryRecord, error)
}

// APIHandler serves the JSON endpoints next to the websocket.
type APIHandler struct {
	service *app.GameService
	history HistoryStore
}

func NewAPIHandler(service *app.GameService, history HistoryStore) *APIHandler {
	return &APIHandler{service: service, history: history}
}

// Register mounts the API routes on mux.
func (h *APIHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/history", h.serveHistory)
	mux.HandleFunc("/api/scores", h.serveScores)
}

func (h *APIHandler) serveHistory(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.saveHistory(w, r)
	case http.MethodGet:
		h.listHistory(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeJSON(w, http.StatusMethodNotAllowed, errorPayload{Message: "method not allowed"})
	}
}

func (h *APIHandler) saveHistory(w http.ResponseWriter, r *http.Request) {
	var rec domain.HistoryRecord
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&rec); err != nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: "invalid history record"})
		return
	}
	if err := rec.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: err.Error()})
		return
	}
	if err := h.history.Save(r.Context(), rec); err != nil {
		log.Printf("failed to save history for %s: %v", rec.UserID, err)
		writeJSON(w, http.StatusInternalServerError, errorPayload{Message: "history unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, domain.HistoryStatus{Status: "ok"})
}

func (h *APIHandler) listHistory(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: "missing userId"})
		return
	}
	limit, err := parseLimit(r.URL.Query().Get("limit"), defaultScoreLimit)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: err.Error()})
		return
	}
	records, err := h.history.Recent(r.Context(), userID, limit)
	if err != nil {
		log.Printf("failed to load history for %s: %v", userID, err)
		writeJSON(w, http.StatusInternalServerError, errorPayload{Message: "history unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *APIHandler) serveScores(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeJSON(w, http.StatusMethodNotAllowed, errorPayload{Message: "method not allowed"})
		return
	}
	limit, err := parseLimit(r.URL.Query().Get("limit"), defaultScoreLimit)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: err.Error()})
		return
	}
	entries, err := h.service.TopScores(r.Context(), limit)
	if err != nil {
		log.Printf("failed to load scores: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorPayload{Message: "scores unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func parseLimit(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, errors.New("limit must be a positive integer")
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return limit, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("failed to write response: %v", err)
	}
}
