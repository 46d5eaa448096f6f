package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Koniverse/SubWallet-Mobile-sub003/internal/domain"
	"github.com/Koniverse/SubWallet-Mobile-sub003/internal/earning"
	"github.com/Koniverse/SubWallet-Mobile-sub003/internal/store"
)

// PositionService is the earning query interface served over HTTP.
type PositionService interface {
	PositionDetail(slug, address string) (domain.CompoundResult, error)
	Positions() ([]domain.Position, error)
	PositionWithdrawal(slug, address string, nowMs int64) (earning.WithdrawalInfo, error)
	Describe(slug, address string) (string, error)
	Watch(ctx context.Context, slug, address string, fn func(domain.CompoundResult))
}

// Reloader re-reads the snapshot on demand.
type Reloader interface {
	Reload() (int, error)
}

// Handler provides HTTP endpoints for the earning API.
type Handler struct {
	positions PositionService
	reloader  Reloader
	now       func() time.Time
}

// NewHandler creates a new API handler. The reloader may be nil, which disables reloads.
func NewHandler(positions PositionService, reloader Reloader) *Handler {
	return &Handler{positions: positions, reloader: reloader, now: time.Now}
}

// ListPositions handles GET /api/v1/positions.
func (h *Handler) ListPositions(w http.ResponseWriter, r *http.Request) {
	positions, err := h.positions.Positions()
	if err != nil {
		h.writeServiceError(w, "failed to list positions", err)
		return
	}
	writeJSON(w, http.StatusOK, positions)
}

// GetPosition handles GET /api/v1/positions/{slug}. An empty result is not an error.
func (h *Handler) GetPosition(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	address := r.URL.Query().Get("address")

	rs, err := h.positions.PositionDetail(slug, address)
	if err != nil {
		h.writeServiceError(w, "failed to aggregate position", err, "slug", slug)
		return
	}
	writeJSON(w, http.StatusOK, rs)
}

// GetWithdrawal handles GET /api/v1/positions/{slug}/withdrawal.
func (h *Handler) GetWithdrawal(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	address := r.URL.Query().Get("address")

	info, err := h.positions.PositionWithdrawal(slug, address, h.now().UnixMilli())
	if err != nil {
		h.writeServiceError(w, "failed to evaluate withdrawal", err, "slug", slug)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// GetSummary handles GET /api/v1/positions/{slug}/summary.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	address := r.URL.Query().Get("address")

	text, err := h.positions.Describe(slug, address)
	if err != nil {
		h.writeServiceError(w, "failed to describe position", err, "slug", slug)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}

// ReloadSnapshot handles POST /api/v1/snapshot/reload.
func (h *Handler) ReloadSnapshot(w http.ResponseWriter, r *http.Request) {
	if h.reloader == nil {
		writeError(w, http.StatusNotImplemented, "snapshot reload not configured")
		return
	}
	n, err := h.reloader.Reload()
	if err != nil {
		slog.Error("failed to reload snapshot", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to reload snapshot")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"positions": n})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, msg string, err error, attrs ...any) {
	switch {
	case errors.Is(err, store.ErrNoSnapshot):
		writeError(w, http.StatusServiceUnavailable, "snapshot not loaded")
	case errors.Is(err, earning.ErrPositionNotFound), errors.Is(err, earning.ErrPoolNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		slog.Error(msg, append(attrs, "error", err)...)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		slog.Warn("failed to write HTTP response body", "error", err)
		return
	}
	_, _ = w.Write([]byte("\n"))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
