package api

import (
	"context"
	"net/http"
	"time"

	"github.com/daylog/daylog-backend/internal/api/respond"
	"github.com/daylog/daylog-backend/internal/health"
)

type HealthHandler struct {
	pinger health.HealthPinger
}

func NewHealthHandler(p health.HealthPinger) *HealthHandler { return &HealthHandler{pinger: p} }

// Check GET /api/health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// CheckStore GET /api/health/db
func (h *HealthHandler) CheckStore(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.pinger.HealthPing(ctx); err != nil {
		respond.WriteError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
