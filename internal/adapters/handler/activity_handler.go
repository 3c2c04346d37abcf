package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/AchilleasB/campus-hub/campus-service/internal/core/domain"
	"github.com/AchilleasB/campus-hub/campus-service/internal/core/ports"
)

const (
	defaultActivityLimit = 20
	maxActivityLimit     = 100
)

// ActivityHandler serves the dashboard feed of recent creates and deletes.
type ActivityHandler struct {
	reader ports.ActivityReader
	log    *zap.Logger
}

func NewActivityHandler(reader ports.ActivityReader, log *zap.Logger) *ActivityHandler {
	return &ActivityHandler{reader: reader, log: log}
}

func (h *ActivityHandler) Mount(r chi.Router) {
	r.Get("/api/activity", h.Recent)
}

func (h *ActivityHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := defaultActivityLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, h.log, domain.NewValidationError("limit must be a positive integer"), "Activity")
			return
		}
		limit = min(n, maxActivityLimit)
	}

	events, err := h.reader.RecentActivity(r.Context(), limit)
	if err != nil {
		writeError(w, h.log, err, "Activity")
		return
	}
	if events == nil {
		events = []domain.ActivityEvent{}
	}
	writeJSON(w, h.log, http.StatusOK, events)
}
