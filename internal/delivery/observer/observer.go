package observer

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"turnserver/internal/httpresponse"
)

type RecentTurns interface {
	Recent(ctx context.Context, n int) ([]json.RawMessage, error)
}

type ObserverHandler struct {
	log    *zap.SugaredLogger
	hub    *Hub
	recent RecentTurns
}

// NewObserverHandler builds the spectator endpoints. recent may be nil when
// no turn history is kept.
func NewObserverHandler(log *zap.SugaredLogger, hub *Hub, recent RecentTurns) *ObserverHandler {
	return &ObserverHandler{
		log:    log,
		hub:    hub,
		recent: recent,
	}
}

func (o *ObserverHandler) Router(r chi.Router) {
	r.Get("/ws", o.hub.ServeWS)
	r.Get("/recent", o.HandleRecent)
}

func (o *ObserverHandler) HandleRecent(w http.ResponseWriter, r *http.Request) {
	if o.recent == nil {
		_ = httpresponse.WriteText(w, http.StatusNotFound, "turn history is disabled")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			_ = httpresponse.WriteText(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	turns, err := o.recent.Recent(r.Context(), limit)
	if err != nil {
		o.log.Errorf("failed to load recent turns: %v", err)
		_ = httpresponse.WriteText(w, http.StatusServiceUnavailable, "turn history unavailable")
		return
	}

	data, err := json.Marshal(turns)
	if err != nil {
		o.log.Errorf("failed to encode recent turns: %v", err)
		_ = httpresponse.WriteInternalErrorResponse(w)
		return
	}
	_ = httpresponse.WriteJSON(w, http.StatusOK, data)
}
