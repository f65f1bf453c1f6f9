package handler

import (
	"context"
	"net/http"

	"github.com/fakhrymubarak/weatherwise/internal/redis"
)

type HealthHandler struct {
	Ping func(ctx context.Context) error
}

func NewHealthHandler(ping ...func(ctx context.Context) error) *HealthHandler {
	if len(ping) > 0 && ping[0] != nil {
		return &HealthHandler{Ping: ping[0]}
	}
	return &HealthHandler{Ping: redis.Ping}
}

// HandleHealth reports liveness; an unreachable cache reports "degraded".
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok", "cache": "ok"}
	if err := h.Ping(r.Context()); err != nil {
		status["status"] = "degraded"
		status["cache"] = "unavailable"
	}
	writeJSONResponse(w, http.StatusOK, status)
}
