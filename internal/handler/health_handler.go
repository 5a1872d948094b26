package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/student-portal/internal/response"
)

// Pinger is implemented by store connections that can report liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a plain function to Pinger.
type PingFunc func(ctx context.Context) error

// Ping calls f(ctx).
func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthHandler reports API and store liveness.
type HealthHandler struct {
	store Pinger
	log   zerolog.Logger
}

// NewHealthHandler creates a HealthHandler. store may be nil.
func NewHealthHandler(store Pinger, log zerolog.Logger) *HealthHandler {
	return &HealthHandler{
		store: store,
		log:   log.With().Str("component", "health_handler").Logger(),
	}
}

// Health godoc
// GET /api/health
func (h *HealthHandler) Health(c *gin.Context) {
	if h.store != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.store.Ping(ctx); err != nil {
			h.log.Warn().Err(err).Msg("store ping failed")
			response.Success(c, http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	response.Success(c, http.StatusOK, gin.H{"status": "ok"})
}
