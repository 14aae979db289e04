// Package handler is the HTTP gateway: JSON routes under /api, a
// server-sent events feed, and a health probe.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"couple-scheduler/internal/auth"
	"couple-scheduler/internal/middleware"
	"couple-scheduler/internal/realtime"
	"couple-scheduler/internal/service"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Config struct {
	OutboxSize int
	KeepAlive  time.Duration // SSE comment interval
}

type Handler struct {
	ids      *service.Identity
	appts    *service.Appointments
	tokens   *auth.Tokens
	presence realtime.Presence
	db       Pinger
	cfg      Config
	log      *zap.Logger
}

func New(ids *service.Identity, appts *service.Appointments, tokens *auth.Tokens,
	presence realtime.Presence, db Pinger, cfg Config, log *zap.Logger) *Handler {
	if cfg.KeepAlive <= 0 {
		cfg.KeepAlive = 25 * time.Second
	}
	return &Handler{ids: ids, appts: appts, tokens: tokens, presence: presence, db: db, cfg: cfg, log: log}
}

// Router mounts every route. authLimit guards register and login.
func (h *Handler) Router(authLimit *middleware.RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(h.log))

	r.GET("/health", h.Health)

	api := r.Group("/api")
	api.GET("/events", h.Events)

	open := api.Group("/auth")
	if authLimit != nil {
		open.Use(authLimit.Limit())
	}
	open.POST("/register", h.Register)
	open.POST("/login", h.Login)

	authed := api.Group("", middleware.Auth(h.tokens))
	authed.POST("/auth/bind-partner", h.BindPartner)
	authed.GET("/auth/partner", h.GetPartner)

	authed.POST("/appointments", h.CreateAppointment)
	authed.GET("/appointments", h.ListAppointments)
	authed.GET("/appointments/:id", h.GetAppointment)
	authed.PUT("/appointments/:id", h.ModifyAppointment)
	authed.PUT("/appointments/:id/status", h.SetAppointmentStatus)

	return r
}

func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		h.log.Warn("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
