package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"couple-scheduler/internal/middleware"
	"couple-scheduler/internal/realtime"
)

// Events streams the caller's notifications as server-sent events. The
// token comes from ?token= since EventSource cannot set headers; a bearer
// header works too. Opening a feed replaces the user's previous connection.
func (h *Handler) Events(c *gin.Context) {
	raw := c.Query("token")
	if raw == "" {
		raw = middleware.BearerToken(c)
	}
	if raw == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "access token required"})
		return
	}
	if _, err := h.tokens.Parse(raw); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "invalid or expired token"})
		return
	}

	out := realtime.NewOutbox(h.cfg.OutboxSize)
	sess := realtime.NewSession(h.presence, h.tokens, out, h.log)
	defer sess.Close()
	if _, err := sess.Authenticate(raw); err != nil {
		h.fail(c, err)
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ping := time.NewTicker(h.cfg.KeepAlive)
	defer ping.Stop()
	ctx := c.Request.Context()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case <-out.Done():
			return false
		case ev := <-out.Events():
			c.SSEvent(string(ev.Kind), ev.Payload)
			return true
		case <-ping.C:
			_, _ = io.WriteString(w, ": ping\n\n")
			return true
		}
	})
}
