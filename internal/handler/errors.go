package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"couple-scheduler/internal/middleware"
	"couple-scheduler/internal/model"
)

func httpStatus(err error) int {
	switch {
	case errors.Is(err, model.ErrValidation),
		errors.Is(err, model.ErrNoPartnerBound),
		errors.Is(err, model.ErrSelfBind):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrBadCredentials),
		errors.Is(err, model.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, model.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrConflict),
		errors.Is(err, model.ErrAlreadyPaired),
		errors.Is(err, model.ErrDuplicate):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err as {"error": ...}. Internal errors are logged and hidden.
func (h *Handler) fail(c *gin.Context, err error) {
	code := httpStatus(err)
	if code == http.StatusInternalServerError {
		h.log.Error("request failed",
			zap.String("path", c.FullPath()), zap.String("user_id", middleware.UserID(c)), zap.Error(err))
		c.JSON(code, gin.H{"error": "internal error"})
		return
	}
	c.JSON(code, gin.H{"error": message(err)})
}

// message strips "context: " prefixes added while wrapping, keeping the
// sentinel text and any detail after it.
func message(err error) string {
	msg := err.Error()
	for _, s := range []error{
		model.ErrValidation, model.ErrNotFound, model.ErrForbidden, model.ErrConflict,
		model.ErrNoPartnerBound, model.ErrSelfBind, model.ErrAlreadyPaired,
		model.ErrDuplicate, model.ErrBadCredentials, model.ErrUnauthenticated,
	} {
		if i := strings.Index(msg, s.Error()); i >= 0 {
			return msg[i:]
		}
	}
	return msg
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
}
