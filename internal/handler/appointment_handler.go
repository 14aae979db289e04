package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"couple-scheduler/internal/middleware"
	"couple-scheduler/internal/model"
	"couple-scheduler/internal/service"
)

type createAppointmentRequest struct {
	Title string `json:"title" binding:"required"`
	Date  string `json:"date"`
	Notes string `json:"notes"`
}

type statusRequest struct {
	Status  model.Status `json:"status" binding:"required"`
	Version int64        `json:"version"`
}

type modifyRequest struct {
	Title             string `json:"title"`
	Date              string `json:"date"`
	Notes             string `json:"notes"`
	ModificationNotes string `json:"modificationNotes"`
	Version           int64  `json:"version"`
}

// Browsers post datetime-local values without a zone; those are read as UTC.
var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04"}

// parseDate returns the zero time for "", which callers treat as unset.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: invalid date %q", model.ErrValidation, s)
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var req createAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		h.fail(c, err)
		return
	}
	a, err := h.appts.Propose(c.Request.Context(), middleware.UserID(c), service.ProposeInput{
		Title: req.Title,
		Date:  date,
		Notes: req.Notes,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"appointment": a})
}

func (h *Handler) ListAppointments(c *gin.Context) {
	list, err := h.appts.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": list})
}

func (h *Handler) GetAppointment(c *gin.Context) {
	a, err := h.appts.Get(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointment": a})
}

func (h *Handler) SetAppointmentStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	a, err := h.appts.SetStatus(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.Status, req.Version)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointment": a})
}

func (h *Handler) ModifyAppointment(c *gin.Context) {
	var req modifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		h.fail(c, err)
		return
	}
	a, err := h.appts.Modify(c.Request.Context(), middleware.UserID(c), c.Param("id"), service.ModifyInput{
		Title:             req.Title,
		Date:              date,
		Notes:             req.Notes,
		ModificationNotes: req.ModificationNotes,
		Version:           req.Version,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointment": a})
}
