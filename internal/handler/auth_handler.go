package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"couple-scheduler/internal/middleware"
	"couple-scheduler/internal/model"
	"couple-scheduler/internal/service"
)

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type bindPartnerRequest struct {
	PartnerEmail string `json:"partnerEmail" binding:"required"`
}

type userView struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	HasPartner bool   `json:"hasPartner"`
	PartnerID  string `json:"partnerId,omitempty"`
}

func toUserView(u *model.User) userView {
	return userView{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		HasPartner: u.HasPartner(),
		PartnerID:  u.PartnerID,
	}
}

func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, tok, err := h.ids.Register(c.Request.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "user registered", "token": tok, "user": toUserView(u)})
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, tok, err := h.ids.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "login successful", "token": tok, "user": toUserView(u)})
}

func (h *Handler) BindPartner(c *gin.Context) {
	var req bindPartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	partner, err := h.ids.BindPartner(c.Request.Context(), middleware.UserID(c), req.PartnerEmail)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "partner bound", "partner": toUserView(partner)})
}

func (h *Handler) GetPartner(c *gin.Context) {
	partner, err := h.ids.GetPartner(c.Request.Context(), middleware.UserID(c))
	if errors.Is(err, model.ErrNoPartnerBound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"partner": toUserView(partner)})
}
