package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gocomet/ride-booking/internal/api/dto"
	"github.com/gocomet/ride-booking/internal/domain/user"
	apperrors "github.com/gocomet/ride-booking/pkg/errors"
)

// Register handles POST /api/v1/auth/register
func (h *Handlers) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperrors.Validation("Invalid request payload", err))
		return
	}

	result, err := h.Auth.Register(c.Request.Context(), req.Username, req.Password, user.Role(req.Role))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{
		Token:    result.Token,
		UserID:   result.UserID,
		Username: result.Username,
		Role:     string(result.Role),
	})
}

// Login handles POST /api/v1/auth/login
func (h *Handlers) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperrors.Validation("Invalid request payload", err))
		return
	}

	result, err := h.Auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{
		Token:    result.Token,
		UserID:   result.UserID,
		Username: result.Username,
		Role:     string(result.Role),
	})
}
