package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/gocomet/ride-booking/internal/api/dto"
	"github.com/gocomet/ride-booking/internal/service/analytics"
	"github.com/gocomet/ride-booking/internal/service/auth"
	"github.com/gocomet/ride-booking/internal/service/lifecycle"
	"github.com/gocomet/ride-booking/internal/service/query"
	apperrors "github.com/gocomet/ride-booking/pkg/errors"
	"github.com/gocomet/ride-booking/pkg/logger"
	"github.com/gocomet/ride-booking/pkg/monitoring"
	"github.com/gocomet/ride-booking/pkg/token"
	"github.com/gocomet/ride-booking/pkg/websocket"
)

// Handlers holds all handler dependencies
type Handlers struct {
	Auth      *auth.Service
	Lifecycle *lifecycle.Service
	Query     *query.Service
	Analytics *analytics.Service
	Tokens    *token.Manager
	Logger    *logger.Logger
	Hub       *websocket.Hub
	Metrics   *monitoring.NewRelicApp
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	authSvc *auth.Service,
	lifecycleSvc *lifecycle.Service,
	querySvc *query.Service,
	analyticsSvc *analytics.Service,
	tokens *token.Manager,
	log *logger.Logger,
	hub *websocket.Hub,
	metrics *monitoring.NewRelicApp,
) *Handlers {
	return &Handlers{
		Auth:      authSvc,
		Lifecycle: lifecycleSvc,
		Query:     querySvc,
		Analytics: analyticsSvc,
		Tokens:    tokens,
		Logger:    log,
		Hub:       hub,
		Metrics:   metrics,
	}
}

// respondError maps any error onto the structured error body and the HTTP
// status its kind carries.
func (h *Handlers) respondError(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)
	if appErr.Status >= 500 {
		h.Logger.Error("Request failed", logger.Err(err))
	}
	c.JSON(appErr.Status, dto.ErrorResponse{
		Code:    appErr.Code,
		Message: appErr.Message,
	})
}
