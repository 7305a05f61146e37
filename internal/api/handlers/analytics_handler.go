package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gocomet/ride-booking/internal/api/dto"
	apperrors "github.com/gocomet/ride-booking/pkg/errors"
	"github.com/google/uuid"
)

// GetRidesPerDay handles GET /api/v1/analytics/rides-per-day
func (h *Handlers) GetRidesPerDay(c *gin.Context) {
	counts, err := h.Analytics.RidesPerDay(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.RidesPerDayFromDomain(counts))
}

// GetStatusSummary handles GET /api/v1/analytics/status-summary
func (h *Handlers) GetStatusSummary(c *gin.Context) {
	counts, err := h.Analytics.StatusSummary(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.StatusSummaryFromDomain(counts))
}

// GetDriverSummary handles GET /api/v1/analytics/driver/:driverId/summary
func (h *Handlers) GetDriverSummary(c *gin.Context) {
	driverID, err := uuid.Parse(c.Param("driverId"))
	if err != nil {
		h.respondError(c, apperrors.Validation("Invalid driver id", err))
		return
	}

	summary, err := h.Analytics.DriverSummary(c.Request.Context(), driverID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.DriverSummaryFromDomain(summary))
}

// GetUserSpending handles GET /api/v1/analytics/user/:userId/spending
func (h *Handlers) GetUserSpending(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		h.respondError(c, apperrors.Validation("Invalid user id", err))
		return
	}

	spending, err := h.Analytics.UserSpending(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.UserSpendingFromDomain(spending))
}
