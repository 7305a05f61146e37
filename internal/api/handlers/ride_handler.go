package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gocomet/ride-booking/internal/api/dto"
	"github.com/gocomet/ride-booking/internal/api/middleware"
	"github.com/gocomet/ride-booking/internal/domain/ride"
	"github.com/gocomet/ride-booking/internal/service/lifecycle"
	apperrors "github.com/gocomet/ride-booking/pkg/errors"
	"github.com/gocomet/ride-booking/pkg/logger"
	"github.com/gocomet/ride-booking/pkg/websocket"
	"github.com/google/uuid"
)

// CreateRide handles POST /api/v1/rides
func (h *Handlers) CreateRide(c *gin.Context) {
	callerID, callerRole, ok := middleware.Caller(c)
	if !ok {
		h.respondError(c, apperrors.Authorization("Caller identity missing", nil))
		return
	}

	var req dto.CreateRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperrors.Validation("Invalid request payload", err))
		return
	}

	r, err := h.Lifecycle.CreateRide(c.Request.Context(), callerID, callerRole, lifecycle.CreateRideInput{
		PickupLocation: req.PickupLocation,
		DropLocation:   req.DropLocation,
		FareAmount:     req.FareAmount,
		DistanceKm:     req.DistanceKm,
	})
	if err != nil {
		h.rejectTransition(c, err)
		return
	}

	h.Metrics.RecordRideCreated()
	h.notifyRide(websocket.TypeRideCreated, r)
	c.JSON(http.StatusOK, dto.RideFromDomain(r))
}

// AcceptRide handles POST /api/v1/driver/rides/:rideId/accept
func (h *Handlers) AcceptRide(c *gin.Context) {
	callerID, callerRole, ok := middleware.Caller(c)
	if !ok {
		h.respondError(c, apperrors.Authorization("Caller identity missing", nil))
		return
	}

	rideID, err := uuid.Parse(c.Param("rideId"))
	if err != nil {
		h.respondError(c, apperrors.Validation("Invalid ride id", err))
		return
	}

	r, err := h.Lifecycle.AcceptRide(c.Request.Context(), callerID, callerRole, rideID)
	if err != nil {
		h.rejectTransition(c, err)
		return
	}

	h.Metrics.RecordRideAccepted()
	h.notifyRide(websocket.TypeRideAccepted, r)
	c.JSON(http.StatusOK, dto.RideFromDomain(r))
}

// CompleteRide handles POST /api/v1/rides/:rideId/complete
func (h *Handlers) CompleteRide(c *gin.Context) {
	callerID, _, ok := middleware.Caller(c)
	if !ok {
		h.respondError(c, apperrors.Authorization("Caller identity missing", nil))
		return
	}

	rideID, err := uuid.Parse(c.Param("rideId"))
	if err != nil {
		h.respondError(c, apperrors.Validation("Invalid ride id", err))
		return
	}

	r, err := h.Lifecycle.CompleteRide(c.Request.Context(), callerID, rideID)
	if err != nil {
		h.rejectTransition(c, err)
		return
	}

	h.Metrics.RecordRideCompleted()
	h.notifyRide(websocket.TypeRideCompleted, r)
	c.JSON(http.StatusOK, dto.RideFromDomain(r))
}

// GetUserRides handles GET /api/v1/user/rides
func (h *Handlers) GetUserRides(c *gin.Context) {
	callerID, _, ok := middleware.Caller(c)
	if !ok {
		h.respondError(c, apperrors.Authorization("Caller identity missing", nil))
		return
	}

	rides, err := h.Query.ByUser(c.Request.Context(), callerID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.RidesFromDomain(rides))
}

// GetPendingRides handles GET /api/v1/driver/rides/requests
func (h *Handlers) GetPendingRides(c *gin.Context) {
	rides, err := h.Query.ByStatus(c.Request.Context(), ride.StatusRequested)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.RidesFromDomain(rides))
}

// GetDriverRides handles GET /api/v1/driver/rides
func (h *Handlers) GetDriverRides(c *gin.Context) {
	callerID, _, ok := middleware.Caller(c)
	if !ok {
		h.respondError(c, apperrors.Authorization("Caller identity missing", nil))
		return
	}

	rides, err := h.Query.ByDriver(c.Request.Context(), callerID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.RidesFromDomain(rides))
}

func (h *Handlers) rejectTransition(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)
	if appErr.Status < 500 {
		h.Metrics.RecordTransitionRejected(appErr.Code)
		h.Logger.Info("Lifecycle call rejected",
			logger.String("code", appErr.Code),
			logger.String("path", c.FullPath()),
		)
	}
	h.respondError(c, err)
}

func (h *Handlers) notifyRide(eventType string, r *ride.Ride) {
	if h.Hub == nil {
		return
	}
	msg := websocket.Message{Type: eventType, Data: dto.RideFromDomain(r)}
	h.Hub.BroadcastToRide(r.ID.String(), msg)
	h.Hub.BroadcastToUser(r.RequesterID.String(), msg)
	if r.DriverID != nil {
		h.Hub.BroadcastToUser(r.DriverID.String(), msg)
	}
}
