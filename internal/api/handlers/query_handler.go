package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocomet/ride-booking/internal/api/dto"
	"github.com/gocomet/ride-booking/internal/domain/ride"
	"github.com/gocomet/ride-booking/internal/service/query"
	apperrors "github.com/gocomet/ride-booking/pkg/errors"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// SearchRides handles GET /api/v1/rides/search?text=
func (h *Handlers) SearchRides(c *gin.Context) {
	text := c.Query("text")
	if text == "" {
		h.respondError(c, apperrors.Validation("Query parameter 'text' is required", nil))
		return
	}

	rides, err := h.Query.KeywordSearch(c.Request.Context(), text)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.RidesFromDomain(rides))
}

// FilterByDistance handles GET /api/v1/rides/filter-distance?min=&max=
func (h *Handlers) FilterByDistance(c *gin.Context) {
	min, err := strconv.ParseFloat(c.Query("min"), 64)
	if err != nil {
		h.respondError(c, apperrors.Validation("Query parameter 'min' must be a number", err))
		return
	}
	max, err := strconv.ParseFloat(c.Query("max"), 64)
	if err != nil {
		h.respondError(c, apperrors.Validation("Query parameter 'max' must be a number", err))
		return
	}

	rides, err := h.Query.ByDistanceRange(c.Request.Context(), min, max)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.RidesFromDomain(rides))
}

// FilterByDateRange handles GET /api/v1/rides/filter-date-range?start=&end=
func (h *Handlers) FilterByDateRange(c *gin.Context) {
	start, err := time.Parse(dateLayout, c.Query("start"))
	if err != nil {
		h.respondError(c, apperrors.Validation("Query parameter 'start' must be YYYY-MM-DD", err))
		return
	}
	end, err := time.Parse(dateLayout, c.Query("end"))
	if err != nil {
		h.respondError(c, apperrors.Validation("Query parameter 'end' must be YYYY-MM-DD", err))
		return
	}

	rides, err := h.Query.ByDateRange(c.Request.Context(), start, end)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.RidesFromDomain(rides))
}

// SortByFare handles GET /api/v1/rides/sort?order=
func (h *Handlers) SortByFare(c *gin.Context) {
	rides, err := h.Query.SortByFare(c.Request.Context(), c.DefaultQuery("order", "asc"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.RidesFromDomain(rides))
}

// GetRidesByUserID handles GET /api/v1/rides/user/:userId
func (h *Handlers) GetRidesByUserID(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		h.respondError(c, apperrors.Validation("Invalid user id", err))
		return
	}

	rides, err := h.Query.ByUser(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.RidesFromDomain(rides))
}

// GetRidesByUserIDAndStatus handles GET /api/v1/rides/user/:userId/status/:status
func (h *Handlers) GetRidesByUserIDAndStatus(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		h.respondError(c, apperrors.Validation("Invalid user id", err))
		return
	}

	rides, err := h.Query.ByUserAndStatus(c.Request.Context(), userID, ride.Status(c.Param("status")))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.RidesFromDomain(rides))
}

// GetActiveRidesForDriver handles GET /api/v1/drivers/:driverId/active-rides
func (h *Handlers) GetActiveRidesForDriver(c *gin.Context) {
	driverID, err := uuid.Parse(c.Param("driverId"))
	if err != nil {
		h.respondError(c, apperrors.Validation("Invalid driver id", err))
		return
	}

	rides, err := h.Query.ActiveForDriver(c.Request.Context(), driverID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.RidesFromDomain(rides))
}

// FilterByStatusAndKeyword handles GET /api/v1/rides/filter-status?status=&search=
func (h *Handlers) FilterByStatusAndKeyword(c *gin.Context) {
	status := c.Query("status")
	search := c.Query("search")
	if status == "" || search == "" {
		h.respondError(c, apperrors.Validation("Query parameters 'status' and 'search' are required", nil))
		return
	}

	rides, err := h.Query.FilterByStatusAndKeyword(c.Request.Context(), ride.Status(status), search)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.RidesFromDomain(rides))
}

// AdvancedSearch handles GET /api/v1/rides/advanced-search
func (h *Handlers) AdvancedSearch(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil || page < 0 {
		h.respondError(c, apperrors.Validation("Query parameter 'page' must be a non-negative integer", err))
		return
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(query.DefaultPageSize)))
	if err != nil || size <= 0 {
		h.respondError(c, apperrors.Validation("Query parameter 'size' must be a positive integer", err))
		return
	}

	rides, err := h.Query.AdvancedSearch(c.Request.Context(), query.AdvancedSearchParams{
		Search: c.Query("search"),
		Status: c.Query("status"),
		SortBy: c.DefaultQuery("sort", "fareAmount"),
		Order:  c.DefaultQuery("order", "asc"),
		Page:   page,
		Size:   size,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.RidesFromDomain(rides))
}

// GetRidesByDate handles GET /api/v1/rides/date/:date
func (h *Handlers) GetRidesByDate(c *gin.Context) {
	date, err := time.Parse(dateLayout, c.Param("date"))
	if err != nil {
		h.respondError(c, apperrors.Validation("Path parameter 'date' must be YYYY-MM-DD", err))
		return
	}

	rides, err := h.Query.ByExactDate(c.Request.Context(), date)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.RidesFromDomain(rides))
}
