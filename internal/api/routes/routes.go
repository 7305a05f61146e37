package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/gocomet/ride-booking/internal/api/handlers"
	"github.com/gocomet/ride-booking/internal/api/middleware"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// SetupRoutes configures all API routes
func SetupRoutes(r *gin.Engine, h *handlers.Handlers, nrApp *newrelic.Application) {
	// Add New Relic middleware if enabled
	if nrApp != nil {
		r.Use(nrgin.Middleware(nrApp))
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy"})
	})

	v1 := r.Group("/api/v1")

	// Public auth endpoints
	auth := v1.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
	}

	// Everything else requires a verified caller identity
	authed := v1.Group("")
	authed.Use(middleware.Auth(h.Tokens))
	{
		authed.GET("/ws", h.HandleWebSocket)

		// Lifecycle
		authed.POST("/rides", h.CreateRide)
		authed.POST("/rides/:rideId/complete", h.CompleteRide)
		authed.POST("/driver/rides/:rideId/accept", h.AcceptRide)

		// Caller-scoped listings
		authed.GET("/user/rides", h.GetUserRides)
		authed.GET("/driver/rides", h.GetDriverRides)
		authed.GET("/driver/rides/requests", h.GetPendingRides)

		// Search / filter / sort / paginate
		authed.GET("/rides/search", h.SearchRides)
		authed.GET("/rides/filter-distance", h.FilterByDistance)
		authed.GET("/rides/filter-date-range", h.FilterByDateRange)
		authed.GET("/rides/sort", h.SortByFare)
		authed.GET("/rides/user/:userId", h.GetRidesByUserID)
		authed.GET("/rides/user/:userId/status/:status", h.GetRidesByUserIDAndStatus)
		authed.GET("/drivers/:driverId/active-rides", h.GetActiveRidesForDriver)
		authed.GET("/rides/filter-status", h.FilterByStatusAndKeyword)
		authed.GET("/rides/advanced-search", h.AdvancedSearch)
		authed.GET("/rides/date/:date", h.GetRidesByDate)

		// Analytics
		analytics := authed.Group("/analytics")
		{
			analytics.GET("/rides-per-day", h.GetRidesPerDay)
			analytics.GET("/status-summary", h.GetStatusSummary)
			analytics.GET("/driver/:driverId/summary", h.GetDriverSummary)
			analytics.GET("/user/:userId/spending", h.GetUserSpending)
		}
	}
}
