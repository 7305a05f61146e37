package dto

import (
	"time"

	"github.com/gocomet/ride-booking/internal/domain/ride"
	"github.com/gocomet/ride-booking/internal/service/analytics"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// AuthResponse returns an issued token together with the account identity.
type AuthResponse struct {
	Token    string    `json:"token"`
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	Role     string    `json:"role"`
}

// RideResponse is the ride view every read and mutation returns.
type RideResponse struct {
	ID             uuid.UUID  `json:"id"`
	RequesterID    uuid.UUID  `json:"requester_id"`
	DriverID       *uuid.UUID `json:"driver_id,omitempty"`
	PickupLocation string     `json:"pickup_location"`
	DropLocation   string     `json:"drop_location"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	CreatedDate    string     `json:"created_date"`
	FareAmount     float64    `json:"fare_amount"`
	DistanceKm     float64    `json:"distance_km"`
}

// RideFromDomain maps a ride entity onto the response shape.
func RideFromDomain(r *ride.Ride) RideResponse {
	return RideResponse{
		ID:             r.ID,
		RequesterID:    r.RequesterID,
		DriverID:       r.DriverID,
		PickupLocation: r.PickupLocation,
		DropLocation:   r.DropLocation,
		Status:         string(r.Status),
		CreatedAt:      r.CreatedAt,
		CreatedDate:    r.CreatedDate.Format(dateLayout),
		FareAmount:     r.FareAmount,
		DistanceKm:     r.DistanceKm,
	}
}

// RidesFromDomain maps a ride slice onto response shapes, never nil.
func RidesFromDomain(rides []*ride.Ride) []RideResponse {
	out := make([]RideResponse, 0, len(rides))
	for _, r := range rides {
		out = append(out, RideFromDomain(r))
	}
	return out
}

// RidesPerDayResponse is one row of the rides-per-day rollup.
type RidesPerDayResponse struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// RidesPerDayFromDomain maps day counts onto response rows.
func RidesPerDayFromDomain(counts []analytics.DayCount) []RidesPerDayResponse {
	out := make([]RidesPerDayResponse, 0, len(counts))
	for _, c := range counts {
		out = append(out, RidesPerDayResponse{
			Date:  c.Date.Format(dateLayout),
			Count: c.Count,
		})
	}
	return out
}

// StatusSummaryResponse is one row of the status histogram.
type StatusSummaryResponse struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// StatusSummaryFromDomain maps status counts onto response rows.
func StatusSummaryFromDomain(counts []analytics.StatusCount) []StatusSummaryResponse {
	out := make([]StatusSummaryResponse, 0, len(counts))
	for _, c := range counts {
		out = append(out, StatusSummaryResponse{
			Status: string(c.Status),
			Count:  c.Count,
		})
	}
	return out
}

// DriverSummaryResponse is the per-driver rollup.
type DriverSummaryResponse struct {
	DriverID       uuid.UUID `json:"driver_id"`
	TotalRides     int64     `json:"total_rides"`
	CompletedRides int64     `json:"completed_rides"`
	CancelledRides int64     `json:"cancelled_rides"`
	AvgDistance    float64   `json:"avg_distance"`
	TotalFare      float64   `json:"total_fare"`
}

// DriverSummaryFromDomain maps the driver summary onto the response shape.
func DriverSummaryFromDomain(s *analytics.DriverSummary) DriverSummaryResponse {
	return DriverSummaryResponse{
		DriverID:       s.DriverID,
		TotalRides:     s.TotalRides,
		CompletedRides: s.CompletedRides,
		CancelledRides: s.CancelledRides,
		AvgDistance:    s.AvgDistance,
		TotalFare:      s.TotalFare,
	}
}

// UserSpendingResponse is the per-user completed-rides rollup.
type UserSpendingResponse struct {
	UserID              uuid.UUID `json:"user_id"`
	TotalCompletedRides int64     `json:"total_completed_rides"`
	TotalSpent          float64   `json:"total_spent"`
}

// UserSpendingFromDomain maps the user spending rollup onto the response
// shape.
func UserSpendingFromDomain(s *analytics.UserSpending) UserSpendingResponse {
	return UserSpendingResponse{
		UserID:              s.UserID,
		TotalCompletedRides: s.TotalCompletedRides,
		TotalSpent:          s.TotalSpent,
	}
}

// ErrorResponse is the error body HTTP collaborators receive.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
