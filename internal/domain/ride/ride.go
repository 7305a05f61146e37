package ride

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Status represents ride status
type Status string

const (
	StatusRequested Status = "REQUESTED"
	StatusAccepted  Status = "ACCEPTED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// IsValid validates the status
func (s Status) IsValid() bool {
	switch s {
	case StatusRequested, StatusAccepted, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition leaves this status.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Ride represents a single transport request from creation through completion.
// DriverID is nil exactly while the ride is REQUESTED. CreatedDate is
// CreatedAt truncated to UTC midnight and exists for day-granularity
// grouping and filtering.
type Ride struct {
	ID             uuid.UUID  `json:"id"`
	RequesterID    uuid.UUID  `json:"requester_id"`
	DriverID       *uuid.UUID `json:"driver_id,omitempty"`
	PickupLocation string     `json:"pickup_location"`
	DropLocation   string     `json:"drop_location"`
	FareAmount     float64    `json:"fare_amount"`
	DistanceKm     float64    `json:"distance_km"`
	Status         Status     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	CreatedDate    time.Time  `json:"created_date"`
}

// DateOf truncates a timestamp to its UTC calendar day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Errors
var (
	ErrRideNotFound  = errors.New("ride not found")
	ErrInvalidStatus = errors.New("invalid status transition")
)

// CanAccept checks if the ride can still be claimed by a driver
func (r *Ride) CanAccept() bool {
	return r.Status == StatusRequested
}

// CanComplete checks if the ride can be completed
func (r *Ride) CanComplete() bool {
	return r.Status == StatusAccepted
}

// IsParticipant reports whether id is the requester or the assigned driver.
func (r *Ride) IsParticipant(id uuid.UUID) bool {
	if r.RequesterID == id {
		return true
	}
	return r.DriverID != nil && *r.DriverID == id
}

// Store is the persistence contract for rides. Implementations must make
// AssignDriver and UpdateStatus atomic per record: when two callers race on
// the same transition, exactly one succeeds and the loser observes
// ErrInvalidStatus.
type Store interface {
	// Create persists a new ride.
	Create(ctx context.Context, r *Ride) error

	// GetByID retrieves a ride by ID
	GetByID(ctx context.Context, id uuid.UUID) (*Ride, error)

	// AssignDriver moves a REQUESTED ride to ACCEPTED and records the driver.
	// Returns ErrInvalidStatus if the ride is no longer REQUESTED.
	AssignDriver(ctx context.Context, rideID, driverID uuid.UUID) (*Ride, error)

	// UpdateStatus swaps status from one value to another, failing with
	// ErrInvalidStatus when the current status is not the expected one.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status) (*Ride, error)

	// FindByStatus retrieves all rides with the given status
	FindByStatus(ctx context.Context, status Status) ([]*Ride, error)

	// FindByUser retrieves all rides requested by a user
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*Ride, error)

	// FindByDriver retrieves all rides assigned to a driver
	FindByDriver(ctx context.Context, driverID uuid.UUID) ([]*Ride, error)

	// Find runs an ad-hoc query. A nil predicate matches every ride; sort and
	// page are optional. Sorting is stable with store-native secondary order.
	Find(ctx context.Context, p Predicate, sort *Sort, page *Page) ([]*Ride, error)

	// Aggregate executes a grouping aggregation over the collection.
	Aggregate(ctx context.Context, agg Aggregation) ([]Group, error)
}
