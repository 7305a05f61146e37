package lifecycle

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gocomet/ride-booking/internal/domain/ride"
	"github.com/gocomet/ride-booking/internal/domain/user"
	apperrors "github.com/gocomet/ride-booking/pkg/errors"
	"github.com/gocomet/ride-booking/pkg/logger"
	"github.com/google/uuid"
)

// Service enforces the ride state machine and the role rules around it.
// Caller identity and role arrive as explicit parameters on every call; the
// service holds no ambient security context. All state lives in the store,
// whose conditional transitions keep racing writers safe: the loser of a
// concurrent accept gets an invalid-state error, with no retry.
type Service struct {
	rides  ride.Store
	logger *logger.Logger
}

// NewService creates a lifecycle service
func NewService(rides ride.Store, logger *logger.Logger) *Service {
	return &Service{
		rides:  rides,
		logger: logger,
	}
}

// CreateRideInput carries the rider-supplied fields of a new ride.
type CreateRideInput struct {
	PickupLocation string
	DropLocation   string
	FareAmount     float64
	DistanceKm     float64
}

func (in CreateRideInput) validate() error {
	if strings.TrimSpace(in.PickupLocation) == "" {
		return apperrors.Validation("Pickup location is required", nil)
	}
	if strings.TrimSpace(in.DropLocation) == "" {
		return apperrors.Validation("Drop location is required", nil)
	}
	if in.FareAmount <= 0 {
		return apperrors.Validation("Fare amount must be positive", nil)
	}
	if in.DistanceKm <= 0 {
		return apperrors.Validation("Distance must be positive", nil)
	}
	return nil
}

// CreateRide creates a REQUESTED ride for the calling passenger. Only the
// USER role may request rides; input is validated before the store is touched.
func (s *Service) CreateRide(ctx context.Context, callerID uuid.UUID, callerRole user.Role, in CreateRideInput) (*ride.Ride, error) {
	if callerRole != user.RoleUser {
		return nil, apperrors.Authorization("Only passengers can request rides", nil)
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	r := &ride.Ride{
		ID:             uuid.New(),
		RequesterID:    callerID,
		PickupLocation: in.PickupLocation,
		DropLocation:   in.DropLocation,
		FareAmount:     in.FareAmount,
		DistanceKm:     in.DistanceKm,
		Status:         ride.StatusRequested,
		CreatedAt:      now,
		CreatedDate:    ride.DateOf(now),
	}

	if err := s.rides.Create(ctx, r); err != nil {
		return nil, apperrors.Internal("Failed to create ride", err)
	}

	s.logger.Info("Ride created",
		logger.String("ride_id", r.ID.String()),
		logger.String("requester_id", callerID.String()),
		logger.Float64("fare_amount", r.FareAmount),
		logger.Float64("distance_km", r.DistanceKm),
	)
	return r, nil
}

// AcceptRide claims a REQUESTED ride for the calling driver. Only the DRIVER
// role may accept; the store transition is conditional so only one of two
// racing drivers wins.
func (s *Service) AcceptRide(ctx context.Context, callerID uuid.UUID, callerRole user.Role, rideID uuid.UUID) (*ride.Ride, error) {
	current, err := s.rides.GetByID(ctx, rideID)
	if err != nil {
		return nil, s.mapStoreError(err, rideID)
	}
	if callerRole != user.RoleDriver {
		return nil, apperrors.Authorization("Only drivers can accept rides", nil)
	}
	if !current.CanAccept() {
		return nil, apperrors.InvalidState("Ride is not available for acceptance", ride.ErrInvalidStatus)
	}

	updated, err := s.rides.AssignDriver(ctx, rideID, callerID)
	if err != nil {
		return nil, s.mapStoreError(err, rideID)
	}

	s.logger.Info("Ride accepted",
		logger.String("ride_id", rideID.String()),
		logger.String("driver_id", callerID.String()),
	)
	return updated, nil
}

// CompleteRide finishes an ACCEPTED ride. Either the requester or the
// assigned driver may complete it; no other field changes.
func (s *Service) CompleteRide(ctx context.Context, callerID uuid.UUID, rideID uuid.UUID) (*ride.Ride, error) {
	current, err := s.rides.GetByID(ctx, rideID)
	if err != nil {
		return nil, s.mapStoreError(err, rideID)
	}
	if !current.CanComplete() {
		return nil, apperrors.InvalidState("Ride must be accepted before completion", ride.ErrInvalidStatus)
	}
	if !current.IsParticipant(callerID) {
		return nil, apperrors.Authorization("You are not authorized to complete this ride", nil)
	}

	updated, err := s.rides.UpdateStatus(ctx, rideID, ride.StatusAccepted, ride.StatusCompleted)
	if err != nil {
		return nil, s.mapStoreError(err, rideID)
	}

	s.logger.Info("Ride completed",
		logger.String("ride_id", rideID.String()),
		logger.String("caller_id", callerID.String()),
	)
	return updated, nil
}

func (s *Service) mapStoreError(err error, rideID uuid.UUID) error {
	switch {
	case errors.Is(err, ride.ErrRideNotFound):
		return apperrors.NotFound("Ride not found", err)
	case errors.Is(err, ride.ErrInvalidStatus):
		// Lost a race: the ride moved on between our read and the
		// conditional update.
		s.logger.Warn("Concurrent transition lost",
			logger.String("ride_id", rideID.String()),
		)
		return apperrors.InvalidState("Ride is no longer in the expected status", err)
	default:
		return apperrors.Internal("Ride store failure", err)
	}
}
