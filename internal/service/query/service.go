package query

import (
	"context"
	"strings"
	"time"

	"github.com/gocomet/ride-booking/internal/domain/ride"
	apperrors "github.com/gocomet/ride-booking/pkg/errors"
	"github.com/google/uuid"
)

// Default advanced-search parameters.
const (
	DefaultPageSize  = 10
	DefaultSortField = ride.FieldFareAmount
)

// Service answers read-only search, filter, sort and pagination questions
// over the ride collection. Range parameters are deliberately not validated:
// an inverted range simply matches nothing.
type Service struct {
	rides ride.Store
}

// NewService creates a query service
func NewService(rides ride.Store) *Service {
	return &Service{rides: rides}
}

// ByStatus returns all rides with the given status.
func (s *Service) ByStatus(ctx context.Context, status ride.Status) ([]*ride.Ride, error) {
	rides, err := s.rides.FindByStatus(ctx, status)
	return rides, s.wrap(err)
}

// ByUser returns all rides requested by a user.
func (s *Service) ByUser(ctx context.Context, userID uuid.UUID) ([]*ride.Ride, error) {
	rides, err := s.rides.FindByUser(ctx, userID)
	return rides, s.wrap(err)
}

// ByDriver returns all rides assigned to a driver.
func (s *Service) ByDriver(ctx context.Context, driverID uuid.UUID) ([]*ride.Ride, error) {
	rides, err := s.rides.FindByDriver(ctx, driverID)
	return rides, s.wrap(err)
}

// ByUserAndStatus returns a user's rides with a specific status.
func (s *Service) ByUserAndStatus(ctx context.Context, userID uuid.UUID, status ride.Status) ([]*ride.Ride, error) {
	p := ride.And{
		ride.Eq{Field: ride.FieldRequesterID, Value: userID},
		ride.Eq{Field: ride.FieldStatus, Value: status},
	}
	rides, err := s.rides.Find(ctx, p, nil, nil)
	return rides, s.wrap(err)
}

// ActiveForDriver returns a driver's rides still in progress (ACCEPTED).
func (s *Service) ActiveForDriver(ctx context.Context, driverID uuid.UUID) ([]*ride.Ride, error) {
	p := ride.And{
		ride.Eq{Field: ride.FieldDriverID, Value: driverID},
		ride.Eq{Field: ride.FieldStatus, Value: ride.StatusAccepted},
	}
	rides, err := s.rides.Find(ctx, p, nil, nil)
	return rides, s.wrap(err)
}

// KeywordSearch matches text case-insensitively against pickup or drop
// location.
func (s *Service) KeywordSearch(ctx context.Context, text string) ([]*ride.Ride, error) {
	rides, err := s.rides.Find(ctx, ride.Keyword(text), nil, nil)
	return rides, s.wrap(err)
}

// ByDistanceRange returns rides whose distance lies in [min, max] inclusive.
func (s *Service) ByDistanceRange(ctx context.Context, min, max float64) ([]*ride.Ride, error) {
	p := ride.NumRange{Field: ride.FieldDistanceKm, Min: min, Max: max}
	rides, err := s.rides.Find(ctx, p, nil, nil)
	return rides, s.wrap(err)
}

// ByDateRange returns rides created between two days, inclusive.
func (s *Service) ByDateRange(ctx context.Context, start, end time.Time) ([]*ride.Ride, error) {
	rides, err := s.rides.Find(ctx, ride.DateRange{Start: start, End: end}, nil, nil)
	return rides, s.wrap(err)
}

// ByExactDate returns rides created on a specific day.
func (s *Service) ByExactDate(ctx context.Context, date time.Time) ([]*ride.Ride, error) {
	p := ride.Eq{Field: ride.FieldCreatedDate, Value: date}
	rides, err := s.rides.Find(ctx, p, nil, nil)
	return rides, s.wrap(err)
}

// SortByFare returns every ride ordered by fare amount. Any order value
// other than "desc" sorts ascending.
func (s *Service) SortByFare(ctx context.Context, order string) ([]*ride.Ride, error) {
	by := &ride.Sort{Field: ride.FieldFareAmount, Descending: isDescending(order)}
	rides, err := s.rides.Find(ctx, nil, by, nil)
	return rides, s.wrap(err)
}

// FilterByStatusAndKeyword conjoins the status filter with the keyword
// search.
func (s *Service) FilterByStatusAndKeyword(ctx context.Context, status ride.Status, text string) ([]*ride.Ride, error) {
	p := ride.And{
		ride.Eq{Field: ride.FieldStatus, Value: status},
		ride.Keyword(text),
	}
	rides, err := s.rides.Find(ctx, p, nil, nil)
	return rides, s.wrap(err)
}

// AdvancedSearchParams are the optional knobs of AdvancedSearch. Empty
// Search/Status mean "no filter"; zero values for the rest fall back to
// defaults (fare amount ascending, page size 10).
type AdvancedSearchParams struct {
	Search string
	Status string
	SortBy string
	Order  string
	Page   int
	Size   int
}

// AdvancedSearch composes the keyword and status filters conjunctively when
// supplied, then sorts and paginates. A page past the end yields an empty
// result, not an error.
func (s *Service) AdvancedSearch(ctx context.Context, params AdvancedSearchParams) ([]*ride.Ride, error) {
	var filters ride.And
	if params.Search != "" {
		filters = append(filters, ride.Keyword(params.Search))
	}
	if params.Status != "" {
		filters = append(filters, ride.Eq{Field: ride.FieldStatus, Value: ride.Status(params.Status)})
	}

	var p ride.Predicate
	switch len(filters) {
	case 0:
		p = nil // match everything
	case 1:
		p = filters[0]
	default:
		p = filters
	}

	by := &ride.Sort{
		Field:      sortField(params.SortBy),
		Descending: isDescending(params.Order),
	}

	size := params.Size
	if size <= 0 {
		size = DefaultPageSize
	}
	page := &ride.Page{Number: params.Page, Size: size}

	rides, err := s.rides.Find(ctx, p, by, page)
	return rides, s.wrap(err)
}

func sortField(name string) ride.Field {
	switch name {
	case "fareAmount", "fare_amount", "":
		return DefaultSortField
	case "distanceKm", "distance_km":
		return ride.FieldDistanceKm
	case "createdAt", "created_at":
		return ride.FieldCreatedAt
	case "createdDate", "created_date":
		return ride.FieldCreatedDate
	case "status":
		return ride.FieldStatus
	case "pickupLocation", "pickup_location":
		return ride.FieldPickupLocation
	case "dropLocation", "drop_location":
		return ride.FieldDropLocation
	default:
		return DefaultSortField
	}
}

func isDescending(order string) bool {
	return strings.EqualFold(order, "desc")
}

func (s *Service) wrap(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Internal("Ride query failed", err)
}
