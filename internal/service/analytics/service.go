package analytics

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gocomet/ride-booking/internal/domain/ride"
	apperrors "github.com/gocomet/ride-booking/pkg/errors"
	"github.com/gocomet/ride-booking/pkg/logger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Counter names shared between the aggregation specs and result mapping.
const (
	counterCount     = "count"
	counterTotal     = "totalRides"
	counterCompleted = "completedRides"
	counterCancelled = "cancelledRides"
	counterAvgDist   = "avgDistance"
	counterTotalFare = "totalFare"
	counterSpent     = "totalSpent"
)

// Cache keys for the collection-wide rollups.
const (
	cacheKeyRidesPerDay   = "analytics:rides_per_day"
	cacheKeyStatusSummary = "analytics:status_summary"
)

// DayCount is one row of the rides-per-day rollup.
type DayCount struct {
	Date  time.Time `json:"date"`
	Count int64     `json:"count"`
}

// StatusCount is one row of the status histogram.
type StatusCount struct {
	Status ride.Status `json:"status"`
	Count  int64       `json:"count"`
}

// DriverSummary aggregates every ride assigned to one driver. Distance and
// fare cover all matched rides regardless of status.
type DriverSummary struct {
	DriverID       uuid.UUID `json:"driver_id"`
	TotalRides     int64     `json:"total_rides"`
	CompletedRides int64     `json:"completed_rides"`
	CancelledRides int64     `json:"cancelled_rides"`
	AvgDistance    float64   `json:"avg_distance"`
	TotalFare      float64   `json:"total_fare"`
}

// UserSpending aggregates a user's completed rides.
type UserSpending struct {
	UserID              uuid.UUID `json:"user_id"`
	TotalCompletedRides int64     `json:"total_completed_rides"`
	TotalSpent          float64   `json:"total_spent"`
}

// Service computes grouped rollups over the full ride collection. The
// collection-wide rollups are cached in Redis with a TTL when a client is
// configured; per-driver and per-user summaries always hit the store.
type Service struct {
	rides    ride.Store
	cache    *redis.Client
	cacheTTL time.Duration
	logger   *logger.Logger
}

// NewService creates an analytics service. cache may be nil to disable
// caching.
func NewService(rides ride.Store, cache *redis.Client, cacheTTL time.Duration, logger *logger.Logger) *Service {
	return &Service{
		rides:    rides,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// RidesPerDay groups all rides by creation day, most recent day first.
func (s *Service) RidesPerDay(ctx context.Context) ([]DayCount, error) {
	var cached []DayCount
	if s.fromCache(ctx, cacheKeyRidesPerDay, &cached) {
		return cached, nil
	}

	groups, err := s.rides.Aggregate(ctx, ride.Aggregation{
		GroupBy:  ride.FieldCreatedDate,
		Counters: []ride.Counter{ride.Count(counterCount)},
		SortBy:   ride.SortByKey,
		Desc:     true,
	})
	if err != nil {
		return nil, apperrors.Internal("Rides-per-day aggregation failed", err)
	}

	result := make([]DayCount, 0, len(groups))
	for _, g := range groups {
		date, _ := g.Key.(time.Time)
		result = append(result, DayCount{
			Date:  date,
			Count: int64(g.Values[counterCount]),
		})
	}

	s.toCache(ctx, cacheKeyRidesPerDay, result)
	return result, nil
}

// StatusSummary counts rides per status, largest group first.
func (s *Service) StatusSummary(ctx context.Context) ([]StatusCount, error) {
	var cached []StatusCount
	if s.fromCache(ctx, cacheKeyStatusSummary, &cached) {
		return cached, nil
	}

	groups, err := s.rides.Aggregate(ctx, ride.Aggregation{
		GroupBy:  ride.FieldStatus,
		Counters: []ride.Counter{ride.Count(counterCount)},
		SortBy:   counterCount,
		Desc:     true,
	})
	if err != nil {
		return nil, apperrors.Internal("Status summary aggregation failed", err)
	}

	result := make([]StatusCount, 0, len(groups))
	for _, g := range groups {
		status, _ := g.Key.(ride.Status)
		result = append(result, StatusCount{
			Status: status,
			Count:  int64(g.Values[counterCount]),
		})
	}

	s.toCache(ctx, cacheKeyStatusSummary, result)
	return result, nil
}

// DriverSummary rolls up every ride assigned to the driver. A driver with no
// rides gets an all-zero summary, never an error.
func (s *Service) DriverSummary(ctx context.Context, driverID uuid.UUID) (*DriverSummary, error) {
	groups, err := s.rides.Aggregate(ctx, ride.Aggregation{
		Match: ride.Eq{Field: ride.FieldDriverID, Value: driverID},
		Counters: []ride.Counter{
			ride.Count(counterTotal),
			ride.CountWhere(counterCompleted, ride.Eq{Field: ride.FieldStatus, Value: ride.StatusCompleted}),
			ride.CountWhere(counterCancelled, ride.Eq{Field: ride.FieldStatus, Value: ride.StatusCancelled}),
			ride.Avg(counterAvgDist, ride.FieldDistanceKm),
			ride.Sum(counterTotalFare, ride.FieldFareAmount),
		},
	})
	if err != nil {
		return nil, apperrors.Internal("Driver summary aggregation failed", err)
	}

	summary := &DriverSummary{DriverID: driverID}
	if len(groups) > 0 {
		v := groups[0].Values
		summary.TotalRides = int64(v[counterTotal])
		summary.CompletedRides = int64(v[counterCompleted])
		summary.CancelledRides = int64(v[counterCancelled])
		summary.AvgDistance = v[counterAvgDist]
		summary.TotalFare = v[counterTotalFare]
	}
	return summary, nil
}

// UserSpending rolls up a user's completed rides. A user with no completed
// rides gets a zero-valued result.
func (s *Service) UserSpending(ctx context.Context, userID uuid.UUID) (*UserSpending, error) {
	groups, err := s.rides.Aggregate(ctx, ride.Aggregation{
		Match: ride.And{
			ride.Eq{Field: ride.FieldRequesterID, Value: userID},
			ride.Eq{Field: ride.FieldStatus, Value: ride.StatusCompleted},
		},
		Counters: []ride.Counter{
			ride.Count(counterCount),
			ride.Sum(counterSpent, ride.FieldFareAmount),
		},
	})
	if err != nil {
		return nil, apperrors.Internal("User spending aggregation failed", err)
	}

	spending := &UserSpending{UserID: userID}
	if len(groups) > 0 {
		v := groups[0].Values
		spending.TotalCompletedRides = int64(v[counterCount])
		spending.TotalSpent = v[counterSpent]
	}
	return spending, nil
}

func (s *Service) fromCache(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	raw, err := s.cache.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("Analytics cache read failed",
				logger.String("key", key), logger.Err(err))
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		s.logger.Warn("Analytics cache entry corrupt",
			logger.String("key", key), logger.Err(err))
		return false
	}
	return true
}

func (s *Service) toCache(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("Analytics cache write failed",
			logger.String("key", key), logger.Err(err))
	}
}
