package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/gocomet/ride-booking/internal/domain/ride"
	"github.com/gocomet/ride-booking/internal/store/memory"
	"github.com/gocomet/ride-booking/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, ride.Store) {
	t.Helper()
	store := memory.NewRideStore()
	return NewService(store, nil, time.Minute, logger.Nop()), store
}

func addRide(t *testing.T, store ride.Store, requester uuid.UUID, driver *uuid.UUID, status ride.Status, fare, distance float64, createdAt time.Time) {
	t.Helper()
	err := store.Create(context.Background(), &ride.Ride{
		ID:             uuid.New(),
		RequesterID:    requester,
		DriverID:       driver,
		PickupLocation: "A",
		DropLocation:   "B",
		FareAmount:     fare,
		DistanceKm:     distance,
		Status:         status,
		CreatedAt:      createdAt,
		CreatedDate:    ride.DateOf(createdAt),
	})
	require.NoError(t, err)
}

// TestRidesPerDay tests day grouping with most recent day first
func TestRidesPerDay(t *testing.T) {
	svc, store := newTestService(t)
	u := uuid.New()

	older := time.Date(2026, time.April, 10, 9, 0, 0, 0, time.UTC)
	newer := time.Date(2026, time.April, 12, 18, 0, 0, 0, time.UTC)

	for i := 0; i < 8; i++ {
		addRide(t, store, u, nil, ride.StatusRequested, 100, 5, older)
	}
	for i := 0; i < 10; i++ {
		addRide(t, store, u, nil, ride.StatusRequested, 100, 5, newer)
	}

	got, err := svc.RidesPerDay(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.True(t, got[0].Date.Equal(ride.DateOf(newer)))
	assert.Equal(t, int64(10), got[0].Count)
	assert.True(t, got[1].Date.Equal(ride.DateOf(older)))
	assert.Equal(t, int64(8), got[1].Count)
}

// TestRidesPerDay_Empty tests the empty collection
func TestRidesPerDay_Empty(t *testing.T) {
	svc, _ := newTestService(t)

	got, err := svc.RidesPerDay(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

// TestStatusSummary tests the status histogram ordered by count descending
func TestStatusSummary(t *testing.T) {
	svc, store := newTestService(t)
	u := uuid.New()
	d := uuid.New()
	now := time.Now()

	for i := 0; i < 5; i++ {
		addRide(t, store, u, &d, ride.StatusCompleted, 100, 5, now)
	}
	for i := 0; i < 3; i++ {
		addRide(t, store, u, nil, ride.StatusRequested, 100, 5, now)
	}
	addRide(t, store, u, &d, ride.StatusAccepted, 100, 5, now)

	got, err := svc.StatusSummary(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, ride.StatusCompleted, got[0].Status)
	assert.Equal(t, int64(5), got[0].Count)
	assert.Equal(t, ride.StatusRequested, got[1].Status)
	assert.Equal(t, int64(3), got[1].Count)
	assert.Equal(t, ride.StatusAccepted, got[2].Status)
	assert.Equal(t, int64(1), got[2].Count)
}

// TestDriverSummary tests the per-driver rollup
func TestDriverSummary(t *testing.T) {
	svc, store := newTestService(t)
	u := uuid.New()
	drv := uuid.New()
	other := uuid.New()
	now := time.Now()

	addRide(t, store, u, &drv, ride.StatusCompleted, 100, 10, now)
	addRide(t, store, u, &drv, ride.StatusCompleted, 200, 20, now)
	addRide(t, store, u, &drv, ride.StatusAccepted, 300, 30, now)
	// Another driver's ride must not leak in
	addRide(t, store, u, &other, ride.StatusCompleted, 999, 99, now)

	got, err := svc.DriverSummary(context.Background(), drv)
	require.NoError(t, err)

	assert.Equal(t, drv, got.DriverID)
	assert.Equal(t, int64(3), got.TotalRides)
	assert.Equal(t, int64(2), got.CompletedRides)
	assert.Equal(t, int64(0), got.CancelledRides)
	assert.InDelta(t, 20.0, got.AvgDistance, 1e-9)
	assert.InDelta(t, 600.0, got.TotalFare, 1e-9)
}

// TestDriverSummary_NoRides tests that an unknown driver gets zeros, not NaN
func TestDriverSummary_NoRides(t *testing.T) {
	svc, _ := newTestService(t)
	drv := uuid.New()

	got, err := svc.DriverSummary(context.Background(), drv)
	require.NoError(t, err)

	assert.Equal(t, drv, got.DriverID)
	assert.Equal(t, int64(0), got.TotalRides)
	assert.Equal(t, 0.0, got.AvgDistance)
	assert.Equal(t, 0.0, got.TotalFare)
}

// TestUserSpending tests the completed-rides spend rollup
func TestUserSpending(t *testing.T) {
	svc, store := newTestService(t)
	u := uuid.New()
	d := uuid.New()
	now := time.Now()

	addRide(t, store, u, &d, ride.StatusCompleted, 150, 10, now)
	addRide(t, store, u, &d, ride.StatusCompleted, 250, 20, now)
	// Non-completed and other-user rides are excluded
	addRide(t, store, u, &d, ride.StatusAccepted, 400, 30, now)
	addRide(t, store, uuid.New(), &d, ride.StatusCompleted, 900, 40, now)

	got, err := svc.UserSpending(context.Background(), u)
	require.NoError(t, err)

	assert.Equal(t, u, got.UserID)
	assert.Equal(t, int64(2), got.TotalCompletedRides)
	assert.InDelta(t, 400.0, got.TotalSpent, 1e-9)
}

// TestUserSpending_NoRides tests the zero-valued default
func TestUserSpending_NoRides(t *testing.T) {
	svc, _ := newTestService(t)
	u := uuid.New()

	got, err := svc.UserSpending(context.Background(), u)
	require.NoError(t, err)

	assert.Equal(t, int64(0), got.TotalCompletedRides)
	assert.Equal(t, 0.0, got.TotalSpent)
}
