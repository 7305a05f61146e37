package query

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/gocomet/ride-booking/internal/domain/ride"
	"github.com/gocomet/ride-booking/internal/store/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seedRide struct {
	requester uuid.UUID
	driver    *uuid.UUID
	pickup    string
	drop      string
	fare      float64
	distance  float64
	status    ride.Status
	createdAt time.Time
}

func seed(t *testing.T, store ride.Store, seeds []seedRide) []*ride.Ride {
	t.Helper()
	rides := make([]*ride.Ride, 0, len(seeds))
	for _, s := range seeds {
		r := &ride.Ride{
			ID:             uuid.New(),
			RequesterID:    s.requester,
			DriverID:       s.driver,
			PickupLocation: s.pickup,
			DropLocation:   s.drop,
			FareAmount:     s.fare,
			DistanceKm:     s.distance,
			Status:         s.status,
			CreatedAt:      s.createdAt,
			CreatedDate:    ride.DateOf(s.createdAt),
		}
		require.NoError(t, store.Create(context.Background(), r))
		rides = append(rides, r)
	}
	return rides
}

func day(d int) time.Time {
	return time.Date(2026, time.March, d, 14, 30, 0, 0, time.UTC)
}

// TestByStatus tests the status filter
func TestByStatus(t *testing.T) {
	store := memory.NewRideStore()
	svc := NewService(store)
	u := uuid.New()
	d := uuid.New()

	seed(t, store, []seedRide{
		{requester: u, pickup: "A", drop: "B", fare: 100, distance: 5, status: ride.StatusRequested, createdAt: day(1)},
		{requester: u, driver: &d, pickup: "C", drop: "D", fare: 200, distance: 8, status: ride.StatusAccepted, createdAt: day(2)},
		{requester: u, driver: &d, pickup: "E", drop: "F", fare: 300, distance: 12, status: ride.StatusCompleted, createdAt: day(3)},
	})

	requested, err := svc.ByStatus(context.Background(), ride.StatusRequested)
	require.NoError(t, err)
	require.Len(t, requested, 1)
	assert.Equal(t, "A", requested[0].PickupLocation)

	cancelled, err := svc.ByStatus(context.Background(), ride.StatusCancelled)
	require.NoError(t, err)
	assert.Empty(t, cancelled)
}

// TestByUserAndDriver tests the requester and driver lookups
func TestByUserAndDriver(t *testing.T) {
	store := memory.NewRideStore()
	svc := NewService(store)
	alice := uuid.New()
	bob := uuid.New()
	drv := uuid.New()

	seed(t, store, []seedRide{
		{requester: alice, pickup: "A", drop: "B", fare: 100, distance: 5, status: ride.StatusRequested, createdAt: day(1)},
		{requester: alice, driver: &drv, pickup: "C", drop: "D", fare: 200, distance: 8, status: ride.StatusAccepted, createdAt: day(2)},
		{requester: bob, driver: &drv, pickup: "E", drop: "F", fare: 300, distance: 12, status: ride.StatusCompleted, createdAt: day(3)},
	})

	aliceRides, err := svc.ByUser(context.Background(), alice)
	require.NoError(t, err)
	assert.Len(t, aliceRides, 2)

	driverRides, err := svc.ByDriver(context.Background(), drv)
	require.NoError(t, err)
	assert.Len(t, driverRides, 2)

	byStatus, err := svc.ByUserAndStatus(context.Background(), alice, ride.StatusAccepted)
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, "C", byStatus[0].PickupLocation)

	active, err := svc.ActiveForDriver(context.Background(), drv)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, ride.StatusAccepted, active[0].Status)
}

// TestKeywordSearch tests case-insensitive substring matching on locations
func TestKeywordSearch(t *testing.T) {
	store := memory.NewRideStore()
	svc := NewService(store)
	u := uuid.New()

	seed(t, store, []seedRide{
		{requester: u, pickup: "Airport Road", drop: "Downtown", fare: 100, distance: 5, status: ride.StatusRequested, createdAt: day(1)},
		{requester: u, pickup: "Station", drop: "AIRPORT Terminal 2", fare: 200, distance: 8, status: ride.StatusRequested, createdAt: day(2)},
		{requester: u, pickup: "Mall", drop: "Harbor", fare: 300, distance: 12, status: ride.StatusRequested, createdAt: day(3)},
	})

	got, err := svc.KeywordSearch(context.Background(), "airport")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	none, err := svc.KeywordSearch(context.Background(), "beach")
	require.NoError(t, err)
	assert.Empty(t, none)
}

// TestByDistanceRange tests inclusive bounds and inverted ranges
func TestByDistanceRange(t *testing.T) {
	store := memory.NewRideStore()
	svc := NewService(store)
	u := uuid.New()

	seed(t, store, []seedRide{
		{requester: u, pickup: "A", drop: "B", fare: 100, distance: 5, status: ride.StatusRequested, createdAt: day(1)},
		{requester: u, pickup: "C", drop: "D", fare: 200, distance: 10, status: ride.StatusRequested, createdAt: day(2)},
		{requester: u, pickup: "E", drop: "F", fare: 300, distance: 15, status: ride.StatusRequested, createdAt: day(3)},
	})

	t.Run("inclusive bounds", func(t *testing.T) {
		got, err := svc.ByDistanceRange(context.Background(), 5, 10)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("inverted range matches nothing", func(t *testing.T) {
		got, err := svc.ByDistanceRange(context.Background(), 10, 5)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

// TestByDate tests the date range and exact date filters
func TestByDate(t *testing.T) {
	store := memory.NewRideStore()
	svc := NewService(store)
	u := uuid.New()

	seed(t, store, []seedRide{
		{requester: u, pickup: "A", drop: "B", fare: 100, distance: 5, status: ride.StatusRequested, createdAt: day(1)},
		{requester: u, pickup: "C", drop: "D", fare: 200, distance: 8, status: ride.StatusRequested, createdAt: day(2)},
		{requester: u, pickup: "E", drop: "F", fare: 300, distance: 12, status: ride.StatusRequested, createdAt: day(5)},
	})

	inRange, err := svc.ByDateRange(context.Background(), day(1), day(2))
	require.NoError(t, err)
	assert.Len(t, inRange, 2)

	exact, err := svc.ByExactDate(context.Background(), day(5))
	require.NoError(t, err)
	require.Len(t, exact, 1)
	assert.Equal(t, "E", exact[0].PickupLocation)

	inverted, err := svc.ByDateRange(context.Background(), day(5), day(1))
	require.NoError(t, err)
	assert.Empty(t, inverted)
}

// TestSortByFare tests ordering and the ascending default for unknown orders
func TestSortByFare(t *testing.T) {
	store := memory.NewRideStore()
	svc := NewService(store)
	u := uuid.New()

	seed(t, store, []seedRide{
		{requester: u, pickup: "A", drop: "B", fare: 200, distance: 5, status: ride.StatusRequested, createdAt: day(1)},
		{requester: u, pickup: "C", drop: "D", fare: 100, distance: 8, status: ride.StatusRequested, createdAt: day(2)},
		{requester: u, pickup: "E", drop: "F", fare: 300, distance: 12, status: ride.StatusRequested, createdAt: day(3)},
	})

	fares := func(rides []*ride.Ride) []float64 {
		out := make([]float64, len(rides))
		for i, r := range rides {
			out[i] = r.FareAmount
		}
		return out
	}

	tests := []struct {
		order    string
		expected []float64
	}{
		{"asc", []float64{100, 200, 300}},
		{"desc", []float64{300, 200, 100}},
		{"DESC", []float64{300, 200, 100}},
		{"", []float64{100, 200, 300}},
		{"sideways", []float64{100, 200, 300}},
	}

	for _, tt := range tests {
		t.Run("order="+tt.order, func(t *testing.T) {
			got, err := svc.SortByFare(context.Background(), tt.order)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, fares(got))
		})
	}
}

// TestFilterByStatusAndKeyword tests the conjunction of both filters
func TestFilterByStatusAndKeyword(t *testing.T) {
	store := memory.NewRideStore()
	svc := NewService(store)
	u := uuid.New()
	d := uuid.New()

	seed(t, store, []seedRide{
		{requester: u, pickup: "Airport Road", drop: "Downtown", fare: 100, distance: 5, status: ride.StatusRequested, createdAt: day(1)},
		{requester: u, driver: &d, pickup: "Airport Road", drop: "Harbor", fare: 200, distance: 8, status: ride.StatusAccepted, createdAt: day(2)},
	})

	got, err := svc.FilterByStatusAndKeyword(context.Background(), ride.StatusRequested, "airport")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, ride.StatusRequested, got[0].Status)
}

// TestAdvancedSearch_Pagination seeds 25 rides and walks the pages
func TestAdvancedSearch_Pagination(t *testing.T) {
	store := memory.NewRideStore()
	svc := NewService(store)
	u := uuid.New()

	seeds := make([]seedRide, 25)
	for i := range seeds {
		seeds[i] = seedRide{
			requester: u,
			pickup:    fmt.Sprintf("loc-%02d", i),
			drop:      "somewhere",
			fare:      float64(100 + i),
			distance:  float64(i + 1),
			status:    ride.StatusRequested,
			createdAt: day(1).Add(time.Duration(i) * time.Minute),
		}
	}
	seed(t, store, seeds)

	sizes := []int{10, 10, 5, 0}
	for page, want := range sizes {
		got, err := svc.AdvancedSearch(context.Background(), AdvancedSearchParams{Page: page})
		require.NoError(t, err)
		assert.Len(t, got, want, "page %d", page)
	}
}

// TestAdvancedSearch_Composition tests filter composition, sorting and defaults
func TestAdvancedSearch_Composition(t *testing.T) {
	store := memory.NewRideStore()
	svc := NewService(store)
	u := uuid.New()
	d := uuid.New()

	seed(t, store, []seedRide{
		{requester: u, pickup: "Airport Road", drop: "Downtown", fare: 300, distance: 15, status: ride.StatusRequested, createdAt: day(1)},
		{requester: u, driver: &d, pickup: "Airport Terminal", drop: "Harbor", fare: 100, distance: 5, status: ride.StatusAccepted, createdAt: day(2)},
		{requester: u, pickup: "Mall", drop: "Station", fare: 200, distance: 8, status: ride.StatusRequested, createdAt: day(3)},
	})

	t.Run("keyword and status conjoined", func(t *testing.T) {
		got, err := svc.AdvancedSearch(context.Background(), AdvancedSearchParams{
			Search: "airport",
			Status: string(ride.StatusRequested),
		})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, 300.0, got[0].FareAmount)
	})

	t.Run("default sort is fare ascending", func(t *testing.T) {
		got, err := svc.AdvancedSearch(context.Background(), AdvancedSearchParams{})
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, 100.0, got[0].FareAmount)
		assert.Equal(t, 300.0, got[2].FareAmount)
	})

	t.Run("sort by distance descending", func(t *testing.T) {
		got, err := svc.AdvancedSearch(context.Background(), AdvancedSearchParams{
			SortBy: "distanceKm",
			Order:  "desc",
		})
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, 15.0, got[0].DistanceKm)
	})

	t.Run("unknown sort field falls back to fare", func(t *testing.T) {
		got, err := svc.AdvancedSearch(context.Background(), AdvancedSearchParams{SortBy: "color"})
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, 100.0, got[0].FareAmount)
	})

	t.Run("no filters matches everything", func(t *testing.T) {
		got, err := svc.AdvancedSearch(context.Background(), AdvancedSearchParams{Size: 100})
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})
}
