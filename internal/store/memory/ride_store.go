package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gocomet/ride-booking/internal/domain/ride"
	"github.com/google/uuid"
)

// RideStore keeps rides in memory guarded by a RWMutex. The mutex gives the
// atomic single-record read-modify-write the lifecycle engine relies on:
// concurrent accepts of the same ride serialize here and the loser sees
// ErrInvalidStatus. Insertion order is retained so unsorted queries and sort
// tie-breaks stay deterministic.
type RideStore struct {
	mu    sync.RWMutex
	rides map[uuid.UUID]*ride.Ride
	order []uuid.UUID
}

// NewRideStore creates an empty in-memory ride store.
func NewRideStore() *RideStore {
	return &RideStore{
		rides: make(map[uuid.UUID]*ride.Ride),
	}
}

// Create implements ride.Store
func (s *RideStore) Create(ctx context.Context, r *ride.Ride) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *r
	s.rides[r.ID] = &cp
	s.order = append(s.order, r.ID)
	return nil
}

// GetByID implements ride.Store
func (s *RideStore) GetByID(ctx context.Context, id uuid.UUID) (*ride.Ride, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rides[id]
	if !ok {
		return nil, ride.ErrRideNotFound
	}
	cp := *r
	return &cp, nil
}

// AssignDriver implements ride.Store
func (s *RideStore) AssignDriver(ctx context.Context, rideID, driverID uuid.UUID) (*ride.Ride, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rides[rideID]
	if !ok {
		return nil, ride.ErrRideNotFound
	}
	if r.Status != ride.StatusRequested {
		return nil, ride.ErrInvalidStatus
	}

	d := driverID
	r.DriverID = &d
	r.Status = ride.StatusAccepted
	cp := *r
	return &cp, nil
}

// UpdateStatus implements ride.Store
func (s *RideStore) UpdateStatus(ctx context.Context, id uuid.UUID, from, to ride.Status) (*ride.Ride, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rides[id]
	if !ok {
		return nil, ride.ErrRideNotFound
	}
	if r.Status != from {
		return nil, ride.ErrInvalidStatus
	}

	r.Status = to
	cp := *r
	return &cp, nil
}

// FindByStatus implements ride.Store
func (s *RideStore) FindByStatus(ctx context.Context, status ride.Status) ([]*ride.Ride, error) {
	return s.Find(ctx, ride.Eq{Field: ride.FieldStatus, Value: status}, nil, nil)
}

// FindByUser implements ride.Store
func (s *RideStore) FindByUser(ctx context.Context, userID uuid.UUID) ([]*ride.Ride, error) {
	return s.Find(ctx, ride.Eq{Field: ride.FieldRequesterID, Value: userID}, nil, nil)
}

// FindByDriver implements ride.Store
func (s *RideStore) FindByDriver(ctx context.Context, driverID uuid.UUID) ([]*ride.Ride, error) {
	return s.Find(ctx, ride.Eq{Field: ride.FieldDriverID, Value: driverID}, nil, nil)
}

// Find implements ride.Store. Rides are scanned in insertion order, filtered,
// stably sorted and then paginated.
func (s *RideStore) Find(ctx context.Context, p ride.Predicate, by *ride.Sort, page *ride.Page) ([]*ride.Ride, error) {
	s.mu.RLock()

	matched := make([]*ride.Ride, 0, len(s.order))
	for _, id := range s.order {
		r := s.rides[id]
		if p == nil || p.Matches(r) {
			cp := *r
			matched = append(matched, &cp)
		}
	}
	s.mu.RUnlock()

	if by != nil {
		sortRides(matched, *by)
	}

	if page != nil {
		matched = paginate(matched, *page)
	}
	return matched, nil
}

func sortRides(rides []*ride.Ride, by ride.Sort) {
	less := func(a, b *ride.Ride) bool { return false }
	switch by.Field {
	case ride.FieldFareAmount:
		less = func(a, b *ride.Ride) bool { return a.FareAmount < b.FareAmount }
	case ride.FieldDistanceKm:
		less = func(a, b *ride.Ride) bool { return a.DistanceKm < b.DistanceKm }
	case ride.FieldCreatedAt:
		less = func(a, b *ride.Ride) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case ride.FieldCreatedDate:
		less = func(a, b *ride.Ride) bool { return a.CreatedDate.Before(b.CreatedDate) }
	case ride.FieldStatus:
		less = func(a, b *ride.Ride) bool { return a.Status < b.Status }
	case ride.FieldPickupLocation:
		less = func(a, b *ride.Ride) bool { return a.PickupLocation < b.PickupLocation }
	case ride.FieldDropLocation:
		less = func(a, b *ride.Ride) bool { return a.DropLocation < b.DropLocation }
	}

	sort.SliceStable(rides, func(i, j int) bool {
		if by.Descending {
			return less(rides[j], rides[i])
		}
		return less(rides[i], rides[j])
	})
}

func paginate(rides []*ride.Ride, page ride.Page) []*ride.Ride {
	if page.Size <= 0 || page.Number < 0 {
		return rides
	}
	start := page.Number * page.Size
	if start >= len(rides) {
		return []*ride.Ride{}
	}
	end := start + page.Size
	if end > len(rides) {
		end = len(rides)
	}
	return rides[start:end]
}

// Aggregate implements ride.Store via in-memory reduction.
func (s *RideStore) Aggregate(ctx context.Context, agg ride.Aggregation) ([]ride.Group, error) {
	s.mu.RLock()
	matched := make([]*ride.Ride, 0, len(s.order))
	for _, id := range s.order {
		r := s.rides[id]
		if agg.Match == nil || agg.Match.Matches(r) {
			matched = append(matched, r)
		}
	}

	groups := groupRides(matched, agg)
	s.mu.RUnlock()

	sortGroups(groups, agg)
	return groups, nil
}

func groupRides(matched []*ride.Ride, agg ride.Aggregation) []ride.Group {
	type bucket struct {
		key   interface{}
		rides []*ride.Ride
	}

	var buckets []*bucket
	if agg.GroupBy == "" {
		// Single group over everything matched, present even when empty so
		// zero-match aggregations produce all-zero values.
		buckets = []*bucket{{key: nil, rides: matched}}
	} else {
		index := make(map[interface{}]*bucket)
		for _, r := range matched {
			key := groupKey(r, agg.GroupBy)
			b, ok := index[key]
			if !ok {
				b = &bucket{key: key}
				index[key] = b
				buckets = append(buckets, b)
			}
			b.rides = append(b.rides, r)
		}
	}

	groups := make([]ride.Group, 0, len(buckets))
	for _, b := range buckets {
		values := make(map[string]float64, len(agg.Counters))
		for _, c := range agg.Counters {
			values[c.Name] = reduce(b.rides, c)
		}
		groups = append(groups, ride.Group{Key: b.key, Values: values})
	}
	return groups
}

func groupKey(r *ride.Ride, f ride.Field) interface{} {
	switch f {
	case ride.FieldStatus:
		return r.Status
	case ride.FieldCreatedDate:
		return r.CreatedDate
	case ride.FieldRequesterID:
		return r.RequesterID
	case ride.FieldDriverID:
		if r.DriverID == nil {
			return uuid.Nil
		}
		return *r.DriverID
	}
	return nil
}

func reduce(rides []*ride.Ride, c ride.Counter) float64 {
	switch c.Kind {
	case ride.CounterCount:
		n := 0
		for _, r := range rides {
			if c.Filter == nil || c.Filter.Matches(r) {
				n++
			}
		}
		return float64(n)
	case ride.CounterSum:
		sum := 0.0
		for _, r := range rides {
			sum += ride.NumericField(r, c.Field)
		}
		return sum
	case ride.CounterAvg:
		if len(rides) == 0 {
			return 0
		}
		sum := 0.0
		for _, r := range rides {
			sum += ride.NumericField(r, c.Field)
		}
		return sum / float64(len(rides))
	}
	return 0
}

func sortGroups(groups []ride.Group, agg ride.Aggregation) {
	if agg.SortBy == "" {
		return
	}

	less := func(a, b ride.Group) bool {
		if agg.SortBy == ride.SortByKey {
			return keyLess(a.Key, b.Key)
		}
		return a.Values[agg.SortBy] < b.Values[agg.SortBy]
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if agg.Desc {
			return less(groups[j], groups[i])
		}
		return less(groups[i], groups[j])
	})
}

func keyLess(a, b interface{}) bool {
	switch av := a.(type) {
	case ride.Status:
		bv, ok := b.(ride.Status)
		return ok && av < bv
	case time.Time:
		bv, ok := b.(time.Time)
		return ok && av.Before(bv)
	case uuid.UUID:
		bv, ok := b.(uuid.UUID)
		return ok && av.String() < bv.String()
	}
	return false
}
