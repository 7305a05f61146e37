package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/gocomet/ride-booking/internal/domain/ride"
	"github.com/google/uuid"
)

const rideColumns = `id, requester_id, driver_id, pickup_location, drop_location,
	fare_amount, distance_km, status, created_at, created_date`

// RideStore persists rides in PostgreSQL. Transitions use conditional
// UPDATE ... WHERE status = expected, so the database's per-row atomicity
// guarantees at most one winner for racing accepts.
type RideStore struct {
	db *sql.DB
}

// NewRideStore creates a PostgreSQL-backed ride store.
func NewRideStore(db *sql.DB) *RideStore {
	return &RideStore{db: db}
}

// Create implements ride.Store
func (s *RideStore) Create(ctx context.Context, r *ride.Ride) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO rides (`+rideColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, r.ID, r.RequesterID, driverValue(r.DriverID), r.PickupLocation, r.DropLocation,
		r.FareAmount, r.DistanceKm, string(r.Status), r.CreatedAt, r.CreatedDate)
	if err != nil {
		return fmt.Errorf("failed to insert ride: %w", err)
	}
	return nil
}

// GetByID implements ride.Store
func (s *RideStore) GetByID(ctx context.Context, id uuid.UUID) (*ride.Ride, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+rideColumns+` FROM rides WHERE id = $1`, id)
	return scanRide(row)
}

// AssignDriver implements ride.Store
func (s *RideStore) AssignDriver(ctx context.Context, rideID, driverID uuid.UUID) (*ride.Ride, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE rides SET driver_id = $2, status = $3
		WHERE id = $1 AND status = $4
		RETURNING `+rideColumns+`
	`, rideID, driverID, string(ride.StatusAccepted), string(ride.StatusRequested))

	r, err := scanRide(row)
	if err == ride.ErrRideNotFound {
		return nil, s.transitionFailure(ctx, rideID)
	}
	return r, err
}

// UpdateStatus implements ride.Store
func (s *RideStore) UpdateStatus(ctx context.Context, id uuid.UUID, from, to ride.Status) (*ride.Ride, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE rides SET status = $2
		WHERE id = $1 AND status = $3
		RETURNING `+rideColumns+`
	`, id, string(to), string(from))

	r, err := scanRide(row)
	if err == ride.ErrRideNotFound {
		return nil, s.transitionFailure(ctx, id)
	}
	return r, err
}

// transitionFailure distinguishes a missing ride from a status mismatch
// after a conditional update touched no rows.
func (s *RideStore) transitionFailure(ctx context.Context, id uuid.UUID) error {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM rides WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check ride existence: %w", err)
	}
	if !exists {
		return ride.ErrRideNotFound
	}
	return ride.ErrInvalidStatus
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

// Find implements ride.Store by compiling the predicate tree to SQL.
func (s *RideStore) Find(ctx context.Context, p ride.Predicate, by *ride.Sort, page *ride.Page) ([]*ride.Ride, error) {
	b := &builder{}

	where := "TRUE"
	if p != nil {
		var err error
		where, err = compilePredicate(p, b)
		if err != nil {
			return nil, err
		}
	}

	orderBy, err := compileSort(by)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s FROM rides WHERE %s %s %s`,
		rideColumns, where, orderBy, compilePage(page, b))

	rows, err := s.db.QueryContext(ctx, query, b.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query rides: %w", err)
	}
	defer rows.Close()

	var rides []*ride.Ride
	for rows.Next() {
		r, err := scanRide(rows)
		if err != nil {
			return nil, err
		}
		rides = append(rides, r)
	}
	if rides == nil {
		rides = []*ride.Ride{}
	}
	return rides, rows.Err()
}

// Aggregate implements ride.Store with native SQL aggregation. Conditional
// counts compile to COUNT(*) FILTER (WHERE ...); sums and averages are
// COALESCEd so empty groups come back as zero.
func (s *RideStore) Aggregate(ctx context.Context, agg ride.Aggregation) ([]ride.Group, error) {
	b := &builder{}

	selects := make([]string, 0, len(agg.Counters)+1)
	if agg.GroupBy != "" {
		col, ok := columns[agg.GroupBy]
		if !ok {
			return nil, fmt.Errorf("unknown group field %q", agg.GroupBy)
		}
		selects = append(selects, col+" AS grp_key")
	}

	for i, c := range agg.Counters {
		expr, err := counterExpr(c, b)
		if err != nil {
			return nil, err
		}
		selects = append(selects, fmt.Sprintf("%s AS c%d", expr, i))
	}

	where := "TRUE"
	if agg.Match != nil {
		var err error
		where, err = compilePredicate(agg.Match, b)
		if err != nil {
			return nil, err
		}
	}

	query := fmt.Sprintf("SELECT %s FROM rides WHERE %s", strings.Join(selects, ", "), where)
	if agg.GroupBy != "" {
		query += " GROUP BY grp_key"
	}
	if order := aggregateOrder(agg); order != "" {
		query += " " + order
	}

	rows, err := s.db.QueryContext(ctx, query, b.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate rides: %w", err)
	}
	defer rows.Close()

	var groups []ride.Group
	for rows.Next() {
		g, err := scanGroup(rows, agg)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func counterExpr(c ride.Counter, b *builder) (string, error) {
	switch c.Kind {
	case ride.CounterCount:
		if c.Filter == nil {
			return "COUNT(*)::float8", nil
		}
		cond, err := compilePredicate(c.Filter, b)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(COUNT(*) FILTER (WHERE %s))::float8", cond), nil
	case ride.CounterSum:
		col, ok := columns[c.Field]
		if !ok {
			return "", fmt.Errorf("unknown counter field %q", c.Field)
		}
		return fmt.Sprintf("COALESCE(SUM(%s), 0)::float8", col), nil
	case ride.CounterAvg:
		col, ok := columns[c.Field]
		if !ok {
			return "", fmt.Errorf("unknown counter field %q", c.Field)
		}
		return fmt.Sprintf("COALESCE(AVG(%s), 0)::float8", col), nil
	}
	return "", fmt.Errorf("unsupported counter kind %q", c.Kind)
}

func aggregateOrder(agg ride.Aggregation) string {
	if agg.SortBy == "" {
		return ""
	}
	dir := "ASC"
	if agg.Desc {
		dir = "DESC"
	}
	if agg.SortBy == ride.SortByKey {
		return "ORDER BY grp_key " + dir
	}
	for i, c := range agg.Counters {
		if c.Name == agg.SortBy {
			return fmt.Sprintf("ORDER BY c%d %s", i, dir)
		}
	}
	return ""
}

func scanGroup(rows *sql.Rows, agg ride.Aggregation) (ride.Group, error) {
	values := make([]float64, len(agg.Counters))
	dest := make([]interface{}, 0, len(values)+1)

	var statusKey string
	var dateKey time.Time
	var idKey uuid.UUID
	if agg.GroupBy != "" {
		switch agg.GroupBy {
		case ride.FieldStatus:
			dest = append(dest, &statusKey)
		case ride.FieldCreatedDate:
			dest = append(dest, &dateKey)
		default:
			dest = append(dest, &idKey)
		}
	}
	for i := range values {
		dest = append(dest, &values[i])
	}

	if err := rows.Scan(dest...); err != nil {
		return ride.Group{}, fmt.Errorf("failed to scan aggregation row: %w", err)
	}

	g := ride.Group{Values: make(map[string]float64, len(agg.Counters))}
	switch agg.GroupBy {
	case "":
		g.Key = nil
	case ride.FieldStatus:
		g.Key = ride.Status(statusKey)
	case ride.FieldCreatedDate:
		g.Key = ride.DateOf(dateKey)
	default:
		g.Key = idKey
	}
	for i, c := range agg.Counters {
		g.Values[c.Name] = values[i]
	}
	return g, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRide(row rowScanner) (*ride.Ride, error) {
	var r ride.Ride
	var driverID uuid.NullUUID
	var status string

	err := row.Scan(&r.ID, &r.RequesterID, &driverID, &r.PickupLocation, &r.DropLocation,
		&r.FareAmount, &r.DistanceKm, &status, &r.CreatedAt, &r.CreatedDate)
	if err == sql.ErrNoRows {
		return nil, ride.ErrRideNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan ride: %w", err)
	}

	if driverID.Valid {
		d := driverID.UUID
		r.DriverID = &d
	}
	r.Status = ride.Status(status)
	r.CreatedDate = ride.DateOf(r.CreatedDate)
	return &r, nil
}

func driverValue(id *uuid.UUID) interface{} {
	if id == nil {
		return nil
	}
	return *id
}
