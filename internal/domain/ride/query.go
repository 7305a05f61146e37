package ride

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Field names a queryable ride attribute.
type Field string

const (
	FieldStatus         Field = "status"
	FieldRequesterID    Field = "requester_id"
	FieldDriverID       Field = "driver_id"
	FieldPickupLocation Field = "pickup_location"
	FieldDropLocation   Field = "drop_location"
	FieldFareAmount     Field = "fare_amount"
	FieldDistanceKm     Field = "distance_km"
	FieldCreatedAt      Field = "created_at"
	FieldCreatedDate    Field = "created_date"
)

// Predicate is a closed expression tree over ride attributes. The variants
// are Eq, NumRange, DateRange, Contains, And and Or; stores either evaluate
// them in memory via Matches or compile them to native query syntax.
type Predicate interface {
	Matches(r *Ride) bool
}

// Eq matches rides whose field equals a value. Supported fields: status,
// requester_id, driver_id, created_date.
type Eq struct {
	Field Field
	Value interface{}
}

// Matches implements Predicate
func (p Eq) Matches(r *Ride) bool {
	switch p.Field {
	case FieldStatus:
		s, ok := p.Value.(Status)
		return ok && r.Status == s
	case FieldRequesterID:
		id, ok := p.Value.(uuid.UUID)
		return ok && r.RequesterID == id
	case FieldDriverID:
		id, ok := p.Value.(uuid.UUID)
		return ok && r.DriverID != nil && *r.DriverID == id
	case FieldCreatedDate:
		d, ok := p.Value.(time.Time)
		return ok && r.CreatedDate.Equal(DateOf(d))
	}
	return false
}

// NumRange matches rides whose numeric field lies in [Min, Max], both
// bounds inclusive. An inverted range matches nothing.
type NumRange struct {
	Field Field
	Min   float64
	Max   float64
}

// Matches implements Predicate
func (p NumRange) Matches(r *Ride) bool {
	var v float64
	switch p.Field {
	case FieldFareAmount:
		v = r.FareAmount
	case FieldDistanceKm:
		v = r.DistanceKm
	default:
		return false
	}
	return v >= p.Min && v <= p.Max
}

// DateRange matches rides whose created date lies in [Start, End] inclusive.
// Bounds are truncated to calendar days before comparison.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Matches implements Predicate
func (p DateRange) Matches(r *Ride) bool {
	d := r.CreatedDate
	return !d.Before(DateOf(p.Start)) && !d.After(DateOf(p.End))
}

// Contains matches rides whose text field contains Text, case-insensitively.
// Supported fields: pickup_location, drop_location.
type Contains struct {
	Field Field
	Text  string
}

// Matches implements Predicate
func (p Contains) Matches(r *Ride) bool {
	var v string
	switch p.Field {
	case FieldPickupLocation:
		v = r.PickupLocation
	case FieldDropLocation:
		v = r.DropLocation
	default:
		return false
	}
	return strings.Contains(strings.ToLower(v), strings.ToLower(p.Text))
}

// And matches rides satisfying every child predicate. Empty And matches all.
type And []Predicate

// Matches implements Predicate
func (ps And) Matches(r *Ride) bool {
	for _, p := range ps {
		if !p.Matches(r) {
			return false
		}
	}
	return true
}

// Or matches rides satisfying at least one child predicate.
type Or []Predicate

// Matches implements Predicate
func (ps Or) Matches(r *Ride) bool {
	for _, p := range ps {
		if p.Matches(r) {
			return true
		}
	}
	return false
}

// Keyword builds the pickup-OR-drop substring filter used by keyword search.
func Keyword(text string) Predicate {
	return Or{
		Contains{Field: FieldPickupLocation, Text: text},
		Contains{Field: FieldDropLocation, Text: text},
	}
}

// Sort describes a single-key sort. Ordering on equal keys is stable and
// follows the store-native order.
type Sort struct {
	Field      Field
	Descending bool
}

// Page describes zero-indexed pagination. A page past the end of the result
// set yields an empty slice.
type Page struct {
	Number int
	Size   int
}
