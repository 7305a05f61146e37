package ride

// CounterKind selects how a counter folds matched rides into a number.
type CounterKind string

const (
	CounterCount CounterKind = "count"
	CounterSum   CounterKind = "sum"
	CounterAvg   CounterKind = "avg"
)

// Counter defines one computed value per group. Count ignores Field; Sum and
// Avg read Field (fare_amount or distance_km). An optional Filter restricts
// which rides a Count counter counts. Sums and averages over zero matched
// rides yield 0, never NaN.
type Counter struct {
	Name   string
	Kind   CounterKind
	Field  Field
	Filter Predicate
}

// SortByKey sorts resulting groups by their group key instead of a counter.
const SortByKey = "_key"

// Aggregation is a storage-agnostic group-by-counter specification: an
// optional match predicate, a group key field (empty groups everything into
// a single group), counter definitions, and result ordering. Backends execute
// it via in-memory reduction or native aggregation.
type Aggregation struct {
	Match    Predicate
	GroupBy  Field
	Counters []Counter
	SortBy   string
	Desc     bool
}

// Group is one row of an aggregation result. Key is the group key value
// (a Status or a day timestamp), or nil for ungrouped aggregations.
type Group struct {
	Key    interface{}
	Values map[string]float64
}

// Count is shorthand for an unconditional count counter.
func Count(name string) Counter {
	return Counter{Name: name, Kind: CounterCount}
}

// CountWhere counts only rides matching p.
func CountWhere(name string, p Predicate) Counter {
	return Counter{Name: name, Kind: CounterCount, Filter: p}
}

// Sum sums a numeric field across the group.
func Sum(name string, field Field) Counter {
	return Counter{Name: name, Kind: CounterSum, Field: field}
}

// Avg averages a numeric field across the group.
func Avg(name string, field Field) Counter {
	return Counter{Name: name, Kind: CounterAvg, Field: field}
}

// NumericField reads a Sum/Avg source field off a ride.
func NumericField(r *Ride, f Field) float64 {
	switch f {
	case FieldFareAmount:
		return r.FareAmount
	case FieldDistanceKm:
		return r.DistanceKm
	}
	return 0
}
