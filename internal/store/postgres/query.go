package postgres

import (
	"fmt"
	"strings"
	"time"

	"github.com/gocomet/ride-booking/internal/domain/ride"
)

// columns maps predicate fields onto table columns. Keeping the mapping here
// keeps storage syntax out of the domain contract.
var columns = map[ride.Field]string{
	ride.FieldStatus:         "status",
	ride.FieldRequesterID:    "requester_id",
	ride.FieldDriverID:       "driver_id",
	ride.FieldPickupLocation: "pickup_location",
	ride.FieldDropLocation:   "drop_location",
	ride.FieldFareAmount:     "fare_amount",
	ride.FieldDistanceKm:     "distance_km",
	ride.FieldCreatedAt:      "created_at",
	ride.FieldCreatedDate:    "created_date",
}

// builder collects positional query arguments while SQL text is assembled.
type builder struct {
	args []interface{}
}

func (b *builder) bind(v interface{}) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

// compilePredicate renders a predicate tree as a SQL condition. And/Or
// compile to parenthesized conjunctions and disjunctions; Contains compiles
// to ILIKE with wildcard-escaped input.
func compilePredicate(p ride.Predicate, b *builder) (string, error) {
	switch v := p.(type) {
	case ride.Eq:
		col, ok := columns[v.Field]
		if !ok {
			return "", fmt.Errorf("unknown field %q", v.Field)
		}
		return fmt.Sprintf("%s = %s", col, b.bind(eqValue(v))), nil

	case ride.NumRange:
		col, ok := columns[v.Field]
		if !ok {
			return "", fmt.Errorf("unknown field %q", v.Field)
		}
		return fmt.Sprintf("%s BETWEEN %s AND %s", col, b.bind(v.Min), b.bind(v.Max)), nil

	case ride.DateRange:
		return fmt.Sprintf("created_date BETWEEN %s AND %s",
			b.bind(ride.DateOf(v.Start)), b.bind(ride.DateOf(v.End))), nil

	case ride.Contains:
		col, ok := columns[v.Field]
		if !ok {
			return "", fmt.Errorf("unknown field %q", v.Field)
		}
		return fmt.Sprintf("%s ILIKE %s", col, b.bind("%"+escapeLike(v.Text)+"%")), nil

	case ride.And:
		if len(v) == 0 {
			return "TRUE", nil
		}
		return compileJunction([]ride.Predicate(v), " AND ", b)

	case ride.Or:
		if len(v) == 0 {
			return "FALSE", nil
		}
		return compileJunction([]ride.Predicate(v), " OR ", b)
	}
	return "", fmt.Errorf("unsupported predicate %T", p)
}

func compileJunction(ps []ride.Predicate, op string, b *builder) (string, error) {
	parts := make([]string, 0, len(ps))
	for _, p := range ps {
		s, err := compilePredicate(p, b)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return "(" + strings.Join(parts, op) + ")", nil
}

func eqValue(p ride.Eq) interface{} {
	switch p.Field {
	case ride.FieldStatus:
		if s, ok := p.Value.(ride.Status); ok {
			return string(s)
		}
	case ride.FieldCreatedDate:
		if t, ok := p.Value.(time.Time); ok {
			return ride.DateOf(t)
		}
	}
	return p.Value
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// compileSort renders an ORDER BY clause; id is the fixed secondary key so
// equal-key ordering stays consistent across calls.
func compileSort(by *ride.Sort) (string, error) {
	if by == nil {
		return "ORDER BY created_at, id", nil
	}
	col, ok := columns[by.Field]
	if !ok {
		return "", fmt.Errorf("unknown sort field %q", by.Field)
	}
	dir := "ASC"
	if by.Descending {
		dir = "DESC"
	}
	return fmt.Sprintf("ORDER BY %s %s, id", col, dir), nil
}

// compilePage renders LIMIT/OFFSET for a zero-indexed page.
func compilePage(page *ride.Page, b *builder) string {
	if page == nil || page.Size <= 0 || page.Number < 0 {
		return ""
	}
	return fmt.Sprintf("LIMIT %s OFFSET %s", b.bind(page.Size), b.bind(page.Number*page.Size))
}
