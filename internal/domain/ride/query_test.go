package ride

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func sampleRide() *Ride {
	d := uuid.New()
	at := time.Date(2026, time.August, 10, 16, 20, 0, 0, time.UTC)
	return &Ride{
		ID:             uuid.New(),
		RequesterID:    uuid.New(),
		DriverID:       &d,
		PickupLocation: "Airport Road",
		DropLocation:   "Central Station",
		FareAmount:     180,
		DistanceKm:     12.5,
		Status:         StatusAccepted,
		CreatedAt:      at,
		CreatedDate:    DateOf(at),
	}
}

// TestPredicates tests each variant's matching semantics
func TestPredicates(t *testing.T) {
	r := sampleRide()

	tests := []struct {
		name string
		pred Predicate
		want bool
	}{
		{"status match", Eq{Field: FieldStatus, Value: StatusAccepted}, true},
		{"status mismatch", Eq{Field: FieldStatus, Value: StatusRequested}, false},
		{"driver match", Eq{Field: FieldDriverID, Value: *r.DriverID}, true},
		{"driver mismatch", Eq{Field: FieldDriverID, Value: uuid.New()}, false},
		{"date match ignores time of day", Eq{Field: FieldCreatedDate, Value: r.CreatedAt}, true},
		{"fare in range", NumRange{Field: FieldFareAmount, Min: 100, Max: 200}, true},
		{"fare at inclusive bound", NumRange{Field: FieldFareAmount, Min: 180, Max: 180}, true},
		{"fare out of range", NumRange{Field: FieldFareAmount, Min: 200, Max: 300}, false},
		{"inverted range", NumRange{Field: FieldFareAmount, Min: 200, Max: 100}, false},
		{"contains case-insensitive", Contains{Field: FieldPickupLocation, Text: "AIRPORT"}, true},
		{"contains no match", Contains{Field: FieldDropLocation, Text: "harbor"}, false},
		{"keyword hits drop location", Keyword("station"), true},
		{"keyword misses both", Keyword("harbor"), false},
		{"empty and matches all", And{}, true},
		{"empty or matches none", Or{}, false},
		{
			name: "and short-circuits on failure",
			pred: And{
				Eq{Field: FieldStatus, Value: StatusAccepted},
				Contains{Field: FieldPickupLocation, Text: "harbor"},
			},
			want: false,
		},
		{
			name: "or succeeds on second branch",
			pred: Or{
				Eq{Field: FieldStatus, Value: StatusRequested},
				NumRange{Field: FieldDistanceKm, Min: 10, Max: 15},
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.pred.Matches(r))
		})
	}
}

// TestDateRange tests inclusive day bounds with truncation
func TestDateRange(t *testing.T) {
	r := sampleRide() // created on 2026-08-10

	assert.True(t, DateRange{
		Start: time.Date(2026, time.August, 10, 23, 0, 0, 0, time.UTC),
		End:   time.Date(2026, time.August, 10, 1, 0, 0, 0, time.UTC),
	}.Matches(r), "bounds on the same day match regardless of time")

	assert.True(t, DateRange{
		Start: time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC),
	}.Matches(r))

	assert.False(t, DateRange{
		Start: time.Date(2026, time.August, 11, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, time.August, 20, 0, 0, 0, 0, time.UTC),
	}.Matches(r))
}
