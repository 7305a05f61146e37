package lifecycle

import (
	"context"
	"sync"
	"testing"

	"github.com/gocomet/ride-booking/internal/domain/ride"
	"github.com/gocomet/ride-booking/internal/domain/user"
	"github.com/gocomet/ride-booking/internal/store/memory"
	apperrors "github.com/gocomet/ride-booking/pkg/errors"
	"github.com/gocomet/ride-booking/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() (*Service, ride.Store) {
	store := memory.NewRideStore()
	return NewService(store, logger.Nop()), store
}

func validInput() CreateRideInput {
	return CreateRideInput{
		PickupLocation: "Indiranagar",
		DropLocation:   "Koramangala",
		FareAmount:     250.0,
		DistanceKm:     7.5,
	}
}

// TestCreateRide_Success tests ride creation by a passenger
func TestCreateRide_Success(t *testing.T) {
	svc, store := newTestService()
	passenger := uuid.New()

	r, err := svc.CreateRide(context.Background(), passenger, user.RoleUser, validInput())
	require.NoError(t, err)

	assert.Equal(t, ride.StatusRequested, r.Status)
	assert.Equal(t, passenger, r.RequesterID)
	assert.Nil(t, r.DriverID)
	assert.Equal(t, "Indiranagar", r.PickupLocation)
	assert.Equal(t, 250.0, r.FareAmount)
	assert.Equal(t, ride.DateOf(r.CreatedAt), r.CreatedDate)

	// Persisted, not just returned
	stored, err := store.GetByID(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.ID, stored.ID)
}

// TestCreateRide_DriverRejected tests that drivers cannot request rides
func TestCreateRide_DriverRejected(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateRide(context.Background(), uuid.New(), user.RoleDriver, validInput())
	assert.True(t, apperrors.IsAuthorization(err))
}

// TestCreateRide_RoleCheckedBeforeValidation tests that a driver with an
// invalid payload still gets the authorization error, not a validation error
func TestCreateRide_RoleCheckedBeforeValidation(t *testing.T) {
	svc, _ := newTestService()

	in := validInput()
	in.FareAmount = -1

	_, err := svc.CreateRide(context.Background(), uuid.New(), user.RoleDriver, in)
	assert.True(t, apperrors.IsAuthorization(err))
}

// TestCreateRide_Validation tests input validation
func TestCreateRide_Validation(t *testing.T) {
	svc, _ := newTestService()

	tests := []struct {
		name   string
		mutate func(*CreateRideInput)
	}{
		{"empty pickup", func(in *CreateRideInput) { in.PickupLocation = "  " }},
		{"empty drop", func(in *CreateRideInput) { in.DropLocation = "" }},
		{"zero fare", func(in *CreateRideInput) { in.FareAmount = 0 }},
		{"negative fare", func(in *CreateRideInput) { in.FareAmount = -10 }},
		{"zero distance", func(in *CreateRideInput) { in.DistanceKm = 0 }},
		{"negative distance", func(in *CreateRideInput) { in.DistanceKm = -2 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			_, err := svc.CreateRide(context.Background(), uuid.New(), user.RoleUser, in)
			assert.True(t, apperrors.IsValidation(err))
		})
	}
}

// TestAcceptRide_Success tests a driver accepting a requested ride
func TestAcceptRide_Success(t *testing.T) {
	svc, _ := newTestService()
	passenger := uuid.New()
	driver := uuid.New()

	r, err := svc.CreateRide(context.Background(), passenger, user.RoleUser, validInput())
	require.NoError(t, err)

	accepted, err := svc.AcceptRide(context.Background(), driver, user.RoleDriver, r.ID)
	require.NoError(t, err)

	assert.Equal(t, ride.StatusAccepted, accepted.Status)
	require.NotNil(t, accepted.DriverID)
	assert.Equal(t, driver, *accepted.DriverID)
}

// TestAcceptRide_Errors tests accept failure modes and their precedence
func TestAcceptRide_Errors(t *testing.T) {
	svc, _ := newTestService()
	passenger := uuid.New()
	driver := uuid.New()

	r, err := svc.CreateRide(context.Background(), passenger, user.RoleUser, validInput())
	require.NoError(t, err)

	t.Run("unknown ride", func(t *testing.T) {
		_, err := svc.AcceptRide(context.Background(), driver, user.RoleDriver, uuid.New())
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("passenger cannot accept", func(t *testing.T) {
		_, err := svc.AcceptRide(context.Background(), passenger, user.RoleUser, r.ID)
		assert.True(t, apperrors.IsAuthorization(err))
	})

	t.Run("not-found wins over role check", func(t *testing.T) {
		_, err := svc.AcceptRide(context.Background(), passenger, user.RoleUser, uuid.New())
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("second accept rejected", func(t *testing.T) {
		_, err := svc.AcceptRide(context.Background(), driver, user.RoleDriver, r.ID)
		require.NoError(t, err)

		_, err = svc.AcceptRide(context.Background(), uuid.New(), user.RoleDriver, r.ID)
		assert.True(t, apperrors.IsInvalidState(err))
	})
}

// TestAcceptRide_Concurrent tests that exactly one of many racing drivers wins
func TestAcceptRide_Concurrent(t *testing.T) {
	svc, _ := newTestService()
	passenger := uuid.New()

	r, err := svc.CreateRide(context.Background(), passenger, user.RoleUser, validInput())
	require.NoError(t, err)

	const drivers = 10
	var wg sync.WaitGroup
	results := make([]error, drivers)

	for i := 0; i < drivers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.AcceptRide(context.Background(), uuid.New(), user.RoleDriver, r.ID)
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range results {
		if err == nil {
			wins++
		} else {
			assert.True(t, apperrors.IsInvalidState(err))
		}
	}
	assert.Equal(t, 1, wins)
}

// TestCompleteRide tests the full lifecycle and complete failure modes
func TestCompleteRide(t *testing.T) {
	svc, _ := newTestService()
	passenger := uuid.New()
	driver := uuid.New()

	r, err := svc.CreateRide(context.Background(), passenger, user.RoleUser, validInput())
	require.NoError(t, err)

	t.Run("requested ride cannot be completed", func(t *testing.T) {
		_, err := svc.CompleteRide(context.Background(), passenger, r.ID)
		assert.True(t, apperrors.IsInvalidState(err))
	})

	_, err = svc.AcceptRide(context.Background(), driver, user.RoleDriver, r.ID)
	require.NoError(t, err)

	t.Run("stranger cannot complete", func(t *testing.T) {
		_, err := svc.CompleteRide(context.Background(), uuid.New(), r.ID)
		assert.True(t, apperrors.IsAuthorization(err))
	})

	t.Run("assigned driver completes", func(t *testing.T) {
		done, err := svc.CompleteRide(context.Background(), driver, r.ID)
		require.NoError(t, err)
		assert.Equal(t, ride.StatusCompleted, done.Status)
		require.NotNil(t, done.DriverID)
		assert.Equal(t, driver, *done.DriverID)
	})

	t.Run("completed ride cannot be completed again", func(t *testing.T) {
		_, err := svc.CompleteRide(context.Background(), driver, r.ID)
		assert.True(t, apperrors.IsInvalidState(err))
	})

	t.Run("unknown ride", func(t *testing.T) {
		_, err := svc.CompleteRide(context.Background(), passenger, uuid.New())
		assert.True(t, apperrors.IsNotFound(err))
	})
}

// TestCompleteRide_RequesterAllowed tests that the passenger may also complete
func TestCompleteRide_RequesterAllowed(t *testing.T) {
	svc, _ := newTestService()
	passenger := uuid.New()
	driver := uuid.New()

	r, err := svc.CreateRide(context.Background(), passenger, user.RoleUser, validInput())
	require.NoError(t, err)
	_, err = svc.AcceptRide(context.Background(), driver, user.RoleDriver, r.ID)
	require.NoError(t, err)

	done, err := svc.CompleteRide(context.Background(), passenger, r.ID)
	require.NoError(t, err)
	assert.Equal(t, ride.StatusCompleted, done.Status)
}
