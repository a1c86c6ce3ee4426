package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"dressrental-backend/internal/domain"
)

var testVariant = domain.VariantKey{Size: "M", Color: "red"}

func testWindow() (time.Time, time.Time) {
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 4)
}

func TestCheckAvailability(t *testing.T) {
	ctx := context.Background()
	start, end := testWindow()

	t.Run("Available", func(t *testing.T) {
		resRepo := new(MockReservationRepo)
		invRepo := new(MockInventoryRepo)
		svc := NewAvailabilityService(resRepo, invRepo, 15*time.Minute)

		invRepo.On("GetByVariant", ctx, int64(10), testVariant).Return(&domain.Inventory{QtyTotal: 5}, nil)
		resRepo.On("SumBlockingOverlapping", ctx, int64(10), testVariant, start, end).Return(3, nil)

		result, err := svc.CheckAvailability(ctx, 10, testVariant, start, end, 2)
		assert.NoError(t, err)
		assert.True(t, result.Available)
		assert.Equal(t, 5, result.TotalStock)
		assert.Equal(t, 3, result.Reserved)
	})

	t.Run("NotEnoughStock", func(t *testing.T) {
		resRepo := new(MockReservationRepo)
		invRepo := new(MockInventoryRepo)
		svc := NewAvailabilityService(resRepo, invRepo, 15*time.Minute)

		invRepo.On("GetByVariant", ctx, int64(10), testVariant).Return(&domain.Inventory{QtyTotal: 5}, nil)
		resRepo.On("SumBlockingOverlapping", ctx, int64(10), testVariant, start, end).Return(4, nil)

		result, err := svc.CheckAvailability(ctx, 10, testVariant, start, end, 2)
		assert.NoError(t, err)
		assert.False(t, result.Available)
	})

	t.Run("UnknownVariantFailsClosed", func(t *testing.T) {
		resRepo := new(MockReservationRepo)
		invRepo := new(MockInventoryRepo)
		svc := NewAvailabilityService(resRepo, invRepo, 15*time.Minute)

		invRepo.On("GetByVariant", ctx, int64(10), testVariant).
			Return(nil, domain.NewError(domain.CodeInventoryNotFound, "no inventory"))

		result, err := svc.CheckAvailability(ctx, 10, testVariant, start, end, 1)
		assert.NoError(t, err)
		assert.False(t, result.Available)
		resRepo.AssertNotCalled(t, "SumBlockingOverlapping")
	})
}

func TestCreateHold(t *testing.T) {
	ctx := context.Background()
	start, end := testWindow()

	t.Run("SetsTTLAndHoldStatus", func(t *testing.T) {
		resRepo := new(MockReservationRepo)
		invRepo := new(MockInventoryRepo)
		svc := NewAvailabilityService(resRepo, invRepo, 15*time.Minute)

		invRepo.On("GetByVariant", ctx, int64(10), testVariant).Return(&domain.Inventory{QtyTotal: 5}, nil)
		before := time.Now()
		resRepo.On("CreateIfAvailable", ctx, mock.MatchedBy(func(r *domain.Reservation) bool {
			return r.Status == domain.ReservationStatusHold &&
				r.Quantity == 2 &&
				r.ExpiresAt != nil &&
				r.ExpiresAt.After(before.Add(14*time.Minute)) &&
				r.ExpiresAt.Before(before.Add(16*time.Minute))
		}), 5).Return(nil).Once()

		res, err := svc.CreateHold(ctx, HoldRequest{
			UserID: 1, ProductID: 10, Variant: testVariant,
			StartDate: start, EndDate: end, Quantity: 2,
		})
		assert.NoError(t, err)
		assert.Equal(t, domain.ReservationStatusHold, res.Status)
		resRepo.AssertExpectations(t)
	})

	t.Run("RaceLostSurfacesNotAvailable", func(t *testing.T) {
		resRepo := new(MockReservationRepo)
		invRepo := new(MockInventoryRepo)
		svc := NewAvailabilityService(resRepo, invRepo, 15*time.Minute)

		invRepo.On("GetByVariant", ctx, int64(10), testVariant).Return(&domain.Inventory{QtyTotal: 1}, nil)
		resRepo.On("CreateIfAvailable", ctx, mock.Anything, 1).
			Return(domain.NewError(domain.CodeNotAvailable, "only 0 of 1 units free"))

		_, err := svc.CreateHold(ctx, HoldRequest{
			UserID: 1, ProductID: 10, Variant: testVariant,
			StartDate: start, EndDate: end, Quantity: 1,
		})
		assert.True(t, domain.IsCode(err, domain.CodeNotAvailable))
	})

	t.Run("NoInventoryRecord", func(t *testing.T) {
		resRepo := new(MockReservationRepo)
		invRepo := new(MockInventoryRepo)
		svc := NewAvailabilityService(resRepo, invRepo, 15*time.Minute)

		invRepo.On("GetByVariant", ctx, int64(99), testVariant).
			Return(nil, domain.NewError(domain.CodeInventoryNotFound, "no inventory"))

		_, err := svc.CreateHold(ctx, HoldRequest{
			UserID: 1, ProductID: 99, Variant: testVariant,
			StartDate: start, EndDate: end, Quantity: 1,
		})
		assert.True(t, domain.IsCode(err, domain.CodeNotAvailable))
		resRepo.AssertNotCalled(t, "CreateIfAvailable")
	})
}

func TestMonthCalendar(t *testing.T) {
	ctx := context.Background()
	resRepo := new(MockReservationRepo)
	invRepo := new(MockInventoryRepo)
	svc := NewAvailabilityService(resRepo, invRepo, 15*time.Minute)

	invRepo.On("GetByVariant", ctx, int64(10), testVariant).Return(&domain.Inventory{QtyTotal: 3}, nil)
	// June 5th fully booked, everything else free.
	booked := time.Date(2026, 6, 5, 0, 0, 0, 0, time.UTC)
	resRepo.On("SumBlockingOverlapping", ctx, int64(10), testVariant, booked, booked.AddDate(0, 0, 1)).Return(4, nil)
	resRepo.On("SumBlockingOverlapping", ctx, int64(10), testVariant, mock.Anything, mock.Anything).Return(0, nil)

	days, err := svc.MonthCalendar(ctx, 10, testVariant, 2026, time.June)
	assert.NoError(t, err)
	assert.Len(t, days, 30)

	assert.Equal(t, 3, days[0].Available)
	// Overbooked day clamps to zero rather than going negative.
	assert.Equal(t, booked, days[4].Date)
	assert.Equal(t, 0, days[4].Available)
	assert.Equal(t, 4, days[4].Reserved)
}
