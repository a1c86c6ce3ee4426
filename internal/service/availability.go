package service

import (
	"context"
	"time"

	"dressrental-backend/internal/domain"
	"dressrental-backend/internal/logger"
	"dressrental-backend/internal/repository"
	"dressrental-backend/internal/utils"
)

type availabilityService struct {
	reservationRepo repository.ReservationRepository
	inventoryRepo   repository.InventoryRepository
	holdTTL         time.Duration
}

func NewAvailabilityService(
	reservationRepo repository.ReservationRepository,
	inventoryRepo repository.InventoryRepository,
	holdTTL time.Duration,
) AvailabilityService {
	return &availabilityService{
		reservationRepo: reservationRepo,
		inventoryRepo:   inventoryRepo,
		holdTTL:         holdTTL,
	}
}

// CheckAvailability reports whether quantity units of the variant are free
// across [start, end). A variant with no inventory record is never available.
func (s *availabilityService) CheckAvailability(ctx context.Context, productID int64, variant domain.VariantKey, start, end time.Time, quantity int) (*AvailabilityResult, error) {
	inv, err := s.inventoryRepo.GetByVariant(ctx, productID, variant)
	if err != nil {
		if domain.IsCode(err, domain.CodeInventoryNotFound) {
			// Fail closed: unknown stock is treated as no stock.
			return &AvailabilityResult{Available: false}, nil
		}
		return nil, err
	}

	reserved, err := s.reservationRepo.SumBlockingOverlapping(ctx, productID, variant, start, end)
	if err != nil {
		return nil, err
	}

	return &AvailabilityResult{
		Available:  inv.QtyTotal-reserved >= quantity,
		TotalStock: inv.QtyTotal,
		Reserved:   reserved,
	}, nil
}

// CreateHold places a TTL-bounded hold. The capacity re-check and the insert
// run in one store transaction, so the earlier CheckAvailability read is
// advisory only and racing requests cannot oversell the last unit.
func (s *availabilityService) CreateHold(ctx context.Context, req HoldRequest) (*domain.Reservation, error) {
	inv, err := s.inventoryRepo.GetByVariant(ctx, req.ProductID, req.Variant)
	if err != nil {
		if domain.IsCode(err, domain.CodeInventoryNotFound) {
			return nil, domain.NewError(domain.CodeNotAvailable,
				"product %d (%s/%s) has no stock", req.ProductID, req.Variant.Size, req.Variant.Color)
		}
		return nil, err
	}

	expiresAt := time.Now().Add(s.holdTTL)
	res := &domain.Reservation{
		ProductID: req.ProductID,
		Variant:   req.Variant,
		UserID:    req.UserID,
		OrderID:   req.OrderID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Quantity:  req.Quantity,
		Status:    domain.ReservationStatusHold,
		ExpiresAt: &expiresAt,
	}
	if err := s.reservationRepo.CreateIfAvailable(ctx, res, inv.QtyTotal); err != nil {
		return nil, err
	}

	logger.Debug("Hold created",
		"reservation_id", res.ID, "product_id", res.ProductID,
		"start", res.StartDate.Format(utils.DateLayout), "end", res.EndDate.Format(utils.DateLayout),
		"quantity", res.Quantity, "expires_at", expiresAt)
	return res, nil
}

func (s *availabilityService) ConfirmByOrder(ctx context.Context, orderID int64) error {
	confirmed, err := s.reservationRepo.ConfirmByOrder(ctx, orderID)
	if err != nil {
		return err
	}
	logger.Debug("Reservations confirmed", "order_id", orderID, "count", confirmed)
	return nil
}

// ReleaseByOrder frees every live reservation tied to the order. Releasing an
// order with no reservations is a no-op, not an error.
func (s *availabilityService) ReleaseByOrder(ctx context.Context, orderID int64) error {
	released, err := s.reservationRepo.ReleaseByOrder(ctx, orderID)
	if err != nil {
		return err
	}
	logger.Debug("Reservations released", "order_id", orderID, "count", released)
	return nil
}

// MonthCalendar renders per-day availability for the date picker by probing
// each day of the month as a one-day window.
func (s *availabilityService) MonthCalendar(ctx context.Context, productID int64, variant domain.VariantKey, year int, month time.Month) ([]CalendarDay, error) {
	inv, err := s.inventoryRepo.GetByVariant(ctx, productID, variant)
	if err != nil {
		return nil, err
	}

	daysInMonth := utils.DaysInMonth(year, month)
	days := make([]CalendarDay, 0, daysInMonth)
	for d := 1; d <= daysInMonth; d++ {
		dayStart := time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
		dayEnd := dayStart.AddDate(0, 0, 1)
		reserved, err := s.reservationRepo.SumBlockingOverlapping(ctx, productID, variant, dayStart, dayEnd)
		if err != nil {
			return nil, err
		}
		available := inv.QtyTotal - reserved
		if available < 0 {
			available = 0
		}
		days = append(days, CalendarDay{
			Date:       dayStart,
			TotalStock: inv.QtyTotal,
			Reserved:   reserved,
			Available:  available,
		})
	}
	return days, nil
}
