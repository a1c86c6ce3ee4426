package jobs

import (
	"context"
	"time"

	"dressrental-backend/internal/domain"
	"dressrental-backend/internal/logger"
)

// ExpireStaleHolds physically transitions hold reservations whose TTL has
// passed to expired. Availability reads already exclude stale holds by
// timestamp, so this sweep is bookkeeping, not a correctness gate.
func (jr *JobRunner) ExpireStaleHolds() {
	jr.runWithRecovery("ExpireStaleHolds", func() {
		ctx := context.Background()
		expired, err := jr.store.ReservationRepository.ExpireStale(ctx, time.Now())
		if err != nil {
			logger.Error("Failed to expire stale holds", "error", err)
			return
		}
		if expired > 0 {
			logger.Info("Expired stale holds", "count", expired)
		}
	})
}

// CancelExpiredPickupOrders cancels unpaid pickup orders whose deadline has
// passed and releases their inventory. Safe to re-run: only pending unpaid
// orders with a lapsed deadline match, and cancellation is a terminal state.
func (jr *JobRunner) CancelExpiredPickupOrders() {
	jr.runWithRecovery("CancelExpiredPickupOrders", func() {
		ctx := context.Background()

		query := `
			SELECT id FROM orders
			WHERE status IN ('pending_payment', 'pending')
			  AND payment_status = 'pending'
			  AND pickup_deadline IS NOT NULL
			  AND pickup_deadline < NOW()
		`
		rows, err := jr.db.QueryContext(ctx, query)
		if err != nil {
			logger.Error("Failed to find expired pickup orders", "error", err)
			return
		}
		defer rows.Close()

		var ids []int64
		for rows.Next() {
			var id int64
			if err := rows.Scan(&id); err != nil {
				logger.Error("Failed to scan expired pickup order", "error", err)
				continue
			}
			ids = append(ids, id)
		}
		if err := rows.Err(); err != nil {
			logger.Error("Error iterating expired pickup orders", "error", err)
			return
		}

		count := 0
		for _, id := range ids {
			if _, err := jr.services.Orders.Cancel(ctx, id, "system:pickup-sweep", "pickup deadline passed"); err != nil {
				logger.Error("Failed to cancel expired pickup order", "order_id", id, "error", err)
				continue
			}
			count++
		}
		if count > 0 {
			logger.Info("Cancelled expired pickup orders", "count", count)
		}
	})
}

// FlagOverdueRentals flags active rentals whose latest item end date has
// passed. Orders already flagged or in a terminal state never match, so the
// sweep is idempotent.
func (jr *JobRunner) FlagOverdueRentals() {
	jr.runWithRecovery("FlagOverdueRentals", func() {
		ctx := context.Background()

		// Legacy rows may still carry the old 'renting' status name.
		query := `
			SELECT id FROM orders
			WHERE status IN ('active_rental', 'renting')
			  AND (
				SELECT max((it->>'rental_end')::timestamptz)
				FROM jsonb_array_elements(items) AS it
			  ) < NOW()
		`
		rows, err := jr.db.QueryContext(ctx, query)
		if err != nil {
			logger.Error("Failed to find overdue rentals", "error", err)
			return
		}
		defer rows.Close()

		var ids []int64
		for rows.Next() {
			var id int64
			if err := rows.Scan(&id); err != nil {
				logger.Error("Failed to scan overdue rental", "error", err)
				continue
			}
			ids = append(ids, id)
		}
		if err := rows.Err(); err != nil {
			logger.Error("Error iterating overdue rentals", "error", err)
			return
		}

		count := 0
		for _, id := range ids {
			if _, err := jr.services.Orders.Transition(ctx, id, domain.OrderStatusOverdue, "system:overdue-sweep", "rental end date passed"); err != nil {
				logger.Error("Failed to flag overdue rental", "order_id", id, "error", err)
				continue
			}
			count++
		}
		if count > 0 {
			logger.Info("Flagged overdue rentals", "count", count)
		}
	})
}
