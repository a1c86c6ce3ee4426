package postgres

import (
	"context"
	"database/sql"
	"time"

	"dressrental-backend/internal/domain"
	"dressrental-backend/internal/repository"
)

type reservationRepository struct {
	db *sql.DB
}

func NewReservationRepository(db *sql.DB) repository.ReservationRepository {
	return &reservationRepository{db: db}
}

// sumOverlappingQuery counts reservations that still block capacity over a
// half-open probe window: strict overlap (start_date < probe end AND
// end_date > probe start), status confirmed, or a hold whose TTL has not
// passed. Expired holds stop blocking the moment their TTL passes, even
// before the expiry sweep physically marks them. Mirrors
// domain.IntervalsOverlap.
const sumOverlappingQuery = `SELECT COALESCE(SUM(quantity), 0) FROM rental_reservations
	 WHERE product_id = $1 AND size = $2 AND color = $3
	   AND start_date < $4 AND end_date > $5
	   AND (status = 'confirmed' OR (status = 'hold' AND expires_at > $6))`

func (r *reservationRepository) SumBlockingOverlapping(ctx context.Context, productID int64, variant domain.VariantKey, start, end time.Time) (int, error) {
	var reserved int
	err := r.db.QueryRowContext(ctx, sumOverlappingQuery,
		productID, variant.Size, variant.Color, end, start, time.Now()).Scan(&reserved)
	if err != nil {
		return 0, err
	}
	return reserved, nil
}

// CreateIfAvailable wraps the capacity re-check and the hold insert in one
// transaction so two requests racing for the last unit cannot both succeed.
func (r *reservationRepository) CreateIfAvailable(ctx context.Context, res *domain.Reservation, totalStock int) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var reserved int
	err = tx.QueryRowContext(ctx, sumOverlappingQuery,
		res.ProductID, res.Variant.Size, res.Variant.Color, res.EndDate, res.StartDate, time.Now()).Scan(&reserved)
	if err != nil {
		return err
	}
	if totalStock-reserved < res.Quantity {
		return domain.NewError(domain.CodeNotAvailable,
			"only %d of %d units free for product %d (%s/%s)",
			totalStock-reserved, res.Quantity, res.ProductID, res.Variant.Size, res.Variant.Color)
	}

	now := time.Now()
	query := `INSERT INTO rental_reservations
		(product_id, size, color, user_id, order_id, start_date, end_date, quantity, status, expires_at, created_on, updated_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`
	err = tx.QueryRowContext(ctx, query,
		res.ProductID, res.Variant.Size, res.Variant.Color, res.UserID, res.OrderID,
		res.StartDate, res.EndDate, res.Quantity, res.Status, res.ExpiresAt, now, now).Scan(&res.ID)
	if err != nil {
		return err
	}
	res.CreatedOn = now
	res.UpdatedOn = now

	return tx.Commit()
}

func (r *reservationRepository) ConfirmByOrder(ctx context.Context, orderID int64) (int64, error) {
	query := `UPDATE rental_reservations
	          SET status = 'confirmed', expires_at = NULL, updated_on = NOW()
	          WHERE order_id = $1 AND status = 'hold'`
	result, err := r.db.ExecContext(ctx, query, orderID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *reservationRepository) ReleaseByOrder(ctx context.Context, orderID int64) (int64, error) {
	query := `UPDATE rental_reservations
	          SET status = 'released', expires_at = NULL, updated_on = NOW()
	          WHERE order_id = $1 AND status IN ('hold', 'confirmed')`
	result, err := r.db.ExecContext(ctx, query, orderID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *reservationRepository) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	query := `UPDATE rental_reservations
	          SET status = 'expired', updated_on = NOW()
	          WHERE status = 'hold' AND expires_at <= $1`
	result, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *reservationRepository) ListByOrder(ctx context.Context, orderID int64) ([]domain.Reservation, error) {
	query := `SELECT id, product_id, size, color, user_id, order_id, start_date, end_date, quantity, status, expires_at, created_on, updated_on
	          FROM rental_reservations WHERE order_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reservations []domain.Reservation
	for rows.Next() {
		var res domain.Reservation
		if err := rows.Scan(&res.ID, &res.ProductID, &res.Variant.Size, &res.Variant.Color, &res.UserID, &res.OrderID,
			&res.StartDate, &res.EndDate, &res.Quantity, &res.Status, &res.ExpiresAt, &res.CreatedOn, &res.UpdatedOn); err != nil {
			return nil, err
		}
		reservations = append(reservations, res)
	}
	return reservations, rows.Err()
}
