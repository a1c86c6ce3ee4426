package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"dressrental-backend/internal/domain"
	"dressrental-backend/internal/repository"
)

type orderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

const orderColumns = `id, order_number, user_id, items, shipping_address, subtotal, discount, shipping_fee,
	service_fee, coupon_code, coupon_discount, total_deposit, total, late_fee, deposit_refunded,
	payment_method, payment_status, transaction_id, status, status_history, notes, pickup_deadline,
	confirmed_at, shipped_at, delivered_at, returned_at, inspected_at, created_on, updated_on`

func (r *orderRepository) Create(ctx context.Context, o *domain.Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("marshal order items: %w", err)
	}
	history, err := json.Marshal(o.StatusHistory)
	if err != nil {
		return fmt.Errorf("marshal status history: %w", err)
	}
	var address []byte
	if o.ShippingAddress != nil {
		if address, err = json.Marshal(o.ShippingAddress); err != nil {
			return fmt.Errorf("marshal shipping address: %w", err)
		}
	}

	query := `INSERT INTO orders
		(order_number, user_id, items, shipping_address, subtotal, discount, shipping_fee, service_fee,
		 coupon_code, coupon_discount, total_deposit, total, payment_method, payment_status, status,
		 status_history, notes, pickup_deadline, created_on, updated_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING id`
	now := time.Now()
	err = r.db.QueryRowContext(ctx, query,
		o.OrderNumber, o.UserID, items, address, o.Subtotal, o.Discount, o.ShippingFee, o.ServiceFee,
		o.CouponCode, o.CouponDiscount, o.TotalDeposit, o.Total, o.PaymentMethod, o.PaymentStatus, o.Status,
		history, o.Notes, o.PickupDeadline, now, now).Scan(&o.ID)
	if err != nil {
		return err
	}
	o.CreatedOn = now
	o.UpdatedOn = now
	return nil
}

func (r *orderRepository) scanOrder(row interface{ Scan(...any) error }) (*domain.Order, error) {
	o := &domain.Order{}
	var items, history, address []byte
	var couponCode, transactionID, notes sql.NullString
	err := row.Scan(&o.ID, &o.OrderNumber, &o.UserID, &items, &address, &o.Subtotal, &o.Discount, &o.ShippingFee,
		&o.ServiceFee, &couponCode, &o.CouponDiscount, &o.TotalDeposit, &o.Total, &o.LateFee, &o.DepositRefunded,
		&o.PaymentMethod, &o.PaymentStatus, &transactionID, &o.Status, &history, &notes, &o.PickupDeadline,
		&o.ConfirmedAt, &o.ShippedAt, &o.DeliveredAt, &o.ReturnedAt, &o.InspectedAt, &o.CreatedOn, &o.UpdatedOn)
	if err != nil {
		return nil, err
	}
	o.CouponCode = couponCode.String
	o.TransactionID = transactionID.String
	o.Notes = notes.String
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("unmarshal order items: %w", err)
	}
	if len(history) > 0 {
		if err := json.Unmarshal(history, &o.StatusHistory); err != nil {
			return nil, fmt.Errorf("unmarshal status history: %w", err)
		}
	}
	if len(address) > 0 {
		o.ShippingAddress = &domain.Address{}
		if err := json.Unmarshal(address, o.ShippingAddress); err != nil {
			return nil, fmt.Errorf("unmarshal shipping address: %w", err)
		}
	}
	// Rows written by the old system may carry legacy status names.
	o.Status = domain.NormalizeOrderStatus(o.Status)
	return o, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	o, err := r.scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, domain.NewError(domain.CodeOrderNotFound, "order %d not found", id)
	}
	return o, err
}

func (r *orderRepository) GetByIDForUser(ctx context.Context, id, userID int64) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 AND user_id = $2`
	o, err := r.scanOrder(r.db.QueryRowContext(ctx, query, id, userID))
	if err == sql.ErrNoRows {
		// Not-found rather than forbidden, so other users' order IDs leak nothing.
		return nil, domain.NewError(domain.CodeOrderNotFound, "order %d not found", id)
	}
	return o, err
}

func (r *orderRepository) GetByOrderNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_number = $1`
	o, err := r.scanOrder(r.db.QueryRowContext(ctx, query, orderNumber))
	if err == sql.ErrNoRows {
		return nil, domain.NewError(domain.CodeOrderNotFound, "order %s not found", orderNumber)
	}
	return o, err
}

func (r *orderRepository) Update(ctx context.Context, o *domain.Order) error {
	history, err := json.Marshal(o.StatusHistory)
	if err != nil {
		return fmt.Errorf("marshal status history: %w", err)
	}
	query := `UPDATE orders SET
		payment_status=$1, transaction_id=$2, status=$3, status_history=$4, notes=$5,
		late_fee=$6, deposit_refunded=$7, pickup_deadline=$8,
		confirmed_at=$9, shipped_at=$10, delivered_at=$11, returned_at=$12, inspected_at=$13,
		updated_on=NOW()
		WHERE id=$14`
	_, err = r.db.ExecContext(ctx, query,
		o.PaymentStatus, o.TransactionID, o.Status, history, o.Notes,
		o.LateFee, o.DepositRefunded, o.PickupDeadline,
		o.ConfirmedAt, o.ShippedAt, o.DeliveredAt, o.ReturnedAt, o.InspectedAt, o.ID)
	return err
}

func (r *orderRepository) ListByUser(ctx context.Context, userID int64, status domain.OrderStatus, page, pageSize int32) ([]domain.Order, int32, error) {
	offset := (page - 1) * pageSize
	where := `WHERE user_id = $1`
	args := []interface{}{userID}
	if status != "" {
		where += ` AND status = $2`
		args = append(args, status)
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM orders `+where, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM orders %s ORDER BY created_on DESC LIMIT $%d OFFSET $%d`,
		orderColumns, where, len(args)+1, len(args)+2)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := r.scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, *o)
	}
	return orders, count, rows.Err()
}
