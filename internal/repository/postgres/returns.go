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

type returnRepository struct {
	db *sql.DB
}

func NewReturnRepository(db *sql.DB) repository.ReturnRepository {
	return &returnRepository{db: db}
}

func (r *returnRepository) Create(ctx context.Context, ret *domain.Return) error {
	items, err := json.Marshal(ret.Items)
	if err != nil {
		return fmt.Errorf("marshal return items: %w", err)
	}
	query := `INSERT INTO returns
		(order_id, user_id, return_method, items, total_damage_fee, late_fee, deposit_refund_amount, status, created_on, updated_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	now := time.Now()
	err = r.db.QueryRowContext(ctx, query,
		ret.OrderID, ret.UserID, ret.ReturnMethod, items,
		ret.TotalDamageFee, ret.LateFee, ret.DepositRefundAmount, ret.Status, now, now).Scan(&ret.ID)
	if err != nil {
		return err
	}
	ret.CreatedOn = now
	ret.UpdatedOn = now
	return nil
}

func (r *returnRepository) GetByOrder(ctx context.Context, orderID int64) (*domain.Return, error) {
	ret := &domain.Return{}
	var items []byte
	var inspectedBy sql.NullString
	query := `SELECT id, order_id, user_id, return_method, items, total_damage_fee, late_fee,
	                 deposit_refund_amount, status, inspected_by, inspected_at, created_on, updated_on
	          FROM returns WHERE order_id = $1`
	err := r.db.QueryRowContext(ctx, query, orderID).Scan(
		&ret.ID, &ret.OrderID, &ret.UserID, &ret.ReturnMethod, &items, &ret.TotalDamageFee, &ret.LateFee,
		&ret.DepositRefundAmount, &ret.Status, &inspectedBy, &ret.InspectedAt, &ret.CreatedOn, &ret.UpdatedOn)
	if err == sql.ErrNoRows {
		return nil, domain.NewError(domain.CodeReturnNotFound, "no return record for order %d", orderID)
	}
	if err != nil {
		return nil, err
	}
	ret.InspectedBy = inspectedBy.String
	if len(items) > 0 {
		if err := json.Unmarshal(items, &ret.Items); err != nil {
			return nil, fmt.Errorf("unmarshal return items: %w", err)
		}
	}
	return ret, nil
}

func (r *returnRepository) Update(ctx context.Context, ret *domain.Return) error {
	items, err := json.Marshal(ret.Items)
	if err != nil {
		return fmt.Errorf("marshal return items: %w", err)
	}
	query := `UPDATE returns SET
		items=$1, total_damage_fee=$2, late_fee=$3, deposit_refund_amount=$4,
		status=$5, inspected_by=$6, inspected_at=$7, updated_on=NOW()
		WHERE id=$8`
	_, err = r.db.ExecContext(ctx, query,
		items, ret.TotalDamageFee, ret.LateFee, ret.DepositRefundAmount,
		ret.Status, ret.InspectedBy, ret.InspectedAt, ret.ID)
	return err
}
