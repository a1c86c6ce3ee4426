package postgres

import (
	"context"
	"database/sql"

	"dressrental-backend/internal/domain"
	"dressrental-backend/internal/repository"
)

type couponRepository struct {
	db *sql.DB
}

func NewCouponRepository(db *sql.DB) repository.CouponRepository {
	return &couponRepository{db: db}
}

func (r *couponRepository) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	c := &domain.Coupon{}
	query := `SELECT id, code, discount, max_uses, used_count, valid_from, valid_until, active
	          FROM coupons WHERE code = $1`
	err := r.db.QueryRowContext(ctx, query, code).Scan(
		&c.ID, &c.Code, &c.Discount, &c.MaxUses, &c.UsedCount, &c.ValidFrom, &c.ValidUntil, &c.Active)
	if err == sql.ErrNoRows {
		return nil, domain.NewError(domain.CodeCouponInvalid, "coupon %q not found", code)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *couponRepository) IncrementUsage(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE coupons SET used_count = used_count + 1 WHERE id = $1`, id)
	return err
}
