package postgres

import (
	"context"
	"database/sql"

	"dressrental-backend/internal/domain"
	"dressrental-backend/internal/repository"
)

type inventoryRepository struct {
	db *sql.DB
}

func NewInventoryRepository(db *sql.DB) repository.InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) GetByVariant(ctx context.Context, productID int64, variant domain.VariantKey) (*domain.Inventory, error) {
	inv := &domain.Inventory{}
	query := `SELECT id, product_id, size, color, qty_total, qty_available, qty_in_cleaning, qty_in_repair, qty_lost, updated_on
	          FROM inventory WHERE product_id = $1 AND size = $2 AND color = $3`
	err := r.db.QueryRowContext(ctx, query, productID, variant.Size, variant.Color).Scan(
		&inv.ID, &inv.ProductID, &inv.Variant.Size, &inv.Variant.Color,
		&inv.QtyTotal, &inv.QtyAvailable, &inv.QtyInCleaning, &inv.QtyInRepair, &inv.QtyLost, &inv.UpdatedOn)
	if err == sql.ErrNoRows {
		return nil, domain.NewError(domain.CodeInventoryNotFound,
			"no inventory for product %d (%s/%s)", productID, variant.Size, variant.Color)
	}
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// MoveToLost moves quantity from available into lost. Lost stock is never
// restored to the rentable pool. The guard clause keeps every field
// non-negative and qty_lost capped at qty_total.
func (r *inventoryRepository) MoveToLost(ctx context.Context, productID int64, variant domain.VariantKey, qty int) error {
	query := `UPDATE inventory
	          SET qty_available = GREATEST(qty_available - $4, 0),
	              qty_lost = LEAST(qty_lost + $4, qty_total),
	              updated_on = NOW()
	          WHERE product_id = $1 AND size = $2 AND color = $3`
	return r.exec(ctx, query, productID, variant, qty)
}

// MoveToRepair moves quantity from available into the repair pool pending a
// future repair workflow.
func (r *inventoryRepository) MoveToRepair(ctx context.Context, productID int64, variant domain.VariantKey, qty int) error {
	query := `UPDATE inventory
	          SET qty_available = GREATEST(qty_available - $4, 0),
	              qty_in_repair = qty_in_repair + $4,
	              updated_on = NOW()
	          WHERE product_id = $1 AND size = $2 AND color = $3`
	return r.exec(ctx, query, productID, variant, qty)
}

func (r *inventoryRepository) exec(ctx context.Context, query string, productID int64, variant domain.VariantKey, qty int) error {
	result, err := r.db.ExecContext(ctx, query, productID, variant.Size, variant.Color, qty)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.NewError(domain.CodeInventoryNotFound,
			"no inventory for product %d (%s/%s)", productID, variant.Size, variant.Color)
	}
	return nil
}

// Adjust applies a manual back-office correction. The WHERE guard refuses any
// delta that would drive a field negative.
func (r *inventoryRepository) Adjust(ctx context.Context, productID int64, variant domain.VariantKey, deltaAvailable, deltaCleaning, deltaRepair, deltaLost int) error {
	query := `UPDATE inventory
	          SET qty_available = qty_available + $4,
	              qty_in_cleaning = qty_in_cleaning + $5,
	              qty_in_repair = qty_in_repair + $6,
	              qty_lost = qty_lost + $7,
	              updated_on = NOW()
	          WHERE product_id = $1 AND size = $2 AND color = $3
	            AND qty_available + $4 >= 0
	            AND qty_in_cleaning + $5 >= 0
	            AND qty_in_repair + $6 >= 0
	            AND qty_lost + $7 >= 0`
	result, err := r.db.ExecContext(ctx, query, productID, variant.Size, variant.Color,
		deltaAvailable, deltaCleaning, deltaRepair, deltaLost)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.NewError(domain.CodeInventoryNotFound,
			"adjustment rejected for product %d (%s/%s)", productID, variant.Size, variant.Color)
	}
	return nil
}
