package postgres

import (
	"context"
	"database/sql"

	"dressrental-backend/internal/domain"
	"dressrental-backend/internal/repository"
)

type cartRepository struct {
	db *sql.DB
}

func NewCartRepository(db *sql.DB) repository.CartRepository {
	return &cartRepository{db: db}
}

// GetByUser materializes the cart view the order flow consumes. Cart
// mutation (add/remove/update lines) belongs to the storefront service; the
// order lifecycle only reads and clears.
func (r *cartRepository) GetByUser(ctx context.Context, userID int64) (*domain.Cart, error) {
	query := `SELECT id, product_id, name, COALESCE(image, ''), size, COALESCE(color, ''),
	                 rental_start, rental_end, rental_days, price_per_day, deposit, quantity, line_total
	          FROM cart_items WHERE user_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cart := &domain.Cart{UserID: userID}
	for rows.Next() {
		var it domain.CartItem
		if err := rows.Scan(&it.ID, &it.ProductID, &it.Name, &it.Image, &it.Variant.Size, &it.Variant.Color,
			&it.RentalStart, &it.RentalEnd, &it.RentalDays, &it.PricePerDay, &it.Deposit, &it.Quantity, &it.LineTotal); err != nil {
			return nil, err
		}
		cart.Items = append(cart.Items, it)
		cart.Totals.Subtotal += it.LineTotal
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	cart.Totals.GrandTotal = cart.Totals.Subtotal - cart.Totals.Discount + cart.Totals.ShippingFee
	return cart, nil
}

func (r *cartRepository) Clear(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	return err
}
