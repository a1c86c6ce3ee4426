package postgres

import (
	"database/sql"

	"dressrental-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.OrderRepository
	repository.ReservationRepository
	repository.InventoryRepository
	repository.ReturnRepository
	repository.CartRepository
	repository.UserRepository
	repository.CouponRepository
	repository.AuditRepository
	repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		OrderRepository:        NewOrderRepository(db),
		ReservationRepository:  NewReservationRepository(db),
		InventoryRepository:    NewInventoryRepository(db),
		ReturnRepository:       NewReturnRepository(db),
		CartRepository:         NewCartRepository(db),
		UserRepository:         NewUserRepository(db),
		CouponRepository:       NewCouponRepository(db),
		AuditRepository:        NewAuditRepository(db),
		NotificationRepository: NewNotificationRepository(db),
	}
}
