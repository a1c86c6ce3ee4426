package postgres

import (
	"context"
	"database/sql"
	"time"

	"dressrental-backend/internal/domain"
	"dressrental-backend/internal/repository"
)

type auditRepository struct {
	db *sql.DB
}

func NewAuditRepository(db *sql.DB) repository.AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Append(ctx context.Context, e *domain.AuditEntry) error {
	query := `INSERT INTO audit_log (order_id, action, from_status, to_status, actor, detail, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		e.OrderID, e.Action, e.FromStatus, e.ToStatus, e.Actor, e.Detail, now).Scan(&e.ID)
	if err != nil {
		return err
	}
	e.CreatedOn = now
	return nil
}

func (r *auditRepository) ListByOrder(ctx context.Context, orderID int64) ([]domain.AuditEntry, error) {
	query := `SELECT id, order_id, action, from_status, to_status, actor, COALESCE(detail, ''), created_on
	          FROM audit_log WHERE order_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		if err := rows.Scan(&e.ID, &e.OrderID, &e.Action, &e.FromStatus, &e.ToStatus, &e.Actor, &e.Detail, &e.CreatedOn); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
