package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"super-heroes-api/internal/model"
)

type AuditEventRepository struct {
	pool *pgxpool.Pool
}

func NewAuditEventRepository(pool *pgxpool.Pool) *AuditEventRepository {
	return &AuditEventRepository{pool: pool}
}

// Create persists an audit event. Events are append-only; there is no
// update or delete path anywhere in this service.
func (r *AuditEventRepository) Create(ctx context.Context, e model.AuditEvent) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO audit_events (id, entity, entity_id, datetime, username, action)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.Entity, e.EntityID, e.Datetime, e.Username, e.Action)
	if err != nil {
		return classify(err)
	}
	return nil
}
