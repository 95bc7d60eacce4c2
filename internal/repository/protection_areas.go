package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"super-heroes-api/internal/model"
)

type ProtectionAreaRepository struct {
	pool *pgxpool.Pool
}

func NewProtectionAreaRepository(pool *pgxpool.Pool) *ProtectionAreaRepository {
	return &ProtectionAreaRepository{pool: pool}
}

func (r *ProtectionAreaRepository) List(ctx context.Context, limit int, offset int) ([]model.ProtectionArea, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, latitude, longitude, radius
		 FROM protection_areas ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list protection areas: %w", err)
	}
	defer rows.Close()

	areas := make([]model.ProtectionArea, 0)
	for rows.Next() {
		var a model.ProtectionArea
		if err := rows.Scan(&a.ID, &a.Name, &a.Latitude, &a.Longitude, &a.Radius); err != nil {
			return nil, fmt.Errorf("scan protection area: %w", err)
		}
		areas = append(areas, a)
	}
	return areas, rows.Err()
}

func (r *ProtectionAreaRepository) Create(ctx context.Context, a model.ProtectionArea) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO protection_areas (id, name, latitude, longitude, radius)
		 VALUES ($1, $2, $3, $4, $5)`,
		a.ID, a.Name, a.Latitude, a.Longitude, a.Radius)
	if err != nil {
		return classify(err)
	}
	return nil
}
