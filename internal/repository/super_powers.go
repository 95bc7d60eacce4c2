package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"super-heroes-api/internal/model"
)

type SuperPowerRepository struct {
	pool *pgxpool.Pool
}

func NewSuperPowerRepository(pool *pgxpool.Pool) *SuperPowerRepository {
	return &SuperPowerRepository{pool: pool}
}

func (r *SuperPowerRepository) List(ctx context.Context, limit int, offset int) ([]model.SuperPower, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, COALESCE(description, '')
		 FROM super_powers ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list super powers: %w", err)
	}
	defer rows.Close()

	powers := make([]model.SuperPower, 0)
	for rows.Next() {
		var p model.SuperPower
		if err := rows.Scan(&p.ID, &p.Name, &p.Description); err != nil {
			return nil, fmt.Errorf("scan super power: %w", err)
		}
		powers = append(powers, p)
	}
	return powers, rows.Err()
}

func (r *SuperPowerRepository) FindByID(ctx context.Context, id string) (model.SuperPower, error) {
	var p model.SuperPower
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, COALESCE(description, '') FROM super_powers WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Description)
	if err != nil {
		return model.SuperPower{}, classifyNoRows(err)
	}
	return p, nil
}

func (r *SuperPowerRepository) Create(ctx context.Context, p model.SuperPower) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO super_powers (id, name, description) VALUES ($1, $2, NULLIF($3, ''))`,
		p.ID, p.Name, p.Description)
	if err != nil {
		return classify(err)
	}
	return nil
}

func (r *SuperPowerRepository) Update(ctx context.Context, p model.SuperPower) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE super_powers SET name = $2, description = NULLIF($3, '') WHERE id = $1`,
		p.ID, p.Name, p.Description)
	if err != nil {
		return classify(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete refuses to remove a power that is still linked to a hero. The
// check runs before the delete so a blocked request leaves no trace; the
// foreign key is the backstop for races.
func (r *SuperPowerRepository) Delete(ctx context.Context, id string) error {
	var referenced bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM super_hero_powers WHERE super_power_id = $1)`, id).
		Scan(&referenced)
	if err != nil {
		return fmt.Errorf("check super power references: %w", err)
	}
	if referenced {
		return ErrReferenced
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM super_powers WHERE id = $1`, id)
	if err != nil {
		return classify(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
