package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"super-heroes-api/internal/model"
)

// SuperHeroParams is the write shape for a super hero. The protection area
// and super powers are referenced by id; broken references surface as
// ErrUnknownProtectionArea / ErrUnknownSuperPower.
type SuperHeroParams struct {
	ID               string
	Name             string
	Alias            string
	ProtectionAreaID string
	SuperPowerIDs    []string
}

type SuperHeroRepository struct {
	pool *pgxpool.Pool
}

func NewSuperHeroRepository(pool *pgxpool.Pool) *SuperHeroRepository {
	return &SuperHeroRepository{pool: pool}
}

const superHeroColumns = `
	h.id, h.name, h.alias,
	a.id, a.name, a.latitude, a.longitude, a.radius`

func (r *SuperHeroRepository) List(ctx context.Context, limit int, offset int) ([]model.SuperHero, error) {
	rows, err := r.pool.Query(ctx, fmt.Sprintf(
		`SELECT %s
		 FROM super_heroes h
		 JOIN protection_areas a ON a.id = h.protection_area_id
		 ORDER BY h.name
		 LIMIT $1 OFFSET $2`, superHeroColumns), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list super heroes: %w", err)
	}
	defer rows.Close()

	return r.collect(ctx, rows)
}

func (r *SuperHeroRepository) FindByID(ctx context.Context, id string) (model.SuperHero, error) {
	rows, err := r.pool.Query(ctx, fmt.Sprintf(
		`SELECT %s
		 FROM super_heroes h
		 JOIN protection_areas a ON a.id = h.protection_area_id
		 WHERE h.id = $1`, superHeroColumns), id)
	if err != nil {
		return model.SuperHero{}, fmt.Errorf("find super hero: %w", err)
	}
	defer rows.Close()

	heroes, err := r.collect(ctx, rows)
	if err != nil {
		return model.SuperHero{}, err
	}
	if len(heroes) == 0 {
		return model.SuperHero{}, ErrNotFound
	}
	return heroes[0], nil
}

// FindNearby returns heroes whose protection area center lies within
// radiusMeters of the given point, closest first. The join yields one row
// per hero, so areas are never double counted.
func (r *SuperHeroRepository) FindNearby(ctx context.Context, latitude float64, longitude float64, radiusMeters float64, limit int) ([]model.SuperHero, error) {
	// Haversine over the area centers; 6371000 is the Earth radius in meters.
	rows, err := r.pool.Query(ctx, fmt.Sprintf(
		`SELECT %s
		 FROM super_heroes h
		 JOIN protection_areas a ON a.id = h.protection_area_id
		 WHERE 6371000 * acos(least(1.0,
		       cos(radians($1)) * cos(radians(a.latitude)) * cos(radians(a.longitude) - radians($2))
		     + sin(radians($1)) * sin(radians(a.latitude)))) <= $3
		 ORDER BY 6371000 * acos(least(1.0,
		       cos(radians($1)) * cos(radians(a.latitude)) * cos(radians(a.longitude) - radians($2))
		     + sin(radians($1)) * sin(radians(a.latitude))))
		 LIMIT $4`, superHeroColumns),
		latitude, longitude, radiusMeters, limit)
	if err != nil {
		return nil, fmt.Errorf("find nearby super heroes: %w", err)
	}
	defer rows.Close()

	return r.collect(ctx, rows)
}

func (r *SuperHeroRepository) Create(ctx context.Context, p SuperHeroParams) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create super hero: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO super_heroes (id, name, alias, protection_area_id) VALUES ($1, $2, $3, $4)`,
		p.ID, p.Name, p.Alias, p.ProtectionAreaID)
	if err != nil {
		return classify(err)
	}

	for _, powerID := range p.SuperPowerIDs {
		_, err := tx.Exec(ctx,
			`INSERT INTO super_hero_powers (super_hero_id, super_power_id) VALUES ($1, $2)`,
			p.ID, powerID)
		if err != nil {
			return classify(err)
		}
	}

	return tx.Commit(ctx)
}

// Update replaces every field and the full super power link set.
func (r *SuperHeroRepository) Update(ctx context.Context, p SuperHeroParams) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin update super hero: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE super_heroes SET name = $2, alias = $3, protection_area_id = $4 WHERE id = $1`,
		p.ID, p.Name, p.Alias, p.ProtectionAreaID)
	if err != nil {
		return classify(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM super_hero_powers WHERE super_hero_id = $1`, p.ID); err != nil {
		return classify(err)
	}
	for _, powerID := range p.SuperPowerIDs {
		_, err := tx.Exec(ctx,
			`INSERT INTO super_hero_powers (super_hero_id, super_power_id) VALUES ($1, $2)`,
			p.ID, powerID)
		if err != nil {
			return classify(err)
		}
	}

	return tx.Commit(ctx)
}

func (r *SuperHeroRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM super_heroes WHERE id = $1`, id)
	if err != nil {
		return classify(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type heroRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func (r *SuperHeroRepository) collect(ctx context.Context, rows heroRows) ([]model.SuperHero, error) {
	heroes := make([]model.SuperHero, 0)
	ids := make([]string, 0)
	for rows.Next() {
		var h model.SuperHero
		var area model.ProtectionArea
		if err := rows.Scan(
			&h.ID, &h.Name, &h.Alias,
			&area.ID, &area.Name, &area.Latitude, &area.Longitude, &area.Radius,
		); err != nil {
			return nil, fmt.Errorf("scan super hero: %w", err)
		}
		h.ProtectionArea = &area
		h.SuperPowerIDs = []string{}
		heroes = append(heroes, h)
		ids = append(ids, h.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	powersByHero, err := r.powersFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range heroes {
		if powers, ok := powersByHero[heroes[i].ID]; ok {
			heroes[i].SuperPowerIDs = powers
		}
	}
	return heroes, nil
}

func (r *SuperHeroRepository) powersFor(ctx context.Context, heroIDs []string) (map[string][]string, error) {
	if len(heroIDs) == 0 {
		return map[string][]string{}, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT super_hero_id, super_power_id
		 FROM super_hero_powers
		 WHERE super_hero_id = ANY($1::uuid[])`, heroIDs)
	if err != nil {
		return nil, fmt.Errorf("load super hero powers: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]string)
	for rows.Next() {
		var heroID, powerID string
		if err := rows.Scan(&heroID, &powerID); err != nil {
			return nil, fmt.Errorf("scan super hero power: %w", err)
		}
		out[heroID] = append(out[heroID], powerID)
	}
	return out, rows.Err()
}
