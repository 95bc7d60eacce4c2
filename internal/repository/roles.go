package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"super-heroes-api/internal/model"
)

type RoleRepository struct {
	pool *pgxpool.Pool
}

func NewRoleRepository(pool *pgxpool.Pool) *RoleRepository {
	return &RoleRepository{pool: pool}
}

// FindNamesByIDs resolves the current names of the given role ids. Ids with
// no matching role are silently skipped; the authorizer treats an empty
// result as no permissions.
func (r *RoleRepository) FindNamesByIDs(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT name FROM roles WHERE id = ANY($1::uuid[])`, ids)
	if err != nil {
		return nil, fmt.Errorf("find role names: %w", err)
	}
	defer rows.Close()

	names := make([]string, 0, len(ids))
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan role name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (r *RoleRepository) FindByName(ctx context.Context, name string) (model.Role, error) {
	var role model.Role
	err := r.pool.QueryRow(ctx,
		`SELECT id, name FROM roles WHERE name = $1`, name).
		Scan(&role.ID, &role.Name)
	if err != nil {
		return model.Role{}, classifyNoRows(err)
	}
	return role, nil
}

func (r *RoleRepository) Create(ctx context.Context, role model.Role) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO roles (id, name) VALUES ($1, $2)`, role.ID, role.Name)
	if err != nil {
		return classify(err)
	}
	return nil
}
