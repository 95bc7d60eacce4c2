package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"super-heroes-api/internal/model"
)

// UserParams is the write shape for a user. Roles are referenced by id;
// broken references surface as ErrUnknownRole.
type UserParams struct {
	ID           string
	Username     string
	PasswordHash string
	RoleIDs      []string
}

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (model.User, error) {
	return r.findOne(ctx, `SELECT id, username, password_hash FROM users WHERE id = $1`, id)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (model.User, error) {
	return r.findOne(ctx, `SELECT id, username, password_hash FROM users WHERE username = $1`, username)
}

// ExistsByUsername is the authorizer's per-request liveness check: a token
// for a deleted user must stop working immediately.
func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check username exists: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) List(ctx context.Context, limit int, offset int) ([]model.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, username, password_hash FROM users ORDER BY username LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]model.User, 0)
	ids := make([]string, 0)
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		u.Roles = []model.Role{}
		users = append(users, u)
		ids = append(ids, u.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rolesByUser, err := r.rolesFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if roles, ok := rolesByUser[users[i].ID]; ok {
			users[i].Roles = roles
		}
	}
	return users, nil
}

func (r *UserRepository) Create(ctx context.Context, p UserParams) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create user: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO users (id, username, password_hash) VALUES ($1, $2, $3)`,
		p.ID, p.Username, p.PasswordHash)
	if err != nil {
		return classify(err)
	}

	if err := insertUserRoles(ctx, tx, p.ID, p.RoleIDs); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Update replaces username, password hash and the full role set.
func (r *UserRepository) Update(ctx context.Context, p UserParams) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin update user: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE users SET username = $2, password_hash = $3 WHERE id = $1`,
		p.ID, p.Username, p.PasswordHash)
	if err != nil {
		return classify(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1`, p.ID); err != nil {
		return classify(err)
	}
	if err := insertUserRoles(ctx, tx, p.ID, p.RoleIDs); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return classify(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg string) (model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if err != nil {
		return model.User{}, classifyNoRows(err)
	}

	rolesByUser, err := r.rolesFor(ctx, []string{u.ID})
	if err != nil {
		return model.User{}, err
	}
	u.Roles = rolesByUser[u.ID]
	if u.Roles == nil {
		u.Roles = []model.Role{}
	}
	return u, nil
}

func (r *UserRepository) rolesFor(ctx context.Context, userIDs []string) (map[string][]model.Role, error) {
	if len(userIDs) == 0 {
		return map[string][]model.Role{}, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT ur.user_id, r.id, r.name
		 FROM user_roles ur
		 JOIN roles r ON r.id = ur.role_id
		 WHERE ur.user_id = ANY($1::uuid[])
		 ORDER BY r.name`, userIDs)
	if err != nil {
		return nil, fmt.Errorf("load user roles: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]model.Role)
	for rows.Next() {
		var userID string
		var role model.Role
		if err := rows.Scan(&userID, &role.ID, &role.Name); err != nil {
			return nil, fmt.Errorf("scan user role: %w", err)
		}
		out[userID] = append(out[userID], role)
	}
	return out, rows.Err()
}

func insertUserRoles(ctx context.Context, tx pgx.Tx, userID string, roleIDs []string) error {
	for _, roleID := range roleIDs {
		_, err := tx.Exec(ctx,
			`INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)`, userID, roleID)
		if err != nil {
			return classify(err)
		}
	}
	return nil
}
