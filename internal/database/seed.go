package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"super-heroes-api/internal/model"
	"super-heroes-api/internal/repository"
)

type seedRoleStore interface {
	Create(ctx context.Context, role model.Role) error
	FindByName(ctx context.Context, name string) (model.Role, error)
}

type seedUserStore interface {
	Create(ctx context.Context, p repository.UserParams) error
}

type seedAreaStore interface {
	Create(ctx context.Context, a model.ProtectionArea) error
}

// Seeder inserts the baseline catalog data (the Admin and Standard roles,
// an administrator account, two protection areas) through the same
// repositories the API writes with. Every step tolerates data that is
// already present, so the command can be re-run against a populated
// database.
type Seeder struct {
	roles      seedRoleStore
	users      seedUserStore
	areas      seedAreaStore
	bcryptCost int
}

func NewSeeder(roles seedRoleStore, users seedUserStore, areas seedAreaStore, bcryptCost int) *Seeder {
	return &Seeder{roles: roles, users: users, areas: areas, bcryptCost: bcryptCost}
}

func (s *Seeder) Run(ctx context.Context) error {
	adminRole, err := s.ensureRole(ctx, model.RoleAdmin)
	if err != nil {
		return err
	}
	if _, err := s.ensureRole(ctx, model.RoleStandard); err != nil {
		return err
	}

	if err := s.ensureAdminUser(ctx, adminRole.ID); err != nil {
		return err
	}

	areas := []model.ProtectionArea{
		{ID: uuid.NewString(), Name: "Gotham", Latitude: 12.343, Longitude: 35.978, Radius: 5},
		{ID: uuid.NewString(), Name: "New York", Latitude: 22.124, Longitude: 41.073, Radius: 10},
	}
	for _, a := range areas {
		err := s.areas.Create(ctx, a)
		if err != nil && !errors.Is(err, repository.ErrDuplicateKey) {
			return fmt.Errorf("seed protection area %q: %w", a.Name, err)
		}
	}

	slog.Info("database seeded", "areas", len(areas))
	return nil
}

// ensureRole creates the role, or loads the existing one so its id can be
// referenced by the admin account.
func (s *Seeder) ensureRole(ctx context.Context, name string) (model.Role, error) {
	role := model.Role{ID: uuid.NewString(), Name: name}

	err := s.roles.Create(ctx, role)
	if errors.Is(err, repository.ErrDuplicateKey) {
		existing, findErr := s.roles.FindByName(ctx, name)
		if findErr != nil {
			return model.Role{}, fmt.Errorf("load existing role %q: %w", name, findErr)
		}
		return existing, nil
	}
	if err != nil {
		return model.Role{}, fmt.Errorf("seed role %q: %w", name, err)
	}

	return role, nil
}

func (s *Seeder) ensureAdminUser(ctx context.Context, adminRoleID string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	err = s.users.Create(ctx, repository.UserParams{
		ID:           uuid.NewString(),
		Username:     "admin",
		PasswordHash: string(hash),
		RoleIDs:      []string{adminRoleID},
	})
	if errors.Is(err, repository.ErrDuplicateKey) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}

	return nil
}
