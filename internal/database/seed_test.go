package database

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"super-heroes-api/internal/model"
	"super-heroes-api/internal/repository"
)

type fakeRoleStore struct {
	roles   map[string]model.Role
	created []string
}

func newFakeRoleStore() *fakeRoleStore {
	return &fakeRoleStore{roles: make(map[string]model.Role)}
}

func (f *fakeRoleStore) Create(_ context.Context, role model.Role) error {
	if _, ok := f.roles[role.Name]; ok {
		return repository.ErrDuplicateKey
	}
	f.roles[role.Name] = role
	f.created = append(f.created, role.Name)
	return nil
}

func (f *fakeRoleStore) FindByName(_ context.Context, name string) (model.Role, error) {
	role, ok := f.roles[name]
	if !ok {
		return model.Role{}, repository.ErrNotFound
	}
	return role, nil
}

type fakeUserStore struct {
	users map[string]repository.UserParams
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]repository.UserParams)}
}

func (f *fakeUserStore) Create(_ context.Context, p repository.UserParams) error {
	if _, ok := f.users[p.Username]; ok {
		return repository.ErrDuplicateKey
	}
	f.users[p.Username] = p
	return nil
}

type fakeAreaStore struct {
	areas map[string]model.ProtectionArea
}

func newFakeAreaStore() *fakeAreaStore {
	return &fakeAreaStore{areas: make(map[string]model.ProtectionArea)}
}

func (f *fakeAreaStore) Create(_ context.Context, a model.ProtectionArea) error {
	if _, ok := f.areas[a.Name]; ok {
		return repository.ErrDuplicateKey
	}
	f.areas[a.Name] = a
	return nil
}

func TestSeederPopulatesEmptyDatabase(t *testing.T) {
	roles, users, areas := newFakeRoleStore(), newFakeUserStore(), newFakeAreaStore()
	seeder := NewSeeder(roles, users, areas, bcrypt.MinCost)

	require.NoError(t, seeder.Run(context.Background()))

	assert.ElementsMatch(t, []string{model.RoleAdmin, model.RoleStandard}, roles.created)
	assert.Contains(t, areas.areas, "Gotham")
	assert.Contains(t, areas.areas, "New York")

	admin, ok := users.users["admin"]
	require.True(t, ok)
	assert.Equal(t, []string{roles.roles[model.RoleAdmin].ID}, admin.RoleIDs)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("admin123")))
}

func TestSeederRunIsIdempotent(t *testing.T) {
	roles, users, areas := newFakeRoleStore(), newFakeUserStore(), newFakeAreaStore()
	seeder := NewSeeder(roles, users, areas, bcrypt.MinCost)

	require.NoError(t, seeder.Run(context.Background()))
	first := users.users["admin"]

	require.NoError(t, seeder.Run(context.Background()))

	assert.Len(t, roles.roles, 2)
	assert.Len(t, roles.created, 2)
	assert.Len(t, areas.areas, 2)
	assert.Equal(t, first, users.users["admin"], "existing admin account must be untouched")
}

func TestSeederLinksAdminToExistingRole(t *testing.T) {
	// The Admin role is already present; its id, not a fresh one, must be
	// the one attached to the administrator account.
	roles := newFakeRoleStore()
	roles.roles[model.RoleAdmin] = model.Role{ID: "pre-existing-id", Name: model.RoleAdmin}
	users, areas := newFakeUserStore(), newFakeAreaStore()

	seeder := NewSeeder(roles, users, areas, bcrypt.MinCost)
	require.NoError(t, seeder.Run(context.Background()))

	assert.Equal(t, []string{"pre-existing-id"}, users.users["admin"].RoleIDs)
}

type failingRoleStore struct{ err error }

func (f failingRoleStore) Create(context.Context, model.Role) error { return f.err }
func (f failingRoleStore) FindByName(context.Context, string) (model.Role, error) {
	return model.Role{}, f.err
}

func TestSeederSurfacesStoreFailures(t *testing.T) {
	boom := errors.New("connection reset")
	seeder := NewSeeder(failingRoleStore{err: boom}, newFakeUserStore(), newFakeAreaStore(), bcrypt.MinCost)

	err := seeder.Run(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}
