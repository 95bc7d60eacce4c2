package service

import (
	"context"
	"errors"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"super-heroes-api/internal/model"
	"super-heroes-api/internal/repository"
	"super-heroes-api/pkg/apierror"
)

type userFinder interface {
	FindByUsername(ctx context.Context, username string) (model.User, error)
}

type tokenEncoder interface {
	Encode(user model.User) (string, error)
}

// AuthService verifies a username/password against the credential store
// and issues a signed token. It keeps no session state; the token itself
// is the only artifact of a login.
type AuthService struct {
	users userFinder
	codec tokenEncoder
}

func NewAuthService(users userFinder, codec tokenEncoder) *AuthService {
	return &AuthService{users: users, codec: codec}
}

// Authenticate returns a signed token snapshotting the user's identity and
// role-id set at this moment. An unknown username is 404, a wrong password
// 401; store failures stay internal.
func (s *AuthService) Authenticate(ctx context.Context, username string, password string) (string, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return "", apierror.New("NOT_FOUND", "User not found", http.StatusNotFound)
	}
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", apierror.New("UNAUTHORIZED", "Invalid username/password", http.StatusUnauthorized)
	}

	return s.codec.Encode(user)
}
