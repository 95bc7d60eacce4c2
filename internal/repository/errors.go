package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors decided at the storage boundary. Handlers map these to
// HTTP responses and never look at driver error text.
var (
	ErrNotFound              = errors.New("record not found")
	ErrDuplicateKey          = errors.New("duplicate key")
	ErrReferenced            = errors.New("record is referenced by another record")
	ErrUnknownRole           = errors.New("role does not exist")
	ErrUnknownProtectionArea = errors.New("protection area does not exist")
	ErrUnknownSuperPower     = errors.New("super power does not exist")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// classify maps a pgx error onto one of the sentinels above. Foreign key
// violations are told apart by constraint name so callers learn which
// reference was broken.
func classify(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		return ErrDuplicateKey
	case pgForeignKeyViolation:
		switch pgErr.ConstraintName {
		case "user_roles_role_id_fkey":
			return ErrUnknownRole
		case "super_heroes_protection_area_id_fkey":
			return ErrUnknownProtectionArea
		case "super_hero_powers_super_power_id_fkey":
			return ErrUnknownSuperPower
		default:
			return ErrReferenced
		}
	}

	return err
}

// classifyNoRows is classify plus the single-row lookup case.
func classifyNoRows(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return classify(err)
}
