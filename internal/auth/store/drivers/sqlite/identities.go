package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/aussiebroadwan/otpauth/internal/auth/domain"
	"github.com/aussiebroadwan/otpauth/internal/auth/store"
	"github.com/samber/oops"
)

type identitiesRepo struct {
	db dbtx
}

const selectIdentity = `SELECT id, name, phone_number, address, created_at, updated_at FROM identities`

func (r *identitiesRepo) GetIdentityByID(ctx context.Context, id string) (domain.Identity, error) {
	i, err := r.get(ctx, selectIdentity+` WHERE id = ?`, id)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return domain.Identity{}, oops.Code("IDENTITY_GET_FAILED").With("id", id).Wrap(err)
	}
	return i, err
}

func (r *identitiesRepo) GetIdentityByPhoneNumber(ctx context.Context, phoneNumber string) (domain.Identity, error) {
	i, err := r.get(ctx, selectIdentity+` WHERE phone_number = ?`, phoneNumber)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return domain.Identity{}, oops.Code("IDENTITY_GET_FAILED").With("phone_number", phoneNumber).Wrap(err)
	}
	return i, err
}

func (r *identitiesRepo) get(ctx context.Context, query string, arg string) (domain.Identity, error) {
	var (
		i       domain.Identity
		address sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&i.ID, &i.Name, &i.PhoneNumber, &address, &i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		return domain.Identity{}, mapNotFound(err)
	}
	i.Address = mapNullString(address)
	i.CreatedAt = i.CreatedAt.UTC()
	i.UpdatedAt = i.UpdatedAt.UTC()
	return i, nil
}

func (r *identitiesRepo) CreateIdentity(ctx context.Context, i domain.Identity) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO identities (id, name, phone_number, address, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		i.ID, i.Name, i.PhoneNumber, mapStringNull(i.Address), i.CreatedAt.UTC(), i.UpdatedAt.UTC(),
	)
	switch err = mapUniqueViolation(err); {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrAlreadyExists):
		return oops.Code("IDENTITY_EXISTS").With("id", i.ID).Wrap(err)
	default:
		return oops.Code("IDENTITY_CREATE_FAILED").With("id", i.ID).Wrap(err)
	}
}
