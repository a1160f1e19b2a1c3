package postgres

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/otpauth/internal/auth/domain"
	"github.com/aussiebroadwan/otpauth/internal/auth/store"
	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"
)

type identitiesRepo struct {
	q querier
}

const selectIdentity = `SELECT id, name, phone_number, address, created_at, updated_at FROM identities`

func (r *identitiesRepo) GetIdentityByID(ctx context.Context, id string) (domain.Identity, error) {
	i, err := r.get(ctx, selectIdentity+` WHERE id = $1`, id)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return domain.Identity{}, oops.Code("IDENTITY_GET_FAILED").With("id", id).Wrap(err)
	}
	return i, err
}

func (r *identitiesRepo) GetIdentityByPhoneNumber(ctx context.Context, phoneNumber string) (domain.Identity, error) {
	i, err := r.get(ctx, selectIdentity+` WHERE phone_number = $1`, phoneNumber)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return domain.Identity{}, oops.Code("IDENTITY_GET_FAILED").With("phone_number", phoneNumber).Wrap(err)
	}
	return i, err
}

func (r *identitiesRepo) get(ctx context.Context, sql, arg string) (domain.Identity, error) {
	var (
		i       domain.Identity
		address *string
	)
	err := r.q.QueryRow(ctx, sql, arg).Scan(&i.ID, &i.Name, &i.PhoneNumber, &address, &i.CreatedAt, &i.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Identity{}, store.ErrNotFound
	}
	if err != nil {
		return domain.Identity{}, err
	}
	if address != nil {
		i.Address = *address
	}
	i.CreatedAt = i.CreatedAt.UTC()
	i.UpdatedAt = i.UpdatedAt.UTC()
	return i, nil
}

func (r *identitiesRepo) CreateIdentity(ctx context.Context, i domain.Identity) error {
	var address *string
	if i.Address != "" {
		address = &i.Address
	}

	_, err := r.q.Exec(ctx,
		`INSERT INTO identities (id, name, phone_number, address, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		i.ID, i.Name, i.PhoneNumber, address, i.CreatedAt, i.UpdatedAt,
	)
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return oops.Code("IDENTITY_EXISTS").With("id", i.ID).Wrap(store.ErrAlreadyExists)
	default:
		return oops.Code("IDENTITY_CREATE_FAILED").With("id", i.ID).Wrap(err)
	}
}
