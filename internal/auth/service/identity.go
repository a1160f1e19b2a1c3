package service

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/otpauth/internal/auth/domain"
	"github.com/aussiebroadwan/otpauth/internal/auth/store"
)

type IdentityService struct {
	Store store.Store
}

// Get fetches an identity by id.
func (s *IdentityService) Get(ctx context.Context, id string) (domain.Identity, error) {
	i, err := s.Store.Identities().GetIdentityByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Identity{}, ErrIdentityNotFound
	}
	return i, err
}
