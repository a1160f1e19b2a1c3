package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/otpauth/internal/auth/domain"
)

var (
	ErrNotFound        = errors.New("store: not found")
	ErrAlreadyExists   = errors.New("store: already exists")
	ErrAlreadyConsumed = errors.New("store: challenge already consumed")
)

// Store is the root data access interface implemented by the sqlite and
// postgres drivers. Repositories hang off it so a transaction can hand out
// the same repositories bound to the tx.
type Store interface {
	Identities() Identities
	Challenges() Challenges

	ApplyMigrations() error

	// Tx starts a read/write transaction. The caller must Commit or Rollback.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error
	Ping(ctx context.Context) error
}

// Tx is a transactional store.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Identities interface {
	GetIdentityByID(ctx context.Context, id string) (domain.Identity, error)

	// GetIdentityByPhoneNumber looks up the natural key.
	GetIdentityByPhoneNumber(ctx context.Context, phoneNumber string) (domain.Identity, error)

	// CreateIdentity inserts i as given. A duplicate phone number or id
	// returns ErrAlreadyExists.
	CreateIdentity(ctx context.Context, i domain.Identity) error
}

// Challenges is the ledger of challenge tokens that have been redeemed or
// have seen wrong codes, keyed by the token jti. Implementations must be safe
// for concurrent use across processes.
type Challenges interface {
	// ReserveAttempt atomically counts one verification attempt against id
	// unless limit attempts are already held. It reports whether the attempt
	// was granted; concurrent callers never get more than limit grants.
	ReserveAttempt(ctx context.Context, id string, limit int, expiresAt time.Time) (bool, error)

	// ReleaseAttempt hands back a granted attempt whose code was correct, so
	// the count only reflects wrong codes.
	ReleaseAttempt(ctx context.Context, id string) error

	// Failures returns the held attempt count, zero for unknown ids.
	Failures(ctx context.Context, id string) (int, error)

	// Consume marks id redeemed. Exactly one caller wins; the rest get
	// ErrAlreadyConsumed.
	Consume(ctx context.Context, id string, now, expiresAt time.Time) error

	// DeleteExpired drops records whose expiry is at or before now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
