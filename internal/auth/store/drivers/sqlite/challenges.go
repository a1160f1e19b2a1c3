package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/aussiebroadwan/otpauth/internal/auth/store"
	"github.com/samber/oops"
)

type challengesRepo struct {
	db dbtx
}

func (r *challengesRepo) ReserveAttempt(ctx context.Context, id string, limit int, expiresAt time.Time) (bool, error) {
	if limit <= 0 {
		return false, nil
	}

	var n int
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO challenges (id, failed_attempts, expires_at) VALUES (?, 1, ?)
		 ON CONFLICT (id) DO UPDATE SET failed_attempts = challenges.failed_attempts + 1
		 WHERE challenges.failed_attempts < ?
		 RETURNING failed_attempts`,
		id, expiresAt.Unix(), limit,
	).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, oops.Code("CHALLENGE_RESERVE_FAILED").With("jti", id).Wrap(err)
	}
	return true, nil
}

func (r *challengesRepo) ReleaseAttempt(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE challenges SET failed_attempts = failed_attempts - 1 WHERE id = ? AND failed_attempts > 0`, id)
	if err != nil {
		return oops.Code("CHALLENGE_RELEASE_FAILED").With("jti", id).Wrap(err)
	}
	return nil
}

func (r *challengesRepo) Failures(ctx context.Context, id string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT failed_attempts FROM challenges WHERE id = ?`, id).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, oops.Code("CHALLENGE_LOOKUP_FAILED").With("jti", id).Wrap(err)
	}
	return n, nil
}

func (r *challengesRepo) Consume(ctx context.Context, id string, now, expiresAt time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO challenges (id, failed_attempts, consumed_at, expires_at) VALUES (?, 0, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET consumed_at = excluded.consumed_at
		 WHERE challenges.consumed_at IS NULL`,
		id, now.Unix(), expiresAt.Unix(),
	)
	if err != nil {
		return oops.Code("CHALLENGE_CONSUME_FAILED").With("jti", id).Wrap(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return oops.Code("CHALLENGE_CONSUME_FAILED").With("jti", id).Wrap(err)
	}
	if n == 0 {
		return store.ErrAlreadyConsumed
	}
	return nil
}

func (r *challengesRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM challenges WHERE expires_at <= ?`, now.Unix())
	if err != nil {
		return 0, oops.Code("CHALLENGE_PRUNE_FAILED").Wrap(err)
	}
	return res.RowsAffected()
}
