package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aussiebroadwan/otpauth/internal/auth/domain"
	"github.com/aussiebroadwan/otpauth/internal/auth/store"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (pgxmock.PgxPoolIface, *Store) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewStoreWithPool(mock, "postgres://test")
}

var identityCols = []string{"id", "name", "phone_number", "address", "created_at", "updated_at"}

func TestGetIdentityByPhoneNumber(t *testing.T) {
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	address := "12 MG Road"

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		want      domain.Identity
		wantErr   error
		errMsg    string
	}{
		{
			name: "found",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT id, name, phone_number, address, created_at, updated_at FROM identities WHERE phone_number = \$1`).
					WithArgs("9876543210").
					WillReturnRows(pgxmock.NewRows(identityCols).
						AddRow("01J0000000000000000000000A", "Asha", "9876543210", &address, created, created))
			},
			want: domain.Identity{
				ID: "01J0000000000000000000000A", Name: "Asha", PhoneNumber: "9876543210",
				Address: address, CreatedAt: created, UpdatedAt: created,
			},
		},
		{
			name: "not found",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`FROM identities WHERE phone_number`).
					WithArgs("9876543210").
					WillReturnRows(pgxmock.NewRows(identityCols))
			},
			wantErr: store.ErrNotFound,
		},
		{
			name: "database error",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`FROM identities WHERE phone_number`).
					WithArgs("9876543210").
					WillReturnError(errors.New("connection refused"))
			},
			errMsg: "connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, s := newMock(t)
			tt.setupMock(mock)

			got, err := s.Identities().GetIdentityByPhoneNumber(context.Background(), "9876543210")
			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			case tt.errMsg != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				assert.NotErrorIs(t, err, store.ErrNotFound)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCreateIdentity(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	in := domain.Identity{ID: "01J0000000000000000000000A", Name: "Asha", PhoneNumber: "9876543210", CreatedAt: now, UpdatedAt: now}

	t.Run("inserts with null address", func(t *testing.T) {
		mock, s := newMock(t)
		mock.ExpectExec(`INSERT INTO identities`).
			WithArgs(in.ID, in.Name, in.PhoneNumber, (*string)(nil), now, now).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, s.Identities().CreateIdentity(context.Background(), in))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation", func(t *testing.T) {
		mock, s := newMock(t)
		mock.ExpectExec(`INSERT INTO identities`).
			WithArgs(in.ID, in.Name, in.PhoneNumber, (*string)(nil), now, now).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "identities_phone_number_key"})

		err := s.Identities().CreateIdentity(context.Background(), in)
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("other errors are not conflicts", func(t *testing.T) {
		mock, s := newMock(t)
		mock.ExpectExec(`INSERT INTO identities`).
			WithArgs(in.ID, in.Name, in.PhoneNumber, (*string)(nil), now, now).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.NotNullViolation})

		err := s.Identities().CreateIdentity(context.Background(), in)
		require.Error(t, err)
		require.NotErrorIs(t, err, store.ErrAlreadyExists)
	})
}

func TestChallengeLedger(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0).UTC()
	exp := now.Add(5 * time.Minute)

	t.Run("reserve attempt granted", func(t *testing.T) {
		mock, s := newMock(t)
		mock.ExpectQuery(`(?s)INSERT INTO challenges .* WHERE challenges.failed_attempts < \$3\s+RETURNING failed_attempts`).
			WithArgs("jti-1", exp, 5).
			WillReturnRows(pgxmock.NewRows([]string{"failed_attempts"}).AddRow(3))

		ok, err := s.Challenges().ReserveAttempt(ctx, "jti-1", 5, exp)
		require.NoError(t, err)
		require.True(t, ok)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reserve attempt refused once the budget is spent", func(t *testing.T) {
		mock, s := newMock(t)
		mock.ExpectQuery(`(?s)INSERT INTO challenges .* RETURNING failed_attempts`).
			WithArgs("jti-1", exp, 5).
			WillReturnRows(pgxmock.NewRows([]string{"failed_attempts"}))

		ok, err := s.Challenges().ReserveAttempt(ctx, "jti-1", 5, exp)
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("reserve attempt error carries the jti", func(t *testing.T) {
		mock, s := newMock(t)
		mock.ExpectQuery(`(?s)INSERT INTO challenges`).
			WithArgs("jti-1", exp, 5).
			WillReturnError(errors.New("conn reset"))

		_, err := s.Challenges().ReserveAttempt(ctx, "jti-1", 5, exp)
		oe, ok := oops.AsOops(err)
		require.True(t, ok)
		require.Equal(t, "CHALLENGE_RESERVE_FAILED", oe.Code())
		require.Equal(t, "jti-1", oe.Context()["jti"])
	})

	t.Run("release attempt", func(t *testing.T) {
		mock, s := newMock(t)
		mock.ExpectExec(`UPDATE challenges SET failed_attempts = failed_attempts - 1`).
			WithArgs("jti-1").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, s.Challenges().ReleaseAttempt(ctx, "jti-1"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failures default to zero", func(t *testing.T) {
		mock, s := newMock(t)
		mock.ExpectQuery(`SELECT failed_attempts FROM challenges`).
			WithArgs("jti-1").
			WillReturnRows(pgxmock.NewRows([]string{"failed_attempts"}))

		n, err := s.Challenges().Failures(ctx, "jti-1")
		require.NoError(t, err)
		require.Zero(t, n)
	})

	t.Run("consume", func(t *testing.T) {
		mock, s := newMock(t)
		mock.ExpectExec(`(?s)INSERT INTO challenges .* WHERE challenges.consumed_at IS NULL`).
			WithArgs("jti-1", now, exp).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec(`INSERT INTO challenges`).
			WithArgs("jti-1", now, exp).
			WillReturnResult(pgxmock.NewResult("INSERT", 0))

		require.NoError(t, s.Challenges().Consume(ctx, "jti-1", now, exp))
		require.ErrorIs(t, s.Challenges().Consume(ctx, "jti-1", now, exp), store.ErrAlreadyConsumed)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("delete expired", func(t *testing.T) {
		mock, s := newMock(t)
		mock.ExpectExec(`DELETE FROM challenges WHERE expires_at <= \$1`).
			WithArgs(now).
			WillReturnResult(pgxmock.NewResult("DELETE", 4))

		n, err := s.Challenges().DeleteExpired(ctx, now)
		require.NoError(t, err)
		require.EqualValues(t, 4, n)
	})
}

func TestWithTx(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0).UTC()
	in := domain.Identity{ID: "01J0000000000000000000000A", Name: "Asha", PhoneNumber: "9876543210", CreatedAt: now, UpdatedAt: now}

	t.Run("commit", func(t *testing.T) {
		mock, s := newMock(t)
		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO identities`).
			WithArgs(in.ID, in.Name, in.PhoneNumber, (*string)(nil), now, now).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()

		err := s.WithTx(ctx, func(tx store.Tx) error {
			return tx.Identities().CreateIdentity(ctx, in)
		})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rollback", func(t *testing.T) {
		mock, s := newMock(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := errors.New("boom")
		err := s.WithTx(ctx, func(store.Tx) error { return boom })
		require.ErrorIs(t, err, boom)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMigrateURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@localhost/db", migrateURL("postgres://u:p@localhost/db"))
	assert.Equal(t, "pgx5://u:p@localhost/db", migrateURL("postgresql://u:p@localhost/db"))
	assert.Equal(t, "pgx5://u:p@localhost/db", migrateURL("pgx5://u:p@localhost/db"))
}
