package postgres

import (
	"context"
	"errors"
	"io"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"passcode-app/internal/database"
	domain "passcode-app/internal/domain/user"
	repo "passcode-app/internal/repository/interfaces"
	"passcode-app/pkg/logger"
	"passcode-app/pkg/passcode"
)

var userColumns = []string{"id", "uuid", "code", "created_at"}

func newRepoWithMock(t *testing.T) (*UserRepository, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	db, err := database.NewWithConn(conn, "test", logger.New(io.Discard, "test", "error"))
	require.NoError(t, err)

	return NewUserRepository(db.DB), mock
}

func mustCode(t *testing.T, s string) passcode.Code {
	t.Helper()
	c, err := passcode.Parse(s)
	require.NoError(t, err)
	return c
}

func TestCreate_Success(t *testing.T) {
	r, mock := newRepoWithMock(t)

	u := &domain.User{
		UUID: uuid.New(),
		Code: mustCode(t, "123456789012345678901234"),
	}

	q := regexp.QuoteMeta(`INSERT INTO "users" ("uuid","code","created_at") VALUES ($1,$2,$3) RETURNING "id"`)
	mock.ExpectQuery(q).
		WithArgs(u.UUID.String(), []byte("123456789012345678901234"), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	require.NoError(t, r.Create(context.Background(), u))
	require.Equal(t, int64(42), u.ID)
	require.False(t, u.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DuplicateUUID(t *testing.T) {
	r, mock := newRepoWithMock(t)

	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_users_uuid_unique"})

	err := r.Create(context.Background(), &domain.User{UUID: uuid.New(), Code: mustCode(t, "000000000000000000000000")})
	require.ErrorIs(t, err, repo.ErrUUIDExists)
}

func TestCreate_ZeroCodeRejectedBeforeQuery(t *testing.T) {
	r, mock := newRepoWithMock(t)

	err := r.Create(context.Background(), &domain.User{UUID: uuid.New()})
	require.ErrorIs(t, err, passcode.ErrInvalidDigit)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByUUID_Success(t *testing.T) {
	r, mock := newRepoWithMock(t)

	id := uuid.New()
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`^SELECT \* FROM "users" WHERE uuid = \$1`).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(int64(7), id.String(), []byte("000000000000000000000000"), created))

	u, err := r.GetByUUID(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, int64(7), u.ID)
	require.Equal(t, id, u.UUID)
	require.Equal(t, "000000000000000000000000", u.Code.String())
	require.Equal(t, created, u.CreatedAt)
}

func TestGetByUUID_NotFound(t *testing.T) {
	r, mock := newRepoWithMock(t)

	mock.ExpectQuery(`^SELECT \* FROM "users" WHERE uuid = \$1`).
		WillReturnRows(sqlmock.NewRows(userColumns))

	_, err := r.GetByUUID(context.Background(), uuid.New())
	require.ErrorIs(t, err, repo.ErrNotFound)
}

func TestGetByID_CorruptCode(t *testing.T) {
	tests := []struct {
		name string
		code any
		want error
	}{
		{name: "short", code: []byte("12345"), want: passcode.ErrLengthMismatch},
		{name: "non digit", code: []byte("12345678901234567890123:"), want: passcode.ErrInvalidDigit},
		{name: "null", code: nil, want: passcode.ErrNullCode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, mock := newRepoWithMock(t)

			mock.ExpectQuery(`^SELECT \* FROM "users" WHERE id = \$1`).
				WillReturnRows(sqlmock.NewRows(userColumns).
					AddRow(int64(1), uuid.NewString(), tt.code, time.Now()))

			u, err := r.GetByID(context.Background(), 1)
			require.Nil(t, u)
			require.ErrorIs(t, err, repo.ErrCorruptRecord)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestGetByID_DBError(t *testing.T) {
	r, mock := newRepoWithMock(t)

	mock.ExpectQuery(`^SELECT \* FROM "users" WHERE id = \$1`).
		WillReturnError(errors.New("db down"))

	_, err := r.GetByID(context.Background(), 1)
	require.ErrorContains(t, err, "db down")
	require.NotErrorIs(t, err, repo.ErrCorruptRecord)
}

func TestList(t *testing.T) {
	r, mock := newRepoWithMock(t)

	a, b := uuid.New(), uuid.New()
	mock.ExpectQuery(`^SELECT \* FROM "users" ORDER BY id DESC LIMIT`).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(int64(2), b.String(), []byte("222222222222222222222222"), time.Now()).
			AddRow(int64(1), a.String(), []byte("111111111111111111111111"), time.Now()))

	users, err := r.List(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, b, users[0].UUID)
	require.Equal(t, "111111111111111111111111", users[1].Code.String())
}

func TestNullCodeNeverYieldsUser(t *testing.T) {
	t.Run("get by uuid", func(t *testing.T) {
		r, mock := newRepoWithMock(t)
		mock.ExpectQuery(`^SELECT \* FROM "users" WHERE uuid = \$1`).
			WillReturnRows(sqlmock.NewRows(userColumns).
				AddRow(int64(1), uuid.NewString(), nil, time.Now()))

		u, err := r.GetByUUID(context.Background(), uuid.New())
		require.Nil(t, u)
		require.ErrorIs(t, err, repo.ErrCorruptRecord)
		require.ErrorIs(t, err, passcode.ErrNullCode)
	})

	t.Run("list", func(t *testing.T) {
		r, mock := newRepoWithMock(t)
		mock.ExpectQuery(`^SELECT \* FROM "users" ORDER BY id DESC`).
			WillReturnRows(sqlmock.NewRows(userColumns).
				AddRow(int64(2), uuid.NewString(), []byte("222222222222222222222222"), time.Now()).
				AddRow(int64(1), uuid.NewString(), nil, time.Now()))

		users, err := r.List(context.Background(), 0, 0)
		require.Nil(t, users)
		require.ErrorIs(t, err, repo.ErrCorruptRecord)
		require.ErrorIs(t, err, passcode.ErrNullCode)
	})
}

func TestUpdateCode(t *testing.T) {
	r, mock := newRepoWithMock(t)

	u := &domain.User{UUID: uuid.New(), Code: mustCode(t, "999999999999999999999999")}

	mock.ExpectExec(`^UPDATE "users" SET "code"=\$1 WHERE uuid = \$2`).
		WithArgs([]byte("999999999999999999999999"), u.UUID.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, r.UpdateCode(context.Background(), u))

	mock.ExpectExec(`^UPDATE "users"`).WillReturnResult(sqlmock.NewResult(0, 0))
	require.ErrorIs(t, r.UpdateCode(context.Background(), u), repo.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete(t *testing.T) {
	r, mock := newRepoWithMock(t)

	id := uuid.New()
	mock.ExpectExec(`^DELETE FROM "users" WHERE uuid = \$1`).
		WithArgs(id.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, r.Delete(context.Background(), id))

	mock.ExpectExec(`^DELETE FROM "users"`).WillReturnResult(sqlmock.NewResult(0, 0))
	require.ErrorIs(t, r.Delete(context.Background(), id), repo.ErrNotFound)
}
