package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/files-manager/internal/domain/entity"
	"github.com/oksasatya/files-manager/pkg/apperror"
)

func newUserRepo(t *testing.T) (*UserRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewUserRepository(mock), mock
}

func TestUserRepository_Create(t *testing.T) {
	repo, mock := newUserRepo(t)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("alice@x.com", "$2a$10$digest").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(ownerID, now))

	u := &entity.User{Email: "alice@x.com", Password: "$2a$10$digest"}
	require.NoError(t, repo.Create(context.Background(), u))
	assert.Equal(t, ownerID, u.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_CreateDuplicateEmail(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("alice@x.com", "$2a$10$digest").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	err := repo.Create(context.Background(), &entity.User{Email: "alice@x.com", Password: "$2a$10$digest"})
	assert.ErrorIs(t, err, apperror.ErrAlreadyExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByEmailNotFound(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectQuery(`FROM users\s+WHERE email = \$1`).
		WithArgs("nobody@x.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "password_hash", "created_at"}))

	_, err := repo.GetByEmail(context.Background(), "nobody@x.com")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByID(t *testing.T) {
	repo, mock := newUserRepo(t)
	now := time.Now()

	mock.ExpectQuery(`FROM users\s+WHERE id = \$1`).
		WithArgs(ownerID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "password_hash", "created_at"}).
			AddRow(ownerID, "alice@x.com", "$2a$10$digest", now))

	u, err := repo.GetByID(context.Background(), ownerID)
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", u.Email)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAlive(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectPing()
	assert.True(t, Alive(context.Background(), mock))

	mock.ExpectPing().WillReturnError(errors.New("down"))
	assert.False(t, Alive(context.Background(), mock))

	assert.False(t, Alive(context.Background(), nil))
	require.NoError(t, mock.ExpectationsWereMet())
}
