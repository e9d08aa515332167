package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/task-tracker/internal/domain"
)

func TestUserRepository_ExistsByUsername(t *testing.T) {
	mock := newMock(t)
	r := NewUserRepository(mock)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM users WHERE username=\$1\)`).
		WithArgs("alice").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	exists, err := r.ExistsByUsername(ctx, "alice")
	require.NoError(t, err)
	require.True(t, exists)

	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM users WHERE username=\$1\)`).
		WithArgs("ghost").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	exists, err = r.ExistsByUsername(ctx, "ghost")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestUserRepository_Create(t *testing.T) {
	mock := newMock(t)
	r := NewUserRepository(mock)
	ctx := context.Background()

	now := time.Now()
	mock.ExpectQuery(`(?s)INSERT INTO users .+ RETURNING id, created_at`).
		WithArgs("alice", "hash", domain.RoleUser).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), now))

	user := &domain.User{Username: "alice", PasswordHash: "hash", Role: domain.RoleUser}
	require.NoError(t, r.Create(ctx, user))
	require.Equal(t, int64(1), user.ID)
}

func TestUserRepository_GetByUsername_NotFound(t *testing.T) {
	mock := newMock(t)
	r := NewUserRepository(mock)
	ctx := context.Background()

	mock.ExpectQuery(`(?s)SELECT .+ FROM users WHERE username=\$1`).
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)

	_, err := r.GetByUsername(ctx, "ghost")
	require.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestUserRepository_Delete(t *testing.T) {
	mock := newMock(t)
	r := NewUserRepository(mock)
	ctx := context.Background()

	mock.ExpectExec(`DELETE FROM users WHERE id=\$1`).
		WithArgs(int64(2)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	require.NoError(t, r.Delete(ctx, 2))

	mock.ExpectExec(`DELETE FROM users WHERE id=\$1`).
		WithArgs(int64(9)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	require.ErrorIs(t, r.Delete(ctx, 9), pgx.ErrNoRows)
}
