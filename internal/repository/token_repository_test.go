package repository_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astroview/planetarium-reservation/internal/repository"
)

func newTokenMock(t *testing.T) (*repository.TokenRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return repository.NewTokenRepo(db), mock
}

func tokenRow(userID uint64, expiresAt time.Time, revokedAt interface{}) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
		AddRow(userID, expiresAt, revokedAt)
}

func TestValidateRefreshActiveToken(t *testing.T) {
	repo, mock := newTokenMock(t)

	mock.ExpectQuery("FROM refresh_tokens").
		WithArgs("hash-1").
		WillReturnRows(tokenRow(42, time.Now().UTC().Add(time.Hour), nil))

	userID, err := repo.ValidateRefresh(context.Background(), "hash-1")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), userID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateRefreshRevokedToken(t *testing.T) {
	repo, mock := newTokenMock(t)

	mock.ExpectQuery("FROM refresh_tokens").
		WithArgs("hash-1").
		WillReturnRows(tokenRow(42, time.Now().UTC().Add(time.Hour), time.Now().UTC()))

	_, err := repo.ValidateRefresh(context.Background(), "hash-1")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestValidateRefreshExpiredToken(t *testing.T) {
	repo, mock := newTokenMock(t)

	mock.ExpectQuery("FROM refresh_tokens").
		WithArgs("hash-1").
		WillReturnRows(tokenRow(42, time.Now().UTC().Add(-time.Minute), nil))

	_, err := repo.ValidateRefresh(context.Background(), "hash-1")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
