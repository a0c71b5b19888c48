package repository_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astroview/planetarium-reservation/internal/model"
	"github.com/astroview/planetarium-reservation/internal/repository"
)

func newThemeMock(t *testing.T) (*repository.ThemeRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return repository.NewThemeRepo(db), mock
}

func TestThemeCreateDuplicateName(t *testing.T) {
	repo, mock := newThemeMock(t)

	mock.ExpectExec("INSERT INTO show_themes").
		WithArgs("Planets").
		WillReturnError(errDuplicate())

	err := repo.Create(context.Background(), &model.ShowTheme{Name: "Planets"})
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestThemeExistAllCountsDistinctIDs(t *testing.T) {
	repo, mock := newThemeMock(t)

	// Repeated IDs in the input must not inflate the expected count.
	mock.ExpectQuery("SELECT COUNT").
		WithArgs(uint64(1), uint64(1), uint64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	ok, err := repo.ExistAll(context.Background(), []uint64{1, 1, 2})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestThemeExistAllMissingID(t *testing.T) {
	repo, mock := newThemeMock(t)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(uint64(1), uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	ok, err := repo.ExistAll(context.Background(), []uint64{1, 99})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestThemeExistAllEmptyInput(t *testing.T) {
	repo, _ := newThemeMock(t)

	ok, err := repo.ExistAll(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, ok)
}
