package repository_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astroview/planetarium-reservation/internal/repository"
)

func newShowMock(t *testing.T) (*repository.ShowRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return repository.NewShowRepo(db), mock
}

func TestShowListNoFilter(t *testing.T) {
	repo, mock := newShowMock(t)

	mock.ExpectQuery("SELECT DISTINCT s.id, s.title, s.description").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description"}).
			AddRow(uint64(1), "Deep Sky Wonders", "Nebulae and galaxies").
			AddRow(uint64(2), "Mars Tonight", "The red planet up close"))
	mock.ExpectQuery("FROM astronomy_show_themes").
		WithArgs(uint64(1), uint64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"astronomy_show_id", "name"}).
			AddRow(uint64(1), "Galaxies").
			AddRow(uint64(2), "Planets"))

	out, err := repo.List(context.Background(), repository.ShowFilter{})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, []string{"Galaxies"}, out[0].Themes)
	assert.Equal(t, []string{"Planets"}, out[1].Themes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShowListThemeAndTitleFilter(t *testing.T) {
	repo, mock := newShowMock(t)

	// Theme IDs feed the IN subquery, the title becomes a lowercase LIKE
	// pattern; both conditions apply together.
	mock.ExpectQuery("show_theme_id IN").
		WithArgs(uint64(1), uint64(3), "%mars%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description"}).
			AddRow(uint64(2), "Mars Tonight", "The red planet up close"))
	mock.ExpectQuery("FROM astronomy_show_themes").
		WithArgs(uint64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"astronomy_show_id", "name"}).
			AddRow(uint64(2), "Planets"))

	out, err := repo.List(context.Background(), repository.ShowFilter{
		ThemeIDs: []uint64{1, 3},
		Title:    "Mars",
	})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Mars Tonight", out[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShowListEmptyResultSkipsThemeQuery(t *testing.T) {
	repo, mock := newShowMock(t)

	mock.ExpectQuery("SELECT DISTINCT s.id, s.title, s.description").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description"}))

	out, err := repo.List(context.Background(), repository.ShowFilter{Title: "nothing"})
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShowGetByIDNotFound(t *testing.T) {
	repo, mock := newShowMock(t)

	mock.ExpectQuery("FROM astronomy_shows").
		WithArgs(uint64(77)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description"}))

	_, err := repo.GetByID(context.Background(), 77)
	assert.ErrorIs(t, err, repository.ErrShowNotFound)
}

func TestShowCreateWritesThemeLinksAtomically(t *testing.T) {
	repo, mock := newShowMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO astronomy_shows").
		WithArgs("Mars Tonight", "The red planet up close").
		WillReturnResult(sqlmock.NewResult(4, 1))
	mock.ExpectExec("DELETE FROM astronomy_show_themes").
		WithArgs(uint64(4)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO astronomy_show_themes").
		WithArgs(uint64(4), uint64(1), uint64(4), uint64(2)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	show := showFixture()
	require.NoError(t, repo.Create(context.Background(), show))
	assert.Equal(t, uint64(4), show.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShowCreateDuplicateTitle(t *testing.T) {
	repo, mock := newShowMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO astronomy_shows").
		WillReturnError(errDuplicate())
	mock.ExpectRollback()

	err := repo.Create(context.Background(), showFixture())
	assert.ErrorIs(t, err, repository.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}
