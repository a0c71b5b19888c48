package repository_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astroview/planetarium-reservation/internal/repository"
)

func newSessionMock(t *testing.T) (*repository.SessionRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return repository.NewSessionRepo(db), mock
}

func TestSessionListReportsAvailability(t *testing.T) {
	repo, mock := newSessionMock(t)

	// tickets_available comes straight from the aggregate; a session with
	// no tickets reports full capacity.
	mock.ExpectQuery("tickets_available").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "name", "show_time", "tickets_available"}).
			AddRow(uint64(2), "Mars Tonight", "Main Dome", "2026-03-20 19:00", 38).
			AddRow(uint64(1), "Deep Sky Wonders", "Main Dome", "2026-03-19 18:00", 40))

	out, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, 38, out[0].TicketsAvailable)
	assert.Equal(t, "Main Dome", out[0].DomeName)
	assert.Equal(t, 40, out[1].TicketsAvailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionGetBounds(t *testing.T) {
	repo, mock := newSessionMock(t)

	mock.ExpectQuery("FROM show_sessions").
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "rows_count", "seats_in_row"}).
			AddRow(uint64(5), 10, 12))

	b, err := repo.GetBounds(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), b.SessionID)
	assert.Equal(t, 10, b.Rows)
	assert.Equal(t, 12, b.SeatsInRow)
}

func TestSessionGetBoundsNotFound(t *testing.T) {
	repo, mock := newSessionMock(t)

	mock.ExpectQuery("FROM show_sessions").
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "rows_count", "seats_in_row"}))

	_, err := repo.GetBounds(context.Background(), 99)
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)
}

func TestSessionDeleteNotFound(t *testing.T) {
	repo, mock := newSessionMock(t)

	mock.ExpectExec("DELETE FROM show_sessions").
		WithArgs(uint64(8)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 8)
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)
}
