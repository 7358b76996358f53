package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/royal-guard/royalguard/internal/domain"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db), mock
}

func TestSaveChild_ConflictWhenRowExists(t *testing.T) {
	store, mock := newMockDB(t)
	c := testChild("c1", "leo")
	c.Version = 3

	mock.ExpectExec("UPDATE children SET").
		WithArgs(sqlmock.AnyArg(), int64(4), sqlmock.AnyArg(), "hash-c1", "c1", int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT 1 FROM children").
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	_, err := store.SaveChild(context.Background(), c)
	assert.ErrorIs(t, err, domain.ErrVersionConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveChild_DriverError(t *testing.T) {
	store, mock := newMockDB(t)
	boom := errors.New("disk I/O error")

	mock.ExpectExec("UPDATE children SET").WillReturnError(boom)

	_, err := store.SaveChild(context.Background(), testChild("c1", "leo"))
	assert.ErrorIs(t, err, boom)
	assert.False(t, errors.Is(err, domain.ErrVersionConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetChild_CorruptDocument(t *testing.T) {
	store, mock := newMockDB(t)

	mock.ExpectQuery("SELECT password_hash, version, doc FROM children").
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"password_hash", "version", "doc"}).
			AddRow("h", int64(1), "{not json"))

	_, err := store.GetChild(context.Background(), "c1")
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteChild_RollsBackOnFailure(t *testing.T) {
	store, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM parent_children").WithArgs("c1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM children").WithArgs("c1").
		WillReturnError(errors.New("locked"))
	mock.ExpectRollback()

	err := store.DeleteChild(context.Background(), "c1")
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
