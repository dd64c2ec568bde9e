package kv

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPostgresMock(t *testing.T) (*Postgres, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	return NewPostgresWithDB(sqlxDB), mock, func() {
		sqlxDB.Close()
		db.Close()
	}
}

func TestPostgresGet(t *testing.T) {
	store, mock, cleanup := newPostgresMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"value"}).AddRow([]byte(`[{"id":"r1"}]`))
	mock.ExpectQuery("SELECT value FROM kv_state").
		WithArgs(KeyRecords).
		WillReturnRows(rows)

	value, err := store.Get(context.Background(), KeyRecords)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"r1"}]`, string(value))
}

func TestPostgresGetMissingKey(t *testing.T) {
	store, mock, cleanup := newPostgresMock(t)
	defer cleanup()

	mock.ExpectQuery("SELECT value FROM kv_state").
		WithArgs(KeyLogs).
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	_, err := store.Get(context.Background(), KeyLogs)
	require.ErrorIs(t, err, ErrKeyNotFound)
}

func TestPostgresSetUpserts(t *testing.T) {
	store, mock, cleanup := newPostgresMock(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO kv_state").
		WithArgs(KeyValidations, []byte(`{}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Set(context.Background(), KeyValidations, []byte(`{}`)))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDelete(t *testing.T) {
	store, mock, cleanup := newPostgresMock(t)
	defer cleanup()

	mock.ExpectExec("DELETE FROM kv_state").
		WithArgs(KeyRecords).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Delete(context.Background(), KeyRecords))
	require.NoError(t, mock.ExpectationsWereMet())
}
