package repository

import (
	"context"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestTxManagerCommits(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE downward_evaluations").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	txm := NewTxManager(db, 0)
	err := txm.WithinTx(context.Background(), func(ctx context.Context) error {
		_, ok := txFromContext(ctx)
		require.True(t, ok)
		_, err := conn(ctx, db).ExecContext(ctx, "UPDATE downward_evaluations SET is_completed = true")
		return err
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTxManagerRollsBackOnError(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	txm := NewTxManager(db, 0)
	err := txm.WithinTx(context.Background(), func(ctx context.Context) error {
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTxManagerNestedJoinsOuter(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectCommit()

	txm := NewTxManager(db, 0)
	err := txm.WithinTx(context.Background(), func(ctx context.Context) error {
		return txm.WithinTx(ctx, func(inner context.Context) error {
			outer, _ := txFromContext(ctx)
			nested, _ := txFromContext(inner)
			require.Same(t, outer, nested)
			return nil
		})
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTxManagerSavepointRollback(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("SAVEPOINT sp_1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("ROLLBACK TO SAVEPOINT sp_1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("SAVEPOINT sp_2").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("RELEASE SAVEPOINT sp_2").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	itemErr := errors.New("duplicate")
	txm := NewTxManager(db, 0)
	err := txm.WithinTx(context.Background(), func(ctx context.Context) error {
		err := txm.WithinSavepoint(ctx, func(context.Context) error { return itemErr })
		require.ErrorIs(t, err, itemErr)
		require.False(t, errors.Is(err, ErrTxAborted))
		return txm.WithinSavepoint(ctx, func(context.Context) error { return nil })
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
