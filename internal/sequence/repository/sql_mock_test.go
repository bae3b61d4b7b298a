package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockStore(t *testing.T) (*sqlStore, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	conn, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       sqlDB,
		DriverName: "postgres",
	}), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)

	return &sqlStore{db: conn}, mock
}

func TestSQLStoreIncrementUsesUpsertReturning(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`INSERT INTO sequence_counters .* ON CONFLICT \(id\) DO UPDATE .* RETURNING current_value`).
		WithArgs("invoiceNumber", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"current_value"}).AddRow(int64(42)))

	value, err := store.Increment(context.Background(), "invoiceNumber")
	require.NoError(t, err)
	assert.Equal(t, int64(42), value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStoreIncrementPropagatesError(t *testing.T) {
	store, mock := newMockStore(t)
	boom := errors.New("connection reset by peer")

	mock.ExpectQuery(`INSERT INTO sequence_counters`).
		WithArgs("quoteNumber", sqlmock.AnyArg()).
		WillReturnError(boom)

	_, err := store.Increment(context.Background(), "quoteNumber")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStoreCurrentMissingCounter(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT current_value FROM sequence_counters WHERE id = \$1`).
		WithArgs("poNumber").
		WillReturnRows(sqlmock.NewRows([]string{"current_value"}))

	value, err := store.Current(context.Background(), "poNumber")
	require.NoError(t, err)
	assert.Equal(t, int64(0), value)
	assert.NoError(t, mock.ExpectationsWereMet())
}
