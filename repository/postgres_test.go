package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/jackc/pgconn"
	"github.com/pashagolub/pgxmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesdash/models"
)

func newMockPostgres(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })
	return &PostgresStore{db: mock}, mock
}

func TestPostgresCreateSaleCommits(t *testing.T) {
	store, mock := newMockPostgres(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE products SET stock = stock - $3")).
		WithArgs("u1", "p1", 2).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sales")).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	require.NoError(t, store.CreateSale(context.Background(), mockSale()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreateSaleRollsBack(t *testing.T) {
	t.Run("duplicate sale", func(t *testing.T) {
		store, mock := newMockPostgres(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("UPDATE products SET stock")).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sales")).WillReturnError(&pgconn.PgError{Code: "23505"})
		mock.ExpectRollback()

		err := store.CreateSale(context.Background(), mockSale())
		assert.ErrorIs(t, err, ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing product", func(t *testing.T) {
		store, mock := newMockPostgres(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("UPDATE products SET stock")).WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		mock.ExpectRollback()

		err := store.CreateSale(context.Background(), mockSale())
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("connection lost", func(t *testing.T) {
		store, mock := newMockPostgres(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("UPDATE products SET stock")).WillReturnError(errors.New("conn closed"))
		mock.ExpectRollback()

		err := store.CreateSale(context.Background(), mockSale())
		require.Error(t, err)
		assert.False(t, errors.Is(err, ErrConflict))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresListSalesFilters(t *testing.T) {
	store, mock := newMockPostgres(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM sales WHERE user_id = $1 AND date >= $2 AND product_id = $3 ORDER BY")).
		WithArgs("u1", "2024-01-01", "p1").
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	sales, err := store.ListSales(context.Background(), "u1", models.SalesFilter{From: "2024-01-01", ProductID: "p1"})
	require.NoError(t, err)
	assert.Empty(t, sales)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSaveSettingsUpserts(t *testing.T) {
	store, mock := newMockPostgres(t)
	s := models.DefaultSettings("", "")

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (user_id) DO UPDATE SET")).
		WithArgs("u1", "Toko Saya", "", "retail", "Asia/Jakarta", "IDR", 10, true, false, "weekly", "",
			`["Makanan","Minuman","Snack","Lainnya"]`, `["Pcs","Box","Kg","Liter"]`, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, store.SaveSettings(context.Background(), "u1", &s))
	assert.NoError(t, mock.ExpectationsWereMet())
}
