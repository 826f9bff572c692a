package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*PostgresCartRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewCartRepository(db), mock
}

func TestAddItem_UpsertReturnsQuantity(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO cart_items")).
		WithArgs(int64(1), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"quantity"}).AddRow(3))

	quantity, err := repo.AddItem(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.Equal(t, int32(3), quantity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddItem_UnknownProductMapsForeignKey(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO cart_items")).
		WithArgs(int64(1), int64(42)).
		WillReturnError(&pq.Error{Code: "23503", Constraint: "cart_items_product_id_fkey"})

	_, err := repo.AddItem(context.Background(), 1, 42)
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveItem_Decrements(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM cart_items")).
		WithArgs(int64(1), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE cart_items")).
		WithArgs(int64(1), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"quantity"}).AddRow(2))
	mock.ExpectCommit()

	quantity, err := repo.RemoveItem(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.Equal(t, int32(2), quantity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// The schema rejects quantity 0, so the last unit must go out through
// the delete, never through the decrement.
func TestRemoveItem_DeletesLastUnit(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM cart_items")).
		WithArgs(int64(1), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	quantity, err := repo.RemoveItem(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.Equal(t, int32(0), quantity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveItem_NeverDecrementsBelowOne(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("quantity = 1")).
		WithArgs(int64(1), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	quantity, err := repo.RemoveItem(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.Equal(t, int32(0), quantity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveItem_AbsentLineRollsBack(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM cart_items")).
		WithArgs(int64(1), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE cart_items")).
		WithArgs(int64(1), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"quantity"}))
	mock.ExpectRollback()

	_, err := repo.RemoveItem(context.Background(), 1, 7)
	assert.ErrorIs(t, err, ErrCartLineNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListItems_OrphanedLine(t *testing.T) {
	repo, mock := newMockDB(t)

	rows := sqlmock.NewRows([]string{"quantity", "id", "name", "kind", "price", "description"}).
		AddRow(2, nil, nil, nil, nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta("FROM cart_items ci")).
		WithArgs(int64(1)).
		WillReturnRows(rows)

	_, err := repo.ListItems(context.Background(), 1)
	assert.ErrorIs(t, err, ErrInconsistentCart)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTotal_SumsAtCurrentPrices(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("COALESCE(SUM(ci.quantity * p.price), 0)")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"orphans", "total"}).AddRow(0, 29.97))

	total, err := repo.Total(context.Background(), 1)
	require.NoError(t, err)
	assert.InDelta(t, 29.97, total, 1e-9)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTotal_OrphanedLine(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("COALESCE(SUM(ci.quantity * p.price), 0)")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"orphans", "total"}).AddRow(1, 0.0))

	_, err := repo.Total(context.Background(), 1)
	assert.ErrorIs(t, err, ErrInconsistentCart)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClear_Idempotent(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM cart_items WHERE cart_id = $1")).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.Clear(context.Background(), 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}
