package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var productColumns = []string{"id", "section", "subcategory", "title", "price", "description", "image_url"}

func TestProductRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`FROM products\s+ORDER BY id`).
		WillReturnRows(sqlmock.NewRows(productColumns).
			AddRow(int64(101), "men", "shirts", "Men Classic Shirt", "1199.00", "Cotton formal shirt", "https://img/101").
			AddRow(int64(102), "men", "pants", "Men Chinos", "1499.50", "Slim-fit chino pants", nil))

	products, err := NewProductRepository(db).List(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, int64(101), products[0].ID)
	assert.Equal(t, "1199", products[0].Price.String())
	require.NotNil(t, products[0].ImageURL)
	assert.Equal(t, "https://img/101", *products[0].ImageURL)
	assert.Equal(t, "1499.5", products[1].Price.String())
	assert.Nil(t, products[1].ImageURL)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_List_Empty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`FROM products`).WillReturnRows(sqlmock.NewRows(productColumns))

	products, err := NewProductRepository(db).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestProductRepository_ByIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`WHERE id = ANY\(\$1\)`).
		WithArgs("{101,999}").
		WillReturnRows(sqlmock.NewRows(productColumns).
			AddRow(int64(101), "men", "shirts", "Men Classic Shirt", "1199", "Cotton formal shirt", nil))

	products, err := NewProductRepository(db).ByIDs(context.Background(), []int64{101, 999})
	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, "Men Classic Shirt", products[101].Title)
	_, ok := products[999]
	assert.False(t, ok)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_ByIDs_NoIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	products, err := NewProductRepository(db).ByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, products)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_HasAny(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`SELECT EXISTS`).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := NewProductRepository(db).HasAny(context.Background())
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestProductRepository_InsertAll(t *testing.T) {
	t.Run("commits every sample", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		samples := SampleProducts()
		mock.ExpectBegin()
		for range samples {
			mock.ExpectExec(`INSERT INTO products .* ON CONFLICT \(id\) DO NOTHING`).
				WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
				WillReturnResult(sqlmock.NewResult(0, 1))
		}
		mock.ExpectCommit()

		require.NoError(t, NewProductRepository(db).InsertAll(context.Background(), samples))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on failure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		boom := errors.New("constraint violated")
		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO products`).WillReturnError(boom)
		mock.ExpectRollback()

		err = NewProductRepository(db).InsertAll(context.Background(), SampleProducts())
		assert.ErrorIs(t, err, boom)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
