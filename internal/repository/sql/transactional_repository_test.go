package sql_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/iyhunko/product-catalog/internal/model"
	"github.com/iyhunko/product-catalog/internal/repository"
	"github.com/iyhunko/product-catalog/internal/repository/sql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionalRepository_WithinTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	txRepo := sql.NewTransactionalRepository(db)
	ctx := context.Background()

	t.Run("product and event are committed together", func(t *testing.T) {
		// given
		product := &model.Product{Name: "Nuggets", CategoryID: uuid.New()}

		mock.ExpectBegin()
		mock.ExpectPrepare("INSERT INTO products").
			ExpectExec().
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectPrepare("INSERT INTO events").
			ExpectExec().
			WithArgs(sqlmock.AnyArg(), model.EventProductCreated, sqlmock.AnyArg(), "pending", sqlmock.AnyArg(), nil).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		// when
		err := txRepo.WithinTransaction(ctx, func(repos repository.Repositories) error {
			require.NotNil(t, sql.TxOf(repos.Products))
			assert.Same(t, sql.TxOf(repos.Products), sql.TxOf(repos.Events))

			created, err := repos.Products.Create(ctx, product)
			if err != nil {
				return err
			}
			event, err := model.NewChangeEvent(model.EventProductCreated, created.ID, created.Name)
			if err != nil {
				return err
			}
			_, err = repos.Events.Create(ctx, event)
			return err
		})

		// then
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, product.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rollback on event creation failure", func(t *testing.T) {
		// given
		id := uuid.New()

		mock.ExpectBegin()
		mock.ExpectPrepare("DELETE FROM categories WHERE id").
			ExpectExec().
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectPrepare("INSERT INTO events").
			ExpectExec().
			WillReturnError(sqlmock.ErrCancelled)
		mock.ExpectRollback()

		// when
		err := txRepo.WithinTransaction(ctx, func(repos repository.Repositories) error {
			if err := repos.Categories.DeleteByID(ctx, id); err != nil {
				return err
			}
			event, err := model.NewChangeEvent(model.EventCategoryDeleted, id, "Ofertas")
			if err != nil {
				return err
			}
			_, err = repos.Events.Create(ctx, event)
			return err
		})

		// then
		require.Error(t, err)
		assert.True(t, errors.Is(err, sqlmock.ErrCancelled))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin failure", func(t *testing.T) {
		mock.ExpectBegin().WillReturnError(errors.New("no connection"))

		called := false
		err := txRepo.WithinTransaction(ctx, func(repository.Repositories) error {
			called = true
			return nil
		})

		require.Error(t, err)
		assert.False(t, called)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
