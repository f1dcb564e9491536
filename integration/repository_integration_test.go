package integration

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/iyhunko/product-catalog/internal/model"
	"github.com/iyhunko/product-catalog/internal/repository"
	reposql "github.com/iyhunko/product-catalog/internal/repository/sql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositories_Integration(t *testing.T) {
	testDB := SetupTestDB(t)
	defer testDB.Cleanup(t)

	ctx := context.Background()
	products := reposql.NewProductRepository(testDB.DB)
	categories := reposql.NewCategoryRepository(testDB.DB)
	tx := reposql.NewTransactionalRepository(testDB.DB)

	t.Run("seeded categories are present", func(t *testing.T) {
		list, err := categories.List(ctx)
		require.NoError(t, err)

		names := make([]string, 0, len(list))
		for _, c := range list {
			names = append(names, c.Name)
		}
		assert.Equal(t, []string{"Cajones", "Filet", "Ofertas", "Pata Muslo", "Pescados", "Rebozados"}, names)
	})

	t.Run("transaction commit stores product and event", func(t *testing.T) {
		testDB.TruncateTables(t)
		category := testDB.CreateCategory(t, "Rebozados")

		var created *model.Product
		err := tx.WithinTransaction(ctx, func(repos repository.Repositories) error {
			product := &model.Product{
				Name:       "Bastones",
				Price:      decimal.NewNullDecimal(decimal.RequireFromString("1200.50")),
				CategoryID: category.ID,
			}
			var err error
			if created, err = repos.Products.Create(ctx, product); err != nil {
				return err
			}
			event, err := model.NewChangeEvent(model.EventProductCreated, product.ID, product.Name)
			if err != nil {
				return err
			}
			_, err = repos.Events.Create(ctx, event)
			return err
		})
		require.NoError(t, err)

		found, err := products.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Bastones", found.Name)
		assert.Equal(t, "Rebozados", found.CategoryName)
		assert.True(t, found.Price.Decimal.Equal(decimal.RequireFromString("1200.5")))
		assert.False(t, found.PricePerKg.Valid)
		assert.Equal(t, 1, testDB.CountEvents(t, model.EventStatusPending))
	})

	t.Run("transaction rollback discards everything", func(t *testing.T) {
		testDB.TruncateTables(t)
		category := testDB.CreateCategory(t, "Filet")

		var productID uuid.UUID
		err := tx.WithinTransaction(ctx, func(repos repository.Repositories) error {
			product, err := repos.Products.Create(ctx, &model.Product{Name: "Merluza", CategoryID: category.ID})
			if err != nil {
				return err
			}
			productID = product.ID
			return errors.New("intentional error to trigger rollback")
		})
		require.Error(t, err)

		_, err = products.FindByID(ctx, productID)
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Equal(t, 0, testDB.CountEvents(t, model.EventStatusPending))
	})

	t.Run("constraint violations are classified", func(t *testing.T) {
		testDB.TruncateTables(t)
		category := testDB.CreateCategory(t, "Cajones")

		_, err := categories.Create(ctx, &model.Category{Name: "Cajones"})
		var uniqueErr *repository.UniqueConstraintError
		assert.ErrorAs(t, err, &uniqueErr)

		_, err = products.Create(ctx, &model.Product{Name: "Pollo", CategoryID: uuid.New()})
		var fkErr *repository.ForeignKeyError
		assert.ErrorAs(t, err, &fkErr)

		_, err = products.Create(ctx, &model.Product{Name: "Pollo", CategoryID: category.ID})
		require.NoError(t, err)
		err = categories.DeleteByID(ctx, category.ID)
		assert.ErrorAs(t, err, &fkErr)
	})

	t.Run("keyset pagination walks every product once", func(t *testing.T) {
		testDB.TruncateTables(t)
		category := testDB.CreateCategory(t, "Pescados")
		for _, name := range []string{"Abadejo", "Merluza", "Salmon", "Merluza", "Atun"} {
			_, err := products.Create(ctx, &model.Product{Name: name, CategoryID: category.ID})
			require.NoError(t, err)
		}

		var seen []string
		query := repository.NewQuery()
		query.Limit = 2
		for {
			page, err := products.List(ctx, *query)
			require.NoError(t, err)
			for _, p := range page {
				seen = append(seen, p.Name)
			}
			if len(page) < query.Limit {
				break
			}
			last := page[len(page)-1]
			query.Paginator = &repository.Paginator{LastName: last.Name, LastID: last.ID}
		}

		assert.Equal(t, []string{"Abadejo", "Atun", "Merluza", "Merluza", "Salmon"}, seen)
	})
}
