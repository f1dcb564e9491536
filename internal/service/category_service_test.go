package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/iyhunko/product-catalog/internal/model"
	"github.com/iyhunko/product-catalog/internal/repository"
	"github.com/iyhunko/product-catalog/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCategoryService() (*service.CategoryService, *MockCategoryRepository, *MockEventRepository, *MockSnapshotCache) {
	categories := new(MockCategoryRepository)
	events := new(MockEventRepository)
	cache := new(MockSnapshotCache)
	tx := &fakeTransactor{repos: repository.Repositories{Categories: categories, Events: events}}
	return service.NewCategoryService(tx, categories, cache), categories, events, cache
}

func TestCategoryService_CreateCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("creates category", func(t *testing.T) {
		// given
		svc, categories, events, cache := newCategoryService()
		categories.On("Create", ctx, mock.MatchedBy(func(c *model.Category) bool { return c.Name == "Ofertas" })).
			Run(func(args mock.Arguments) { args.Get(1).(*model.Category).InitMeta() }).
			Return(&model.Category{}, nil)
		events.On("Create", ctx, eventOfType(model.EventCategoryCreated)).Return(&model.Event{}, nil)
		cache.On("Invalidate", ctx).Return(nil)

		// when
		created, err := svc.CreateCategory(ctx, " Ofertas ")

		// then
		require.NoError(t, err)
		assert.Equal(t, "Ofertas", created.Name)
		assert.NotEqual(t, uuid.Nil, created.ID)
		categories.AssertExpectations(t)
		events.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("duplicate name", func(t *testing.T) {
		svc, categories, _, cache := newCategoryService()
		categories.On("Create", ctx, mock.Anything).Return(nil, &repository.UniqueConstraintError{Detail: "name"})

		_, err := svc.CreateCategory(ctx, "Ofertas")

		var uniqueErr *repository.UniqueConstraintError
		assert.ErrorAs(t, err, &uniqueErr)
		cache.AssertNotCalled(t, "Invalidate", mock.Anything)
	})

	t.Run("blank name", func(t *testing.T) {
		svc, _, _, _ := newCategoryService()

		_, err := svc.CreateCategory(ctx, "  ")

		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})
}

func TestCategoryService_UpdateCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("renames category", func(t *testing.T) {
		// given
		svc, categories, events, cache := newCategoryService()
		existing := &model.Category{ID: uuid.New(), Name: "Filet"}
		categories.On("FindByID", ctx, existing.ID).Return(existing, nil)
		categories.On("Update", ctx, existing).Return(existing, nil)
		events.On("Create", ctx, eventOfType(model.EventCategoryUpdated)).Return(&model.Event{}, nil)
		cache.On("Invalidate", ctx).Return(nil)

		// when
		updated, err := svc.UpdateCategory(ctx, existing.ID, "Filets")

		// then
		require.NoError(t, err)
		assert.Equal(t, "Filets", updated.Name)
	})

	t.Run("not found", func(t *testing.T) {
		svc, categories, _, _ := newCategoryService()
		id := uuid.New()
		categories.On("FindByID", ctx, id).Return(nil, repository.ErrNotFound)

		_, err := svc.UpdateCategory(ctx, id, "Filets")

		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestCategoryService_DeleteCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes category", func(t *testing.T) {
		svc, categories, events, cache := newCategoryService()
		existing := &model.Category{ID: uuid.New(), Name: "Cajones"}
		categories.On("FindByID", ctx, existing.ID).Return(existing, nil)
		categories.On("DeleteByID", ctx, existing.ID).Return(nil)
		events.On("Create", ctx, eventOfType(model.EventCategoryDeleted)).Return(&model.Event{}, nil)
		cache.On("Invalidate", ctx).Return(nil)

		require.NoError(t, svc.DeleteCategory(ctx, existing.ID))
		events.AssertExpectations(t)
	})

	t.Run("category still has products", func(t *testing.T) {
		// given
		svc, categories, events, _ := newCategoryService()
		existing := &model.Category{ID: uuid.New(), Name: "Cajones"}
		categories.On("FindByID", ctx, existing.ID).Return(existing, nil)
		categories.On("DeleteByID", ctx, existing.ID).Return(&repository.ForeignKeyError{Detail: "products_category_id_fkey"})

		// when
		err := svc.DeleteCategory(ctx, existing.ID)

		// then
		var fkErr *repository.ForeignKeyError
		assert.ErrorAs(t, err, &fkErr)
		events.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestCategoryService_ListCategories(t *testing.T) {
	ctx := context.Background()
	svc, categories, _, _ := newCategoryService()
	categories.On("List", ctx).Return([]model.Category{{Name: "Cajones"}, {Name: "Filet"}}, nil)

	list, err := svc.ListCategories(ctx)

	require.NoError(t, err)
	assert.Len(t, list, 2)
}
