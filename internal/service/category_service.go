package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/iyhunko/product-catalog/internal/metrics"
	"github.com/iyhunko/product-catalog/internal/model"
	"github.com/iyhunko/product-catalog/internal/repository"
)

// CategoryService implements the category operations.
type CategoryService struct {
	tx         repository.Transactor
	categories repository.CategoryRepository
	cache      SnapshotCache
}

func NewCategoryService(tx repository.Transactor, categories repository.CategoryRepository, cache SnapshotCache) *CategoryService {
	return &CategoryService{
		tx:         tx,
		categories: categories,
		cache:      cache,
	}
}

// ListCategories returns every category ordered by name.
func (cs *CategoryService) ListCategories(ctx context.Context) ([]model.Category, error) {
	return cs.categories.List(ctx)
}

func (cs *CategoryService) CreateCategory(ctx context.Context, name string) (*model.Category, error) {
	name, err := categoryName(name)
	if err != nil {
		return nil, err
	}

	category := &model.Category{Name: name}
	err = cs.tx.WithinTransaction(ctx, func(repos repository.Repositories) error {
		if _, err := repos.Categories.Create(ctx, category); err != nil {
			return err
		}
		return recordEvent(ctx, repos.Events, model.EventCategoryCreated, category.ID, category.Name)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	metrics.CategoryMutations.WithLabelValues("created").Inc()
	invalidate(ctx, cs.cache)
	return category, nil
}

func (cs *CategoryService) UpdateCategory(ctx context.Context, id uuid.UUID, name string) (*model.Category, error) {
	name, err := categoryName(name)
	if err != nil {
		return nil, err
	}

	var category *model.Category
	err = cs.tx.WithinTransaction(ctx, func(repos repository.Repositories) error {
		existing, err := repos.Categories.FindByID(ctx, id)
		if err != nil {
			return err
		}
		existing.Name = name
		if _, err := repos.Categories.Update(ctx, existing); err != nil {
			return err
		}
		category = existing
		return recordEvent(ctx, repos.Events, model.EventCategoryUpdated, existing.ID, existing.Name)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update category %s: %w", id, err)
	}

	metrics.CategoryMutations.WithLabelValues("updated").Inc()
	invalidate(ctx, cs.cache)
	return category, nil
}

// DeleteCategory removes a category. It fails with *repository.ForeignKeyError
// while products still reference it.
func (cs *CategoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	err := cs.tx.WithinTransaction(ctx, func(repos repository.Repositories) error {
		existing, err := repos.Categories.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := repos.Categories.DeleteByID(ctx, id); err != nil {
			return err
		}
		return recordEvent(ctx, repos.Events, model.EventCategoryDeleted, existing.ID, existing.Name)
	})
	if err != nil {
		return fmt.Errorf("failed to delete category %s: %w", id, err)
	}

	metrics.CategoryMutations.WithLabelValues("deleted").Inc()
	invalidate(ctx, cs.cache)
	return nil
}

func categoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	return name, nil
}
