package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/iyhunko/product-catalog/internal/metrics"
	"github.com/iyhunko/product-catalog/internal/model"
	"github.com/iyhunko/product-catalog/internal/repository"
	"github.com/shopspring/decimal"
)

// ProductInput holds the editable product fields.
type ProductInput struct {
	Name       string
	Price      decimal.NullDecimal
	PricePerKg decimal.NullDecimal
	Unit       *string
	Brand      *string
	CategoryID uuid.UUID
	ImageURL   *string
}

func (in *ProductInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if in.CategoryID == uuid.Nil {
		return fmt.Errorf("%w: category_id is required", ErrInvalidInput)
	}
	var err error
	if in.Price, err = normalizePrice("price", in.Price); err != nil {
		return err
	}
	if in.PricePerKg, err = normalizePrice("price_per_kg", in.PricePerKg); err != nil {
		return err
	}
	in.Unit = blankToNil(in.Unit)
	in.Brand = blankToNil(in.Brand)
	in.ImageURL = blankToNil(in.ImageURL)
	return nil
}

func normalizePrice(field string, p decimal.NullDecimal) (decimal.NullDecimal, error) {
	if !p.Valid {
		return p, nil
	}
	d, err := model.NormalizePrice(p.Decimal)
	if err != nil {
		return p, fmt.Errorf("%w: %s: %w", ErrInvalidInput, field, err)
	}
	return decimal.NewNullDecimal(d), nil
}

func (in ProductInput) apply(p *model.Product) {
	p.Name = in.Name
	p.Price = in.Price
	p.PricePerKg = in.PricePerKg
	p.Unit = in.Unit
	p.Brand = in.Brand
	p.CategoryID = in.CategoryID
	p.ImageURL = in.ImageURL
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// ProductService implements the admin product operations. Every write stores
// an outbox event in the same transaction.
type ProductService struct {
	tx       repository.Transactor
	products repository.ProductRepository
	cache    SnapshotCache
}

func NewProductService(tx repository.Transactor, products repository.ProductRepository, cache SnapshotCache) *ProductService {
	return &ProductService{
		tx:       tx,
		products: products,
		cache:    cache,
	}
}

func (ps *ProductService) CreateProduct(ctx context.Context, in ProductInput) (*model.Product, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	product := &model.Product{}
	in.apply(product)

	err := ps.tx.WithinTransaction(ctx, func(repos repository.Repositories) error {
		category, err := findCategory(ctx, repos.Categories, in.CategoryID)
		if err != nil {
			return err
		}
		if _, err := repos.Products.Create(ctx, product); err != nil {
			return err
		}
		product.CategoryName = category.Name
		return recordEvent(ctx, repos.Events, model.EventProductCreated, product.ID, product.Name)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	metrics.ProductsCreated.Inc()
	invalidate(ctx, ps.cache)
	slog.Info("product created", slog.String("product_id", product.ID.String()), slog.String("name", product.Name))

	return product, nil
}

func (ps *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, in ProductInput) (*model.Product, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	var product *model.Product
	err := ps.tx.WithinTransaction(ctx, func(repos repository.Repositories) error {
		existing, err := repos.Products.FindByID(ctx, id)
		if err != nil {
			return err
		}
		category, err := findCategory(ctx, repos.Categories, in.CategoryID)
		if err != nil {
			return err
		}
		in.apply(existing)
		if _, err := repos.Products.Update(ctx, existing); err != nil {
			return err
		}
		existing.CategoryName = category.Name
		product = existing
		return recordEvent(ctx, repos.Events, model.EventProductUpdated, existing.ID, existing.Name)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update product %s: %w", id, err)
	}

	metrics.ProductsUpdated.Inc()
	invalidate(ctx, ps.cache)

	return product, nil
}

func (ps *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	err := ps.tx.WithinTransaction(ctx, func(repos repository.Repositories) error {
		product, err := repos.Products.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := repos.Products.DeleteByID(ctx, id); err != nil {
			return err
		}
		return recordEvent(ctx, repos.Events, model.EventProductDeleted, product.ID, product.Name)
	})
	if err != nil {
		return fmt.Errorf("failed to delete product %s: %w", id, err)
	}

	metrics.ProductsDeleted.Inc()
	invalidate(ctx, ps.cache)

	return nil
}

func (ps *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return ps.products.FindByID(ctx, id)
}

// ListProducts returns a page of products ordered by name.
func (ps *ProductService) ListProducts(ctx context.Context, query repository.Query) ([]model.Product, error) {
	return ps.products.List(ctx, query)
}

func findCategory(ctx context.Context, categories repository.CategoryRepository, id uuid.UUID) (*model.Category, error) {
	category, err := categories.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, id)
		}
		return nil, err
	}
	return category, nil
}

func recordEvent(ctx context.Context, events repository.EventRepository, eventType string, id uuid.UUID, name string) error {
	event, err := model.NewChangeEvent(eventType, id, name)
	if err != nil {
		return err
	}
	if _, err := events.Create(ctx, event); err != nil {
		return fmt.Errorf("failed to record %s event: %w", eventType, err)
	}
	return nil
}
