package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/iyhunko/product-catalog/internal/filter"
	"github.com/iyhunko/product-catalog/internal/metrics"
	"github.com/iyhunko/product-catalog/internal/model"
	"github.com/iyhunko/product-catalog/internal/repository"
)

// CatalogView is a filtered product listing.
type CatalogView struct {
	Products        []model.Product `json:"products"`
	Total           int             `json:"total"`
	Count           int             `json:"count"`
	TotalCategories int             `json:"total_categories"`
	Brands          []string        `json:"brands,omitempty"`
}

// CategoryPage lists the sellable products of one category grouped by brand.
type CategoryPage struct {
	Category model.Category      `json:"category"`
	Groups   []filter.BrandGroup `json:"groups"`
	Count    int                 `json:"count"`
}

// CatalogService serves catalog reads from a snapshot of all products and
// categories. The snapshot is cached when a cache is configured.
type CatalogService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	cache      SnapshotCache
	engine     *filter.Engine
	featured   []string
}

func NewCatalogService(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	cache SnapshotCache,
	engine *filter.Engine,
	featured []string,
) *CatalogService {
	return &CatalogService{
		products:   products,
		categories: categories,
		cache:      cache,
		engine:     engine,
		featured:   featured,
	}
}

// Snapshot returns every product and category, from cache when possible.
// A snapshot is written back only when the cache was read successfully, so
// a load racing a mutation cannot outlive that mutation's invalidation.
func (cs *CatalogService) Snapshot(ctx context.Context) (model.Snapshot, error) {
	cacheable := false
	var generation int64
	if cs.cache != nil {
		cached, gen, err := cs.cache.Get(ctx)
		switch {
		case err != nil:
			metrics.CacheResults.WithLabelValues("error").Inc()
			slog.Warn("failed to read catalog cache", slog.Any("err", err))
		case cached != nil:
			metrics.CacheResults.WithLabelValues("hit").Inc()
			return *cached, nil
		default:
			metrics.CacheResults.WithLabelValues("miss").Inc()
			cacheable, generation = true, gen
		}
	}

	products, err := cs.products.List(ctx, *repository.NewQuery())
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("failed to load products: %w", err)
	}
	categories, err := cs.categories.List(ctx)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("failed to load categories: %w", err)
	}
	snapshot := model.Snapshot{Products: products, Categories: categories}

	if cacheable {
		if err := cs.cache.Set(ctx, generation, snapshot); err != nil {
			slog.Warn("failed to write catalog cache", slog.Any("err", err))
		}
	}
	return snapshot, nil
}

// Filter applies the criteria to the catalog. Unknown sale types are rejected by
// the caller; this validates the category id and the brand.
func (cs *CatalogService) Filter(ctx context.Context, criteria filter.Criteria) (*CatalogView, error) {
	if err := cs.validate(&criteria); err != nil {
		return nil, err
	}

	snapshot, err := cs.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	products := cs.engine.Apply(snapshot.Products, snapshot.Categories, criteria)
	view := &CatalogView{
		Products:        products,
		Total:           len(snapshot.Products),
		Count:           len(products),
		TotalCategories: len(snapshot.Categories),
	}
	if cs.engine.OffersBrands(snapshot.Categories, criteria) {
		view.Brands = cs.engine.Rules().Brands
	}

	label := string(criteria.SaleType)
	if label == "" {
		label = filter.All
	}
	metrics.CatalogQueries.WithLabelValues(label).Inc()

	return view, nil
}

// AdminProducts lists the admin product table. Search covers the product and
// category names only, and the call is not counted as a catalog query.
func (cs *CatalogService) AdminProducts(ctx context.Context, categoryID, search string) (*CatalogView, error) {
	categoryID, err := categoryCriterion(categoryID)
	if err != nil {
		return nil, err
	}

	snapshot, err := cs.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	products := filter.Admin(snapshot.Products, snapshot.Categories, categoryID, search)
	return &CatalogView{
		Products:        products,
		Total:           len(snapshot.Products),
		Count:           len(products),
		TotalCategories: len(snapshot.Categories),
	}, nil
}

func categoryCriterion(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	if id == "" || strings.EqualFold(id, filter.All) {
		return filter.All, nil
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", fmt.Errorf("%w: invalid category %q", ErrInvalidInput, raw)
	}
	return id, nil
}

func (cs *CatalogService) validate(criteria *filter.Criteria) error {
	categoryID, err := categoryCriterion(criteria.CategoryID)
	if err != nil {
		return err
	}
	criteria.CategoryID = categoryID

	criteria.Brand = strings.TrimSpace(criteria.Brand)
	if criteria.Brand == "" {
		criteria.Brand = filter.All
	}
	if !cs.engine.Rules().BrandAllowed(criteria.Brand) {
		return fmt.Errorf("%w: unknown brand %q", ErrInvalidInput, criteria.Brand)
	}
	return nil
}

// CategoryPage returns products of the category that carry any price, grouped by brand.
func (cs *CatalogService) CategoryPage(ctx context.Context, id uuid.UUID) (*CategoryPage, error) {
	snapshot, err := cs.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	var category *model.Category
	for i := range snapshot.Categories {
		if snapshot.Categories[i].ID == id {
			category = &snapshot.Categories[i]
			break
		}
	}
	if category == nil {
		return nil, fmt.Errorf("category %s: %w", id, repository.ErrNotFound)
	}

	products := filter.Match(snapshot.Products,
		filter.ByCategory(id.String()),
		func(p model.Product) bool { return p.HasPrice() || p.HasPricePerKg() },
	)

	return &CategoryPage{
		Category: *category,
		Groups:   filter.GroupByBrand(products),
		Count:    len(products),
	}, nil
}

// Featured returns the configured featured categories, in configured order,
// that have at least one priced product.
func (cs *CatalogService) Featured(ctx context.Context) ([]model.CategoryCount, error) {
	snapshot, err := cs.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	counts := filter.CountPriced(snapshot.Products)
	featured := make([]model.CategoryCount, 0, len(cs.featured))
	for _, name := range cs.featured {
		for _, category := range snapshot.Categories {
			if !strings.EqualFold(category.Name, name) {
				continue
			}
			if n := counts[category.ID]; n > 0 {
				featured = append(featured, model.CategoryCount{Category: category, Count: n})
			}
			break
		}
	}
	return featured, nil
}
