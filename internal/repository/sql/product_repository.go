package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iyhunko/product-catalog/internal/model"
	"github.com/iyhunko/product-catalog/internal/repository"
)

const productColumns = `p.id, p.name, p.price, p.price_per_kg, p.unit, p.brand, p.category_id, c.name, p.image_url, p.created_at, p.updated_at`

const productFrom = ` FROM products p JOIN categories c ON c.id = p.category_id`

// ProductRepository implements repository.ProductRepository on PostgreSQL.
type ProductRepository struct {
	conn
}

// NewProductRepository creates a new ProductRepository instance.
func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{conn: conn{db: db}}
}

// Create inserts a new product. The returned product does not carry the category name.
func (r *ProductRepository) Create(ctx context.Context, product *model.Product) (*model.Product, error) {
	// Only initialize metadata if not already set
	if product.ID == uuid.Nil {
		product.InitMeta()
	}

	query := `INSERT INTO products (id, name, price, price_per_kg, unit, brand, category_id, image_url, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.exec(ctx, query,
		product.ID, product.Name, product.Price, product.PricePerKg, product.Unit, product.Brand,
		product.CategoryID, product.ImageURL, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}

	return product, nil
}

// Update overwrites every editable column of the product.
func (r *ProductRepository) Update(ctx context.Context, product *model.Product) (*model.Product, error) {
	product.UpdatedAt = time.Now()

	query := `UPDATE products
	          SET name = $1, price = $2, price_per_kg = $3, unit = $4, brand = $5, category_id = $6, image_url = $7, updated_at = $8
	          WHERE id = $9`

	result, err := r.exec(ctx, query,
		product.Name, product.Price, product.PricePerKg, product.Unit, product.Brand,
		product.CategoryID, product.ImageURL, product.UpdatedAt, product.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if err := rowsAffectedOrNotFound(result); err != nil {
		return nil, fmt.Errorf("failed to update product %s: %w", product.ID, err)
	}

	return product, nil
}

// List retrieves products ordered by name, then id.
func (r *ProductRepository) List(ctx context.Context, query repository.Query) ([]model.Product, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString("SELECT " + productColumns + productFrom + " WHERE 1=1")

	var args []any
	argIndex := 1

	if categoryID, ok := query.Values[repository.CategoryIDField]; ok {
		id, err := uuid.Parse(categoryID)
		if err != nil {
			return nil, fmt.Errorf("invalid category id %q: %w", categoryID, err)
		}
		queryBuilder.WriteString(fmt.Sprintf(" AND p.category_id = $%d", argIndex))
		args = append(args, id)
		argIndex++
	}

	if query.Paginator != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND (p.name, p.id) > ($%d, $%d)", argIndex, argIndex+1))
		args = append(args, query.Paginator.LastName, query.Paginator.LastID)
		argIndex += 2
	}

	queryBuilder.WriteString(" ORDER BY p.name ASC, p.id ASC")

	limit := query.Limit
	if limit <= 0 && query.Paginator != nil {
		limit = repository.DefaultPaginationLimit
	}
	if limit > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argIndex))
		args = append(args, limit)
	}

	stmt, err := r.getExecutor().PrepareContext(ctx, queryBuilder.String())
	if err != nil {
		return nil, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := make([]model.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return products, nil
}

// FindByID retrieves a single product by ID.
func (r *ProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	query := "SELECT " + productColumns + productFrom + " WHERE p.id = $1"

	stmt, err := r.getExecutor().PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	product, err := scanProduct(stmt.QueryRowContext(ctx, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("product %s not found: %w", id, repository.ErrNotFound)
		}
		return nil, err
	}

	return &product, nil
}

// DeleteByID deletes a product by ID.
func (r *ProductRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	result, err := r.exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if err := rowsAffectedOrNotFound(result); err != nil {
		return fmt.Errorf("failed to delete product %s: %w", id, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(row scanner) (model.Product, error) {
	var p model.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Price, &p.PricePerKg, &p.Unit, &p.Brand,
		&p.CategoryID, &p.CategoryName, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return p, err
		}
		return p, fmt.Errorf("failed to scan product: %w", err)
	}
	return p, nil
}
