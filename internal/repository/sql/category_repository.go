package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/iyhunko/product-catalog/internal/model"
	"github.com/iyhunko/product-catalog/internal/repository"
)

// CategoryRepository implements repository.CategoryRepository on PostgreSQL.
type CategoryRepository struct {
	conn
}

// NewCategoryRepository creates a new CategoryRepository instance.
func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{conn: conn{db: db}}
}

// Create inserts a category. A duplicate name yields *repository.UniqueConstraintError.
func (r *CategoryRepository) Create(ctx context.Context, category *model.Category) (*model.Category, error) {
	if category.ID == uuid.Nil {
		category.InitMeta()
	}

	query := `INSERT INTO categories (id, name, created_at, updated_at) VALUES ($1, $2, $3, $4)`
	if _, err := r.exec(ctx, query, category.ID, category.Name, category.CreatedAt, category.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to insert category: %w", err)
	}
	return category, nil
}

// Update renames a category.
func (r *CategoryRepository) Update(ctx context.Context, category *model.Category) (*model.Category, error) {
	category.UpdatedAt = time.Now()

	query := `UPDATE categories SET name = $1, updated_at = $2 WHERE id = $3`
	result, err := r.exec(ctx, query, category.Name, category.UpdatedAt, category.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	if err := rowsAffectedOrNotFound(result); err != nil {
		return nil, fmt.Errorf("failed to update category %s: %w", category.ID, err)
	}
	return category, nil
}

// List returns every category ordered by name.
func (r *CategoryRepository) List(ctx context.Context) ([]model.Category, error) {
	query := `SELECT id, name, created_at, updated_at FROM categories ORDER BY name ASC`

	stmt, err := r.getExecutor().PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := make([]model.Category, 0)
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return categories, nil
}

// FindByID retrieves a single category by ID.
func (r *CategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	query := `SELECT id, name, created_at, updated_at FROM categories WHERE id = $1`

	stmt, err := r.getExecutor().PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	var c model.Category
	err = stmt.QueryRowContext(ctx, id).Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("category %s not found: %w", id, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query category: %w", err)
	}
	return &c, nil
}

// DeleteByID deletes a category. Categories that still have products yield *repository.ForeignKeyError.
func (r *CategoryRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	result, err := r.exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if err := rowsAffectedOrNotFound(result); err != nil {
		return fmt.Errorf("failed to delete category %s: %w", id, err)
	}
	return nil
}
