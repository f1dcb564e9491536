package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/iyhunko/product-catalog/internal/model"
)

var (
	// ErrNotFound is returned when a row addressed by id does not exist.
	ErrNotFound = errors.New("resource not found")
)

// ProductRepository manages products. Reads carry the joined category name.
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) (*model.Product, error)
	Update(ctx context.Context, product *model.Product) (*model.Product, error)
	List(ctx context.Context, query Query) ([]model.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

// CategoryRepository manages categories. Lists are ordered by name.
type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) (*model.Category, error)
	Update(ctx context.Context, category *model.Category) (*model.Category, error)
	List(ctx context.Context) ([]model.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Category, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

// EventRepository manages outbox events.
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) (*model.Event, error)
	ListPending(ctx context.Context, limit int) ([]model.Event, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.EventStatus) error
}

// Repositories groups repositories bound to the same transaction.
type Repositories struct {
	Products   ProductRepository
	Categories CategoryRepository
	Events     EventRepository
}

// Transactor runs fn inside a transaction. The transaction is committed when fn
// returns nil and rolled back otherwise.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(repos Repositories) error) error
}

// UniqueConstraintError represents a database unique constraint violation error.
type UniqueConstraintError struct {
	Detail string
}

func (u *UniqueConstraintError) Error() string {
	return "resource must be unique: " + u.Detail
}

// ForeignKeyError represents a violated reference, e.g. an unknown category
// or a category that still has products.
type ForeignKeyError struct {
	Detail string
}

func (f *ForeignKeyError) Error() string {
	return "resource is referenced or references a missing row: " + f.Detail
}
