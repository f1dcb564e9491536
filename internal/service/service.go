package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/iyhunko/product-catalog/internal/model"
	"github.com/iyhunko/product-catalog/internal/sqs"
)

var (
	// ErrInvalidInput is returned when a request fails validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnknownCategory is returned when a product references a category that does not exist.
	ErrUnknownCategory = errors.New("unknown category")
)

// SnapshotCache stores the catalog snapshot between requests.
// Get reports the generation the snapshot was read under; Set with that
// generation is dropped when an Invalidate happened in between.
type SnapshotCache interface {
	Get(ctx context.Context) (*model.Snapshot, int64, error)
	Set(ctx context.Context, generation int64, snapshot model.Snapshot) error
	Invalidate(ctx context.Context) error
}

// MessagePublisher publishes catalog changes.
type MessagePublisher interface {
	PublishCatalogMessage(ctx context.Context, msg sqs.CatalogMessage) error
}

// invalidate drops the cached snapshot. Failures are logged, the TTL bounds staleness.
func invalidate(ctx context.Context, cache SnapshotCache) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx); err != nil {
		slog.Warn("failed to invalidate catalog cache", slog.Any("err", err))
	}
}
