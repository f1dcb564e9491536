package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProductsCreated counts products created through the admin API.
	ProductsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_products_created_total",
		Help: "The total number of products created",
	})

	// ProductsUpdated counts products edited through the admin API.
	ProductsUpdated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_products_updated_total",
		Help: "The total number of products updated",
	})

	// ProductsDeleted counts products removed through the admin API.
	ProductsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_products_deleted_total",
		Help: "The total number of products deleted",
	})

	// CategoryMutations counts category writes by action (created, updated, deleted).
	CategoryMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_category_mutations_total",
		Help: "The total number of category mutations by action",
	}, []string{"action"})

	// ImagesUploaded counts product images stored in object storage.
	ImagesUploaded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_images_uploaded_total",
		Help: "The total number of product images uploaded",
	})

	// CatalogQueries counts filtered catalog reads by sale type.
	CatalogQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_queries_total",
		Help: "The total number of catalog filter queries by sale type",
	}, []string{"sale_type"})

	// CacheResults counts catalog snapshot lookups by result (hit, miss, error).
	CacheResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_cache_results_total",
		Help: "Catalog snapshot cache lookups by result",
	}, []string{"result"})
)
