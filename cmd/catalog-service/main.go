package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iyhunko/product-catalog/internal/cache"
	"github.com/iyhunko/product-catalog/internal/config"
	httpAPI "github.com/iyhunko/product-catalog/internal/http"
	"github.com/iyhunko/product-catalog/internal/http/controller"
	"github.com/iyhunko/product-catalog/internal/filter"
	"github.com/iyhunko/product-catalog/internal/logger"
	"github.com/iyhunko/product-catalog/internal/metrics"
	"github.com/iyhunko/product-catalog/internal/repository/sql"
	"github.com/iyhunko/product-catalog/internal/service"
	sqspkg "github.com/iyhunko/product-catalog/internal/sqs"
	"github.com/iyhunko/product-catalog/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func main() {
	conf, err := config.LoadFromEnv()
	handleErr("loading config", err)

	logger.InitJSONLogger(conf.DebugMode)
	if !conf.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := sql.StartDB(ctx, conf.Database)
	handleErr("starting database", err)
	defer db.Close()

	productRepository := sql.NewProductRepository(db)
	categoryRepository := sql.NewCategoryRepository(db)
	eventRepository := sql.NewEventRepository(db)
	transactionalRepository := sql.NewTransactionalRepository(db)

	var snapshotCache service.SnapshotCache
	if conf.Redis.Enabled() {
		redisClient, err := cache.NewRedisClient(ctx, conf.Redis)
		handleErr("connecting to redis", err)
		defer redisClient.Close()
		snapshotCache = cache.NewSnapshotCache(redisClient, conf.Redis.TTL)
	} else {
		slog.Warn("REDIS_ADDR is not set, catalog cache disabled")
	}

	var imageStore controller.ImageStore
	if conf.Storage.Enabled() {
		minioClient, err := storage.NewMinioClient(conf.Storage)
		handleErr("creating storage client", err)
		handleErr("preparing storage bucket", storage.EnsureBucket(ctx, minioClient, conf.Storage.Bucket))
		imageStore = storage.NewImageStore(minioClient, conf.Storage.Bucket, storage.PublicBaseURL(conf.Storage))
	} else {
		slog.Warn("STORAGE_ENDPOINT is not set, image uploads disabled")
	}

	sqsClient, err := sqspkg.NewClient(ctx, conf.AWS.Region, conf.AWS.Endpoint)
	handleErr("creating SQS client", err)
	publisher := sqspkg.NewPublisher(sqsClient, conf.AWS.SQSQueueURL)

	engine := filter.NewEngine(filter.Rules{
		WholesaleCategories: conf.Catalog.WholesaleCategories,
		BrandCategory:       conf.Catalog.BrandCategory,
		Brands:              conf.Catalog.Brands,
	})
	productService := service.NewProductService(transactionalRepository, productRepository, snapshotCache)
	categoryService := service.NewCategoryService(transactionalRepository, categoryRepository, snapshotCache)
	catalogService := service.NewCatalogService(productRepository, categoryRepository, snapshotCache, engine, conf.Catalog.FeaturedCategories)

	outboxWorker := service.NewOutboxWorker(eventRepository, publisher, conf.Outbox.Interval)
	go outboxWorker.Start(ctx)

	router := httpAPI.InitRouter(conf, gin.New(), httpAPI.Controllers{
		Base:       controller.New(),
		Products:   controller.NewProductController(productService),
		Categories: controller.NewCategoryController(categoryService),
		Catalog:    controller.NewCatalogController(catalogService),
		Uploads:    controller.NewUploadController(imageStore),
	})
	httpServer := &http.Server{
		Addr:              ":" + conf.HTTPServer.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("HTTP server starting", slog.String("port", conf.HTTPServer.Port))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			handleErr("listening to HTTP requests", err)
		}
	}()

	metricsServer := metrics.StartMetricsServer(conf)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	slog.Info("Shutting down gracefully...")

	outboxWorker.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown failed", slog.Any("err", err))
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("metrics server shutdown failed", slog.Any("err", err))
	}
}

func handleErr(msg string, err error) {
	if err != nil {
		slog.Error("error while "+msg, slog.Any("err", err))
		os.Exit(1)
	}
}
