package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// DebugModeEnv is the environment variable for debug mode.
	DebugModeEnv = "DEBUG_MODE"

	// DBHostEnv is the environment variable for database host.
	DBHostEnv = "DB_HOST"

	// DBPortEnv is the environment variable for database port.
	DBPortEnv = "DB_PORT"

	// DBUserEnv is the environment variable for database user.
	DBUserEnv = "DB_USER"

	// DBPassEnv is the environment variable for database password.
	DBPassEnv = "DB_PASS"

	// DBNameEnv is the environment variable for database name.
	DBNameEnv = "DB_NAME"

	// HTTPServerPortEnv is the environment variable for HTTP server port.
	HTTPServerPortEnv = "HTTP_SERVER_PORT"

	// MetricsServerPortEnv is the environment variable for metrics server port.
	MetricsServerPortEnv = "METRICS_SERVER_PORT"

	// EnvFilePath is the environment variable for .env file path (only for local/test environment).
	EnvFilePath = "ENV_PATH"

	// DefaultEnvFilePath is the default path to the .env file.
	DefaultEnvFilePath = ".env"

	// AWSRegionEnv is the environment variable for AWS region.
	AWSRegionEnv = "AWS_REGION"

	// AWSEndpointEnv is the environment variable for AWS endpoint.
	AWSEndpointEnv = "AWS_ENDPOINT"

	// SQSQueueURLEnv is the environment variable for SQS queue URL.
	SQSQueueURLEnv = "SQS_QUEUE_URL"

	// RedisAddrEnv is the redis address. Caching is disabled when empty.
	RedisAddrEnv = "REDIS_ADDR"

	// RedisPasswordEnv is the redis password.
	RedisPasswordEnv = "REDIS_PASSWORD"

	// CacheTTLSecondsEnv is the catalog snapshot TTL in seconds.
	CacheTTLSecondsEnv = "CACHE_TTL_SECONDS"

	// StorageEndpointEnv is the S3 compatible endpoint used for product images.
	StorageEndpointEnv = "STORAGE_ENDPOINT"

	// StorageAccessKeyEnv is the object storage access key.
	StorageAccessKeyEnv = "STORAGE_ACCESS_KEY"

	// StorageSecretKeyEnv is the object storage secret key.
	StorageSecretKeyEnv = "STORAGE_SECRET_KEY"

	// StorageBucketEnv is the bucket images are written to.
	StorageBucketEnv = "STORAGE_BUCKET"

	// StorageUseSSLEnv toggles TLS for the storage endpoint.
	StorageUseSSLEnv = "STORAGE_USE_SSL"

	// StoragePublicURLEnv is the base URL used to build public image links.
	StoragePublicURLEnv = "STORAGE_PUBLIC_URL"

	// WholesaleCategoriesEnv is a comma separated list of categories sold wholesale.
	WholesaleCategoriesEnv = "WHOLESALE_CATEGORIES"

	// BrandCategoryEnv is the category where the brand filter is available.
	BrandCategoryEnv = "BRAND_CATEGORY"

	// BrandAllowlistEnv is a comma separated list of filterable brands.
	BrandAllowlistEnv = "BRAND_ALLOWLIST"

	// FeaturedCategoriesEnv is a comma separated list of categories shown on the home page.
	FeaturedCategoriesEnv = "FEATURED_CATEGORIES"

	// AdminTokenEnv is the bearer token required by admin routes. Admin routes are open when empty.
	AdminTokenEnv = "ADMIN_TOKEN"

	// CORSOriginsEnv is a comma separated list of allowed origins.
	CORSOriginsEnv = "CORS_ORIGINS"

	// OutboxIntervalSecondsEnv is how often pending events are published.
	OutboxIntervalSecondsEnv = "OUTBOX_INTERVAL_SECONDS"
)

const (
	defaultCacheTTLSeconds       = "300"
	defaultOutboxIntervalSeconds = "5"
	defaultStorageBucket         = "catalog"
	defaultWholesaleCategories   = "Rebozados,Cajones,Pescados,Ofertas"
	defaultBrandCategory         = "Rebozados"
	defaultBrandAllowlist        = "GRANGYS,GTA,SHADDAI,VIDAL FOOD,SOLIMENO"
	defaultFeaturedCategories    = "Pata Muslo,Filet,Cajones,Ofertas,Pescados,Rebozados"
)

var (
	// ErrMissingConfig is returned when required configuration values are missing.
	ErrMissingConfig = errors.New("missing config data")
)

// Config represents the application configuration.
type Config struct {
	DebugMode     bool
	Database      DB
	HTTPServer    Server
	MetricsServer Server
	AWS           AWSConfig
	Redis         Redis
	Storage       Storage
	Catalog       Catalog
	AdminToken    string
	CORSOrigins   []string
	Outbox        Outbox
}

// AWSConfig represents AWS-specific configuration settings.
type AWSConfig struct {
	Region      string
	Endpoint    string
	SQSQueueURL string
}

// DB represents database configuration settings.
type DB struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
}

// Server represents server configuration settings.
type Server struct {
	Port string
}

// Redis holds the catalog cache connection settings.
type Redis struct {
	Addr     string
	Password string
	TTL      time.Duration
}

// Enabled reports whether a redis address was configured.
func (r Redis) Enabled() bool {
	return r.Addr != ""
}

// Storage holds the object storage settings for product images.
type Storage struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string
}

// Enabled reports whether an object storage endpoint was configured.
func (s Storage) Enabled() bool {
	return s.Endpoint != ""
}

// Catalog holds the business rules used by the filter engine and the home page.
type Catalog struct {
	WholesaleCategories []string
	BrandCategory       string
	Brands              []string
	FeaturedCategories  []string
}

// Outbox holds the outbox worker settings.
type Outbox struct {
	Interval time.Duration
}

func allNonEmpty(keyValues map[string]string) error {
	for key, value := range keyValues {
		if value == "" {
			slog.Error("configuration validation failed", slog.String("key", key), slog.String("error", "value is empty"))
			return fmt.Errorf("%w for key: %s", ErrMissingConfig, key)
		}
	}
	return nil
}

func allNumbers(keyValues map[string]string) error {
	for key, value := range keyValues {
		_, err := strconv.Atoi(value)
		if err != nil {
			slog.Error("configuration validation failed", slog.String("key", key), slog.String("value", value), slog.String("error", err.Error()))
			return fmt.Errorf("invalid number for key %s: %w", key, err)
		}
	}
	return nil
}

func (c *Config) validate() error {
	if err := allNonEmpty(map[string]string{
		DBHostEnv: c.Database.Host,
		DBUserEnv: c.Database.User,
		DBNameEnv: c.Database.Name,
	}); err != nil {
		return fmt.Errorf("database configuration incomplete: %w", err)
	}

	if err := allNonEmpty(map[string]string{
		HTTPServerPortEnv:    c.HTTPServer.Port,
		MetricsServerPortEnv: c.MetricsServer.Port,
	}); err != nil {
		return fmt.Errorf("server port configuration incomplete: %w", err)
	}

	if err := allNumbers(map[string]string{
		DBPortEnv:            c.Database.Port,
		HTTPServerPortEnv:    c.HTTPServer.Port,
		MetricsServerPortEnv: c.MetricsServer.Port,
	}); err != nil {
		return fmt.Errorf("invalid port number: %w", err)
	}

	if err := allNonEmpty(map[string]string{
		SQSQueueURLEnv: c.AWS.SQSQueueURL,
	}); err != nil {
		return fmt.Errorf("AWS configuration incomplete: %w", err)
	}

	if c.Storage.Enabled() {
		if err := allNonEmpty(map[string]string{
			StorageAccessKeyEnv: c.Storage.AccessKey,
			StorageSecretKeyEnv: c.Storage.SecretKey,
			StorageBucketEnv:    c.Storage.Bucket,
		}); err != nil {
			return fmt.Errorf("storage configuration incomplete: %w", err)
		}
	}

	if err := allNonEmpty(map[string]string{
		BrandCategoryEnv: c.Catalog.BrandCategory,
	}); err != nil {
		return fmt.Errorf("catalog configuration incomplete: %w", err)
	}
	if len(c.Catalog.WholesaleCategories) == 0 {
		return fmt.Errorf("catalog configuration incomplete: %w for key: %s", ErrMissingConfig, WholesaleCategoriesEnv)
	}

	return nil
}

func getEnvAsBool(name string, defaultValue bool) bool {
	if val, err := strconv.ParseBool(os.Getenv(name)); err == nil {
		return val
	}
	return defaultValue
}

func getEnv(name, defaultValue string) string {
	if val, ok := os.LookupEnv(name); ok {
		return val
	}
	return defaultValue
}

// getEnvAsList splits a comma separated variable, dropping blank items.
func getEnvAsList(name, defaultValue string) []string {
	raw := getEnv(name, defaultValue)
	items := make([]string, 0)
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func getEnvAsSeconds(name, defaultValue string) (time.Duration, error) {
	raw := getEnv(name, defaultValue)
	if err := allNumbers(map[string]string{name: raw}); err != nil {
		return 0, err
	}
	seconds, _ := strconv.Atoi(raw)
	if seconds <= 0 {
		return 0, fmt.Errorf("value for key %s must be positive", name)
	}
	return time.Duration(seconds) * time.Second, nil
}

// ApplyEnvFile loads environment variables from the specified .env files.
func ApplyEnvFile(files ...string) error {
	err := godotenv.Load(files...)
	if err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// LoadFromEnv loads configuration from environment variables and validates it.
func LoadFromEnv() (*Config, error) {
	envPath := os.Getenv(EnvFilePath)
	if envPath == "" {
		envPath = DefaultEnvFilePath
	}
	err := ApplyEnvFile(envPath)
	if err != nil {
		// just log the error, maybe all envs are set in another way
		slog.Info("failed to load from .env", slog.Any("err", err))
	}

	cacheTTL, err := getEnvAsSeconds(CacheTTLSecondsEnv, defaultCacheTTLSeconds)
	if err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	outboxInterval, err := getEnvAsSeconds(OutboxIntervalSecondsEnv, defaultOutboxIntervalSeconds)
	if err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	conf := &Config{
		DebugMode: getEnvAsBool(DebugModeEnv, false),
		Database: DB{
			Host:     os.Getenv(DBHostEnv),
			User:     os.Getenv(DBUserEnv),
			Password: os.Getenv(DBPassEnv),
			Name:     os.Getenv(DBNameEnv),
			Port:     os.Getenv(DBPortEnv),
		},
		HTTPServer: Server{
			Port: os.Getenv(HTTPServerPortEnv),
		},
		MetricsServer: Server{
			Port: os.Getenv(MetricsServerPortEnv),
		},
		AWS: AWSConfig{
			Region:      os.Getenv(AWSRegionEnv),
			Endpoint:    os.Getenv(AWSEndpointEnv),
			SQSQueueURL: os.Getenv(SQSQueueURLEnv),
		},
		Redis: Redis{
			Addr:     os.Getenv(RedisAddrEnv),
			Password: os.Getenv(RedisPasswordEnv),
			TTL:      cacheTTL,
		},
		Storage: Storage{
			Endpoint:  os.Getenv(StorageEndpointEnv),
			AccessKey: os.Getenv(StorageAccessKeyEnv),
			SecretKey: os.Getenv(StorageSecretKeyEnv),
			Bucket:    getEnv(StorageBucketEnv, defaultStorageBucket),
			UseSSL:    getEnvAsBool(StorageUseSSLEnv, false),
			PublicURL: os.Getenv(StoragePublicURLEnv),
		},
		Catalog: Catalog{
			WholesaleCategories: getEnvAsList(WholesaleCategoriesEnv, defaultWholesaleCategories),
			BrandCategory:       strings.TrimSpace(getEnv(BrandCategoryEnv, defaultBrandCategory)),
			Brands:              getEnvAsList(BrandAllowlistEnv, defaultBrandAllowlist),
			FeaturedCategories:  getEnvAsList(FeaturedCategoriesEnv, defaultFeaturedCategories),
		},
		AdminToken:  os.Getenv(AdminTokenEnv),
		CORSOrigins: getEnvAsList(CORSOriginsEnv, ""),
		Outbox: Outbox{
			Interval: outboxInterval,
		},
	}

	if err := conf.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return conf, nil
}
