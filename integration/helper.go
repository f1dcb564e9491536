// Package integration holds end to end tests that run against a real
// PostgreSQL started with dockertest. They are skipped with -short or when
// Docker is not reachable.
package integration

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/iyhunko/product-catalog/internal/model"
	reposql "github.com/iyhunko/product-catalog/internal/repository/sql"
	_ "github.com/lib/pq"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
)

// migrationsPath is relative to this package directory.
const migrationsPath = "../migrations"

// TestDB holds the test database connection and the container backing it.
type TestDB struct {
	DB       *sql.DB
	Pool     *dockertest.Pool
	Resource *dockertest.Resource
}

// SetupTestDB starts PostgreSQL in a container and applies the migrations.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("Could not construct docker pool: %s", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("Docker is not available: %s", err)
	}

	pool.MaxWait = 120 * time.Second

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16",
		Env: []string{
			"POSTGRES_PASSWORD=secret",
			"POSTGRES_USER=testuser",
			"POSTGRES_DB=testdb",
			"listen_addresses='*'",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("Could not start resource: %s", err)
	}

	// Expire so a crashed run does not leave containers behind.
	if err := resource.Expire(120); err != nil {
		t.Fatalf("Could not set expiration: %s", err)
	}

	databaseURL := fmt.Sprintf("postgres://testuser:secret@%s/testdb?sslmode=disable", resource.GetHostPort("5432/tcp"))
	slog.Info("Connecting to test database", slog.String("url", databaseURL))

	var db *sql.DB
	if err = pool.Retry(func() error {
		var err error
		db, err = sql.Open("postgres", databaseURL)
		if err != nil {
			return err
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("Could not connect to database: %s", err)
	}

	if _, err := os.Stat(migrationsPath); os.IsNotExist(err) {
		t.Fatalf("Migrations directory not found: %s", migrationsPath)
	}
	if err := reposql.RunMigrations(db, "file://"+migrationsPath); err != nil {
		t.Fatalf("Could not run migrations: %s", err)
	}

	return &TestDB{
		DB:       db,
		Pool:     pool,
		Resource: resource,
	}
}

// Cleanup closes the database connection and purges the Docker container.
func (tdb *TestDB) Cleanup(t *testing.T) {
	t.Helper()

	if tdb.DB != nil {
		if err := tdb.DB.Close(); err != nil {
			t.Errorf("Could not close database: %s", err)
		}
	}

	if tdb.Pool != nil && tdb.Resource != nil {
		if err := tdb.Pool.Purge(tdb.Resource); err != nil {
			t.Errorf("Could not purge resource: %s", err)
		}
	}
}

// TruncateTables empties every table, including the seeded categories.
func (tdb *TestDB) TruncateTables(t *testing.T) {
	t.Helper()

	ctx := context.Background()
	for _, table := range []string{"events", "products", "categories"} {
		if _, err := tdb.DB.ExecContext(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			t.Fatalf("Could not truncate table %s: %s", table, err)
		}
	}
}

// CreateCategory inserts a category directly through the repository.
func (tdb *TestDB) CreateCategory(t *testing.T, name string) *model.Category {
	t.Helper()

	category, err := reposql.NewCategoryRepository(tdb.DB).Create(context.Background(), &model.Category{Name: name})
	if err != nil {
		t.Fatalf("Could not create category %s: %s", name, err)
	}
	return category
}

// CountEvents returns how many outbox events have the given status.
func (tdb *TestDB) CountEvents(t *testing.T, status model.EventStatus) int {
	t.Helper()

	var n int
	if err := tdb.DB.QueryRowContext(context.Background(),
		"SELECT COUNT(*) FROM events WHERE status = $1", string(status)).Scan(&n); err != nil {
		t.Fatalf("Could not count events: %s", err)
	}
	return n
}

// ProductID returns the id of the first product with the given name.
func (tdb *TestDB) ProductID(t *testing.T, name string) uuid.UUID {
	t.Helper()

	var id uuid.UUID
	if err := tdb.DB.QueryRowContext(context.Background(),
		"SELECT id FROM products WHERE name = $1 LIMIT 1", name).Scan(&id); err != nil {
		t.Fatalf("Could not find product %s: %s", name, err)
	}
	return id
}
