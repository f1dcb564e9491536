package config_test

import (
	"testing"
	"time"

	"github.com/iyhunko/product-catalog/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv(config.EnvFilePath, "testdata/missing.env")
	t.Setenv(config.DBHostEnv, "localhost")
	t.Setenv(config.DBUserEnv, "user")
	t.Setenv(config.DBPassEnv, "pass")
	t.Setenv(config.DBNameEnv, "testdb")
	t.Setenv(config.DBPortEnv, "5432")
	t.Setenv(config.HTTPServerPortEnv, "8080")
	t.Setenv(config.MetricsServerPortEnv, "9090")
	t.Setenv(config.SQSQueueURLEnv, "http://localhost:4566/000000000000/catalog-events")
}

func TestLoadFromEnv(t *testing.T) {
	t.Run("loads required values and defaults", func(t *testing.T) {
		// given
		setRequiredEnv(t)
		t.Setenv(config.DebugModeEnv, "true")

		// when
		conf, err := config.LoadFromEnv()

		// then
		require.NoError(t, err, "loading config should not return error")
		assert.True(t, conf.DebugMode)
		assert.Equal(t, "localhost", conf.Database.Host)
		assert.Equal(t, "user", conf.Database.User)
		assert.Equal(t, "pass", conf.Database.Password)
		assert.Equal(t, "testdb", conf.Database.Name)
		assert.Equal(t, "5432", conf.Database.Port)
		assert.Equal(t, "8080", conf.HTTPServer.Port)
		assert.Equal(t, "9090", conf.MetricsServer.Port)
		assert.Equal(t, 5*time.Minute, conf.Redis.TTL)
		assert.Equal(t, 5*time.Second, conf.Outbox.Interval)
		assert.Equal(t, []string{"Rebozados", "Cajones", "Pescados", "Ofertas"}, conf.Catalog.WholesaleCategories)
		assert.Equal(t, "Rebozados", conf.Catalog.BrandCategory)
		assert.Equal(t, []string{"GRANGYS", "GTA", "SHADDAI", "VIDAL FOOD", "SOLIMENO"}, conf.Catalog.Brands)
		assert.Len(t, conf.Catalog.FeaturedCategories, 6)
		assert.Empty(t, conf.CORSOrigins)
	})

	t.Run("overrides catalog rules", func(t *testing.T) {
		// given
		setRequiredEnv(t)
		t.Setenv(config.WholesaleCategoriesEnv, "Cajones, Ofertas")
		t.Setenv(config.BrandCategoryEnv, "Cajones")
		t.Setenv(config.CacheTTLSecondsEnv, "60")
		t.Setenv(config.RedisAddrEnv, "localhost:6379")

		// when
		conf, err := config.LoadFromEnv()

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"Cajones", "Ofertas"}, conf.Catalog.WholesaleCategories)
		assert.Equal(t, "Cajones", conf.Catalog.BrandCategory)
		assert.Equal(t, time.Minute, conf.Redis.TTL)
		assert.True(t, conf.Redis.Enabled())
	})

	t.Run("fails without queue url", func(t *testing.T) {
		// given
		setRequiredEnv(t)
		t.Setenv(config.SQSQueueURLEnv, "")

		// when
		_, err := config.LoadFromEnv()

		// then
		require.Error(t, err)
		assert.ErrorIs(t, err, config.ErrMissingConfig)
	})

	t.Run("fails on incomplete storage settings", func(t *testing.T) {
		// given
		setRequiredEnv(t)
		t.Setenv(config.StorageEndpointEnv, "localhost:9000")
		t.Setenv(config.StorageAccessKeyEnv, "")

		// when
		_, err := config.LoadFromEnv()

		// then
		require.Error(t, err)
		assert.ErrorIs(t, err, config.ErrMissingConfig)
	})

	t.Run("fails on invalid ttl", func(t *testing.T) {
		// given
		setRequiredEnv(t)
		t.Setenv(config.CacheTTLSecondsEnv, "soon")

		// when
		_, err := config.LoadFromEnv()

		// then
		require.Error(t, err)
	})
}

func TestGetEnvAsBool(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue bool
		want         bool
	}{
		{"GetEnvAsBool_True", "true", false, true},
		{"GetEnvAsBool_False", "false", true, false},
		{"GetEnvAsBool_Invalid", "invalid", true, true},
		{"GetEnvAsBool_Empty", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_ENV", tt.envValue)
			got := config.GetEnvAsBool("TEST_ENV", tt.defaultValue)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetEnvAsList(t *testing.T) {
	t.Run("trims and drops blanks", func(t *testing.T) {
		t.Setenv("TEST_LIST", " a, ,b ,c,")
		assert.Equal(t, []string{"a", "b", "c"}, config.GetEnvAsList("TEST_LIST", "x"))
	})

	t.Run("empty value yields empty list", func(t *testing.T) {
		t.Setenv("TEST_LIST", "")
		got := config.GetEnvAsList("TEST_LIST", "x")
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestAllNumbers(t *testing.T) {
	tests := []struct {
		name    string
		input   map[string]string
		wantErr bool
	}{
		{"AllNumbers_Valid", map[string]string{"key1": "123", "key2": "456", "key3": "789"}, false},
		{"AllNumbers_Invalid", map[string]string{"key1": "123", "key2": "abc", "key3": "789"}, true},
		{"AllNumbers_EmptyString", map[string]string{"key1": "123", "key2": "", "key3": "789"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := config.AllNumbers(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAllNonEmpty(t *testing.T) {
	tests := []struct {
		name    string
		input   map[string]string
		wantErr bool
	}{
		{"AllNonEmpty_Valid", map[string]string{"key1": "host", "key2": "user", "key3": "pass"}, false},
		{"AllNonEmpty_EmptyString", map[string]string{"key1": "host", "key2": "", "key3": "pass"}, true},
		{"AllNonEmpty_AllEmpty", map[string]string{"key1": "", "key2": "", "key3": ""}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := config.AllNonEmpty(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
