// AngelaMos | 2026
// config_test.go

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:     AppConfig{Environment: "development"},
		Server:  ServerConfig{ReadTimeout: time.Second, WriteTimeout: time.Second},
		Storage: StorageConfig{Driver: StorageDriverMemory},
		JWT: JWTConfig{
			PrivateKeyPath:    "keys/private.pem",
			PublicKeyPath:     "keys/public.pem",
			AccessTokenExpire: time.Hour,
		},
		RateLimit: RateLimitConfig{Requests: 100, Window: time.Minute, Burst: 20},
		CORS:      CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		Catalog: CatalogConfig{
			BookPageSize:   12,
			ReviewPageSize: 10,
			MaxPageSize:    100,
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{
			name:    "postgres needs a url",
			mutate:  func(c *Config) { c.Storage.Driver = StorageDriverPostgres },
			wantErr: "DATABASE_URL",
		},
		{
			name:    "unknown driver",
			mutate:  func(c *Config) { c.Storage.Driver = "mongo" },
			wantErr: "unknown storage driver",
		},
		{
			name: "wildcard origin with credentials",
			mutate: func(c *Config) {
				c.CORS.AllowedOrigins = []string{"*"}
				c.CORS.AllowCredentials = true
			},
			wantErr: "CORS wildcard",
		},
		{
			name: "memory storage in production",
			mutate: func(c *Config) {
				c.App.Environment = "production"
				c.Redis.URL = "redis://localhost:6379"
			},
			wantErr: "memory storage",
		},
		{
			name:    "production needs redis",
			mutate:  func(c *Config) { c.App.Environment = "production" },
			wantErr: "REDIS_URL",
		},
		{
			name:    "zero rate limit",
			mutate:  func(c *Config) { c.RateLimit.Requests = 0 },
			wantErr: "rate_limit",
		},
		{
			name:    "max page size below default",
			mutate:  func(c *Config) { c.Catalog.MaxPageSize = 5 },
			wantErr: "max_page_size",
		},
		{
			name:    "non-positive token lifetime",
			mutate:  func(c *Config) { c.JWT.AccessTokenExpire = 0 },
			wantErr: "access_token_expire",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)

			err := validate(c)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_FileAndEnvLayers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
storage:
  driver: memory
catalog:
  book_page_size: 20
server:
  port: 9000
`), 0o600))

	t.Setenv("PORT", "9100")
	t.Setenv("LEADERBOARD_CACHE_TTL", "30s")

	c, err := load(path)
	require.NoError(t, err)

	assert.Equal(t, StorageDriverMemory, c.Storage.Driver)
	assert.Equal(t, 20, c.Catalog.BookPageSize)
	assert.Equal(t, 10, c.Catalog.ReviewPageSize)
	assert.Equal(t, 9100, c.Server.Port)
	assert.Equal(t, 30*time.Second, c.Cache.LeaderboardTTL)
	assert.Equal(t, "0.0.0.0:9100", c.Server.Address())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")

	c, err := load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, 720*time.Hour, c.JWT.AccessTokenExpire)
	assert.False(t, c.IsProduction())
}
