package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, CacheMemory, cfg.CacheBackend)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, "America/Sao_Paulo", cfg.Timezone)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("CACHE_TTL", "2m")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("STORAGE", "memory")
	t.Setenv("ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, CacheRedis, cfg.CacheBackend)
	assert.Equal(t, 2*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.True(t, cfg.IsProduction())
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			CacheBackend:    CacheMemory,
			Storage:         StoragePostgres,
			CacheTTL:        time.Second,
			MaxWritesPerMin: 1,
			Timezone:        "UTC",
		}
	}

	cases := map[string]func(*Config){
		"cache backend": func(c *Config) { c.CacheBackend = "memcached" },
		"storage":       func(c *Config) { c.Storage = "sqlite" },
		"ttl":           func(c *Config) { c.CacheTTL = 0 },
		"rate":          func(c *Config) { c.MaxWritesPerMin = -1 },
		"timezone":      func(c *Config) { c.Timezone = "Mars/Olympus" },
	}

	base := valid()
	require.NoError(t, base.Validate())

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := valid()
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
