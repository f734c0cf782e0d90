package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	for k, v := range map[string]string{
		"APP_ENV":                "test",
		"APP_PORT":               "8080",
		"DB_USER":                "cowork",
		"DB_HOST":                "127.0.0.1",
		"DB_PORT":                "3306",
		"DB_NAME":                "coworking",
		"JWT_SECRET":             "secret",
		"ACCESS_TOKEN_TTL_MIN":   "15",
		"REFRESH_TOKEN_TTL_DAYS": "7",
		"BCRYPT_COST":            "4",
	} {
		t.Setenv(k, v)
	}
}

func TestLoad(t *testing.T) {
	t.Run("reads required and optional values", func(t *testing.T) {
		setRequired(t)
		t.Setenv("BASE_URL", "https://api.example.com/")
		t.Setenv("RESET_TOKEN_TTL_HOURS", "2")
		t.Setenv("RABBITMQ_URL", "amqp://u:p@broker:5672/")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, 15, cfg.AccessTTLMin)
		assert.Equal(t, "https://api.example.com", cfg.BaseURL)
		assert.Equal(t, 2, cfg.ResetTTLHours)
		assert.Equal(t, "amqp://u:p@broker:5672/", cfg.AMQPURL)
		assert.Equal(t, "mail.outbound", cfg.Mail.Queue)
	})

	t.Run("reports every missing variable", func(t *testing.T) {
		setRequired(t)
		t.Setenv("DB_HOST", "")
		t.Setenv("JWT_SECRET", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DB_HOST")
		assert.Contains(t, err.Error(), "JWT_SECRET")
	})

	t.Run("rejects malformed integers", func(t *testing.T) {
		setRequired(t)
		t.Setenv("BCRYPT_COST", "ten")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), `BCRYPT_COST="ten"`)
	})
}

func TestConfig_DSN(t *testing.T) {
	cfg := Config{DBUser: "u", DBPass: "p", DBHost: "db", DBPort: "3306", DBName: "cw"}
	assert.Equal(t, "u:p@tcp(db:3306)/cw?charset=utf8mb4&parseTime=true&loc=UTC&clientFoundRows=true", cfg.DSN())

	cfg.DBPass = ""
	assert.Contains(t, cfg.DSN(), "u@tcp(db:3306)")
}

func TestLoadRateLimitConfig_Clamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()
	assert.Equal(t, 1, cfg.Capacity)
	assert.Equal(t, 4*time.Second, cfg.TTL)
}

func TestLoadCacheConfig_Methods(t *testing.T) {
	t.Setenv("CACHE_METHODS", "get, head")
	cfg := LoadCacheConfig()
	assert.True(t, cfg.Methods["GET"])
	assert.True(t, cfg.Methods["HEAD"])
	assert.False(t, cfg.Methods["POST"])
}
