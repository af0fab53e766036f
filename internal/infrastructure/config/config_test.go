package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/creditledger/internal/domain"
	"github.com/iho/creditledger/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("CURRENCY", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL == "" {
		t.Fatalf("expected default database URL to be set")
	}

	if cfg.JWTSecret != "" {
		t.Fatalf("expected JWT secret default to be empty, got %q", cfg.JWTSecret)
	}

	if cfg.HTTPPort != "4000" {
		t.Fatalf("expected default HTTP port 4000, got %s", cfg.HTTPPort)
	}

	assert.Equal(t, "INR", cfg.Currency)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiration)
	assert.Equal(t, "https://api.razorpay.com", cfg.RazorpayBaseURL)
	assert.Equal(t, "migrations", cfg.MigrationsPath)
	assert.False(t, cfg.KafkaEnabled())
	assert.False(t, cfg.HTTPTrustProxy)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DATABASE_TIMEOUT", "45s")
	t.Setenv("JWT_SECRET", "top-secret")
	t.Setenv("CURRENCY", " usd ")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("GATEWAY_TIMEOUT", "3s")
	t.Setenv("HTTP_TRUST_PROXY", "true")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://example", cfg.DatabaseURL)
	assert.Equal(t, "redis://example", cfg.RedisURL)
	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, 45*time.Second, cfg.DatabaseTimeout)
	assert.Equal(t, "top-secret", cfg.JWTSecret)
	assert.Equal(t, "USD", cfg.Currency)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.KafkaEnabled())
	assert.Equal(t, 3*time.Second, cfg.GatewayTimeout)
	assert.True(t, cfg.HTTPTrustProxy)
}

func TestLoadInvalidDuration(t *testing.T) {
	original := os.Getenv("HTTP_READ_TIMEOUT")
	t.Setenv("HTTP_READ_TIMEOUT", "not-a-duration")
	t.Cleanup(func() {
		t.Setenv("HTTP_READ_TIMEOUT", original)
	})

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}

func TestValidate(t *testing.T) {
	valid := config.Config{
		JWTSecret:         "secret",
		RazorpayKeyID:     "rzp_test_key",
		RazorpayKeySecret: "rzp_secret",
		Currency:          "INR",
		RateLimitRPS:      5,
		RateLimitBurst:    10,
	}
	require.NoError(t, valid.Validate())

	missingSecret := valid
	missingSecret.JWTSecret = ""
	err := missingSecret.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	missingKeys := valid
	missingKeys.RazorpayKeySecret = ""
	assert.ErrorContains(t, missingKeys.Validate(), "RAZORPAY_KEY_SECRET")

	badCurrency := valid
	badCurrency.Currency = "XYZ"
	assert.ErrorIs(t, badCurrency.Validate(), domain.ErrInvalidCurrency)

	badLimit := valid
	badLimit.RateLimitBurst = 0
	assert.ErrorContains(t, badLimit.Validate(), "rate limit")
}
