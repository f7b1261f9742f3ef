package cmd

import (
	"testing"
	"time"

	"storefront/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func Test_LoadConfig(t *testing.T) {
	base := map[string]string{"DB_USER": "storefront", "DB_NAME": "orders"}

	t.Run("should apply defaults", func(t *testing.T) {
		cfg, err := LoadConfig(envOf(base))

		require.NoError(t, err)
		assert.Equal(t, "8080", cfg.HTTPPort)
		assert.Equal(t, 5*time.Second, cfg.EffectTimeout)
		assert.Equal(t, 5, cfg.NotificationMaxAttempts)
		assert.Equal(t, "0 * * * * *", cfg.NotificationRetrySchedule)
		assert.Zero(t, cfg.RateLimitRPS)
		assert.Empty(t, cfg.KafkaBrokers())
	})

	t.Run("should read overrides", func(t *testing.T) {
		env := map[string]string{
			"DB_USER":                   "storefront",
			"DB_NAME":                   "orders",
			"DB_PASSWORD":               "secret",
			"EFFECT_TIMEOUT":            "750ms",
			"NOTIFICATION_MAX_ATTEMPTS": "3",
			"RATE_LIMIT_RPS":            "12.5",
			"KAFKA_HOST":                "k1:9092, k2:9092",
		}

		cfg, err := LoadConfig(envOf(env))

		require.NoError(t, err)
		assert.Equal(t, 750*time.Millisecond, cfg.EffectTimeout)
		assert.Equal(t, 3, cfg.NotificationMaxAttempts)
		assert.InDelta(t, 12.5, cfg.RateLimitRPS, 0.0001)
		assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers())
		assert.Contains(t, cfg.DatabaseDSN(), "password=secret")
		assert.Contains(t, cfg.DatabaseDSN(), "dbname=orders")
	})

	t.Run("should reject malformed numbers", func(t *testing.T) {
		env := map[string]string{
			"DB_USER":                   "storefront",
			"DB_NAME":                   "orders",
			"EFFECT_TIMEOUT":            "soon",
			"NOTIFICATION_MAX_ATTEMPTS": "0",
		}

		_, err := LoadConfig(envOf(env))

		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should require database credentials", func(t *testing.T) {
		_, err := LoadConfig(envOf(map[string]string{}))

		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}
