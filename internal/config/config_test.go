package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.StoreDriver)
	assert.Equal(t, FeedLocal, cfg.ChangeFeed)
	assert.Equal(t, 5*time.Second, cfg.QueryTimeout)
	assert.Equal(t, "America/Sao_Paulo", cfg.Booking.Timezone)
	assert.Equal(t, 30, cfg.Booking.HorizonDays)
	assert.Equal(t, time.Duration(0), cfg.Booking.MinAdvance)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Empty(t, cfg.CORSOrigins)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("STORE_DRIVER", "MONGO")
	t.Setenv("CHANGEFEED", "redis")
	t.Setenv("BOOKING_MIN_ADVANCE", "2h")
	t.Setenv("BOOKING_HORIZON_DAYS", "0")
	t.Setenv("DB_QUERY_TIMEOUT", "not-a-duration")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.serviflex.com, ,https://admin.serviflex.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverMongo, cfg.StoreDriver)
	assert.Equal(t, FeedRedis, cfg.ChangeFeed)
	assert.Equal(t, 2*time.Hour, cfg.Booking.MinAdvance)
	assert.Equal(t, 0, cfg.Booking.HorizonDays)
	assert.Equal(t, 5*time.Second, cfg.QueryTimeout)
	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, []string{"https://app.serviflex.com", "https://admin.serviflex.com"}, cfg.CORSOrigins)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")
	_, err := Load()
	assert.Error(t, err)
}

func TestProductionNeedsSecret(t *testing.T) {
	t.Setenv("ENV", EnvProduction)
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "s3cret")
	_, err = Load()
	assert.NoError(t, err)
}
