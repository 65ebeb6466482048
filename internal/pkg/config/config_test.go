//go:build unit

package config_test

import (
	"os"
	"testing"
	"time"

	"lab-booking/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("defaults apply when only PORT is set", func(t *testing.T) {
		t.Setenv("PORT", "8080")

		cfg, err := config.LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, config.BackendSnapshot, cfg.Store.Backend)
		assert.Equal(t, "Data/bookings.json", cfg.Store.SnapshotPath())
		assert.Equal(t, time.Hour, cfg.Store.PurgeInterval)
		assert.Equal(t, "calendar-week", cfg.Window.Policy)
		assert.Equal(t, "Asia/Taipei", cfg.Window.TimeZone)
		assert.Equal(t, 7*24*time.Hour, cfg.Window.Retention)
	})

	t.Run("PORT is required", func(t *testing.T) {
		t.Setenv("PORT", "")
		require.NoError(t, os.Unsetenv("PORT"))

		_, err := config.LoadConfig()
		assert.Error(t, err)
	})

	t.Run("unknown backend is rejected", func(t *testing.T) {
		t.Setenv("PORT", "8080")
		t.Setenv("STORE_BACKEND", "redis")

		_, err := config.LoadConfig()
		assert.ErrorContains(t, err, "STORE_BACKEND")
	})

	t.Run("backend and window overrides", func(t *testing.T) {
		t.Setenv("PORT", "8080")
		t.Setenv("STORE_BACKEND", "sqlite")
		t.Setenv("DATA_DIR", "/var/lib/booking")
		t.Setenv("WINDOW_POLICY", "rolling")
		t.Setenv("WINDOW_RETENTION", "72h")

		cfg, err := config.LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, config.BackendSQLite, cfg.Store.Backend)
		assert.Equal(t, "/var/lib/booking/bookings.db", cfg.Store.SQLitePath())
		assert.Equal(t, "rolling", cfg.Window.Policy)
		assert.Equal(t, 72*time.Hour, cfg.Window.Retention)
	})
}

func TestBuildDSN(t *testing.T) {
	c := config.DBConfig{
		Host: "db", Port: "5432", User: "lab", Password: "p@ss", DBName: "booking",
		SSLMode: "disable", TimeZone: "UTC",
	}
	assert.Equal(t, "postgres://lab:p%40ss@db:5432/booking?sslmode=disable&timezone=UTC", c.BuildDSN())
}
