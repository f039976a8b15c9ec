package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"salesdash/analytics"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "MySQL")
	cfg := Load()

	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, ":3000", cfg.Server.Addr)
	assert.Equal(t, analytics.DefaultConfig(), cfg.Analytics)
	assert.False(t, cfg.Mail.Enabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ANALYTICS_WINDOW_DAYS", "14")
	t.Setenv("ANALYTICS_VELOCITY_BASIS", analytics.VelocityByActiveDays)
	t.Setenv("ANALYTICS_LOW_STOCK_RATIO", "0.3")
	t.Setenv("ANALYTICS_ANOMALY_SIGMA", "not-a-number")
	t.Setenv("SMTP_USER", "owner@example.com")
	t.Setenv("SMTP_PASSWORD", "secret")

	cfg := Load()
	assert.Equal(t, 14, cfg.Analytics.WindowDays)
	assert.Equal(t, analytics.VelocityByActiveDays, cfg.Analytics.VelocityBasis)
	assert.Equal(t, 0.3, cfg.Analytics.LowStockRatio)
	assert.Equal(t, 2.0, cfg.Analytics.AnomalySigma)
	assert.True(t, cfg.Mail.Enabled())
}
