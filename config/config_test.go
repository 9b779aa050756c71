package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", DriverJSON)
	t.Setenv("DATA_DIR", "data")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, DriverJSON, cfg.StoreDriver)
	assert.Equal(t, DefaultPolicy(), cfg.Policy)
	assert.Equal(t, 30*time.Second, cfg.Policy.LockDuration)
}

func TestLoadConfigPolicyOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", DriverJSON)
	t.Setenv("LOCK_DURATION_SECS", "90")
	t.Setenv("VIP_DISCOUNT_PERCENT", "15")
	t.Setenv("MAX_FAILED_ATTEMPTS", "not-a-number")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, cfg.Policy.LockDuration)
	assert.EqualValues(t, 15, cfg.Policy.VIPDiscountPercent)
	assert.Equal(t, 3, cfg.Policy.MaxFailedAttempts)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		desc    string
		mutate  func(c *AppConfig)
		wantErr bool
	}{
		{"json ok", func(c *AppConfig) {}, false},
		{"unknown driver", func(c *AppConfig) { c.StoreDriver = "mongo" }, true},
		{"postgres without url", func(c *AppConfig) { c.StoreDriver = DriverPostgres }, true},
		{"sqlite with url", func(c *AppConfig) { c.StoreDriver = DriverSQLite; c.DatabaseURL = "shop.db" }, false},
		{"zero lock", func(c *AppConfig) { c.Policy.LockDuration = 0 }, true},
		{"discount over 100", func(c *AppConfig) { c.Policy.VIPDiscountPercent = 101 }, true},
		{"zero voucher step", func(c *AppConfig) { c.Policy.VoucherStep = 0 }, true},
	}
	for _, tt := range tests {
		c := &AppConfig{StoreDriver: DriverJSON, DataDir: "data", Policy: DefaultPolicy()}
		tt.mutate(c)
		err := c.Validate()
		if tt.wantErr {
			assert.Error(t, err, tt.desc)
		} else {
			assert.NoError(t, err, tt.desc)
		}
	}
}
