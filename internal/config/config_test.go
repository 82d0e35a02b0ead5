package config

import (
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViperDefaults(t *testing.T) {
	v := newViper()
	v.Set("DATABASE_URL", "postgres://localhost/cashier")
	v.Set("JWT_SECRET", "secret")

	cfg, err := FromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, 30, cfg.APIRateLimit)
	assert.Equal(t, time.Minute, cfg.APIRateWindow)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "mainnet", cfg.BTCNetwork)
	assert.False(t, cfg.AllowStatusReopen)
	assert.Equal(t, "0.0001", cfg.DefaultNetworkFee)
	assert.Empty(t, cfg.AllowedOrigins)
}

func TestFromViperRequiredKeys(t *testing.T) {
	v := newViper()
	_, err := FromViper(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")

	v.Set("DATABASE_URL", "postgres://localhost/cashier")
	_, err = FromViper(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestFromViperOverrides(t *testing.T) {
	v := newViper()
	v.Set("DATABASE_URL", "postgres://localhost/cashier")
	v.Set("JWT_SECRET", "secret")
	v.Set("ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	v.Set("API_RATE_LIMIT", -3)
	v.Set("BTC_NETWORK", "Testnet")
	v.Set("ALLOW_STATUS_REOPEN", "true")

	cfg, err := FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 30, cfg.APIRateLimit)
	assert.Equal(t, "testnet", cfg.BTCNetwork)
	assert.True(t, cfg.AllowStatusReopen)
}

func TestNetParams(t *testing.T) {
	p, err := NetParams("regtest")
	require.NoError(t, err)
	assert.Equal(t, chaincfg.RegressionNetParams.Name, p.Name)

	_, err = NetParams("dogecoin")
	assert.Error(t, err)
}
