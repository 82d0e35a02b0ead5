package btc

import (
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidateAddress(t *testing.T) {
	cases := []struct {
		name    string
		addr    string
		params  *chaincfg.Params
		wantErr bool
	}{
		{"mainnet p2wpkh", "bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4", &chaincfg.MainNetParams, false},
		{"mainnet p2pkh", "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa", &chaincfg.MainNetParams, false},
		{"testnet p2wsh on mainnet", "tb1qrp33g0q5c5txsp9arysrx4k6zdkfs4nce4xj0gdcccefvpysxf3q0sl5k7", &chaincfg.MainNetParams, true},
		{"mainnet p2pkh on testnet", "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa", &chaincfg.TestNet3Params, true},
		{"garbage", "bc1qXYZ", &chaincfg.MainNetParams, true},
		{"empty", "  ", &chaincfg.MainNetParams, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateAddress(tc.addr, tc.params)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateLightningDestination(t *testing.T) {
	assert.NoError(t, ValidateLightningDestination("satoshi@walletofsatoshi.com"))
	assert.NoError(t, ValidateLightningDestination("lnbc1500n1pj9"))
	assert.NoError(t, ValidateLightningDestination("LIGHTNING:lnbc1"))
	assert.Error(t, ValidateLightningDestination(""))
	assert.Error(t, ValidateLightningDestination("user@"))
	assert.Error(t, ValidateLightningDestination("not an address"))
}

func TestSatoshis(t *testing.T) {
	assert.Equal(t, btcutil.Amount(190000), Satoshis(decimal.RequireFromString("0.0019")))
	assert.Equal(t, btcutil.Amount(1), Satoshis(decimal.RequireFromString("0.00000001")))
	assert.Equal(t, btcutil.Amount(0), Satoshis(decimal.RequireFromString("0.000000009")))
	assert.True(t, FromSatoshis(10000).Equal(decimal.RequireFromString("0.0001")))
}
