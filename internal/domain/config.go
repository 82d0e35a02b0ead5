package domain

import "time"

// Recognised system configuration keys
const (
	ConfigBTCAddress       = "btc_address"
	ConfigLightningAddress = "lightning_address"
	ConfigNetworkFee       = "network_fee"
	ConfigBTCUSDRate       = "btc_usd_rate"
)

// DefaultNetworkFee applies when network_fee is absent (BTC).
const DefaultNetworkFee = "0.0001"

// DefaultBTCUSDRate is used for cosmetic USD quotes when btc_usd_rate is absent.
const DefaultBTCUSDRate = "94182"

// PublicConfigKeys lists keys exposed to anonymous clients.
var PublicConfigKeys = []string{
	ConfigBTCAddress,
	ConfigLightningAddress,
	ConfigNetworkFee,
	ConfigBTCUSDRate,
}

type SystemConfig struct {
	Key       string    `db:"key" json:"key"`
	Value     string    `db:"value" json:"value"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
