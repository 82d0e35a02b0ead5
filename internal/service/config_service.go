package service

import (
	"context"
	"fmt"
	"strings"

	"crypto_cashier/internal/apperr"
	"crypto_cashier/internal/btc"
	"crypto_cashier/internal/domain"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/shopspring/decimal"
)

// ConfigService reads and validates the system configuration store.
type ConfigService struct {
	store ConfigStore
	net   *chaincfg.Params
	audit *AuditService
}

func NewConfigService(store ConfigStore, net *chaincfg.Params, audit *AuditService) *ConfigService {
	if net == nil {
		net = &chaincfg.MainNetParams
	}
	return &ConfigService{store: store, net: net, audit: audit}
}

// PaymentAddress returns the configured receiving address for method.
func (s *ConfigService) PaymentAddress(ctx context.Context, method domain.PaymentMethod) (string, error) {
	key := method.ConfigKey()
	value, ok, err := s.store.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	value = strings.TrimSpace(value)
	if !ok || value == "" {
		return "", apperr.Config(key, key+" is not configured")
	}
	return value, nil
}

// NetworkFee returns network_fee, defaulting to 0.0001 when unset.
func (s *ConfigService) NetworkFee(ctx context.Context) (decimal.Decimal, error) {
	value, ok, err := s.store.Get(ctx, domain.ConfigNetworkFee)
	if err != nil {
		return decimal.Zero, fmt.Errorf("read network_fee: %w", err)
	}
	return ParseNetworkFee(value, ok)
}

// BTCUSDRate returns the display exchange rate.
func (s *ConfigService) BTCUSDRate(ctx context.Context) (decimal.Decimal, error) {
	value, ok, err := s.store.Get(ctx, domain.ConfigBTCUSDRate)
	if err != nil {
		return decimal.Zero, fmt.Errorf("read btc_usd_rate: %w", err)
	}
	if !ok || strings.TrimSpace(value) == "" {
		value = domain.DefaultBTCUSDRate
	}
	rate, err := parsePlainDecimal(strings.TrimSpace(value))
	if err != nil || !rate.IsPositive() {
		return decimal.Zero, apperr.Config(domain.ConfigBTCUSDRate, "btc_usd_rate must be a positive decimal")
	}
	return rate, nil
}

// Public returns the recognised keys only.
func (s *ConfigService) Public(ctx context.Context) (map[string]string, error) {
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(domain.PublicConfigKeys))
	for _, key := range domain.PublicConfigKeys {
		if v, ok := all[key]; ok {
			out[key] = v
		}
	}
	if _, ok := out[domain.ConfigNetworkFee]; !ok {
		out[domain.ConfigNetworkFee] = domain.DefaultNetworkFee
	}
	return out, nil
}

// All returns every stored key.
func (s *ConfigService) All(ctx context.Context) (map[string]string, error) {
	entries, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(entries))
	for _, e := range entries {
		out[e.Key] = e.Value
	}
	return out, nil
}

// Update validates and upserts values in one go.
func (s *ConfigService) Update(ctx context.Context, meta RequestMeta, values map[string]string) (map[string]string, error) {
	if len(values) == 0 {
		return nil, apperr.Validation("no configuration values supplied")
	}

	clean := make(map[string]string, len(values))
	for key, value := range values {
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" {
			return nil, apperr.Validation("configuration key must not be empty")
		}
		if err := s.validate(key, value); err != nil {
			return nil, err
		}
		clean[key] = value
	}

	if err := s.store.Upsert(ctx, clean); err != nil {
		return nil, fmt.Errorf("upsert config: %w", err)
	}

	details := make(map[string]interface{}, len(clean))
	for k, v := range clean {
		details[k] = v
	}
	s.audit.LogAdminAction(ctx, meta, domain.AuditActionConfigUpdate, "config", "", details)

	return s.All(ctx)
}

func (s *ConfigService) validate(key, value string) error {
	switch key {
	case domain.ConfigBTCAddress:
		if err := btc.ValidateAddress(value, s.net); err != nil {
			return apperr.Validation("btc_address: %v", err)
		}
	case domain.ConfigLightningAddress:
		if err := btc.ValidateLightningDestination(value); err != nil {
			return apperr.Validation("lightning_address: %v", err)
		}
	case domain.ConfigNetworkFee:
		fee, err := parsePlainDecimal(value)
		if err != nil || fee.IsNegative() || fee.GreaterThan(MaxAmount) {
			return apperr.Validation("network_fee must be a non-negative decimal")
		}
		if !fee.Equal(fee.Truncate(btc.MaxDecimals)) {
			return apperr.Validation("network_fee must have at most %d decimal places", btc.MaxDecimals)
		}
	case domain.ConfigBTCUSDRate:
		rate, err := parsePlainDecimal(value)
		if err != nil || !rate.IsPositive() {
			return apperr.Validation("btc_usd_rate must be a positive decimal")
		}
	}
	return nil
}

// SeedDefaults stores the given defaults for keys that are not set yet.
func (s *ConfigService) SeedDefaults(ctx context.Context, defaults map[string]string) error {
	values := make(map[string]string, len(defaults))
	for k, v := range defaults {
		if strings.TrimSpace(v) != "" {
			values[k] = v
		}
	}
	return s.store.InsertMissing(ctx, values)
}
