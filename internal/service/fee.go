package service

import (
	"errors"
	"strings"

	"crypto_cashier/internal/apperr"
	"crypto_cashier/internal/btc"
	"crypto_cashier/internal/domain"

	"github.com/shopspring/decimal"
)

// maxAmountLen bounds the raw input before it reaches big-number parsing.
const maxAmountLen = 32

var (
	defaultNetworkFee = decimal.RequireFromString(domain.DefaultNetworkFee)
	// MaxAmount is the total BTC supply; it also fits NUMERIC(18,8).
	MaxAmount = decimal.NewFromInt(21_000_000)
)

// parsePlainDecimal accepts plain decimal notation only: no exponent and a
// bounded length, so the value stays small before any arithmetic.
func parsePlainDecimal(raw string) (decimal.Decimal, error) {
	if len(raw) > maxAmountLen || strings.ContainsAny(raw, "eE") {
		return decimal.Zero, errors.New("not a plain decimal")
	}
	return decimal.NewFromString(raw)
}

// ParseAmount parses a user supplied BTC amount. It must be positive,
// at most MaxAmount and carry no more than satoshi precision.
func ParseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, apperr.Validation("amount is required")
	}
	amount, err := parsePlainDecimal(raw)
	if err != nil {
		return decimal.Zero, apperr.Validation("amount must be a decimal number")
	}
	if !amount.IsPositive() {
		return decimal.Zero, apperr.Validation("amount must be greater than zero")
	}
	if amount.GreaterThan(MaxAmount) {
		return decimal.Zero, apperr.Validation("amount must not exceed %s BTC", MaxAmount.String())
	}
	if !amount.Equal(amount.Truncate(btc.MaxDecimals)) {
		return decimal.Zero, apperr.Validation("amount must have at most %d decimal places", btc.MaxDecimals)
	}
	return amount, nil
}

// ParseNetworkFee interprets the network_fee config entry. An absent or
// blank value falls back to the default, a malformed one is a configuration error.
func ParseNetworkFee(value string, present bool) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if !present || value == "" {
		return defaultNetworkFee, nil
	}
	fee, err := parsePlainDecimal(value)
	if err != nil || fee.IsNegative() || fee.GreaterThan(MaxAmount) {
		return decimal.Zero, apperr.Config(domain.ConfigNetworkFee, "network_fee must be a non-negative decimal")
	}
	return fee, nil
}

// NetAmount is max(0, amount - fee).
func NetAmount(amount, fee decimal.Decimal) decimal.Decimal {
	net := amount.Sub(fee)
	if net.IsNegative() {
		return decimal.Zero
	}
	return net
}

// CheckWithdrawalAmount rejects withdrawals that would pay out nothing.
func CheckWithdrawalAmount(amount, fee decimal.Decimal) error {
	if amount.LessThanOrEqual(fee) {
		return apperr.Validation("amount must be greater than the network fee of %s BTC", fee.String())
	}
	return nil
}

// Quote is a display helper for the withdrawal form.
type Quote struct {
	Amount       decimal.Decimal `json:"amount"`
	NetworkFee   decimal.Decimal `json:"networkFee"`
	NetAmount    decimal.Decimal `json:"netAmount"`
	NetSatoshis  int64           `json:"netSatoshis"`
	FeeSatoshis  int64           `json:"feeSatoshis"`
	BTCUSDRate   decimal.Decimal `json:"btcUsdRate"`
	AmountUSD    decimal.Decimal `json:"amountUsd"`
	NetAmountUSD decimal.Decimal `json:"netAmountUsd"`
	Valid        bool            `json:"valid"`
	Reason       string          `json:"reason,omitempty"`
}

// NewQuote computes the net payout and cosmetic USD values for amount.
func NewQuote(amount, fee, usdRate decimal.Decimal) Quote {
	net := NetAmount(amount, fee)
	q := Quote{
		Amount:       amount,
		NetworkFee:   fee,
		NetAmount:    net,
		NetSatoshis:  int64(btc.Satoshis(net)),
		FeeSatoshis:  int64(btc.Satoshis(fee)),
		BTCUSDRate:   usdRate,
		AmountUSD:    amount.Mul(usdRate).Round(2),
		NetAmountUSD: net.Mul(usdRate).Round(2),
		Valid:        true,
	}
	if err := CheckWithdrawalAmount(amount, fee); err != nil {
		q.Valid = false
		q.Reason = apperr.Message(err)
	}
	return q
}

// FormatBTC renders an amount the way btcutil does, e.g. "0.0019 BTC".
func FormatBTC(amount decimal.Decimal) string {
	return btc.Satoshis(amount).String()
}
