// Package btc holds the few Bitcoin primitives the cashier needs:
// address validation against the configured chain and satoshi conversion.
package btc

import (
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/shopspring/decimal"
)

// MaxDecimals is satoshi precision.
const MaxDecimals = 8

var satsPerBTC = decimal.NewFromInt(btcutil.SatoshiPerBitcoin)

var ErrEmptyAddress = errors.New("address is empty")

// ValidateAddress checks that addr decodes for the given network.
func ValidateAddress(addr string, params *chaincfg.Params) error {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return ErrEmptyAddress
	}
	decoded, err := btcutil.DecodeAddress(addr, params)
	if err != nil {
		return fmt.Errorf("invalid bitcoin address: %w", err)
	}
	if !decoded.IsForNet(params) {
		return fmt.Errorf("address %s is not for %s", addr, params.Name)
	}
	return nil
}

// ValidateLightningDestination accepts a lightning address (user@host) or a
// BOLT11 invoice prefix; the payout itself happens off-system.
func ValidateLightningDestination(dest string) error {
	dest = strings.TrimSpace(dest)
	if dest == "" {
		return ErrEmptyAddress
	}
	if strings.ContainsAny(dest, " \t\n") {
		return errors.New("lightning destination must not contain whitespace")
	}
	lower := strings.ToLower(dest)
	if strings.HasPrefix(lower, "ln") || strings.HasPrefix(lower, "lightning:") {
		return nil
	}
	at := strings.IndexByte(dest, '@')
	if at <= 0 || at == len(dest)-1 || !strings.Contains(dest[at+1:], ".") {
		return errors.New("lightning destination must be a lightning address or invoice")
	}
	return nil
}

// Satoshis converts a BTC amount to a btcutil.Amount, truncating below 1 sat.
func Satoshis(amount decimal.Decimal) btcutil.Amount {
	return btcutil.Amount(amount.Mul(satsPerBTC).IntPart())
}

// FromSatoshis converts back to a BTC decimal.
func FromSatoshis(a btcutil.Amount) decimal.Decimal {
	return decimal.NewFromInt(int64(a)).Div(satsPerBTC)
}
