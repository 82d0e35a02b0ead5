package service

import (
	"testing"
	"time"

	"crypto_cashier/internal/apperr"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNetAmount(t *testing.T) {
	cases := []struct {
		amount, fee, want string
	}{
		{"0.0020", "0.0001", "0.0019"},
		{"0.0010", "0.0001", "0.0009"},
		{"0.00005", "0.0001", "0"},
		{"0.0001", "0.0001", "0"},
		{"1", "0", "1"},
		{"0.3", "0.1", "0.2"},
	}
	for _, tc := range cases {
		got := NetAmount(dec(tc.amount), dec(tc.fee))
		assert.True(t, got.Equal(dec(tc.want)), "%s - %s = %s, want %s", tc.amount, tc.fee, got, tc.want)
		assert.True(t, got.LessThanOrEqual(dec(tc.amount)))
	}
}

func TestNetAmountRepeatable(t *testing.T) {
	amount, fee := dec("0.1"), dec("0.0001")
	first := NetAmount(amount, fee)
	for i := 0; i < 1000; i++ {
		require.True(t, NetAmount(amount, fee).Equal(first))
	}
	assert.Equal(t, "0.0999", first.String())
}

func TestParseAmount(t *testing.T) {
	a, err := ParseAmount(" 0.0020 ")
	require.NoError(t, err)
	assert.True(t, a.Equal(dec("0.002")))

	_, err = ParseAmount("0.00000001")
	assert.NoError(t, err)

	for _, raw := range []string{"", "abc", "0", "-0.5", "0.000000001"} {
		_, err := ParseAmount(raw)
		assert.True(t, apperr.Is(err, apperr.KindValidation), "input %q", raw)
	}
}

func TestParseAmountBounds(t *testing.T) {
	a, err := ParseAmount("21000000")
	require.NoError(t, err)
	assert.True(t, a.Equal(MaxAmount))

	for _, raw := range []string{
		"1e30",
		"1e20000000",
		"1E-3",
		"100000000000",
		"21000000.00000001",
		"0.000000000000000000000000000000001",
	} {
		done := make(chan error, 1)
		go func() {
			_, err := ParseAmount(raw)
			done <- err
		}()
		select {
		case err := <-done:
			assert.True(t, apperr.Is(err, apperr.KindValidation), "input %q", raw)
		case <-time.After(time.Second):
			t.Fatalf("ParseAmount(%q) did not return", raw)
		}
	}
}

func TestParseNetworkFee(t *testing.T) {
	fee, err := ParseNetworkFee("", false)
	require.NoError(t, err)
	assert.True(t, fee.Equal(dec("0.0001")))

	fee, err = ParseNetworkFee("0.0005", true)
	require.NoError(t, err)
	assert.True(t, fee.Equal(dec("0.0005")))

	_, err = ParseNetworkFee("cheap", true)
	assert.True(t, apperr.Is(err, apperr.KindConfig))

	_, err = ParseNetworkFee("-1", true)
	assert.True(t, apperr.Is(err, apperr.KindConfig))

	// blank stored value behaves like an unset one
	fee, err = ParseNetworkFee("  ", true)
	require.NoError(t, err)
	assert.True(t, fee.Equal(dec("0.0001")))

	for _, raw := range []string{"1e20000000", "100000000000"} {
		_, err = ParseNetworkFee(raw, true)
		assert.True(t, apperr.Is(err, apperr.KindConfig), "input %q", raw)
	}
}

func TestCheckWithdrawalAmount(t *testing.T) {
	assert.NoError(t, CheckWithdrawalAmount(dec("0.0002"), dec("0.0001")))

	err := CheckWithdrawalAmount(dec("0.0001"), dec("0.0001"))
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Contains(t, apperr.Message(err), "0.0001")

	assert.Error(t, CheckWithdrawalAmount(dec("0.00005"), dec("0.0001")))
}

func TestNewQuote(t *testing.T) {
	q := NewQuote(dec("0.0020"), dec("0.0001"), dec("94182"))
	assert.True(t, q.Valid)
	assert.True(t, q.NetAmount.Equal(dec("0.0019")))
	assert.Equal(t, int64(190000), q.NetSatoshis)
	assert.Equal(t, int64(10000), q.FeeSatoshis)
	assert.True(t, q.AmountUSD.Equal(dec("188.36")))
	assert.True(t, q.NetAmountUSD.Equal(dec("178.95")))

	q = NewQuote(MaxAmount, dec("0.0001"), dec("94182"))
	assert.Equal(t, int64(2_099_999_999_990_000), q.NetSatoshis)

	q = NewQuote(dec("0.00005"), dec("0.0001"), dec("94182"))
	assert.False(t, q.Valid)
	assert.NotEmpty(t, q.Reason)
	assert.True(t, q.NetAmount.IsZero())
}

func TestFormatBTC(t *testing.T) {
	assert.Equal(t, "0.0019 BTC", FormatBTC(dec("0.0019")))
}
