package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgs(t *testing.T) {
	inv, err := parseArgs([]string{
		"seed_trade",
		"--key", "0xabc",
		"--asset", "ETH",
		"--leverage", "5",
		"--is-buy", "false",
		"--size", "0.01",
		"--price", "3000.5",
	})
	require.NoError(t, err)
	assert.Equal(t, "seed_trade", inv.action)
	assert.Equal(t, "0xabc", inv.key)
	assert.Equal(t, "ETH", inv.asset)
	assert.Equal(t, 5, inv.leverage)
	assert.False(t, inv.isBuy())
	assert.Equal(t, 0.01, inv.size)
	assert.Equal(t, 3000.5, inv.price)
	assert.True(t, inv.set["key"])
	assert.True(t, inv.set["asset"])
	assert.False(t, inv.set["hl-url"])
}

func TestParseArgsDefaults(t *testing.T) {
	inv, err := parseArgs([]string{"set_leverage", "--key", "0xabc"})
	require.NoError(t, err)
	assert.Equal(t, "BTC", inv.asset)
	assert.Equal(t, 10, inv.leverage)
	assert.True(t, inv.isBuy())
	assert.Equal(t, 0.0, inv.size)
	assert.Equal(t, 0.0, inv.price)
}

func TestParseArgsRejectsBadInput(t *testing.T) {
	_, err := parseArgs(nil)
	assert.Error(t, err)

	_, err = parseArgs([]string{"drain_wallet", "--key", "0xabc"})
	assert.Error(t, err)

	_, err = parseArgs([]string{"seed_trade", "--leverage", "ten"})
	assert.Error(t, err)
}

func TestIsBuyMatchesLiteralTrue(t *testing.T) {
	cases := []struct {
		raw  string
		want bool
	}{
		{"true", true},
		{"TRUE", true},
		{"True", true},
		{"false", false},
		{"FALSE", false},
		{"yes", false}, // only the literal "true" selects the buy side
		{"1", false},
		{"", false},
	}
	for _, tc := range cases {
		inv := &invocation{isBuyRaw: tc.raw}
		assert.Equal(t, tc.want, inv.isBuy(), "raw %q", tc.raw)
	}
}
