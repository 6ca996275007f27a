package exchange

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitAssetQuote(t *testing.T) {
	cases := []struct {
		pair  string
		asset string
		quote string
	}{
		{"BTCUSDT", "BTC", "USDT"},
		{"ETHBTC", "ETH", "BTC"},
		{"PEPEUSDC", "PEPE", "USDC"},
		{"SOLBNB", "SOL", "BNB"},
		// unknown quote falls back to a three letter suffix
		{"DOGEEUR", "DOGE", "EUR"},
		// too short to split
		{"BTC", "", ""},
		{"", "", ""},
	}

	for _, c := range cases {
		asset, quote := SplitAssetQuote(c.pair)
		assert.Equal(t, c.asset, asset, c.pair)
		assert.Equal(t, c.quote, quote, c.pair)
	}
}

func TestAPIError_Error(t *testing.T) {
	err := &APIError{StatusCode: 400, Endpoint: "/api/v3/ticker/24hr", Message: "invalid symbol"}
	assert.Equal(t, "exchange api: /api/v3/ticker/24hr returned 400: invalid symbol", err.Error())

	bare := &APIError{StatusCode: 502, Endpoint: "/api/v3/ping"}
	assert.Equal(t, "exchange api: /api/v3/ping returned 502", bare.Error())
}

func TestAPIError_IsRetryable(t *testing.T) {
	assert.True(t, (&APIError{StatusCode: 500}).IsRetryable())
	assert.True(t, (&APIError{StatusCode: 503}).IsRetryable())
	assert.True(t, (&APIError{StatusCode: 429}).IsRetryable())

	assert.False(t, (&APIError{StatusCode: 400}).IsRetryable())
	assert.False(t, (&APIError{StatusCode: 404}).IsRetryable())
	assert.False(t, (&APIError{StatusCode: 200}).IsRetryable())
}
