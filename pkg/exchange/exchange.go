// Package exchange holds the helpers shared by the exchange adapters.
// The adapters themselves live in subpackages, one per venue.
package exchange

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidAsset   = errors.New("invalid asset")
	ErrMalformedKline = errors.New("malformed kline row")
)

// quoteAssets are the quote currencies recognized by SplitAssetQuote,
// checked in order. Longer suffixes come first so USDT wins over USD-like
// three letter fallbacks.
var quoteAssets = []string{"USDT", "BUSD", "USDC", "BTC", "ETH", "BNB"}

// SplitAssetQuote splits a concatenated pair like BTCUSDT into its base
// and quote assets. Unknown quotes fall back to a three letter suffix.
func SplitAssetQuote(pair string) (asset, quote string) {
	for _, q := range quoteAssets {
		if strings.HasSuffix(pair, q) && len(pair) > len(q) {
			return strings.TrimSuffix(pair, q), q
		}
	}

	if len(pair) > 3 {
		return pair[:len(pair)-3], pair[len(pair)-3:]
	}
	return "", ""
}

// APIError is returned when an exchange replies with a non-success
// status or an application level error code.
type APIError struct {
	StatusCode int
	Endpoint   string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("exchange api: %s returned %d: %s", e.Endpoint, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("exchange api: %s returned %d", e.Endpoint, e.StatusCode)
}

// IsRetryable reports whether the request may succeed on retry.
// Server side failures and rate limits qualify, client errors do not.
func (e *APIError) IsRetryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}
