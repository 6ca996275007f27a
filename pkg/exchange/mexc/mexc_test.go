package mexc

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cryptoriginal/signalx/pkg/core"
	"github.com/cryptoriginal/signalx/pkg/exchange"
	"github.com/cryptoriginal/signalx/pkg/logger"
)

// newMux returns a mux with the connectivity check already wired so New
// can succeed.
func newMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/ping", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "{}")
	})
	return mux
}

func newTestMexc(t *testing.T, mux *http.ServeMux, options ...Option) *Mexc {
	t.Helper()

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	opts := append([]Option{
		WithSpotBaseURL(server.URL),
		WithContractBaseURL(server.URL),
	}, options...)

	m, err := New(context.Background(), logger.Nop(), opts...)
	require.NoError(t, err)
	return m
}

func TestNew_PingFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := New(context.Background(), logger.Nop(),
		WithSpotBaseURL(server.URL), WithMaxRetries(0))
	require.Error(t, err)
}

func TestMexc_HighVolumePairs(t *testing.T) {
	mux := newMux()
	mux.HandleFunc("/api/v3/ticker/24hr", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[
			{"symbol":"ETHUSDT","quoteVolume":"50000000.5","lastPrice":"3000"},
			{"symbol":"BTCUSDT","quoteVolume":"90000000","lastPrice":"50000.5"},
			{"symbol":"LOWUSDT","quoteVolume":"1000","lastPrice":"1"},
			{"symbol":"BTCBUSD","quoteVolume":"99000000","lastPrice":"50000"},
			{"symbol":"BADUSDT","quoteVolume":"not a number","lastPrice":"1"},
			{"symbol":"","quoteVolume":"99000000","lastPrice":"1"},
			{"symbol":"SOLUSDT","quoteVolume":"70000000","lastPrice":"150"}
		]`)
	})

	m := newTestMexc(t, mux)
	pairs, err := m.HighVolumePairs(context.Background(), 40_000_000)
	require.NoError(t, err)

	require.Len(t, pairs, 3)
	assert.Equal(t, "BTCUSDT", pairs[0].Pair)
	assert.Equal(t, "SOLUSDT", pairs[1].Pair)
	assert.Equal(t, "ETHUSDT", pairs[2].Pair)
	assert.InDelta(t, 90_000_000, pairs[0].QuoteVolume, 1e-6)
	assert.InDelta(t, 50_000.5, pairs[0].LastPrice, 1e-6)
}

func TestMexc_CandlesByLimit(t *testing.T) {
	mux := newMux()
	mux.HandleFunc("/api/v1/contract/kline/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/contract/kline/BTC_USDT", r.URL.Path)
		assert.Equal(t, "Min60", r.URL.Query().Get("interval"))
		assert.Equal(t, "60", r.URL.Query().Get("limit"))

		// newest first, string and numeric columns mixed
		fmt.Fprint(w, `{"code":200,"data":[
			[1700003600,"101","102","100","101.5","500"],
			[1700000000,100,101,99,100.5,400]
		]}`)
	})

	m := newTestMexc(t, mux)
	candles, err := m.CandlesByLimit(context.Background(), "BTCUSDT", "1h", 60)
	require.NoError(t, err)

	require.Len(t, candles, 2)
	assert.True(t, candles[0].Time.Before(candles[1].Time), "candles must be ascending")
	assert.True(t, candles[0].Time.Equal(time.Unix(1700000000, 0)))

	first := candles[0]
	assert.Equal(t, "BTCUSDT", first.Pair)
	assert.Equal(t, 100.0, first.Open)
	assert.Equal(t, 101.0, first.High)
	assert.Equal(t, 99.0, first.Low)
	assert.Equal(t, 100.5, first.Close)
	assert.Equal(t, 400.0, first.Volume)
	assert.True(t, first.Complete)
}

func TestMexc_CandlesByLimit_InvalidTimeframe(t *testing.T) {
	m := newTestMexc(t, newMux())

	_, err := m.CandlesByLimit(context.Background(), "BTCUSDT", "7h", 60)
	require.ErrorIs(t, err, core.ErrInvalidTimeframe)
}

func TestMexc_CandlesByLimit_InvalidPair(t *testing.T) {
	m := newTestMexc(t, newMux())

	_, err := m.CandlesByLimit(context.Background(), "BTC", "1h", 60)
	require.ErrorIs(t, err, core.ErrInvalidPair)
}

func TestMexc_CandlesByLimit_ContractAPIErrorCode(t *testing.T) {
	mux := newMux()
	mux.HandleFunc("/api/v1/contract/kline/", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"code":1002,"data":[]}`)
	})

	m := newTestMexc(t, mux)
	_, err := m.CandlesByLimit(context.Background(), "BTCUSDT", "1h", 60)
	require.Error(t, err)

	var apiErr *exchange.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 1002, apiErr.StatusCode)
}

func TestMexc_CandlesByLimit_MalformedRow(t *testing.T) {
	mux := newMux()
	mux.HandleFunc("/api/v1/contract/kline/", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"code":200,"data":[[1700000000,100,101]]}`)
	})

	m := newTestMexc(t, mux)
	_, err := m.CandlesByLimit(context.Background(), "BTCUSDT", "1h", 60)
	require.ErrorIs(t, err, exchange.ErrMalformedKline)
}

func TestMexc_CandlesByLimit_EmptyData(t *testing.T) {
	mux := newMux()
	mux.HandleFunc("/api/v1/contract/kline/", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"code":200,"data":[]}`)
	})

	m := newTestMexc(t, mux)
	candles, err := m.CandlesByLimit(context.Background(), "BTCUSDT", "1h", 60)
	require.NoError(t, err)
	assert.Empty(t, candles)
}

func TestMexc_RetryOnServerError(t *testing.T) {
	calls := 0
	mux := newMux()
	mux.HandleFunc("/api/v3/ticker/24hr", func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `[{"symbol":"BTCUSDT","quoteVolume":"90000000","lastPrice":"50000"}]`)
	})

	m := newTestMexc(t, mux, WithMaxRetries(1))
	pairs, err := m.HighVolumePairs(context.Background(), 40_000_000)
	require.NoError(t, err)

	assert.Len(t, pairs, 1)
	assert.Equal(t, 2, calls)
}

func TestMexc_NoRetryOnClientError(t *testing.T) {
	calls := 0
	mux := newMux()
	mux.HandleFunc("/api/v3/ticker/24hr", func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, "bad request")
	})

	m := newTestMexc(t, mux)
	_, err := m.HighVolumePairs(context.Background(), 40_000_000)
	require.Error(t, err)

	var apiErr *exchange.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, 1, calls, "client errors must not be retried")
}

func TestMexc_ContextCanceled(t *testing.T) {
	mux := newMux()
	mux.HandleFunc("/api/v3/ticker/24hr", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[]`)
	})

	m := newTestMexc(t, mux)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.HighVolumePairs(ctx, 40_000_000)
	require.ErrorIs(t, err, context.Canceled)
}

func TestContractSymbol(t *testing.T) {
	symbol, err := contractSymbol("BTCUSDT")
	require.NoError(t, err)
	assert.Equal(t, "BTC_USDT", symbol)

	symbol, err = contractSymbol("ETHBTC")
	require.NoError(t, err)
	assert.Equal(t, "ETH_BTC", symbol)

	_, err = contractSymbol("X")
	require.ErrorIs(t, err, core.ErrInvalidPair)
}
