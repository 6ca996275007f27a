package mexc

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/cryptoriginal/signalx/pkg/core"
	"github.com/cryptoriginal/signalx/pkg/exchange"
	"github.com/samber/lo"
)

// contractIntervals maps spot style timeframes to the contract API notation
var contractIntervals = map[string]string{
	"1m":  "Min1",
	"5m":  "Min5",
	"15m": "Min15",
	"30m": "Min30",
	"1h":  "Min60",
	"4h":  "Hour4",
	"8h":  "Hour8",
	"1d":  "Day1",
	"1w":  "Week1",
	"1M":  "Month1",
}

type tickerEntry struct {
	Symbol      string `json:"symbol"`
	QuoteVolume string `json:"quoteVolume"`
	LastPrice   string `json:"lastPrice"`
}

type klineEnvelope struct {
	Code int     `json:"code"`
	Data [][]any `json:"data"`
}

// HighVolumePairs returns the USDT pairs with a 24h quote volume of at
// least minQuoteVolume, sorted by volume descending.
func (m *Mexc) HighVolumePairs(ctx context.Context, minQuoteVolume float64) ([]core.PairVolume, error) {
	var entries []tickerEntry
	if err := m.get(ctx, m.spotBaseURL+"/api/v3/ticker/24hr", &entries); err != nil {
		return nil, fmt.Errorf("fetch 24h ticker: %w", err)
	}

	pairs := lo.FilterMap(entries, func(e tickerEntry, _ int) (core.PairVolume, bool) {
		if e.Symbol == "" || !hasUSDTSuffix(e.Symbol) {
			return core.PairVolume{}, false
		}

		quoteVolume := parseFloatOrZero(e.QuoteVolume)
		if quoteVolume < minQuoteVolume {
			return core.PairVolume{}, false
		}

		return core.PairVolume{
			Pair:        e.Symbol,
			QuoteVolume: quoteVolume,
			LastPrice:   parseFloatOrZero(e.LastPrice),
		}, true
	})

	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].QuoteVolume > pairs[j].QuoteVolume
	})

	return pairs, nil
}

// CandlesByLimit fetches up to limit candles from the contract API,
// returned ascending by time.
func (m *Mexc) CandlesByLimit(ctx context.Context, pair, timeframe string, limit int) ([]core.Candle, error) {
	symbol, err := contractSymbol(pair)
	if err != nil {
		return nil, err
	}

	interval, ok := contractIntervals[timeframe]
	if !ok {
		return nil, fmt.Errorf("timeframe %q: %w", timeframe, core.ErrInvalidTimeframe)
	}

	url := fmt.Sprintf("%s/api/v1/contract/kline/%s?interval=%s&limit=%d",
		m.contractBaseURL, symbol, interval, limit)

	var envelope klineEnvelope
	if err := m.get(ctx, url, &envelope); err != nil {
		return nil, fmt.Errorf("fetch klines %s: %w", pair, err)
	}

	if envelope.Code != 200 {
		return nil, &exchange.APIError{
			StatusCode: envelope.Code,
			Endpoint:   url,
			Message:    fmt.Sprintf("contract api code %d", envelope.Code),
		}
	}

	if len(envelope.Data) == 0 {
		return nil, nil
	}

	candles := make([]core.Candle, 0, len(envelope.Data))
	for _, row := range envelope.Data {
		candle, err := candleFromRow(pair, row)
		if err != nil {
			return nil, fmt.Errorf("pair %s: %w", pair, err)
		}
		candles = append(candles, candle)
	}

	// Rows may arrive newest first, normalize to ascending
	if len(candles) > 1 && candles[0].Time.After(candles[len(candles)-1].Time) {
		for i, j := 0, len(candles)-1; i < j; i, j = i+1, j-1 {
			candles[i], candles[j] = candles[j], candles[i]
		}
	}

	return candles, nil
}

// contractSymbol converts a spot pair like BTCUSDT into the contract
// notation BTC_USDT.
func contractSymbol(pair string) (string, error) {
	asset, quote := exchange.SplitAssetQuote(pair)
	if asset == "" || quote == "" {
		return "", fmt.Errorf("pair %q: %w", pair, core.ErrInvalidPair)
	}
	return asset + "_" + quote, nil
}

// candleFromRow parses a [timestamp, open, high, low, close, volume] row.
// Timestamps are in seconds.
func candleFromRow(pair string, row []any) (core.Candle, error) {
	if len(row) < 6 {
		return core.Candle{}, fmt.Errorf("%w: got %d columns", exchange.ErrMalformedKline, len(row))
	}

	values := make([]float64, 6)
	for i := 0; i < 6; i++ {
		v, err := rowFloat(row[i])
		if err != nil {
			return core.Candle{}, fmt.Errorf("%w: column %d: %v", exchange.ErrMalformedKline, i, err)
		}
		values[i] = v
	}

	return core.Candle{
		Pair:     pair,
		Time:     time.Unix(int64(values[0]), 0).UTC(),
		Open:     values[1],
		High:     values[2],
		Low:      values[3],
		Close:    values[4],
		Volume:   values[5],
		Complete: true,
	}, nil
}

func rowFloat(v any) (float64, error) {
	switch value := v.(type) {
	case float64:
		return value, nil
	case string:
		return strconv.ParseFloat(value, 64)
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}

func parseFloatOrZero(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func hasUSDTSuffix(symbol string) bool {
	return len(symbol) > 4 && symbol[len(symbol)-4:] == "USDT"
}
