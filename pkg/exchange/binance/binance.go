// Package binance implements a read-only Binance spot adapter, usable
// as an alternative market data source for scans.
package binance

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/cryptoriginal/signalx/pkg/core"
	"github.com/cryptoriginal/signalx/pkg/logger"
	"github.com/samber/lo"
)

// Binance is the Binance spot market data client
type Binance struct {
	client *binance.Client
}

// Option is a function that configures a Binance client
type Option func(*Binance)

// WithCredentials sets the API credentials
func WithCredentials(key, secret string) Option {
	return func(b *Binance) {
		b.client = binance.NewClient(key, secret)
	}
}

// WithTestNet enables the Binance testnet
func WithTestNet() Option {
	return func(_ *Binance) {
		binance.UseTestnet = true
	}
}

// New creates a new Binance client and checks connectivity
func New(ctx context.Context, log logger.Logger, options ...Option) (*Binance, error) {
	b := &Binance{
		client: binance.NewClient("", ""),
	}

	for _, option := range options {
		option(b)
	}

	if err := b.client.NewPingService().Do(ctx); err != nil {
		return nil, fmt.Errorf("binance ping fail: %w", err)
	}

	log.Info("[SETUP] Using Binance exchange")
	return b, nil
}

// HighVolumePairs returns the USDT pairs with a 24h quote volume of at
// least minQuoteVolume, sorted by volume descending.
func (b *Binance) HighVolumePairs(ctx context.Context, minQuoteVolume float64) ([]core.PairVolume, error) {
	stats, err := b.client.NewListPriceChangeStatsService().Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch 24h stats: %w", err)
	}

	pairs := lo.FilterMap(stats, func(s *binance.PriceChangeStats, _ int) (core.PairVolume, bool) {
		if !strings.HasSuffix(s.Symbol, "USDT") {
			return core.PairVolume{}, false
		}

		quoteVolume, err := strconv.ParseFloat(s.QuoteVolume, 64)
		if err != nil || quoteVolume < minQuoteVolume {
			return core.PairVolume{}, false
		}

		lastPrice, _ := strconv.ParseFloat(s.LastPrice, 64)

		return core.PairVolume{
			Pair:        s.Symbol,
			QuoteVolume: quoteVolume,
			LastPrice:   lastPrice,
		}, true
	})

	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].QuoteVolume > pairs[j].QuoteVolume
	})

	return pairs, nil
}

// CandlesByLimit gets a number of complete candles for a pair
func (b *Binance) CandlesByLimit(ctx context.Context, pair, period string, limit int) ([]core.Candle, error) {
	data, err := b.client.NewKlinesService().
		Symbol(pair).
		Interval(period).
		Limit(limit + 1). // +1 to discard the last incomplete candle
		Do(ctx)
	if err != nil {
		return nil, err
	}

	candles := make([]core.Candle, 0, len(data))
	for i, d := range data {
		// Skip the last candle as it's incomplete
		if i == len(data)-1 {
			break
		}
		candles = append(candles, convertKlineToCandle(pair, *d))
	}

	return candles, nil
}

// convertKlineToCandle converts a Binance kline to a core.Candle
func convertKlineToCandle(pair string, k binance.Kline) core.Candle {
	candle := core.Candle{
		Pair:     pair,
		Time:     time.Unix(0, k.OpenTime*int64(time.Millisecond)),
		Complete: true,
	}

	candle.Open, _ = strconv.ParseFloat(k.Open, 64)
	candle.Close, _ = strconv.ParseFloat(k.Close, 64)
	candle.High, _ = strconv.ParseFloat(k.High, 64)
	candle.Low, _ = strconv.ParseFloat(k.Low, 64)
	candle.Volume, _ = strconv.ParseFloat(k.Volume, 64)

	return candle
}
