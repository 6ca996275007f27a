package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testCandles(n int) []Candle {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]Candle, n)
	for i := range candles {
		price := 100 + float64(i)
		candles[i] = Candle{
			Pair:     "BTCUSDT",
			Time:     start.Add(time.Duration(i) * time.Hour),
			Open:     price,
			High:     price + 1,
			Low:      price - 1,
			Close:    price + 0.5,
			Volume:   1000,
			Complete: true,
		}
	}
	return candles
}

func TestNewDataframe(t *testing.T) {
	candles := testCandles(3)
	df := NewDataframe("BTCUSDT", candles)

	require.Equal(t, 3, df.Length())
	require.Equal(t, "BTCUSDT", df.Pair)
	require.Equal(t, Series[float64]{100, 101, 102}, df.Open)
	require.Equal(t, Series[float64]{100.5, 101.5, 102.5}, df.Close)
	require.Equal(t, candles[2].Time, df.LastUpdate)
	require.NotNil(t, df.Metadata)
}

func TestDataframe_Sample(t *testing.T) {
	df := NewDataframe("BTCUSDT", testCandles(10))
	df.Metadata["rsi"] = Series[float64]{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}

	sample := df.Sample(3)
	require.Equal(t, 3, sample.Length())
	require.Equal(t, Series[float64]{107.5, 108.5, 109.5}, sample.Close)
	require.Equal(t, Series[float64]{7, 8, 9}, sample.Metadata["rsi"])
	require.Equal(t, df.LastUpdate, sample.LastUpdate)
}

func TestDataframe_SampleLargerThanLength(t *testing.T) {
	df := NewDataframe("BTCUSDT", testCandles(4))

	sample := df.Sample(100)
	require.Equal(t, 4, sample.Length())
}
