// Package indicator wraps the go-talib functions used by the scan
// engine and adds candlestick pattern detection.
package indicator

import "github.com/markcheno/go-talib"

// EMA calculates Exponential Moving Average
func EMA(input []float64, period int) []float64 {
	return talib.Ema(input, period)
}

// SMA calculates Simple Moving Average
func SMA(input []float64, period int) []float64 {
	return talib.Sma(input, period)
}

// RSI calculates Relative Strength Index
func RSI(input []float64, period int) []float64 {
	return talib.Rsi(input, period)
}

// Max calculates the highest value over a rolling period
func Max(input []float64, period int) []float64 {
	return talib.Max(input, period)
}

// Min calculates the lowest value over a rolling period
func Min(input []float64, period int) []float64 {
	return talib.Min(input, period)
}
