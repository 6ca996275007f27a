package core

import "errors"

var (
	ErrInsufficientData = errors.New("insufficient candle data")
	ErrInvalidTimeframe = errors.New("invalid timeframe")
	ErrInvalidPair      = errors.New("invalid pair")
)
