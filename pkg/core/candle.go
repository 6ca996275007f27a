package core

import "time"

// Candle represents a trading candle with OHLCV data
type Candle struct {
	Pair     string
	Time     time.Time
	Open     float64
	Close    float64
	Low      float64
	High     float64
	Volume   float64
	Complete bool
}

// IsEmpty checks if the candle contains no significant data
func (c Candle) IsEmpty() bool {
	return c.Pair == "" && c.Close == 0 && c.Open == 0 && c.Volume == 0
}

// Body returns the absolute distance between open and close
func (c Candle) Body() float64 {
	if c.Close > c.Open {
		return c.Close - c.Open
	}
	return c.Open - c.Close
}

// Range returns the high-low distance of the candle
func (c Candle) Range() float64 {
	return c.High - c.Low
}
