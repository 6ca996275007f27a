package indicator

import (
	"math"

	"github.com/cryptoriginal/signalx/pkg/core"
)

// Candlestick pattern thresholds, expressed as fractions of the
// candle's high-low range.
const (
	maxBodyFraction        = 0.35
	maxLowerShadowFraction = 0.35
	maxUpperShadowFraction = 0.4
	minStarShadowFraction  = 0.6
)

// Hammer detects a small body with bounded shadows on both sides.
// Zero range candles never match.
func Hammer(c core.Candle) bool {
	total := c.Range()
	if total <= 0 {
		return false
	}

	body := c.Body()
	lowerShadow := math.Min(c.Open, c.Close) - c.Low
	upperShadow := c.High - math.Max(c.Open, c.Close)

	return body/total < maxBodyFraction &&
		lowerShadow/total < maxLowerShadowFraction &&
		upperShadow/total < maxUpperShadowFraction
}

// ShootingStar detects a small body with a dominant upper shadow.
func ShootingStar(c core.Candle) bool {
	total := c.Range()
	if total <= 0 {
		return false
	}

	body := c.Body()
	upperShadow := c.High - math.Max(c.Open, c.Close)

	return body/total < maxBodyFraction && upperShadow/total > minStarShadowFraction
}

// BullishEngulfing detects a bullish candle whose body engulfs the
// previous bearish body.
func BullishEngulfing(prev, cur core.Candle) bool {
	return cur.Close > cur.Open &&
		prev.Close < prev.Open &&
		cur.Close > prev.Open &&
		cur.Open < prev.Close
}

// BearishEngulfing detects a bearish candle whose body engulfs the
// previous bullish body.
func BearishEngulfing(prev, cur core.Candle) bool {
	return cur.Close < cur.Open &&
		prev.Close > prev.Open &&
		cur.Close < prev.Open &&
		cur.Open > prev.Close
}
