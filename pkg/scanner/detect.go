package scanner

import (
	"math"
	"strings"
	"time"

	"github.com/cryptoriginal/signalx/pkg/core"
	"github.com/cryptoriginal/signalx/pkg/indicator"
)

// MinKlines is the minimum candle count required to evaluate a pair
const MinKlines = 50

// Signal parameters
const (
	emaFastPeriod    = 7
	emaSlowPeriod    = 30
	rsiPeriod        = 14
	volMAPeriod      = 20
	volSpikeRatio    = 1.5
	reversalLookback = 30
	riskReward       = 2.2
	stopFallbackPct  = 0.005
)

// RSI bands, long requires 20..70 and short 30..80 exclusive
const (
	rsiLongMin  = 20
	rsiLongMax  = 70
	rsiShortMin = 30
	rsiShortMax = 80
)

// CalculateIndicators computes the scan indicators into df.Metadata:
// ema7, ema30, rsi and vol_ma20.
func CalculateIndicators(df *core.Dataframe) {
	if df.Metadata == nil {
		df.Metadata = make(map[string]core.Series[float64])
	}

	df.Metadata["ema7"] = indicator.EMA(df.Close, emaFastPeriod)
	df.Metadata["ema30"] = indicator.EMA(df.Close, emaSlowPeriod)
	df.Metadata["rsi"] = indicator.RSI(df.Close, rsiPeriod)
	df.Metadata["vol_ma20"] = indicator.SMA(df.Volume, volMAPeriod)
}

// Detect builds a dataframe from the candles, computes indicators and
// evaluates the signal rules. Returns nil when no setup is present.
func Detect(pair string, candles []core.Candle) *core.Suggestion {
	if len(candles) < MinKlines {
		return nil
	}

	df := core.NewDataframe(pair, candles)
	CalculateIndicators(df)

	return Evaluate(df)
}

// Evaluate checks the last candle of an indicator-enriched dataframe
// against the signal rules: an EMA 7/30 cross confirmed by the RSI band
// and either a volume spike or a candlestick reversal pattern.
func Evaluate(df *core.Dataframe) *core.Suggestion {
	if df.Length() < MinKlines {
		return nil
	}

	emaFast := df.Metadata["ema7"]
	emaSlow := df.Metadata["ema30"]
	rsi := df.Metadata["rsi"].Last(0)

	crossUp := emaFast.Last(1) < emaSlow.Last(1) && emaFast.Last(0) > emaSlow.Last(0)
	crossDown := emaFast.Last(1) > emaSlow.Last(1) && emaFast.Last(0) < emaSlow.Last(0)

	rsiOKLong := rsi > rsiLongMin && rsi < rsiLongMax
	rsiOKShort := rsi > rsiShortMin && rsi < rsiShortMax

	volSpike := df.Volume.Last(0) > volSpikeRatio*df.Metadata["vol_ma20"].Last(0)

	last := candleAt(df, df.Length()-1)
	prev := candleAt(df, df.Length()-2)
	hammer := indicator.Hammer(last)
	bullEngulf := indicator.BullishEngulfing(prev, last)

	if crossUp && rsiOKLong && (volSpike || hammer || bullEngulf) {
		entry := df.Close.Last(0)

		stop := reversalLevel(df, reversalLookback, true)
		if stop >= entry {
			stop = entry * (1 - stopFallbackPct)
		}
		target := entry + (entry-stop)*riskReward
		rr := (target - entry) / math.Max(1e-9, entry-stop)

		reasons := make([]string, 0, 4)
		if volSpike {
			reasons = append(reasons, "volume spike")
		}
		if hammer {
			reasons = append(reasons, "hammer reversal")
		}
		if bullEngulf {
			reasons = append(reasons, "bullish engulfing")
		}
		reasons = append(reasons, "EMA 7 crossed above EMA 30")

		return newSuggestion(df.Pair, core.DirectionLong, entry, stop, target, rr, reasons)
	}

	if crossDown && rsiOKShort && (volSpike || (!hammer && !bullEngulf)) {
		entry := df.Close.Last(0)

		stop := reversalLevel(df, reversalLookback, false)
		if stop <= entry {
			stop = entry * (1 + stopFallbackPct)
		}
		target := entry - (stop-entry)*riskReward
		rr := (entry - target) / math.Max(1e-9, stop-entry)

		reasons := make([]string, 0, 2)
		if volSpike {
			reasons = append(reasons, "volume spike")
		}
		reasons = append(reasons, "EMA 7 crossed below EMA 30")

		return newSuggestion(df.Pair, core.DirectionShort, entry, stop, target, rr, reasons)
	}

	return nil
}

func newSuggestion(pair string, direction core.Direction, entry, stop, target, rr float64, reasons []string) *core.Suggestion {
	reason := strings.Join(reasons, ", ")
	if reason == "" {
		reason = "EMA crossover"
	}

	return &core.Suggestion{
		Pair:       pair,
		Direction:  direction,
		Entry:      core.Round(entry, 6),
		StopLoss:   core.Round(stop, 6),
		TakeProfit: core.Round(target, 6),
		RiskReward: core.Round(rr, 2),
		Reason:     reason,
		CreatedAt:  time.Now().UTC(),
	}
}

// reversalLevel finds the most recent reversal candle within lookback
// candles and returns its low (bullish) or high (bearish). Falls back
// to the swing low or high over the lookback window.
func reversalLevel(df *core.Dataframe, lookback int, bullish bool) float64 {
	n := df.Length()

	for i := n - 1; i >= n-lookback && i >= 0; i-- {
		cur := candleAt(df, i)

		if bullish {
			if indicator.Hammer(cur) || (i >= 1 && indicator.BullishEngulfing(candleAt(df, i-1), cur)) {
				return cur.Low
			}
			continue
		}

		if i >= 1 {
			if indicator.BearishEngulfing(candleAt(df, i-1), cur) || indicator.ShootingStar(cur) {
				return cur.High
			}
		}
	}

	if bullish {
		lows := indicator.Min(df.Low, lookback)
		return lows[len(lows)-1]
	}
	highs := indicator.Max(df.High, lookback)
	return highs[len(highs)-1]
}

func candleAt(df *core.Dataframe, i int) core.Candle {
	return core.Candle{
		Pair:     df.Pair,
		Time:     df.Time[i],
		Open:     df.Open[i],
		High:     df.High[i],
		Low:      df.Low[i],
		Close:    df.Close[i],
		Volume:   df.Volume[i],
		Complete: true,
	}
}
