package indicator

import (
	"testing"

	"github.com/cryptoriginal/signalx/pkg/core"
	"github.com/stretchr/testify/require"
)

func TestHammer(t *testing.T) {
	// Small body, both shadows within bounds
	require.True(t, Hammer(core.Candle{Open: 100.34, Close: 100.64, High: 101, Low: 100}))

	// Body takes half the range
	require.False(t, Hammer(core.Candle{Open: 100.2, Close: 100.7, High: 101, Low: 100}))

	// Long lower tail is rejected, the rule wants bounded shadows
	require.False(t, Hammer(core.Candle{Open: 100.7, Close: 100.9, High: 101, Low: 100}))

	// Zero range never matches
	require.False(t, Hammer(core.Candle{Open: 100, Close: 100, High: 100, Low: 100}))
}

func TestShootingStar(t *testing.T) {
	// Small body with a dominant upper shadow
	require.True(t, ShootingStar(core.Candle{Open: 100.1, Close: 100.3, High: 101, Low: 100}))

	// Upper shadow not dominant enough
	require.False(t, ShootingStar(core.Candle{Open: 100.2, Close: 100.5, High: 101, Low: 100}))

	// Wide body
	require.False(t, ShootingStar(core.Candle{Open: 100, Close: 100.5, High: 101, Low: 100}))

	require.False(t, ShootingStar(core.Candle{Open: 100, Close: 100, High: 100, Low: 100}))
}

func TestBullishEngulfing(t *testing.T) {
	bearish := core.Candle{Open: 101, Close: 100}

	require.True(t, BullishEngulfing(bearish, core.Candle{Open: 99.5, Close: 101.5}))

	// Previous candle must be bearish
	require.False(t, BullishEngulfing(core.Candle{Open: 100, Close: 101}, core.Candle{Open: 99.5, Close: 101.5}))

	// Body must cover the previous body on both ends
	require.False(t, BullishEngulfing(bearish, core.Candle{Open: 100.2, Close: 101.5}))
	require.False(t, BullishEngulfing(bearish, core.Candle{Open: 99.5, Close: 100.8}))
}

func TestBearishEngulfing(t *testing.T) {
	bullish := core.Candle{Open: 100, Close: 101}

	require.True(t, BearishEngulfing(bullish, core.Candle{Open: 101.5, Close: 99.5}))

	// Previous candle must be bullish
	require.False(t, BearishEngulfing(core.Candle{Open: 101, Close: 100}, core.Candle{Open: 101.5, Close: 99.5}))

	// Current candle must be bearish
	require.False(t, BearishEngulfing(bullish, core.Candle{Open: 99.5, Close: 101.5}))
}
