package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSeries_Last(t *testing.T) {
	s := Series[float64]{1, 2, 3, 4}

	require.Equal(t, 4.0, s.Last(0))
	require.Equal(t, 3.0, s.Last(1))
	require.Equal(t, 1.0, s.Last(3))
}

func TestSeries_LastValues(t *testing.T) {
	s := Series[float64]{1, 2, 3, 4}

	require.Equal(t, Series[float64]{3, 4}, s.LastValues(2))
	require.Equal(t, s, s.LastValues(10))
}

func TestSeries_Crossover(t *testing.T) {
	ref := Series[float64]{15, 15}

	require.True(t, Series[float64]{10, 20}.Crossover(ref))
	require.True(t, Series[float64]{15, 20}.Crossover(ref), "touching the reference still counts")
	require.False(t, Series[float64]{16, 20}.Crossover(ref), "already above, no cross")
	require.False(t, Series[float64]{10, 12}.Crossover(ref), "still below")
}

func TestSeries_Crossunder(t *testing.T) {
	ref := Series[float64]{15, 15}

	require.True(t, Series[float64]{20, 10}.Crossunder(ref))
	require.True(t, Series[float64]{20, 15}.Crossunder(ref))
	require.False(t, Series[float64]{14, 10}.Crossunder(ref), "already below, no cross")
}

func TestSeries_Cross(t *testing.T) {
	ref := Series[float64]{15, 15}

	require.True(t, Series[float64]{10, 20}.Cross(ref))
	require.True(t, Series[float64]{20, 10}.Cross(ref))
	require.False(t, Series[float64]{20, 20}.Cross(ref))
}

func TestNumDecPlaces(t *testing.T) {
	require.Equal(t, int64(0), NumDecPlaces(100))
	require.Equal(t, int64(1), NumDecPlaces(0.5))
	require.Equal(t, int64(2), NumDecPlaces(1.25))
	require.Equal(t, int64(6), NumDecPlaces(0.000001))
}
