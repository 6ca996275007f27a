package metric

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribe(t *testing.T) {
	summary := Describe([]float64{2, 4, 4, 4, 5, 5, 7, 9})

	assert.Equal(t, 8, summary.Count)
	assert.InDelta(t, 40, summary.Total, 1e-9)
	assert.InDelta(t, 5, summary.Mean, 1e-9)
	assert.InDelta(t, 4.5, summary.Median, 1e-9)
	assert.InDelta(t, math.Sqrt(32.0/7.0), summary.StdDev, 1e-9)
	assert.InDelta(t, 2, summary.Min, 1e-9)
	assert.InDelta(t, 9, summary.Max, 1e-9)
}

func TestDescribe_SingleValue(t *testing.T) {
	summary := Describe([]float64{7})

	assert.Equal(t, 1, summary.Count)
	assert.InDelta(t, 7, summary.Mean, 1e-9)
	assert.InDelta(t, 7, summary.Median, 1e-9)
	assert.Zero(t, summary.StdDev)
}

func TestDescribe_Empty(t *testing.T) {
	assert.Equal(t, Summary{}, Describe(nil))
}

func TestDescribe_DoesNotMutateInput(t *testing.T) {
	values := []float64{9, 2, 5}
	Describe(values)
	assert.Equal(t, []float64{9, 2, 5}, values)
}
