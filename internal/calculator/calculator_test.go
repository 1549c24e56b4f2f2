package calculator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodicReturns(t *testing.T) {
	returns, err := PeriodicReturns([]float64{100, 110, 99})
	require.NoError(t, err)
	require.Len(t, returns, 2)
	assert.InDelta(t, 0.10, returns[0], 1e-9)
	assert.InDelta(t, -0.10, returns[1], 1e-9)

	_, err = PeriodicReturns([]float64{100})
	assert.Error(t, err)

	_, err = PeriodicReturns([]float64{0, 100})
	assert.Error(t, err)
}

func TestStdDev(t *testing.T) {
	sd, err := StdDev([]float64{1, 2, 3, 4})
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(5.0/3.0), sd, 1e-9)

	sd, err = StdDev([]float64{5, 5, 5})
	require.NoError(t, err)
	assert.Zero(t, sd)

	_, err = StdDev([]float64{1})
	assert.Error(t, err)
}

func TestAnnualizedVolatility(t *testing.T) {
	// Constant prices carry zero volatility.
	prices := make([]float64, 60)
	for i := range prices {
		prices[i] = 100
	}
	vol, err := AnnualizedVolatility(prices, 50)
	require.NoError(t, err)
	assert.Zero(t, vol)

	// Alternating +1%/-1% daily moves: sd of the return series scaled to
	// annual percent.
	for i := range prices {
		if i%2 == 1 {
			prices[i] = 101
		}
	}
	vol, err = AnnualizedVolatility(prices, 50)
	require.NoError(t, err)
	assert.Greater(t, vol, 10.0)

	_, err = AnnualizedVolatility(prices[:10], 50)
	assert.Error(t, err)
}

func TestMomentum(t *testing.T) {
	prices := make([]float64, 30)
	for i := range prices {
		prices[i] = 100
	}
	prices[len(prices)-MomentumSkipDays] = 110

	mom, err := Momentum(prices, MomentumSkipDays+2)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, mom, 1e-9)

	_, err = Momentum(prices[:10], MomentumSkipDays+2)
	assert.Error(t, err)
}

func TestQuantile(t *testing.T) {
	values := []float64{5, 1, 4, 2, 3}

	q, err := Quantile(values, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, q)

	q, err = Quantile(values, 1)
	require.NoError(t, err)
	assert.Equal(t, 5.0, q)

	q, err = Quantile(values, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 3.0, q)

	q, err = Quantile([]float64{1, 2, 3, 4}, 0.5)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, q, 1e-9)

	// Input must stay untouched.
	assert.Equal(t, []float64{5, 1, 4, 2, 3}, values)

	_, err = Quantile(nil, 0.5)
	assert.Error(t, err)
	_, err = Quantile(values, 1.5)
	assert.Error(t, err)
}

func TestPercentileRanks(t *testing.T) {
	asc := PercentileRanks([]float64{10, 20, 20, 30}, true)
	assert.Equal(t, []float64{25, 50, 50, 100}, asc)

	desc := PercentileRanks([]float64{10, 20, 20, 30}, false)
	assert.Equal(t, []float64{100, 50, 50, 25}, desc)

	assert.Empty(t, PercentileRanks(nil, true))
}

func TestPercentileRanks_OrderIndependent(t *testing.T) {
	a := PercentileRanks([]float64{3, 1, 2}, true)
	require.Len(t, a, 3)
	assert.InDelta(t, 100, a[0], 1e-9)
	assert.InDelta(t, 100.0/3, a[1], 1e-9)
	assert.InDelta(t, 200.0/3, a[2], 1e-9)
}
