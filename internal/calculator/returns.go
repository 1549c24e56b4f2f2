package calculator

import (
	"errors"
	"math"
)

// PeriodicReturns computes simple percentage changes between consecutive
// closes. Requires at least two prices.
func PeriodicReturns(prices []float64) ([]float64, error) {
	if len(prices) < 2 {
		return nil, errors.New("not enough data for returns calculation")
	}
	returns := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] == 0 {
			return nil, errors.New("zero price in series")
		}
		returns = append(returns, prices[i]/prices[i-1]-1)
	}
	return returns, nil
}

// StdDev computes the sample standard deviation.
func StdDev(values []float64) (float64, error) {
	if len(values) < 2 {
		return 0, errors.New("not enough data for standard deviation")
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values) - 1)

	return math.Sqrt(variance), nil
}
