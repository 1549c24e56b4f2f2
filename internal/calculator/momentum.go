package calculator

import "errors"

// MomentumSkipDays is the most recent stretch excluded from the momentum
// window (one trading month), so last-month reversal noise doesn't count.
const MomentumSkipDays = 21

// Momentum computes the 12-1 month momentum, in percent: the return from
// the start of the series to one month before its end. Requires at least
// minObservations prices covering the full window.
func Momentum(prices []float64, minObservations int) (float64, error) {
	if minObservations <= MomentumSkipDays {
		return 0, errors.New("minObservations must exceed the skip window")
	}
	if len(prices) < minObservations {
		return 0, errors.New("not enough data for momentum calculation")
	}
	base := prices[0]
	if base == 0 {
		return 0, errors.New("zero base price")
	}
	recent := prices[len(prices)-MomentumSkipDays]
	return (recent/base - 1) * 100, nil
}
