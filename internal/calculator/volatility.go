package calculator

import (
	"errors"
	"math"
)

// TradingDaysPerYear is the annualization factor for daily returns.
const TradingDaysPerYear = 252

// AnnualizedVolatility computes the annualized volatility, in percent, from
// daily closing prices: the standard deviation of daily simple returns
// scaled by sqrt(252). Requires at least minReturns daily returns.
func AnnualizedVolatility(prices []float64, minReturns int) (float64, error) {
	if minReturns < 2 {
		return 0, errors.New("minReturns must be at least 2")
	}
	returns, err := PeriodicReturns(prices)
	if err != nil {
		return 0, err
	}
	if len(returns) < minReturns {
		return 0, errors.New("not enough returns for volatility calculation")
	}
	sd, err := StdDev(returns)
	if err != nil {
		return 0, err
	}
	return sd * math.Sqrt(TradingDaysPerYear) * 100, nil
}
