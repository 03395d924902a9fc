package calculator

import (
	"errors"

	"QuarterChart/internal/model"
)

// CalculateSMA computes the simple moving average of the given prices over the specified period.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// ComputeSMA maps a series onto its windowed close-price averages, one entry per bar.
// The first window-1 entries have no value. A window that is not positive or exceeds
// the series length yields no values at all.
func ComputeSMA(series model.PriceSeries, window int) []model.SmaPoint {
	out := make([]model.SmaPoint, len(series))
	for i, p := range series {
		out[i].Date = p.Date
	}
	if window <= 0 || window > len(series) {
		return out
	}

	for i := window - 1; i < len(series); i++ {
		v := windowMean(series[i-window+1 : i+1])
		out[i].Value = &v
	}
	return out
}

func windowMean(bars model.PriceSeries) float64 {
	sum := 0.0
	for _, b := range bars {
		sum += b.Close
	}
	return sum / float64(len(bars))
}

// LastSMA returns the most recent defined value of an SMA series.
func LastSMA(points []model.SmaPoint) (float64, bool) {
	for i := len(points) - 1; i >= 0; i-- {
		if points[i].Value != nil {
			return *points[i].Value, true
		}
	}
	return 0, false
}
