package calculator

import (
	"errors"
	"math"

	"QuarterChart/internal/model"
)

// PriceExtent scans the whole series and returns the lowest low and the highest high.
func PriceExtent(series model.PriceSeries) (low, high float64, err error) {
	if len(series) == 0 {
		return 0, 0, errors.New("no bars provided")
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, b := range series {
		if b.High > high {
			high = b.High
		}
		if b.Low < low {
			low = b.Low
		}
	}
	return low, high, nil
}

// ChangePercent returns the close-to-close change from the first to the last bar.
func ChangePercent(series model.PriceSeries) (float64, error) {
	if len(series) == 0 {
		return 0, errors.New("no bars provided")
	}
	first := series[0].Close
	if first == 0 {
		return 0, errors.New("first close is zero")
	}
	return (series[len(series)-1].Close - first) / first * 100, nil
}
