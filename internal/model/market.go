package model

import "time"

// PricePoint represents a single daily candlestick bar.
type PricePoint struct {
	Date   time.Time `json:"date" bson:"date"`
	Open   float64   `json:"open" bson:"open"`
	High   float64   `json:"high" bson:"high"`
	Low    float64   `json:"low" bson:"low"`
	Close  float64   `json:"close" bson:"close"`
	Volume uint64    `json:"volume" bson:"volume"`
}

// IsDown reports whether the bar closed below its open.
func (p PricePoint) IsDown() bool { return p.Open > p.Close }

// PriceSeries is a list of bars in ascending date order.
type PriceSeries []PricePoint

// Closes extracts the close price of every bar.
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s))
	for i, p := range s {
		closes[i] = p.Close
	}
	return closes
}

// Normalize truncates every date to UTC second precision, the precision both stores keep.
func (s PriceSeries) Normalize() PriceSeries {
	out := make(PriceSeries, len(s))
	for i, p := range s {
		p.Date = p.Date.UTC().Truncate(time.Second)
		out[i] = p
	}
	return out
}

// SmaPoint is one entry of a moving-average series. Value is nil while the window is not yet full.
type SmaPoint struct {
	Date  time.Time `json:"date"`
	Value *float64  `json:"sma"`
}
