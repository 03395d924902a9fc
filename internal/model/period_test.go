package model

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestQuarterRange(t *testing.T) {
	tests := []struct {
		year, quarter int
		start, end    string
	}{
		{2023, 1, "2023-01-01", "2023-03-01"},
		{2023, 2, "2023-04-01", "2023-06-01"},
		{2023, 3, "2023-07-01", "2023-09-01"},
		{2023, 4, "2023-10-01", "2023-12-01"},
	}
	for _, tt := range tests {
		start, end, err := QuarterRange(tt.year, tt.quarter)
		require.NoError(t, err)
		require.Equal(t, tt.start, start, "Q%d start", tt.quarter)
		require.Equal(t, tt.end, end, "Q%d end", tt.quarter)
	}
}

func TestQuarterRange_Invalid(t *testing.T) {
	for _, q := range []int{0, 5, -1} {
		_, _, err := QuarterRange(2023, q)
		require.True(t, errors.Is(err, ErrInvalidPeriod), "quarter %d", q)
	}
	_, _, err := QuarterRange(99, 1)
	require.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestQuarterBounds(t *testing.T) {
	start, end, err := QuarterBounds(2023, 2)
	require.NoError(t, err)
	require.Equal(t, time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC), start)
	require.Equal(t, time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestPreviousQuarter(t *testing.T) {
	y, q := PreviousQuarter(time.Date(2024, 1, 2, 6, 0, 0, 0, time.UTC))
	require.Equal(t, 2023, y)
	require.Equal(t, 4, q)

	y, q = PreviousQuarter(time.Date(2024, 7, 2, 6, 0, 0, 0, time.UTC))
	require.Equal(t, 2024, y)
	require.Equal(t, 2, q)
}

func TestNewSubmission_NormalizesDates(t *testing.T) {
	loc := time.FixedZone("EST", -5*3600)
	data := PriceSeries{{Date: time.Date(2023, 4, 3, 9, 30, 0, 123456789, loc), Close: 10}}

	a := NewSubmission("AAPL", 2023, 2, [3]Annotation{}, data)
	b := NewSubmission("AAPL", 2023, 2, [3]Annotation{}, data)

	require.NotEqual(t, a.ID, b.ID)
	require.Equal(t, time.UTC, a.Data[0].Date.Location())
	require.Zero(t, a.Data[0].Date.Nanosecond())
	require.True(t, data[0].Date.Nanosecond() != 0, "input must not be mutated")
}
