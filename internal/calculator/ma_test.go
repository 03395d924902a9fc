package calculator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"QuarterChart/internal/model"
)

func seriesOf(closes ...float64) model.PriceSeries {
	base := time.Date(2023, 4, 3, 0, 0, 0, 0, time.UTC)
	s := make(model.PriceSeries, len(closes))
	for i, c := range closes {
		s[i] = model.PricePoint{Date: base.AddDate(0, 0, i), Open: c, High: c + 1, Low: c - 1, Close: c}
	}
	return s
}

func values(points []model.SmaPoint) []any {
	out := make([]any, len(points))
	for i, p := range points {
		if p.Value == nil {
			out[i] = nil
		} else {
			out[i] = *p.Value
		}
	}
	return out
}

func TestComputeSMA_Example(t *testing.T) {
	got := ComputeSMA(seriesOf(10, 20, 30, 40, 50), 3)
	require.Equal(t, []any{nil, nil, 20.0, 30.0, 40.0}, values(got))
}

func TestComputeSMA_DatesAligned(t *testing.T) {
	s := seriesOf(1, 2, 3, 4)
	got := ComputeSMA(s, 2)
	require.Len(t, got, len(s))
	for i := range s {
		require.True(t, s[i].Date.Equal(got[i].Date))
	}
}

func TestComputeSMA_LeadingGap(t *testing.T) {
	s := seriesOf(5, 3, 8, 1, 9, 2, 7, 4, 6, 10, 11, 12)
	for w := 1; w <= len(s); w++ {
		got := ComputeSMA(s, w)
		for i, p := range got {
			if i < w-1 {
				require.Nil(t, p.Value, "w=%d i=%d", w, i)
			} else {
				require.NotNil(t, p.Value, "w=%d i=%d", w, i)
			}
		}
	}
}

func TestComputeSMA_DegenerateWindow(t *testing.T) {
	s := seriesOf(1, 2, 3)
	for _, w := range []int{0, -2, 4} {
		got := ComputeSMA(s, w)
		require.Len(t, got, 3)
		for _, p := range got {
			require.Nil(t, p.Value, "w=%d", w)
		}
	}
	require.Empty(t, ComputeSMA(nil, 3))
}

func TestComputeSMA_AppendInvariant(t *testing.T) {
	s := seriesOf(3.3, 1.7, 9.2, 4.4, 6.1, 2.8)
	before := values(ComputeSMA(s, 3))

	extended := append(append(model.PriceSeries{}, s...), seriesOf(100, 200)...)
	after := values(ComputeSMA(extended, 3))

	require.Equal(t, before, after[:len(s)])
}

func TestCalculateSMA(t *testing.T) {
	v, err := CalculateSMA([]float64{1, 2, 3, 4}, 2)
	require.NoError(t, err)
	require.InDelta(t, 3.5, v, 1e-9)

	_, err = CalculateSMA([]float64{1}, 2)
	require.Error(t, err)
	_, err = CalculateSMA([]float64{1}, 0)
	require.Error(t, err)
}

func TestLastSMA(t *testing.T) {
	_, ok := LastSMA(ComputeSMA(seriesOf(1, 2), 3))
	require.False(t, ok)

	v, ok := LastSMA(ComputeSMA(seriesOf(1, 2, 3, 4), 2))
	require.True(t, ok)
	require.InDelta(t, 3.5, v, 1e-9)
}
