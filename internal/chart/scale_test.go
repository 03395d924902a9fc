package chart

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBandScale_Padding(t *testing.T) {
	b := NewBandScale(2, 0, 100, 0.2)
	step := 100 / 2.2
	assert.InDelta(t, step*0.8, b.Bandwidth(), 1e-9)
	assert.InDelta(t, (100-step*1.8)/2, b.X(0), 1e-9)
	assert.InDelta(t, b.X(0)+step, b.X(1), 1e-9)
	assert.InDelta(t, b.X(1)+b.Bandwidth()/2, b.Mid(1), 1e-9)
}

func TestBandScale_Empty(t *testing.T) {
	b := NewBandScale(0, 0, 100, 0.2)
	assert.False(t, math.IsNaN(b.Bandwidth()))
	assert.InDelta(t, 80, b.Bandwidth(), 1e-9)
}

func TestLinearScale_Inverted(t *testing.T) {
	s := NewLinearScale(0, 10, 100, 0)
	assert.InDelta(t, 100, s.Scale(0), 1e-9)
	assert.InDelta(t, 0, s.Scale(10), 1e-9)
	assert.InDelta(t, 50, s.Scale(5), 1e-9)

	flat := NewLinearScale(5, 5, 100, 0)
	assert.InDelta(t, 50, flat.Scale(5), 1e-9)
}

func TestLinearScale_Nice(t *testing.T) {
	tests := []struct {
		d0, d1 float64
		n0, n1 float64
	}{
		{8.3, 91.7, 0, 100},
		{8, 12, 8, 12},
		{0, 1, 0, 1},
		{131.2, 149.8, 130, 150},
	}
	for _, tt := range tests {
		d0, d1 := NewLinearScale(tt.d0, tt.d1, 0, 1).Nice(10).Domain()
		assert.InDelta(t, tt.n0, d0, 1e-9, "nice(%v,%v) low", tt.d0, tt.d1)
		assert.InDelta(t, tt.n1, d1, 1e-9, "nice(%v,%v) high", tt.d0, tt.d1)
	}
}

func TestTicks(t *testing.T) {
	got := NewLinearScale(0, 1, 0, 1).Ticks(10)
	require.Len(t, got, 11)
	assert.Equal(t, "0", formatTick(got[0]))
	assert.Equal(t, "0.3", formatTick(got[3]))
	assert.Equal(t, "1", formatTick(got[10]))

	assert.Equal(t, []float64{0, 20, 40, 60, 80, 100}, ticks(0, 100, 5))
	assert.Equal(t, []float64{7}, ticks(7, 7, 10))
	assert.Nil(t, ticks(0, 1, 0))
}
