package chart

import (
	"math"
	"strconv"
)

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// BandScale places categories in evenly spaced bands across a pixel range.
type BandScale struct {
	start     float64
	step      float64
	bandwidth float64
	n         int
}

// NewBandScale lays out n bands over [r0, r1]. padding is used for both inner and outer
// padding and leftover space is split evenly on both sides.
func NewBandScale(n int, r0, r1, padding float64) BandScale {
	if padding < 0 {
		padding = 0
	}
	if padding > 1 {
		padding = 1
	}
	step := (r1 - r0) / math.Max(1, float64(n)-padding+padding*2)
	start := r0 + (r1-r0-step*(float64(n)-padding))*0.5
	return BandScale{
		start:     start,
		step:      step,
		bandwidth: step * (1 - padding),
		n:         n,
	}
}

// X returns the left edge of band i.
func (b BandScale) X(i int) float64 { return b.start + b.step*float64(i) }

// Mid returns the horizontal centre of band i.
func (b BandScale) Mid(i int) float64 { return b.X(i) + b.bandwidth/2 }

// Bandwidth is the drawable width of each band.
func (b BandScale) Bandwidth() float64 { return b.bandwidth }

// LinearScale maps a continuous domain onto a pixel range.
type LinearScale struct {
	d0, d1 float64
	r0, r1 float64
}

// NewLinearScale builds a scale over [d0, d1] → [r0, r1]. Pass r0 > r1 for an inverted axis.
func NewLinearScale(d0, d1, r0, r1 float64) LinearScale {
	return LinearScale{d0: d0, d1: d1, r0: r0, r1: r1}
}

// Domain returns the current domain bounds.
func (s LinearScale) Domain() (float64, float64) { return s.d0, s.d1 }

// Scale converts a domain value to a pixel coordinate.
func (s LinearScale) Scale(v float64) float64 {
	if s.d1 == s.d0 {
		return (s.r0 + s.r1) / 2
	}
	return s.r0 + (v-s.d0)/(s.d1-s.d0)*(s.r1-s.r0)
}

// Nice extends the domain outward to round tick boundaries.
func (s LinearScale) Nice(count int) LinearScale {
	start, stop := s.d0, s.d1
	reversed := stop < start
	if reversed {
		start, stop = stop, start
	}
	var prestep float64
	for i := 0; i < 10; i++ {
		step := tickIncrement(start, stop, count)
		if step == prestep {
			break
		}
		if step > 0 {
			start = math.Floor(start/step) * step
			stop = math.Ceil(stop/step) * step
		} else if step < 0 {
			start = math.Ceil(start*step) / step
			stop = math.Floor(stop*step) / step
		} else {
			return s
		}
		prestep = step
	}
	if reversed {
		start, stop = stop, start
	}
	s.d0, s.d1 = start, stop
	return s
}

// Ticks returns roughly count round values inside the domain.
func (s LinearScale) Ticks(count int) []float64 {
	return ticks(s.d0, s.d1, count)
}

func tickIncrement(start, stop float64, count int) float64 {
	step := (stop - start) / math.Max(0, float64(count))
	power := math.Floor(math.Log10(step))
	factor := tickFactor(step / math.Pow(10, power))
	if power >= 0 {
		return factor * math.Pow(10, power)
	}
	return -math.Pow(10, -power) / factor
}

func tickFactor(err float64) float64 {
	switch {
	case err >= e10:
		return 10
	case err >= e5:
		return 5
	case err >= e2:
		return 2
	}
	return 1
}

func tickSpec(start, stop, count float64) (i1, i2, inc float64) {
	step := (stop - start) / math.Max(0, count)
	power := math.Floor(math.Log10(step))
	factor := tickFactor(step / math.Pow(10, power))
	if power < 0 {
		inc = math.Pow(10, -power) / factor
		i1 = math.Round(start * inc)
		i2 = math.Round(stop * inc)
		if i1/inc < start {
			i1++
		}
		if i2/inc > stop {
			i2--
		}
		inc = -inc
	} else {
		inc = math.Pow(10, power) * factor
		i1 = math.Round(start / inc)
		i2 = math.Round(stop / inc)
		if i1*inc < start {
			i1++
		}
		if i2*inc > stop {
			i2--
		}
	}
	if i2 < i1 && count >= 0.5 && count < 2 {
		return tickSpec(start, stop, count*2)
	}
	return i1, i2, inc
}

func ticks(start, stop float64, count int) []float64 {
	if count <= 0 {
		return nil
	}
	if start == stop {
		return []float64{start}
	}
	reversed := stop < start
	if reversed {
		start, stop = stop, start
	}
	i1, i2, inc := tickSpec(start, stop, float64(count))
	if !(i2 >= i1) {
		return nil
	}
	n := int(i2-i1) + 1
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		if inc < 0 {
			out[i] = (i1 + float64(i)) / -inc
		} else {
			out[i] = (i1 + float64(i)) * inc
		}
	}
	if reversed {
		for l, r := 0, n-1; l < r; l, r = l+1, r-1 {
			out[l], out[r] = out[r], out[l]
		}
	}
	return out
}

func formatTick(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
