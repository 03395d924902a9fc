// Package chart turns a price series into pixel-space candlestick geometry.
package chart

import (
	"math"
	"time"

	"QuarterChart/internal/calculator"
	"QuarterChart/internal/model"
)

// SMAWindow is the moving-average window drawn over every chart.
const SMAWindow = 10

const (
	yTickCount = 10
	maxXTicks  = 10
)

// Margins is the blank space around the plot area, in pixels.
type Margins struct {
	Top    float64 `yaml:"top"`
	Right  float64 `yaml:"right"`
	Bottom float64 `yaml:"bottom"`
	Left   float64 `yaml:"left"`
}

// Options controls layout and colours.
type Options struct {
	Margins   Margins `yaml:"margins"`
	Padding   float64 `yaml:"padding"`
	UpColor   string  `yaml:"up_color"`
	DownColor string  `yaml:"down_color"`
	SMAColor  string  `yaml:"sma_color"`
}

// DefaultOptions returns the stock layout.
func DefaultOptions() Options {
	return Options{
		Margins:   Margins{Top: 20, Right: 30, Bottom: 30, Left: 40},
		Padding:   0.2,
		UpColor:   "green",
		DownColor: "red",
		SMAColor:  "steelblue",
	}
}

// Bar is the candle body.
type Bar struct {
	Date   time.Time
	X      float64
	Y      float64
	Width  float64
	Height float64
	Fill   string
}

// Wick is the high-low line through the middle of a candle.
type Wick struct {
	X    float64
	High float64
	Low  float64
}

// Point is a pixel coordinate.
type Point struct {
	X, Y float64
}

// Tick is an axis label at a pixel position.
type Tick struct {
	Pos   float64
	Label string
}

// Scene is everything a renderer needs to draw one chart.
type Scene struct {
	Width    float64
	Height   float64
	Margins  Margins
	YDomain  [2]float64
	Bars     []Bar
	Wicks    []Wick
	SMA      []Point
	SMAColor string
	XTicks   []Tick
	YTicks   []Tick
}

// Segments is the number of line segments in the SMA polyline.
func (s *Scene) Segments() int {
	if len(s.SMA) < 2 {
		return 0
	}
	return len(s.SMA) - 1
}

// BuildScene lays out candles and the SMA overlay on a width×height canvas.
func BuildScene(series model.PriceSeries, width, height int, opts Options) *Scene {
	w, h := float64(width), float64(height)
	m := opts.Margins

	y := NewLinearScale(0, 1, h-m.Bottom, m.Top)
	if low, high, err := calculator.PriceExtent(series); err == nil {
		low, high = widenFlat(low, high)
		y = NewLinearScale(low, high, h-m.Bottom, m.Top)
	}
	y = y.Nice(yTickCount)
	x := NewBandScale(len(series), m.Left, w-m.Right, opts.Padding)

	d0, d1 := y.Domain()
	scene := &Scene{
		Width:    w,
		Height:   h,
		Margins:  m,
		YDomain:  [2]float64{d0, d1},
		Bars:     make([]Bar, 0, len(series)),
		Wicks:    make([]Wick, 0, len(series)),
		SMAColor: opts.SMAColor,
	}

	for i, p := range series {
		fill := opts.UpColor
		if p.IsDown() {
			fill = opts.DownColor
		}
		scene.Bars = append(scene.Bars, Bar{
			Date:   p.Date,
			X:      x.X(i),
			Y:      y.Scale(math.Max(p.Open, p.Close)),
			Width:  x.Bandwidth(),
			Height: math.Abs(y.Scale(p.Open) - y.Scale(p.Close)),
			Fill:   fill,
		})
		scene.Wicks = append(scene.Wicks, Wick{
			X:    x.Mid(i),
			High: y.Scale(p.High),
			Low:  y.Scale(p.Low),
		})
	}

	for i, sp := range calculator.ComputeSMA(series, SMAWindow) {
		if sp.Value == nil {
			continue
		}
		scene.SMA = append(scene.SMA, Point{X: x.Mid(i), Y: y.Scale(*sp.Value)})
	}

	for _, v := range y.Ticks(yTickCount) {
		scene.YTicks = append(scene.YTicks, Tick{Pos: y.Scale(v), Label: formatTick(v)})
	}
	if n := len(series); n > 0 {
		stride := (n + maxXTicks - 1) / maxXTicks
		for i := 0; i < n; i += stride {
			scene.XTicks = append(scene.XTicks, Tick{Pos: x.Mid(i), Label: series[i].Date.Format("Jan 02")})
		}
	}
	return scene
}

// widenFlat gives a zero-width price range a span so the scale never divides by zero.
func widenFlat(low, high float64) (float64, float64) {
	if high != low {
		return low, high
	}
	pad := math.Abs(low) * 0.01
	if pad == 0 {
		pad = 0.5
	}
	return low - pad, high + pad
}
