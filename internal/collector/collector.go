package collector

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"QuarterChart/internal/metrics"
	"QuarterChart/internal/model"
)

// DailyInterval is the bar size requested for quarter charts.
const DailyInterval = "1d"

// ErrEmptyTicker is returned when no ticker symbol is given.
var ErrEmptyTicker = errors.New("ticker is required")

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price float64
	Data  model.PriceSeries
	Err   error
	Calls int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchRange(_ context.Context, _ string, start, end time.Time, _ string) (model.PriceSeries, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Data != nil {
		return m.Data, nil
	}
	return generateMockBars(m.Price, start, end), nil
}

func generateMockBars(basePrice float64, start, end time.Time) model.PriceSeries {
	var bars model.PriceSeries
	i := 0
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		p := basePrice * (1 + float64(i%7-3)*0.002)
		bars = append(bars, model.PricePoint{
			Date:   d,
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		})
		i++
	}
	return bars
}

// NormalizeTicker trims and upper-cases a user-entered symbol.
func NormalizeTicker(ticker string) (string, error) {
	t := strings.ToUpper(strings.TrimSpace(ticker))
	if t == "" {
		return "", ErrEmptyTicker
	}
	return t, nil
}

// sortDedup orders bars by date and keeps the first bar of each day.
func sortDedup(bars model.PriceSeries) model.PriceSeries {
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	out := bars[:0]
	for i, b := range bars {
		if i > 0 && b.Date.Equal(out[len(out)-1].Date) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// Collector maps quarter requests onto a Fetcher.
type Collector struct {
	Fetcher    Fetcher
	MaxRetries int
	Backoff    time.Duration
	Metrics    *metrics.Metrics
}

// NewCollector creates a new Collector. maxRetries of 0 tries exactly once.
func NewCollector(fetcher Fetcher, maxRetries int, m *metrics.Metrics) *Collector {
	return &Collector{
		Fetcher:    fetcher,
		MaxRetries: maxRetries,
		Backoff:    time.Second,
		Metrics:    m,
	}
}

// FetchQuarter fetches daily bars for one calendar quarter.
func (c *Collector) FetchQuarter(ctx context.Context, ticker string, year, quarter int) (model.PriceSeries, error) {
	symbol, err := NormalizeTicker(ticker)
	if err != nil {
		return nil, err
	}
	start, end, err := model.QuarterBounds(year, quarter)
	if err != nil {
		return nil, err
	}

	began := time.Now()
	bars, err := c.fetchWithRetry(ctx, symbol, start, end)
	c.Metrics.ObserveFetch(began, err)
	if err != nil {
		return nil, fmt.Errorf("fetch %s %s: %w", symbol, model.QuarterLabel(year, quarter), err)
	}
	log.Printf("[INFO] fetched %d bars for %s %s from %s", len(bars), symbol, model.QuarterLabel(year, quarter), c.Fetcher.Name())
	return bars, nil
}

func (c *Collector) fetchWithRetry(ctx context.Context, symbol string, start, end time.Time) (model.PriceSeries, error) {
	var lastErr error
	for i := 0; i <= c.MaxRetries; i++ {
		bars, err := c.Fetcher.FetchRange(ctx, symbol, start, end, DailyInterval)
		if err == nil {
			return bars, nil
		}
		lastErr = err
		if errors.Is(err, ErrNoData) || i == c.MaxRetries {
			break
		}
		backoff := c.Backoff * time.Duration(1<<uint(i))
		log.Printf("[WARN] fetch %s failed (attempt %d/%d): %v, retrying in %v", symbol, i+1, c.MaxRetries+1, err, backoff)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
	return nil, lastErr
}
