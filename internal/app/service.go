// Package app wires fetching, charting and persistence into the three form actions.
package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"QuarterChart/internal/chart"
	"QuarterChart/internal/collector"
	"QuarterChart/internal/metrics"
	"QuarterChart/internal/model"
	"QuarterChart/internal/notifier"
	"QuarterChart/internal/recorder"
)

// User-facing status lines.
const (
	StatusSaved      = "Data saved successfully"
	StatusSaveError  = "Error saving data"
	StatusFetchError = "Error fetching stock data"
)

// Service performs fetch, render and submit on behalf of the web and bot surfaces.
type Service struct {
	Collector *collector.Collector
	Recorder  recorder.Recorder
	Notifier  *notifier.TelegramNotifier
	Metrics   *metrics.Metrics

	Width     int
	Height    int
	ChartOpts chart.Options
}

// NewService creates a Service. tn may be nil to disable notifications.
func NewService(col *collector.Collector, rec recorder.Recorder, tn *notifier.TelegramNotifier, m *metrics.Metrics) *Service {
	return &Service{
		Collector: col,
		Recorder:  rec,
		Notifier:  tn,
		Metrics:   m,
		Width:     800,
		Height:    400,
		ChartOpts: chart.DefaultOptions(),
	}
}

// Fetch returns the daily bars of one quarter.
func (s *Service) Fetch(ctx context.Context, ticker string, year, quarter int) (model.PriceSeries, error) {
	bars, err := s.Collector.FetchQuarter(ctx, ticker, year, quarter)
	if err != nil {
		log.Printf("[ERROR] fetching stock data: %v", err)
		return nil, err
	}
	return bars, nil
}

// Scene lays out a series on the configured canvas.
func (s *Service) Scene(series model.PriceSeries) *chart.Scene {
	return chart.BuildScene(series, s.Width, s.Height, s.ChartOpts)
}

// RenderChart returns the series as an SVG document.
func (s *Service) RenderChart(series model.PriceSeries) string {
	out := chart.RenderSVG(s.Scene(series))
	s.Metrics.ChartRendered()
	return out
}

// Submit persists a submission as a new record and announces it when a notifier is set.
func (s *Service) Submit(ctx context.Context, sub *model.Submission) (string, error) {
	began := time.Now()
	id, err := s.Recorder.Save(ctx, sub)
	s.Metrics.ObserveSave(began, err)
	if err != nil {
		log.Printf("[ERROR] saving data: %v", err)
		return "", fmt.Errorf("save %s: %w", sub.Ticker, err)
	}
	log.Printf("[INFO] saved %s %s (%d bars) to %s as %s",
		sub.Ticker, model.QuarterLabel(sub.Year, sub.Quarter), len(sub.Data), s.Recorder.Name(), id)

	if s.Notifier != nil {
		text := notifier.FormatSubmission(sub)
		go func() {
			nctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if err := s.Notifier.SendWithRetry(nctx, text, 3); err != nil {
				log.Printf("[ERROR] send notification: %v", err)
			}
		}()
	}
	return id, nil
}

// Load returns a stored submission.
func (s *Service) Load(ctx context.Context, id string) (*model.Submission, error) {
	return s.Recorder.Load(ctx, id)
}

// Recent lists stored submissions, newest first.
func (s *Service) Recent(ctx context.Context, ticker string, limit int) ([]model.Summary, error) {
	if ticker != "" {
		t, err := collector.NormalizeTicker(ticker)
		if err != nil {
			return nil, err
		}
		ticker = t
	}
	return s.Recorder.List(ctx, ticker, limit)
}
