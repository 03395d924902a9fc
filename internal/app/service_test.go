package app

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"QuarterChart/internal/collector"
	"QuarterChart/internal/metrics"
	"QuarterChart/internal/model"
	"QuarterChart/internal/recorder"
)

type failingRecorder struct{ recorder.NoopRecorder }

func (failingRecorder) Save(context.Context, *model.Submission) (string, error) {
	return "", errors.New("disk full")
}

func newTestService(t *testing.T) (*Service, *metrics.Metrics) {
	t.Helper()
	rec, err := recorder.NewSQLiteRecorder(filepath.Join(t.TempDir(), "svc.db"))
	require.NoError(t, err)
	t.Cleanup(func() { rec.Close(context.Background()) })

	m := metrics.New()
	col := collector.NewCollector(&collector.MockFetcher{Price: 150}, 0, m)
	return NewService(col, rec, nil, m), m
}

func TestService_FetchRenderSubmit(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()

	bars, err := svc.Fetch(ctx, "aapl", 2023, 2)
	require.NoError(t, err)
	require.NotEmpty(t, bars)

	svg := svc.RenderChart(bars)
	assert.Equal(t, len(bars), strings.Count(svg, "<rect"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ChartsRendered))

	sub := model.NewSubmission("AAPL", 2023, 2, [3]model.Annotation{{Text: "note"}}, bars)
	id, err := svc.Submit(ctx, sub)
	require.NoError(t, err)

	got, err := svc.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, len(bars), len(got.Data))
	assert.Equal(t, "note", got.Annotations[0].Text)

	list, err := svc.Recent(ctx, " aapl", 5)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SavesTotal.WithLabelValues("ok")))
}

func TestService_FetchError(t *testing.T) {
	m := metrics.New()
	col := collector.NewCollector(&collector.MockFetcher{Err: errors.New("503")}, 0, m)
	svc := NewService(col, recorder.NewNoopRecorder(), nil, m)

	_, err := svc.Fetch(context.Background(), "AAPL", 2023, 2)
	require.Error(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FetchesTotal.WithLabelValues("error")))
}

func TestService_SubmitError(t *testing.T) {
	m := metrics.New()
	svc := NewService(collector.NewCollector(&collector.MockFetcher{}, 0, m), &failingRecorder{}, nil, m)

	sub := model.NewSubmission("AAPL", 2023, 2, [3]model.Annotation{}, model.PriceSeries{{Date: time.Now(), Close: 1}})
	_, err := svc.Submit(context.Background(), sub)
	require.Error(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SavesTotal.WithLabelValues("error")))
}
