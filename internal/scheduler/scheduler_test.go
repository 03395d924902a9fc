package scheduler

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

	"QuarterChart/internal/app"
	"QuarterChart/internal/collector"
	"QuarterChart/internal/metrics"
	"QuarterChart/internal/recorder"
)

func newTestScheduler(t *testing.T, f collector.Fetcher, watchlist []string) (*Scheduler, *recorder.SQLiteRecorder, *metrics.Metrics) {
	t.Helper()
	rec, err := recorder.NewSQLiteRecorder(filepath.Join(t.TempDir(), "sched.db"))
	require.NoError(t, err)
	t.Cleanup(func() { rec.Close(context.Background()) })

	m := metrics.New()
	svc := app.NewService(collector.NewCollector(f, 0, m), rec, nil, m)
	s := NewScheduler(context.Background(), svc, watchlist)
	s.now = func() time.Time { return time.Date(2024, 4, 2, 6, 0, 0, 0, time.UTC) }
	return s, rec, m
}

func TestArchive_SavesPreviousQuarter(t *testing.T) {
	s, rec, m := newTestScheduler(t, &collector.MockFetcher{Price: 50}, []string{"aapl", "msft"})

	assert.Equal(t, 2, s.RunArchiveNow())

	list, err := rec.List(context.Background(), "", 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, sum := range list {
		assert.Equal(t, 2024, sum.Year)
		assert.Equal(t, 1, sum.Quarter)
		assert.Positive(t, sum.Bars)
	}
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ArchiveRuns.WithLabelValues("ok")))
}

func TestArchive_ContinuesPastFailures(t *testing.T) {
	s, rec, m := newTestScheduler(t, &collector.MockFetcher{Err: errors.New("down")}, []string{"AAPL", "MSFT"})

	assert.Equal(t, 0, s.RunArchiveNow())
	list, err := rec.List(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ArchiveRuns.WithLabelValues("error")))
}

func TestRegister_RejectsBadCron(t *testing.T) {
	s, _, _ := newTestScheduler(t, &collector.MockFetcher{}, nil)
	require.Error(t, s.Register("not a cron"))
	require.NoError(t, s.Register("0 0 6 2 1,4,7,10 *"))
}

func TestHandleCommand(t *testing.T) {
	s, _, _ := newTestScheduler(t, &collector.MockFetcher{Price: 20}, []string{"AAPL"})
	ctx := context.Background()

	assert.Contains(t, s.HandleCommand(ctx, "hello"), "/chart")
	assert.Contains(t, s.HandleCommand(ctx, ""), "/recent")
	assert.Equal(t, "Usage: /chart TICKER YEAR Q", s.HandleCommand(ctx, "/chart AAPL"))
	assert.Equal(t, "Year must be a number", s.HandleCommand(ctx, "/chart AAPL x 2"))
	assert.Equal(t, "Quarter must be 1-4", s.HandleCommand(ctx, "/chart AAPL 2023 5"))

	reply := s.HandleCommand(ctx, "/chart aapl 2023 Q2")
	assert.Contains(t, reply, "AAPL")
	assert.Contains(t, reply, "2023 Q2")

	assert.Contains(t, s.HandleCommand(ctx, "/recent"), "No submissions yet")
	s.RunArchiveNow()
	reply = s.HandleCommand(ctx, "/recent aapl")
	assert.True(t, strings.Contains(reply, "AAPL"), reply)
}

func TestHandleCommand_FetchError(t *testing.T) {
	s, _, _ := newTestScheduler(t, &collector.MockFetcher{Err: collector.ErrNoData}, nil)
	assert.Equal(t, "No data for AAPL 2023 Q2", s.HandleCommand(context.Background(), "/chart aapl 2023 2"))

	s, _, _ = newTestScheduler(t, &collector.MockFetcher{Err: errors.New("boom")}, nil)
	assert.Equal(t, "❌ "+app.StatusFetchError, s.HandleCommand(context.Background(), "/chart aapl 2023 2"))
}
