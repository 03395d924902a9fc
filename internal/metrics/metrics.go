package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for fetches, saves and renders.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	FetchesTotal   *prometheus.CounterVec
	FetchDur       prometheus.Histogram
	SavesTotal     *prometheus.CounterVec
	SaveDur        prometheus.Histogram
	ChartsRendered prometheus.Counter
	ArchiveRuns    *prometheus.CounterVec
}

// New creates the collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		FetchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quarterchart_fetches_total",
			Help: "Market data fetches by result",
		}, []string{"result"}),
		FetchDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "quarterchart_fetch_duration_seconds",
			Help:    "Market data fetch latency",
			Buckets: prometheus.DefBuckets,
		}),
		SavesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quarterchart_saves_total",
			Help: "Submission saves by result",
		}, []string{"result"}),
		SaveDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "quarterchart_save_duration_seconds",
			Help:    "Submission save latency",
			Buckets: prometheus.DefBuckets,
		}),
		ChartsRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quarterchart_charts_rendered_total",
			Help: "Candlestick charts rendered",
		}),
		ArchiveRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quarterchart_archive_runs_total",
			Help: "Scheduled quarter archive saves by result",
		}, []string{"result"}),
	}
	m.Registry.MustRegister(
		m.FetchesTotal, m.FetchDur,
		m.SavesTotal, m.SaveDur,
		m.ChartsRendered, m.ArchiveRuns,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveFetch records one market data fetch.
func (m *Metrics) ObserveFetch(start time.Time, err error) {
	if m == nil {
		return
	}
	m.FetchDur.Observe(time.Since(start).Seconds())
	m.FetchesTotal.WithLabelValues(result(err)).Inc()
}

// ObserveSave records one submission save.
func (m *Metrics) ObserveSave(start time.Time, err error) {
	if m == nil {
		return
	}
	m.SaveDur.Observe(time.Since(start).Seconds())
	m.SavesTotal.WithLabelValues(result(err)).Inc()
}

// ChartRendered counts one rendered chart.
func (m *Metrics) ChartRendered() {
	if m == nil {
		return
	}
	m.ChartsRendered.Inc()
}

// ObserveArchive records one scheduled archive save.
func (m *Metrics) ObserveArchive(err error) {
	if m == nil {
		return
	}
	m.ArchiveRuns.WithLabelValues(result(err)).Inc()
}
