// Package web serves the quarter chart form and its JSON API.
package web

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"QuarterChart/internal/app"
)

// Server is the HTTP front end.
type Server struct {
	svc    *app.Service
	server *http.Server
}

// NewServer creates a server bound to addr.
func NewServer(addr string, svc *app.Service) *Server {
	s := &Server{svc: svc}
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routed mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /fetch", s.handleFetch)
	mux.HandleFunc("POST /submit", s.handleSubmit)
	mux.HandleFunc("GET /reset", s.handleReset)
	mux.HandleFunc("GET /chart.svg", s.handleChartSVG)

	mux.HandleFunc("POST /api/stock/fetch", s.handleAPIFetch)
	mux.HandleFunc("POST /api/stock/save", s.handleAPISave)
	mux.HandleFunc("GET /api/stock/{id}", s.handleAPILoad)
	mux.HandleFunc("GET /api/stock", s.handleAPIList)

	mux.HandleFunc("GET /health", s.handleHealth)
	if s.svc.Metrics != nil {
		mux.Handle("GET /metrics", s.svc.Metrics.Handler())
	}
	return mux
}

// Start serves until Shutdown is called. It returns nil after a shutdown,
// including one that happened before Start.
func (s *Server) Start() error {
	log.Printf("[INFO] HTTP server listening on %s", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"store":  s.svc.Recorder.Name(),
		"source": s.svc.Collector.Fetcher.Name(),
	})
}
