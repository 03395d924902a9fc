package web

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"QuarterChart/internal/app"
	"QuarterChart/internal/collector"
	"QuarterChart/internal/model"
	"QuarterChart/internal/recorder"
)

type fetchRequest struct {
	Stock   string `json:"stock"`
	Year    int    `json:"year"`
	Quarter int    `json:"quarter"`
}

// saveRequest is the flat record shape posted by API clients.
type saveRequest struct {
	Stock         string            `json:"stock"`
	Year          int               `json:"year"`
	Quarter       int               `json:"quarter"`
	Field1Text    string            `json:"field1Text"`
	Field1Percent *float64          `json:"field1Percent"`
	Field2Text    string            `json:"field2Text"`
	Field2Percent *float64          `json:"field2Percent"`
	Field3Text    string            `json:"field3Text"`
	Field3Percent *float64          `json:"field3Percent"`
	Data          model.PriceSeries `json:"data"`
}

func (req saveRequest) annotations() [3]model.Annotation {
	return [3]model.Annotation{
		{Text: req.Field1Text, Percent: req.Field1Percent},
		{Text: req.Field2Text, Percent: req.Field2Percent},
		{Text: req.Field3Text, Percent: req.Field3Percent},
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[ERROR] encode response: %v", err)
	}
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}

func (s *Server) handleAPIFetch(w http.ResponseWriter, r *http.Request) {
	var req fetchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeText(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	bars, err := s.svc.Fetch(r.Context(), req.Stock, req.Year, req.Quarter)
	switch {
	case errors.Is(err, model.ErrInvalidPeriod), errors.Is(err, collector.ErrEmptyTicker):
		writeText(w, http.StatusBadRequest, err.Error())
	case err != nil:
		writeText(w, http.StatusInternalServerError, app.StatusFetchError)
	default:
		writeJSON(w, http.StatusOK, bars)
	}
}

func (s *Server) handleAPISave(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeText(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	ticker, err := collector.NormalizeTicker(req.Stock)
	if err != nil {
		writeText(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, _, err := model.QuarterRange(req.Year, req.Quarter); err != nil {
		writeText(w, http.StatusBadRequest, err.Error())
		return
	}

	sub := model.NewSubmission(ticker, req.Year, req.Quarter, req.annotations(), req.Data)
	id, err := s.svc.Submit(r.Context(), sub)
	if err != nil {
		writeText(w, http.StatusInternalServerError, app.StatusSaveError)
		return
	}
	w.Header().Set("Location", "/api/stock/"+id)
	writeText(w, http.StatusOK, app.StatusSaved)
}

func (s *Server) handleAPILoad(w http.ResponseWriter, r *http.Request) {
	sub, err := s.svc.Load(r.Context(), r.PathValue("id"))
	switch {
	case errors.Is(err, recorder.ErrNotFound):
		writeText(w, http.StatusNotFound, "Not found")
	case err != nil:
		log.Printf("[ERROR] load submission: %v", err)
		writeText(w, http.StatusInternalServerError, "Error loading data")
	default:
		writeJSON(w, http.StatusOK, sub)
	}
}

func (s *Server) handleAPIList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeText(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	list, err := s.svc.Recent(r.Context(), q.Get("ticker"), limit)
	if err != nil {
		log.Printf("[ERROR] list submissions: %v", err)
		writeText(w, http.StatusInternalServerError, "Error loading data")
		return
	}
	if list == nil {
		list = []model.Summary{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleChartSVG(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	year, err := strconv.Atoi(q.Get("year"))
	if err != nil {
		writeText(w, http.StatusBadRequest, "year must be a number")
		return
	}
	quarter, err := strconv.Atoi(q.Get("quarter"))
	if err != nil {
		writeText(w, http.StatusBadRequest, "quarter must be a number")
		return
	}
	bars, err := s.svc.Fetch(r.Context(), q.Get("stock"), year, quarter)
	switch {
	case errors.Is(err, model.ErrInvalidPeriod), errors.Is(err, collector.ErrEmptyTicker):
		writeText(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		writeText(w, http.StatusInternalServerError, app.StatusFetchError)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write([]byte(s.svc.RenderChart(bars)))
}
