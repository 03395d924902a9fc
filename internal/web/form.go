package web

import (
	"embed"
	"encoding/json"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"strings"

	"QuarterChart/internal/app"
	"QuarterChart/internal/collector"
	"QuarterChart/internal/model"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTmpl = template.Must(template.New("index.html").
	Funcs(template.FuncMap{"inc": func(i int) int { return i + 1 }}).
	ParseFS(templateFS, "templates/index.html"))

const errBadSeries = "Chart data is invalid, fetch the quarter again"

type quarterOption struct {
	Value    int
	Selected bool
}

type noteField struct {
	Text    string
	Percent string
}

// formView is everything the page shows. Inputs are echoed back verbatim.
type formView struct {
	Stock    string
	Year     string
	Quarter  string
	Quarters []quarterOption
	Notes    [3]noteField
	Chart    template.HTML
	Data     string
	HasData  bool
	Status   string
	Failed   bool
}

func readForm(r *http.Request) formView {
	v := formView{
		Stock:   strings.TrimSpace(r.PostFormValue("stock")),
		Year:    strings.TrimSpace(r.PostFormValue("year")),
		Quarter: r.PostFormValue("quarter"),
		Data:    r.PostFormValue("data"),
	}
	for i := range v.Notes {
		n := strconv.Itoa(i + 1)
		v.Notes[i] = noteField{
			Text:    r.PostFormValue("field" + n + "Text"),
			Percent: strings.TrimSpace(r.PostFormValue("field" + n + "Percent")),
		}
	}
	return v
}

func (s *Server) render(w http.ResponseWriter, status int, v formView) {
	q, _ := strconv.Atoi(v.Quarter)
	v.Quarters = make([]quarterOption, 4)
	for i := range v.Quarters {
		v.Quarters[i] = quarterOption{Value: i + 1, Selected: q == i+1}
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := indexTmpl.Execute(w, v); err != nil {
		log.Printf("[ERROR] render page: %v", err)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	s.render(w, http.StatusOK, formView{})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// period parses the year and quarter inputs. problem is a user-facing message.
func (v formView) period() (year, quarter int, problem string) {
	year, err := strconv.Atoi(v.Year)
	if err != nil {
		return 0, 0, "Year must be a number"
	}
	quarter, err = strconv.Atoi(v.Quarter)
	if err != nil || quarter < 1 || quarter > 4 {
		return 0, 0, "Choose a quarter"
	}
	if _, _, err := model.QuarterRange(year, quarter); err != nil {
		return 0, 0, "Year must be between 1900 and 9999"
	}
	return year, quarter, ""
}

func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	v := readForm(r)
	v.Data = ""

	year, quarter, problem := v.period()
	if problem != "" {
		v.Status, v.Failed = problem, true
		s.render(w, http.StatusBadRequest, v)
		return
	}
	bars, err := s.svc.Fetch(r.Context(), v.Stock, year, quarter)
	if err != nil {
		v.Status, v.Failed = app.StatusFetchError, true
		s.render(w, http.StatusBadGateway, v)
		return
	}

	raw, err := json.Marshal(bars)
	if err != nil {
		log.Printf("[ERROR] encode series: %v", err)
		v.Status, v.Failed = app.StatusFetchError, true
		s.render(w, http.StatusInternalServerError, v)
		return
	}
	v.Data = string(raw)
	v.HasData = true
	v.Chart = template.HTML(s.svc.RenderChart(bars))
	s.render(w, http.StatusOK, v)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	v := readForm(r)
	fail := func(status int, msg string) {
		v.Status, v.Failed = msg, true
		s.render(w, status, v)
	}

	var bars model.PriceSeries
	if v.Data != "" {
		v.HasData = true
		if err := json.Unmarshal([]byte(v.Data), &bars); err != nil {
			log.Printf("[WARN] bad series field: %v", err)
			fail(http.StatusBadRequest, errBadSeries)
			return
		}
		v.Chart = template.HTML(s.svc.RenderChart(bars))
	}

	year, quarter, problem := v.period()
	if problem != "" {
		fail(http.StatusBadRequest, problem)
		return
	}
	var notes [3]model.Annotation
	for i, n := range v.Notes {
		pct, err := parsePercent(n.Percent)
		if err != nil {
			fail(http.StatusBadRequest, "Field "+strconv.Itoa(i+1)+" Percent must be a number")
			return
		}
		notes[i] = model.Annotation{Text: n.Text, Percent: pct}
	}

	ticker, err := collector.NormalizeTicker(v.Stock)
	if err != nil {
		fail(http.StatusBadRequest, "Stock is required")
		return
	}
	sub := model.NewSubmission(ticker, year, quarter, notes, bars)
	if _, err := s.svc.Submit(r.Context(), sub); err != nil {
		fail(http.StatusInternalServerError, app.StatusSaveError)
		return
	}
	v.Status = app.StatusSaved
	s.render(w, http.StatusOK, v)
}

// parsePercent reads an optional number. A trailing % sign is accepted.
func parsePercent(s string) (*float64, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}
