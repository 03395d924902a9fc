package notifier

import (
	"fmt"
	"html"
	"strings"

	"QuarterChart/internal/calculator"
	"QuarterChart/internal/chart"
	"QuarterChart/internal/model"
)

// FormatSeriesSummary formats the headline numbers of a fetched quarter.
func FormatSeriesSummary(ticker string, year, quarter int, series model.PriceSeries) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📈 <b>%s</b> | %s\n\n", html.EscapeString(ticker), model.QuarterLabel(year, quarter)))
	if len(series) == 0 {
		b.WriteString("No bars in range\n")
		return b.String()
	}

	first, last := series[0], series[len(series)-1]
	b.WriteString(fmt.Sprintf("Bars: %d (%s → %s)\n", len(series),
		first.Date.Format("2006-01-02"), last.Date.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Close: %.2f → %.2f", first.Close, last.Close))
	if pct, err := calculator.ChangePercent(series); err == nil {
		b.WriteString(fmt.Sprintf(" (%+.1f%%)", pct))
	}
	b.WriteString("\n")
	if low, high, err := calculator.PriceExtent(series); err == nil {
		b.WriteString(fmt.Sprintf("Range: %.2f – %.2f\n", low, high))
	}
	if sma, err := calculator.CalculateSMA(series.Closes(), chart.SMAWindow); err == nil {
		b.WriteString(fmt.Sprintf("SMA%d: %.2f\n", chart.SMAWindow, sma))
	}
	return b.String()
}

// FormatSubmission formats a saved submission with its annotations.
func FormatSubmission(sub *model.Submission) string {
	var b strings.Builder
	b.WriteString("💾 <b>Submission saved</b>\n")
	b.WriteString(FormatSeriesSummary(sub.Ticker, sub.Year, sub.Quarter, sub.Data))

	notes := 0
	for i, a := range sub.Annotations {
		if a.Text == "" && a.Percent == nil {
			continue
		}
		if notes == 0 {
			b.WriteString("\n<b>Notes:</b>\n")
		}
		notes++
		b.WriteString(fmt.Sprintf("  %d. %s", i+1, html.EscapeString(a.Text)))
		if a.Percent != nil {
			b.WriteString(fmt.Sprintf(" (%g%%)", *a.Percent))
		}
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("\nid: <code>%s</code>", sub.ID))
	return b.String()
}

// FormatRecent formats a list of stored submissions.
func FormatRecent(list []model.Summary) string {
	if len(list) == 0 {
		return "No submissions yet"
	}
	var b strings.Builder
	b.WriteString("🗂 <b>Recent submissions</b>\n\n")
	for _, s := range list {
		b.WriteString(fmt.Sprintf("%s %s · %d bars · %s\n",
			html.EscapeString(s.Ticker), model.QuarterLabel(s.Year, s.Quarter), s.Bars,
			s.CreatedAt.Format("2006-01-02 15:04")))
	}
	return b.String()
}
