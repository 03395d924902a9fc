package model

import (
	"time"

	"github.com/google/uuid"
)

// Annotation is one free-text note with an optional percentage.
type Annotation struct {
	Text    string   `json:"text"`
	Percent *float64 `json:"percent,omitempty"`
}

// Submission is a persisted form submission: the fetched series plus three annotations.
type Submission struct {
	ID          string        `json:"id"`
	Ticker      string        `json:"stock"`
	Year        int           `json:"year"`
	Quarter     int           `json:"quarter"`
	Annotations [3]Annotation `json:"annotations"`
	Data        PriceSeries   `json:"data"`
	CreatedAt   time.Time     `json:"created_at"`
}

// NewSubmission stamps a fresh id and creation time. Every call yields a distinct record.
func NewSubmission(ticker string, year, quarter int, notes [3]Annotation, data PriceSeries) *Submission {
	return &Submission{
		ID:          uuid.NewString(),
		Ticker:      ticker,
		Year:        year,
		Quarter:     quarter,
		Annotations: notes,
		Data:        data.Normalize(),
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}
}

// Summary is the listing view of a stored submission.
type Summary struct {
	ID        string    `json:"id"`
	Ticker    string    `json:"stock"`
	Year      int       `json:"year"`
	Quarter   int       `json:"quarter"`
	Bars      int       `json:"bars"`
	CreatedAt time.Time `json:"created_at"`
}
