package recorder

import (
	"context"
	"errors"

	"QuarterChart/internal/model"
)

// ErrNotFound is returned by Load when no submission has the given id.
var ErrNotFound = errors.New("submission not found")

// DefaultListLimit caps List when the caller passes a non-positive limit.
const DefaultListLimit = 50

// Recorder persists form submissions. Every Save creates a new record.
type Recorder interface {
	Save(ctx context.Context, sub *model.Submission) (string, error)
	Load(ctx context.Context, id string) (*model.Submission, error)
	List(ctx context.Context, ticker string, limit int) ([]model.Summary, error)
	Name() string
	Close(ctx context.Context) error
}

func listLimit(limit int) int {
	if limit <= 0 || limit > 1000 {
		return DefaultListLimit
	}
	return limit
}
