package recorder

import (
	"context"

	"QuarterChart/internal/model"
)

// NoopRecorder is used when no store is configured. Saves succeed and are discarded.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) Save(_ context.Context, sub *model.Submission) (string, error) {
	return sub.ID, nil
}

func (n *NoopRecorder) Load(_ context.Context, _ string) (*model.Submission, error) {
	return nil, ErrNotFound
}

func (n *NoopRecorder) List(_ context.Context, _ string, _ int) ([]model.Summary, error) {
	return []model.Summary{}, nil
}

func (n *NoopRecorder) Name() string                  { return "none" }
func (n *NoopRecorder) Close(_ context.Context) error { return nil }
