package collector

import (
	"context"
	"errors"
	"time"

	"QuarterChart/internal/model"
)

// ErrNoData is returned when the source has no bars for the requested range.
var ErrNoData = errors.New("no data returned")

// Fetcher retrieves historical bars for a ticker between start (inclusive) and end (exclusive).
type Fetcher interface {
	FetchRange(ctx context.Context, ticker string, start, end time.Time, interval string) (model.PriceSeries, error)
	Name() string
}
