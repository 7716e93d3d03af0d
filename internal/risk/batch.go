package risk

import (
	"context"
	"sync"

	"github.com/slopewatch/landslide-risk/internal/domain"
)

// MaxBatchSize bounds a single batch prediction request.
const MaxBatchSize = 100

// batchConcurrency bounds how many predictions run at once within a batch,
// so one large request cannot hammer the external providers.
const batchConcurrency = 8

// Point is one requested location in a batch.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// BatchItem holds the outcome for one location in a batch, in request
// order. Exactly one of Result and Error is set.
type BatchItem struct {
	Index  int                  `json:"index"`
	Result *domain.FusionResult `json:"result,omitempty"`
	Error  string               `json:"error,omitempty"`
}

// PredictBatch runs predictions for up to MaxBatchSize locations with
// bounded concurrency. Individual failures (invalid coordinates, classifier
// outages) are reported per item and do not abort the rest of the batch.
func (e *Engine) PredictBatch(ctx context.Context, points []Point) []BatchItem {
	e.metrics.BatchSize.Observe(float64(len(points)))

	items := make([]BatchItem, len(points))
	sem := make(chan struct{}, batchConcurrency)
	var wg sync.WaitGroup

	for i, p := range points {
		wg.Add(1)
		go func(i int, p Point) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			items[i].Index = i
			result, err := e.Predict(ctx, p.Latitude, p.Longitude)
			if err != nil {
				items[i].Error = err.Error()
				return
			}
			items[i].Result = &result
		}(i, p)
	}
	wg.Wait()

	return items
}
