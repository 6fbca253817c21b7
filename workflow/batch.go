package workflow

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// batches splits items into consecutive chunks of at most 'size' items.
func batches[T any](items []T, size int) [][]T {
	if size < 1 {
		size = 1
	}

	chunks := [][]T{}
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}

		chunks = append(chunks, items[start:end])
	}

	return chunks
}

// pacer spaces consecutive batches by a fixed pause. The first batch is not delayed.
type pacer struct {
	limiter *rate.Limiter
}

func newPacer(pause time.Duration) *pacer {
	limit := rate.Inf
	if pause > 0 {
		limit = rate.Every(pause)
	}

	return &pacer{
		limiter: rate.NewLimiter(limit, 1),
	}
}

func (p *pacer) wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}
