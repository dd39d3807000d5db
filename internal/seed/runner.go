package seed

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/sailsizzle/regatta/internal/domain/types"
	"github.com/sailsizzle/regatta/pkg/logger"
)

// Submitter posts one entry.
type Submitter interface {
	Submit(ctx context.Context, req types.EntryRequest) (types.EntryReceipt, error)
}

// Stats counts submission outcomes.
type Stats struct {
	Submitted int
	Accepted  int
	Duplicate int
	Failed    int
}

// Submit posts reqs with a pool of workers and counts the outcomes. It stops
// handing out work when ctx is done.
func Submit(ctx context.Context, s Submitter, reqs []types.EntryRequest, workers int) Stats {
	if workers < 1 {
		workers = 1
	}
	log := logger.Named("seed")

	var submitted, accepted, duplicate, failed atomic.Int64
	work := make(chan types.EntryRequest, workers*2)
	var wg sync.WaitGroup

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for req := range work {
				receipt, err := s.Submit(ctx, req)
				submitted.Add(1)
				switch {
				case err != nil:
					failed.Add(1)
					log.Debug(ctx, "submission failed",
						logger.String("submissionID", req.SubmissionID),
						logger.Error(err),
					)
				case receipt.Duplicate:
					duplicate.Add(1)
				default:
					accepted.Add(1)
				}
			}
		}()
	}

feed:
	for _, req := range reqs {
		select {
		case <-ctx.Done():
			break feed
		case work <- req:
		}
	}
	close(work)
	wg.Wait()

	stats := Stats{
		Submitted: int(submitted.Load()),
		Accepted:  int(accepted.Load()),
		Duplicate: int(duplicate.Load()),
		Failed:    int(failed.Load()),
	}
	log.Info(ctx, "submission completed",
		logger.Int("submitted", stats.Submitted),
		logger.Int("accepted", stats.Accepted),
		logger.Int("duplicate", stats.Duplicate),
		logger.Int("failed", stats.Failed),
	)
	return stats
}
