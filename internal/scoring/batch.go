package scoring

import (
	"context"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/job-ranker/internal/jobs"
)

// ScoreAll scores postings concurrently with at most workers goroutines. Results keep the
// input order. A cancelled context stops submitting new postings and its error is returned.
func (e *Engine) ScoreAll(ctx context.Context, postings []*jobs.Posting, workers int) ([]*Result, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]*Result, len(postings))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, posting := range postings {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = e.Score(posting)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.logger.Info("postings scored", zap.Int("count", len(results)), zap.Int("workers", workers))
	return results, nil
}
