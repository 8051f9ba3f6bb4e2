package collector

import (
	"context"
	"time"

	"github.com/qepting91/reddit-viewer/internal/domain"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Bulk launch pacing: a burst of 5, then 4 requests per second.
const (
	bulkInterval = 250 * time.Millisecond
	bulkBurst    = 5
)

// FetchPosts fetches every url independently and concurrently. Results keep
// the input order. The first failure cancels the remaining fetches and is
// returned.
func FetchPosts(ctx context.Context, c domain.Collector, urls []string) ([]domain.Post, error) {
	limiter := rate.NewLimiter(rate.Every(bulkInterval), bulkBurst)
	g, gctx := errgroup.WithContext(ctx)
	posts := make([]domain.Post, len(urls))

	var waitErr error
	for i, u := range urls {
		if waitErr = limiter.Wait(gctx); waitErr != nil {
			break
		}
		g.Go(func() error {
			p, err := c.FetchPost(gctx, u)
			if err != nil {
				return err
			}
			posts[i] = p
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if waitErr != nil {
		return nil, domain.ErrUnknown(waitErr)
	}
	return posts, nil
}
