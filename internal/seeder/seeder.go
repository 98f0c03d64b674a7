// Package seeder bulk-resolves the schema's location names so the
// coordinate cache is warm before the first user request. The resolver's
// own rate limiter keeps the pass inside the geocoder's usage policy;
// workers only add concurrency over cache hits.
package seeder

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/yourorg/estimate-api/internal/logging"
	"github.com/yourorg/estimate-api/internal/resolver"
)

type Seeder struct {
	resolver *resolver.Resolver
	workers  int
	log      zerolog.Logger
}

func New(r *resolver.Resolver, workers int) *Seeder {
	if workers <= 0 {
		workers = 2
	}
	return &Seeder{resolver: r, workers: workers, log: logging.Component("seeder")}
}

// Run resolves every name, fanning out over the worker count, and returns
// the number of successful resolutions. Individual failures are logged and
// skipped; only context cancellation stops the pass early.
func (s *Seeder) Run(ctx context.Context, names []string) int {
	jobs := make(chan string)
	var resolved int64
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range jobs {
				_, _, err := s.resolver.Resolve(ctx, name)
				switch {
				case err == nil:
					mu.Lock()
					resolved++
					mu.Unlock()
				case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
					return
				case errors.Is(err, resolver.ErrNotFound):
					s.log.Warn().Str("location", name).Msg("no coordinates found")
				default:
					s.log.Warn().Err(err).Str("location", name).Msg("seed resolve failed")
				}
			}
		}()
	}

	for _, name := range names {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return int(resolved)
		case jobs <- name:
		}
	}
	close(jobs)
	wg.Wait()

	s.log.Info().Int("resolved", int(resolved)).Int("total", len(names)).Msg("seed pass complete")
	return int(resolved)
}
