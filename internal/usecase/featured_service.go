package usecase

import (
	"context"
	"fmt"
	"sync"

	crerr "github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"

	"github.com/pnsgg/SmashRecap/internal/platform/logging"
)

const defaultFeaturedPoolSize = 4

// ExpiredCachePurger is implemented by cache backends that can drop stale
// entries in bulk.
type ExpiredCachePurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// FeaturedService pre-warms the recap cache for a curated list of players so
// their pages render without waiting on the upstream provider.
type FeaturedService struct {
	recaps   *RecapService
	cache    RecapCache
	logger   *logging.Logger
	poolSize int
}

func NewFeaturedService(recaps *RecapService, recapCache RecapCache, logger *logging.Logger, poolSize int) *FeaturedService {
	if logger == nil {
		logger = logging.Default()
	}
	if poolSize <= 0 {
		poolSize = defaultFeaturedPoolSize
	}
	return &FeaturedService{
		recaps:   recaps,
		cache:    recapCache,
		logger:   logger,
		poolSize: poolSize,
	}
}

// WarmRecaps builds the recap of every featured player for the given year.
// Individual failures are collected, not fatal: one private profile must not
// block the rest of the warm-up.
func (s *FeaturedService) WarmRecaps(ctx context.Context, playerIDs []int64, year int) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.FeaturedService.WarmRecaps")
	defer span.End()

	if len(playerIDs) == 0 {
		return nil
	}

	workers, err := ants.NewPool(s.poolSize)
	if err != nil {
		return fmt.Errorf("create worker pool: %w", err)
	}
	defer workers.Release()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		combined error
	)

	for _, playerID := range playerIDs {
		wg.Add(1)
		submitErr := workers.Submit(func() {
			defer wg.Done()

			if ctx.Err() != nil {
				return
			}
			if _, err := s.recaps.BuildRecap(ctx, playerID, year); err != nil {
				s.logger.WarnContext(ctx, "featured recap warm-up failed", "player_id", playerID, "year", year, "error", err)
				mu.Lock()
				combined = crerr.CombineErrors(combined, fmt.Errorf("player_id=%d: %w", playerID, err))
				mu.Unlock()
				return
			}
			s.logger.InfoContext(ctx, "featured recap warmed", "player_id", playerID, "year", year)
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			combined = crerr.CombineErrors(combined, fmt.Errorf("submit player_id=%d: %w", playerID, submitErr))
			mu.Unlock()
		}
	}

	wg.Wait()
	s.purgeExpired(ctx)
	return combined
}

// purgeExpired drops stale cache rows after a warm-up run. Like every other
// cache failure it is logged, never fatal.
func (s *FeaturedService) purgeExpired(ctx context.Context) {
	purger, ok := s.cache.(ExpiredCachePurger)
	if !ok {
		return
	}

	purged, err := purger.PurgeExpired(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "expired recap purge failed", "error", err)
		return
	}
	if purged > 0 {
		s.logger.InfoContext(ctx, "expired recaps purged", "entries", purged)
	}
}
