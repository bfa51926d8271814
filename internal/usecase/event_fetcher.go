package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/pnsgg/SmashRecap/internal/domain/recap"
	"github.com/pnsgg/SmashRecap/internal/platform/logging"
)

// EventSource is the upstream tournament data provider.
type EventSource interface {
	PlayerProfile(ctx context.Context, playerID int64) (recap.PlayerProfile, error)
	EventHistoryPage(ctx context.Context, playerID int64, page int) ([]recap.EventStub, int, error)
	EventDetail(ctx context.Context, eventID, playerID int64) (recap.Event, error)
	EntrantProfile(ctx context.Context, entrantID int64) (recap.OpponentProfile, error)
	SearchPlayers(ctx context.Context, gamerTag string, limit int) ([]recap.PlayerSearchResult, error)
}

const defaultDetailConcurrency = 8

// EventFetcher walks a player's paginated event history and hydrates the
// selected events concurrently.
type EventFetcher struct {
	source      EventSource
	logger      *logging.Logger
	concurrency int
}

func NewEventFetcher(source EventSource, logger *logging.Logger, concurrency int) *EventFetcher {
	if logger == nil {
		logger = logging.Default()
	}
	if concurrency <= 0 {
		concurrency = defaultDetailConcurrency
	}
	return &EventFetcher{
		source:      source,
		logger:      logger,
		concurrency: concurrency,
	}
}

// ListEventIDsForYear pages through the player's history, newest first, and
// keeps the events that started in the requested year. Paging stops at the
// first page containing an event older than the year; later pages can only be
// older still.
func (f *EventFetcher) ListEventIDsForYear(ctx context.Context, playerID int64, year int) ([]int64, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventFetcher.ListEventIDsForYear")
	defer span.End()

	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := yearStart.AddDate(1, 0, 0)

	ids := make([]int64, 0, 32)
	for page := 1; ; page++ {
		stubs, totalPages, err := f.source.EventHistoryPage(ctx, playerID, page)
		if err != nil {
			return nil, fmt.Errorf("list events page=%d: %w", page, err)
		}

		sawOlder := false
		for _, stub := range stubs {
			if stub.StartAt.IsZero() {
				continue
			}
			if stub.StartAt.Before(yearStart) {
				sawOlder = true
				continue
			}
			if stub.StartAt.Before(yearEnd) {
				ids = append(ids, stub.ID)
			}
		}

		if sawOlder || page >= totalPages || len(stubs) == 0 {
			break
		}
	}

	f.logger.DebugContext(ctx, "listed events for year", "player_id", playerID, "year", year, "count", len(ids))
	return ids, nil
}

// FetchEventDetails hydrates the given events concurrently. The first upstream
// failure cancels the remaining fetches and fails the whole batch; a partial
// recap would silently understate the player's year.
func (f *EventFetcher) FetchEventDetails(ctx context.Context, playerID int64, eventIDs []int64) ([]recap.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventFetcher.FetchEventDetails")
	defer span.End()

	if len(eventIDs) == 0 {
		return nil, nil
	}

	events := make([]recap.Event, len(eventIDs))
	p := pool.New().
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError().
		WithMaxGoroutines(f.concurrency)

	for i, eventID := range eventIDs {
		p.Go(func(ctx context.Context) error {
			event, err := f.source.EventDetail(ctx, eventID, playerID)
			if err != nil {
				return err
			}
			events[i] = event
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		return nil, fmt.Errorf("fetch event details: %w", err)
	}
	return events, nil
}
