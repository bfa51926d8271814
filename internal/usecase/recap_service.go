package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/pnsgg/SmashRecap/internal/domain/recap"
	"github.com/pnsgg/SmashRecap/internal/platform/logging"
)

const (
	minRecapYear = 2000

	topPerformances  = 5
	topCharacters    = 3
	topMatchups      = 3
	searchResultsMax = 10

	defaultRecapTTL = 24 * time.Hour
)

// RecapCache stores rendered recap bundles keyed by player and year. Cache
// failures must never fail a recap request.
type RecapCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
}

// RecapService builds the year-in-review stats bundle for a player.
type RecapService struct {
	source   EventSource
	fetcher  *EventFetcher
	cache    RecapCache
	cacheTTL time.Duration
	logger   *logging.Logger
	now      func() time.Time
}

func NewRecapService(source EventSource, fetcher *EventFetcher, cache RecapCache, cacheTTL time.Duration, logger *logging.Logger) *RecapService {
	if logger == nil {
		logger = logging.Default()
	}
	if cacheTTL <= 0 {
		cacheTTL = defaultRecapTTL
	}
	return &RecapService{
		source:   source,
		fetcher:  fetcher,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// BuildRecap assembles the full recap bundle for one player and year, serving
// from cache when a fresh copy exists.
func (s *RecapService) BuildRecap(ctx context.Context, playerID int64, year int) (recap.Bundle, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RecapService.BuildRecap")
	defer span.End()

	if playerID <= 0 {
		return recap.Bundle{}, fmt.Errorf("%w: player id must be greater than zero", ErrInvalidInput)
	}
	if year < minRecapYear || year > s.now().UTC().Year() {
		return recap.Bundle{}, fmt.Errorf("%w: year=%d is out of range", ErrInvalidInput, year)
	}

	cacheKey := recapCacheKey(playerID, year)
	if s.cache != nil {
		payload, found, err := s.cache.Get(ctx, cacheKey)
		if err != nil {
			s.logger.WarnContext(ctx, "recap cache read failed", "key", cacheKey, "error", err)
		} else if found {
			var cached recap.Bundle
			if err := sonic.Unmarshal(payload, &cached); err != nil {
				s.logger.WarnContext(ctx, "recap cache payload corrupt", "key", cacheKey, "error", err)
			} else {
				return cached, nil
			}
		}
	}

	profile, err := s.source.PlayerProfile(ctx, playerID)
	if err != nil {
		return recap.Bundle{}, fmt.Errorf("fetch player profile: %w", err)
	}

	eventIDs, err := s.fetcher.ListEventIDsForYear(ctx, playerID, year)
	if err != nil {
		return recap.Bundle{}, err
	}
	events, err := s.fetcher.FetchEventDetails(ctx, playerID, eventIDs)
	if err != nil {
		return recap.Bundle{}, err
	}

	aliases := recap.CollectAliases(events)
	bundle := recap.Bundle{
		Year:                 year,
		Player:               profile,
		Aliases:              aliases.Names(),
		AttendanceByMonth:    recap.AttendanceByMonth(events),
		ActivityByWeekday:    recap.ActivityByWeekday(events),
		BestPerformances:     recap.BestPerformances(events, topPerformances),
		WorstPerformance:     recap.WorstPerformance(events),
		MostPlayedCharacters: recap.MostPlayedCharacters(events, aliases, topCharacters),
		Gauntlet:             recap.Gauntlet(events),
		WorstMatchups:        recap.WorstMatchups(events, topMatchups),
		DQCount:              recap.DQCount(events),
		Rivalry:              recap.Rivalries(events),
		GameStats:            recap.ComputeGameStats(events, aliases),
		Sets: recap.SetTotals{
			Total:       recap.TotalSets(events),
			LastGames:   recap.LastGames(events, aliases),
			CleanSweeps: recap.CleanSweeps(events, aliases),
		},
	}
	bundle.HighestUpset = s.resolveHighestUpset(ctx, events)

	if s.cache != nil {
		payload, err := sonic.Marshal(bundle)
		if err != nil {
			s.logger.WarnContext(ctx, "recap cache encode failed", "key", cacheKey, "error", err)
		} else if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL); err != nil {
			s.logger.WarnContext(ctx, "recap cache write failed", "key", cacheKey, "error", err)
		}
	}

	return bundle, nil
}

// resolveHighestUpset turns the best upset candidate into a presentable facet.
// A failed opponent lookup drops the facet instead of failing the recap.
func (s *RecapService) resolveHighestUpset(ctx context.Context, events []recap.Event) *recap.Upset {
	candidate := recap.HighestUpsetCandidate(events)
	if candidate == nil {
		return nil
	}

	opponent, err := s.source.EntrantProfile(ctx, candidate.OpponentEntrantID)
	if err != nil {
		s.logger.WarnContext(ctx, "upset opponent lookup failed, omitting highest upset",
			"entrant_id", candidate.OpponentEntrantID, "error", err)
		return nil
	}

	return &recap.Upset{
		Tournament: recap.UpsetTournament{
			Name:     candidate.Tournament.Name,
			Date:     recap.FormatUpsetDate(candidate.Tournament),
			ImageURL: candidate.Tournament.ImageURL,
		},
		Opponent: opponent,
		Score:    recap.FormatUpsetScore(candidate.Set),
		Round:    candidate.Set.Round,
		Factor:   candidate.Factor,
	}
}

// SearchPlayers looks players up by gamer tag for the recap landing page.
func (s *RecapService) SearchPlayers(ctx context.Context, gamerTag string, limit int) ([]recap.PlayerSearchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RecapService.SearchPlayers")
	defer span.End()

	gamerTag = strings.TrimSpace(gamerTag)
	if gamerTag == "" {
		return nil, fmt.Errorf("%w: gamer tag is required", ErrInvalidInput)
	}
	if limit <= 0 || limit > searchResultsMax {
		limit = searchResultsMax
	}

	results, err := s.source.SearchPlayers(ctx, gamerTag, limit)
	if err != nil {
		return nil, fmt.Errorf("search players: %w", err)
	}
	return results, nil
}

func recapCacheKey(playerID int64, year int) string {
	return fmt.Sprintf("recap:stats:%d:%d", year, playerID)
}
