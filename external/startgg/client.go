package startgg

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/pnsgg/SmashRecap/internal/domain/recap"
	"github.com/pnsgg/SmashRecap/internal/platform/logging"
	"github.com/pnsgg/SmashRecap/internal/platform/resilience"
	"github.com/pnsgg/SmashRecap/internal/usecase"
)

const (
	defaultBaseURL      = "https://api.start.gg/gql/alpha"
	defaultHistoryPage  = 25
	defaultSetsPerPage  = 60
	maxResponseBodySize = 6 << 20
)

var bearerTokenRegex = regexp.MustCompile(`Bearer\s+[^\s"']+`)
var errStartggTransient = crerr.New("startgg transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	VideogameID    int64
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the start.gg GraphQL gateway. One client is shared by all
// requests; it is safe for concurrent use.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	videogameID    int64
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		token:          strings.TrimSpace(cfg.Token),
		videogameID:    cfg.VideogameID,
		maxRetries:     maxRetries,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// PlayerProfile fetches the public profile of a player.
func (c *Client) PlayerProfile(ctx context.Context, playerID int64) (recap.PlayerProfile, error) {
	if playerID <= 0 {
		return recap.PlayerProfile{}, fmt.Errorf("player id must be greater than zero")
	}

	var payload playerProfilePayload
	if err := c.doGraphQL(ctx, "PlayerProfile", playerProfileDoc, map[string]any{
		"playerId": playerID,
	}, &payload); err != nil {
		return recap.PlayerProfile{}, fmt.Errorf("fetch player profile player_id=%d: %w", playerID, err)
	}
	if payload.Player == nil || payload.Player.ID <= 0 {
		return recap.PlayerProfile{}, fmt.Errorf("player_id=%d: %w", playerID, usecase.ErrNotFound)
	}

	return mapPlayerProfile(payload.Player), nil
}

// EventHistoryPage fetches one page of the player's event history, newest
// first. It returns the page's (id, date) stubs and the total page count.
func (c *Client) EventHistoryPage(ctx context.Context, playerID int64, page int) ([]recap.EventStub, int, error) {
	if playerID <= 0 {
		return nil, 0, fmt.Errorf("player id must be greater than zero")
	}
	if page <= 0 {
		page = 1
	}

	variables := map[string]any{
		"playerId": playerID,
		"page":     page,
		"perPage":  defaultHistoryPage,
	}
	if c.videogameID > 0 {
		variables["videogameId"] = []int64{c.videogameID}
	}

	var payload eventHistoryPayload
	if err := c.doGraphQL(ctx, "EventHistory", eventHistoryDoc, variables, &payload); err != nil {
		return nil, 0, fmt.Errorf("fetch event history player_id=%d page=%d: %w", playerID, page, err)
	}
	if payload.Player == nil || payload.Player.User == nil || payload.Player.User.Events == nil {
		return nil, 0, nil
	}

	events := payload.Player.User.Events
	return mapEventStubs(events.Nodes), events.PageInfo.TotalPages, nil
}

// EventDetail fetches one event with the player's entrant, seeding, placement
// and every set the player appears in.
func (c *Client) EventDetail(ctx context.Context, eventID, playerID int64) (recap.Event, error) {
	if eventID <= 0 || playerID <= 0 {
		return recap.Event{}, fmt.Errorf("event id and player id must be greater than zero")
	}

	var payload eventDetailPayload
	if err := c.doGraphQL(ctx, "EventDetail", eventDetailDoc, map[string]any{
		"eventId":     eventID,
		"playerId":    []int64{playerID},
		"setsPerPage": defaultSetsPerPage,
	}, &payload); err != nil {
		return recap.Event{}, fmt.Errorf("fetch event detail event_id=%d: %w", eventID, err)
	}
	if payload.Event == nil {
		return recap.Event{}, fmt.Errorf("event_id=%d: %w", eventID, usecase.ErrNotFound)
	}

	return mapEvent(payload.Event), nil
}

// EntrantProfile resolves the profile behind an entrant, used to describe the
// opponent of the year's highest upset.
func (c *Client) EntrantProfile(ctx context.Context, entrantID int64) (recap.OpponentProfile, error) {
	if entrantID <= 0 {
		return recap.OpponentProfile{}, fmt.Errorf("entrant id must be greater than zero")
	}

	var payload entrantProfilePayload
	if err := c.doGraphQL(ctx, "EntrantProfile", entrantProfileDoc, map[string]any{
		"entrantId": entrantID,
	}, &payload); err != nil {
		return recap.OpponentProfile{}, fmt.Errorf("fetch entrant profile entrant_id=%d: %w", entrantID, err)
	}
	if payload.Entrant == nil {
		return recap.OpponentProfile{}, fmt.Errorf("entrant_id=%d: %w", entrantID, usecase.ErrNotFound)
	}

	return mapOpponentProfile(payload.Entrant.Name, payload.Entrant.Participants), nil
}

// SearchPlayers looks players up by gamer tag.
func (c *Client) SearchPlayers(ctx context.Context, gamerTag string, limit int) ([]recap.PlayerSearchResult, error) {
	gamerTag = strings.TrimSpace(gamerTag)
	if gamerTag == "" {
		return nil, fmt.Errorf("gamer tag must not be empty")
	}
	if limit <= 0 {
		limit = 10
	}

	var payload searchPlayersPayload
	if err := c.doGraphQL(ctx, "SearchPlayers", searchPlayersDoc, map[string]any{
		"gamerTag": gamerTag,
		"perPage":  limit,
	}, &payload); err != nil {
		return nil, fmt.Errorf("search players gamer_tag=%q: %w", gamerTag, err)
	}
	if payload.Players == nil {
		return nil, nil
	}

	return mapSearchResults(payload.Players.Nodes), nil
}

func (c *Client) doGraphQL(ctx context.Context, opName, doc string, variables map[string]any, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "startgg circuit breaker rejected request", "operation", opName, "state", c.breaker.State())
			return fmt.Errorf("%w: tournament data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	body, err := sonic.Marshal(gqlRequest{Query: doc, Variables: variables})
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	// Map keys must serialize deterministically for the flight key.
	varsKey, err := sonic.ConfigStd.Marshal(variables)
	if err != nil {
		return fmt.Errorf("encode flight key: %w", err)
	}

	key := opName + ":" + string(varsKey)
	out, err, _ := c.flight.Do(key, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, opName, body)
		if c.circuitEnabled {
			if reqErr != nil && isStartggCircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []gqlError      `json:"errors"`
	}
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("%w: decode provider payload: %v", usecase.ErrDependencyUnavailable, err)
	}
	if len(envelope.Errors) > 0 {
		messages := make([]string, 0, len(envelope.Errors))
		for _, item := range envelope.Errors {
			messages = append(messages, item.Message)
		}
		return fmt.Errorf("provider rejected %s: %s", opName, strings.Join(messages, "; "))
	}
	if len(envelope.Data) == 0 {
		return fmt.Errorf("%w: provider returned no data for %s", usecase.ErrDependencyUnavailable, opName)
	}

	if err := sonic.Unmarshal(envelope.Data, target); err != nil {
		return fmt.Errorf("%w: decode %s payload: %v", usecase.ErrDependencyUnavailable, opName, err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, opName string, body []byte) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	_, _ = buf.Write(body)

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(buf.B))
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("content-type", "application/json")
		req.Header.Set("accept", "application/json")
		req.Header.Set("authorization", "Bearer "+c.token)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errStartggTransient, sanitizeSensitiveText(err.Error(), c.token))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errStartggTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errStartggTransient, resp.StatusCode, abbreviateBody(raw))
			} else {
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "startgg request failed", "operation", opName, "error", lastErr)
	// Keep errStartggTransient in the chain so the breaker still counts this
	// as a provider failure.
	return nil, fmt.Errorf("%w: %w", usecase.ErrDependencyUnavailable, lastErr)
}

func isStartggCircuitFailure(err error) bool {
	return crerr.Is(err, errStartggTransient)
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if token != "" {
		value = strings.ReplaceAll(value, token, "REDACTED")
	}
	return bearerTokenRegex.ReplaceAllString(value, "Bearer REDACTED")
}

func abbreviateBody(raw []byte) string {
	const limit = 512
	text := strings.TrimSpace(string(raw))
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "..."
}
