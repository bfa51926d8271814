package startgg

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pnsgg/SmashRecap/internal/domain/bracket"
	"github.com/pnsgg/SmashRecap/internal/usecase"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(ClientConfig{
		BaseURL: server.URL,
		Token:   "test-token",
	})
}

func TestPlayerProfile_MapsProfileFields(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("expected bearer auth header, got=%q", got)
		}
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), "query PlayerProfile") {
			t.Errorf("expected PlayerProfile document in request body")
		}
		_, _ = w.Write([]byte(`{"data":{"player":{
			"id":1003,
			"gamerTag":"Glutonny",
			"prefix":"SOLARY",
			"user":{
				"genderPronoun":"he/him",
				"location":{"country":"France"},
				"images":[{"url":"https://img.example/profile.png","type":"profile"}],
				"authorizations":[{"externalUsername":"Glutonny"}]
			}
		}}}`))
	})

	profile, err := client.PlayerProfile(context.Background(), 1003)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.ID != 1003 || profile.GamerTag != "Glutonny" {
		t.Fatalf("unexpected profile identity: %+v", profile)
	}
	if profile.Prefix != "SOLARY" || profile.Country != "France" {
		t.Fatalf("unexpected profile details: %+v", profile)
	}
	if profile.ImageURL != "https://img.example/profile.png" {
		t.Fatalf("unexpected image url: %q", profile.ImageURL)
	}
	if profile.Twitter != "Glutonny" || profile.Pronouns != "he/him" {
		t.Fatalf("unexpected socials: %+v", profile)
	}
}

func TestPlayerProfile_UnknownPlayerIsNotFound(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"player":null}}`))
	})

	_, err := client.PlayerProfile(context.Background(), 999)
	if err == nil || !strings.Contains(err.Error(), "resource not found") {
		t.Fatalf("expected not-found error, got=%v", err)
	}
}

func TestEventHistoryPage_ReturnsStubsAndTotalPages(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"player":{"user":{"events":{
			"pageInfo":{"totalPages":7},
			"nodes":[
				{"id":501,"startAt":1735689600},
				{"id":502,"startAt":1733011200},
				{"id":0,"startAt":1733011200}
			]
		}}}}}`))
	})

	stubs, totalPages, err := client.EventHistoryPage(context.Background(), 1003, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if totalPages != 7 {
		t.Fatalf("expected totalPages=7, got=%d", totalPages)
	}
	if len(stubs) != 2 {
		t.Fatalf("expected two stubs after dropping invalid ids, got=%d", len(stubs))
	}
	if stubs[0].ID != 501 || stubs[0].StartAt.Year() != 2025 {
		t.Fatalf("unexpected first stub: %+v", stubs[0])
	}
}

func TestEventDetail_MapsSeedingAndSets(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"event":{
			"id":501,
			"phaseGroups":[{"bracketType":"ROUND_ROBIN"},{"bracketType":"DOUBLE_ELIMINATION"}],
			"tournament":{
				"name":"Stock Exchange #42",
				"city":"Paris",
				"startAt":1735689600,
				"numAttendees":128,
				"images":[{"url":"https://img.example/banner.png","type":"banner"}]
			},
			"entrants":{"nodes":[{"id":42,"initialSeedNum":5,"standing":{"placement":3}}]},
			"sets":{"nodes":[{
				"winnerId":42,
				"displayScore":"Gluto 3 - Raflow 1",
				"fullRoundText":"Grand Final",
				"games":[{
					"winnerId":42,
					"selections":[
						{"entrant":{"id":42,"name":"Gluto","checkInSeed":{"seedNum":5}},"character":{"name":"Wario"}},
						{"entrant":{"id":77,"name":"Raflow","checkInSeed":{"seedNum":1}},"character":{"name":"Palutena"}}
					]
				}]
			}]}
		}}}`))
	})

	event, err := client.EventDetail(context.Background(), 501, 1003)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.Bracket != bracket.DoubleElimination {
		t.Fatalf("expected double elimination bracket, got=%q", event.Bracket)
	}
	if event.EntrantID != 42 {
		t.Fatalf("expected entrant id 42, got=%d", event.EntrantID)
	}
	if event.Seed == nil || *event.Seed != 5 {
		t.Fatalf("unexpected seed: %v", event.Seed)
	}
	if event.Placement == nil || *event.Placement != 3 {
		t.Fatalf("unexpected placement: %v", event.Placement)
	}
	if event.Tournament.City != "Paris" || event.Tournament.NumAttendees != 128 {
		t.Fatalf("unexpected tournament: %+v", event.Tournament)
	}
	if len(event.Sets) != 1 {
		t.Fatalf("expected one set, got=%d", len(event.Sets))
	}
	set := event.Sets[0]
	if set.Round != "Grand Final" || set.WinnerID == nil || *set.WinnerID != 42 {
		t.Fatalf("unexpected set: %+v", set)
	}
	if len(set.Games) != 1 || len(set.Games[0].Selections) != 2 {
		t.Fatalf("unexpected games: %+v", set.Games)
	}
	if set.Games[0].Selections[1].Character != "Palutena" || set.Games[0].Selections[1].Seed != 1 {
		t.Fatalf("unexpected opponent selection: %+v", set.Games[0].Selections[1])
	}
}

func TestDoGraphQL_SurfacesProviderErrors(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"errors":[{"message":"rate limit exceeded"}]}`))
	})

	_, err := client.SearchPlayers(context.Background(), "Gluto", 5)
	if err == nil || !strings.Contains(err.Error(), "rate limit exceeded") {
		t.Fatalf("expected provider error to surface, got=%v", err)
	}
}

func TestExecuteRequest_DoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"invalid query"}`))
	}))
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		BaseURL:    server.URL,
		Token:      "test-token",
		MaxRetries: 3,
	})

	_, err := client.EntrantProfile(context.Background(), 77)
	if err == nil || !strings.Contains(err.Error(), "status=400") {
		t.Fatalf("expected status error, got=%v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected a single attempt for a 4xx, got=%d", attempts)
	}
}

func TestExecuteRequest_RetriesServerErrors(t *testing.T) {
	t.Parallel()

	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"data":{"entrant":{"name":"WS | Raflow","participants":[]}}}`))
	}))
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		BaseURL:    server.URL,
		Token:      "test-token",
		MaxRetries: 1,
	})

	opponent, err := client.EntrantProfile(context.Background(), 77)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected retry after 502, got attempts=%d", attempts)
	}
	if opponent.GamerTag != "WS | Raflow" {
		t.Fatalf("unexpected opponent: %+v", opponent)
	}
}

func TestExecuteRequest_ExhaustedRetriesSignalDependencyUnavailable(t *testing.T) {
	t.Parallel()

	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		BaseURL:    server.URL,
		Token:      "test-token",
		MaxRetries: 0,
	})

	_, err := client.EntrantProfile(context.Background(), 77)
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable after exhausted retries, got=%v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected a single attempt with no retries, got=%d", attempts)
	}
}

func TestDoGraphQL_MalformedPayloadSignalsDependencyUnavailable(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>upstream proxy error</html>`))
	})

	_, err := client.EntrantProfile(context.Background(), 77)
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable for malformed payload, got=%v", err)
	}
}

func TestSanitizeSensitiveText_RedactsToken(t *testing.T) {
	t.Parallel()

	got := sanitizeSensitiveText(`dial failed: Bearer super-secret rejected`, "super-secret")
	if strings.Contains(got, "super-secret") {
		t.Fatalf("token leaked: %q", got)
	}
}
