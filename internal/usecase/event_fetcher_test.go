package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/pnsgg/SmashRecap/internal/domain/recap"
)

type historyPage struct {
	stubs      []recap.EventStub
	totalPages int
}

type fakeEventSource struct {
	profile     recap.PlayerProfile
	profileErr  error
	pages       map[int]historyPage
	events      map[int64]recap.Event
	eventErrs   map[int64]error
	opponents   map[int64]recap.OpponentProfile
	opponentErr error
	results     []recap.PlayerSearchResult

	historyCalls int
	detailCalls  int
}

func (f *fakeEventSource) PlayerProfile(_ context.Context, _ int64) (recap.PlayerProfile, error) {
	return f.profile, f.profileErr
}

func (f *fakeEventSource) EventHistoryPage(_ context.Context, _ int64, page int) ([]recap.EventStub, int, error) {
	f.historyCalls++
	entry, ok := f.pages[page]
	if !ok {
		return nil, 0, fmt.Errorf("unexpected page %d", page)
	}
	return entry.stubs, entry.totalPages, nil
}

func (f *fakeEventSource) EventDetail(_ context.Context, eventID, _ int64) (recap.Event, error) {
	f.detailCalls++
	if err, ok := f.eventErrs[eventID]; ok {
		return recap.Event{}, err
	}
	event, ok := f.events[eventID]
	if !ok {
		return recap.Event{}, fmt.Errorf("unknown event %d", eventID)
	}
	return event, nil
}

func (f *fakeEventSource) EntrantProfile(_ context.Context, entrantID int64) (recap.OpponentProfile, error) {
	if f.opponentErr != nil {
		return recap.OpponentProfile{}, f.opponentErr
	}
	return f.opponents[entrantID], nil
}

func (f *fakeEventSource) SearchPlayers(_ context.Context, _ string, _ int) ([]recap.PlayerSearchResult, error) {
	return f.results, nil
}

func stubAt(id int64, year int, month time.Month) recap.EventStub {
	return recap.EventStub{ID: id, StartAt: time.Date(year, month, 10, 12, 0, 0, 0, time.UTC)}
}

func TestEventFetcher_ListEventIDsForYear_StopsAtFirstOlderPage(t *testing.T) {
	source := &fakeEventSource{
		pages: map[int]historyPage{
			1: {stubs: []recap.EventStub{stubAt(3, 2025, time.December), stubAt(2, 2025, time.June)}, totalPages: 5},
			2: {stubs: []recap.EventStub{stubAt(1, 2025, time.January), stubAt(900, 2024, time.November)}, totalPages: 5},
		},
	}
	fetcher := NewEventFetcher(source, nil, 2)

	ids, err := fetcher.ListEventIDsForYear(t.Context(), 1003, 2025)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("expected three event ids, got %v", ids)
	}
	if source.historyCalls != 2 {
		t.Fatalf("expected paging to stop after the page with an older event, calls=%d", source.historyCalls)
	}
}

func TestEventFetcher_ListEventIDsForYear_StopsAtTotalPages(t *testing.T) {
	source := &fakeEventSource{
		pages: map[int]historyPage{
			1: {stubs: []recap.EventStub{stubAt(1, 2025, time.March)}, totalPages: 1},
		},
	}
	fetcher := NewEventFetcher(source, nil, 2)

	ids, err := fetcher.ListEventIDsForYear(t.Context(), 1003, 2025)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 1 || ids[0] != 1 {
		t.Fatalf("unexpected ids: %v", ids)
	}
}

func TestEventFetcher_FetchEventDetails_PreservesOrder(t *testing.T) {
	source := &fakeEventSource{
		events: map[int64]recap.Event{
			1: {EntrantID: 11},
			2: {EntrantID: 22},
			3: {EntrantID: 33},
		},
	}
	fetcher := NewEventFetcher(source, nil, 3)

	events, err := fetcher.FetchEventDetails(t.Context(), 1003, []int64{3, 1, 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected three events, got %d", len(events))
	}
	if events[0].EntrantID != 33 || events[1].EntrantID != 11 || events[2].EntrantID != 22 {
		t.Fatalf("events out of submission order: %+v", events)
	}
}

func TestEventFetcher_FetchEventDetails_FailsFast(t *testing.T) {
	boom := errors.New("provider exploded")
	source := &fakeEventSource{
		events:    map[int64]recap.Event{1: {EntrantID: 11}},
		eventErrs: map[int64]error{2: boom},
	}
	fetcher := NewEventFetcher(source, nil, 2)

	_, err := fetcher.FetchEventDetails(t.Context(), 1003, []int64{1, 2})
	if !errors.Is(err, boom) {
		t.Fatalf("expected the upstream error, got %v", err)
	}
}
