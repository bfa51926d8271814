// Package recap holds the per-year tournament entities fetched for a player
// and the pure aggregators that reduce them into the recap stats bundle.
// Entities are read-only: built once per request from the upstream response
// and discarded after the bundle is produced.
package recap

import (
	"time"

	"github.com/pnsgg/SmashRecap/internal/domain/bracket"
)

// Tournament is the metadata of the tournament an event belongs to.
type Tournament struct {
	Name         string
	StartAt      time.Time
	City         string
	NumAttendees int
	ImageURL     string
}

// Event is one bracket entry of the player at a tournament. Seed and
// Placement are nil when the upstream record does not carry them; such
// events are excluded from any SPR-based ranking.
type Event struct {
	Tournament Tournament
	EntrantID  int64
	Seed       *int
	Placement  *int
	Bracket    bracket.Type
	Sets       []Set
}

// Set is one match within an event. WinnerID is nil for unresolved sets and
// DisplayScore is nil when the upstream has no score text for the match.
type Set struct {
	WinnerID     *int64
	DisplayScore *string
	Round        string
	Games        []Game
}

// Game is one game within a set.
type Game struct {
	WinnerID   int64
	Selections []Selection
}

// Selection is one competitor's pick within a game. Seed is the check-in
// seed, 0 when unknown.
type Selection struct {
	EntrantID   int64
	EntrantName string
	Character   string
	Seed        int
}

// EventStub is the (id, date) pair returned by the paginated event history.
type EventStub struct {
	ID      int64
	StartAt time.Time
}

// PlayerProfile is the public profile of the player the recap is about.
type PlayerProfile struct {
	ID       int64  `json:"id"`
	GamerTag string `json:"gamerTag"`
	Prefix   string `json:"prefix,omitempty"`
	ImageURL string `json:"image,omitempty"`
	Country  string `json:"country,omitempty"`
	Pronouns string `json:"pronouns,omitempty"`
	Twitter  string `json:"twitter,omitempty"`
}

// OpponentProfile is the resolved profile of the upset opponent.
type OpponentProfile struct {
	GamerTag  string `json:"gamerTag"`
	Prefix    string `json:"prefix,omitempty"`
	AvatarURL string `json:"avatar,omitempty"`
}

// PlayerSearchResult is one hit of the gamer-tag search.
type PlayerSearchResult struct {
	ID         int64  `json:"id"`
	GamerTag   string `json:"gamerTag"`
	Prefix     string `json:"prefix,omitempty"`
	ImageURL   string `json:"image,omitempty"`
	Country    string `json:"country,omitempty"`
	EventCount int    `json:"eventCount"`
}

// opponentSelection returns the first selection of the game that does not
// belong to the event's entrant.
func opponentSelection(game Game, entrantID int64) (Selection, bool) {
	for _, sel := range game.Selections {
		if sel.EntrantID != entrantID {
			return sel, true
		}
	}
	return Selection{}, false
}

// ownSelection returns the first selection of the game that belongs to the
// event's entrant.
func ownSelection(game Game, entrantID int64) (Selection, bool) {
	for _, sel := range game.Selections {
		if sel.EntrantID == entrantID {
			return sel, true
		}
	}
	return Selection{}, false
}
