package startgg

import (
	"testing"

	"github.com/pnsgg/SmashRecap/internal/domain/bracket"
)

func TestMapBracketType_LastKnownGroupWins(t *testing.T) {
	t.Parallel()

	groups := []phaseGroupNode{
		{BracketType: "SINGLE_ELIMINATION"},
		{BracketType: "ROUND_ROBIN"},
	}
	if got := mapBracketType(groups); got != bracket.SingleElimination {
		t.Fatalf("expected single elimination fallback, got=%q", got)
	}
	if got := mapBracketType(nil); got != bracket.Unknown {
		t.Fatalf("expected unknown for empty groups, got=%q", got)
	}
}

func TestMapGame_SeedComesFromCheckIn(t *testing.T) {
	t.Parallel()

	got := mapGame(gameNode{
		WinnerID: 42,
		Selections: []selectionNode{
			{Entrant: &selectionEntrantNode{ID: 42, Name: "Gluto", CheckInSeed: &checkInSeedNode{SeedNum: 12}}},
			{Entrant: &selectionEntrantNode{ID: 77, Name: "Raflow"}},
		},
	})

	if len(got.Selections) != 2 {
		t.Fatalf("expected both selections, got=%+v", got.Selections)
	}
	if got.Selections[0].Seed != 12 {
		t.Fatalf("expected check-in seed 12, got=%d", got.Selections[0].Seed)
	}
	if got.Selections[1].Seed != 0 {
		t.Fatalf("missing check-in seed must map to zero, got=%d", got.Selections[1].Seed)
	}
}

func TestMapOpponentProfile_PrefersPlayerTagOverEntrantName(t *testing.T) {
	t.Parallel()

	participants := []participantNode{{
		Player: &playerNode{
			GamerTag: "Raflow",
			Prefix:   "WS",
			User: &userNode{
				Images: []imageNode{{URL: "https://img.example/raflow.png", Type: "profile"}},
			},
		},
	}}

	got := mapOpponentProfile("WS | Raflow", participants)
	if got.GamerTag != "Raflow" || got.Prefix != "WS" {
		t.Fatalf("unexpected opponent: %+v", got)
	}
	if got.AvatarURL != "https://img.example/raflow.png" {
		t.Fatalf("unexpected avatar: %q", got.AvatarURL)
	}

	// Teams without a resolvable player fall back to the entrant name.
	fallback := mapOpponentProfile("WS | Raflow", nil)
	if fallback.GamerTag != "WS | Raflow" {
		t.Fatalf("unexpected fallback: %+v", fallback)
	}
}

func TestFirstImageURL_PrefersRequestedType(t *testing.T) {
	t.Parallel()

	images := []imageNode{
		{URL: "https://img.example/banner.png", Type: "banner"},
		{URL: "https://img.example/profile.png", Type: "profile"},
	}
	if got := firstImageURL(images, "profile"); got != "https://img.example/profile.png" {
		t.Fatalf("unexpected url: %q", got)
	}
	if got := firstImageURL(images[:1], "profile"); got != "https://img.example/banner.png" {
		t.Fatalf("expected fallback to first non-empty url, got=%q", got)
	}
}
