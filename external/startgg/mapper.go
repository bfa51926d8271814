package startgg

import (
	"strings"
	"time"

	"github.com/pnsgg/SmashRecap/internal/domain/bracket"
	"github.com/pnsgg/SmashRecap/internal/domain/recap"
)

// Mapping is fail-soft: missing or malformed pieces of the provider payload
// degrade to zero values rather than failing the whole fetch. Aggregators
// downstream skip events that lack the fields they need.

func mapPlayerProfile(node *playerNode) recap.PlayerProfile {
	out := recap.PlayerProfile{
		ID:       node.ID,
		GamerTag: strings.TrimSpace(node.GamerTag),
		Prefix:   strings.TrimSpace(node.Prefix),
	}
	if user := node.User; user != nil {
		out.Pronouns = strings.TrimSpace(user.GenderPronoun)
		out.ImageURL = firstImageURL(user.Images, "profile")
		if user.Location != nil {
			out.Country = strings.TrimSpace(user.Location.Country)
		}
		for _, auth := range user.Authorizations {
			if handle := strings.TrimSpace(auth.ExternalUsername); handle != "" {
				out.Twitter = handle
				break
			}
		}
	}
	return out
}

func mapEventStubs(nodes []eventStubNode) []recap.EventStub {
	out := make([]recap.EventStub, 0, len(nodes))
	for _, node := range nodes {
		if node.ID <= 0 {
			continue
		}
		stub := recap.EventStub{ID: node.ID}
		if node.StartAt > 0 {
			stub.StartAt = time.Unix(node.StartAt, 0).UTC()
		}
		out = append(out, stub)
	}
	return out
}

func mapEvent(node *eventNode) recap.Event {
	out := recap.Event{Bracket: mapBracketType(node.PhaseGroups)}

	if t := node.Tournament; t != nil {
		out.Tournament = recap.Tournament{
			Name:         strings.TrimSpace(t.Name),
			City:         strings.TrimSpace(t.City),
			NumAttendees: t.NumAttendees,
			ImageURL:     firstImageURL(t.Images, "profile"),
		}
		if t.StartAt > 0 {
			out.Tournament.StartAt = time.Unix(t.StartAt, 0).UTC()
		}
	}

	if node.Entrants != nil && len(node.Entrants.Nodes) > 0 {
		entrant := node.Entrants.Nodes[0]
		out.EntrantID = entrant.ID
		if entrant.InitialSeedNum > 0 {
			seed := entrant.InitialSeedNum
			out.Seed = &seed
		}
		if entrant.Standing != nil && entrant.Standing.Placement > 0 {
			placement := entrant.Standing.Placement
			out.Placement = &placement
		}
	}

	if node.Sets != nil {
		out.Sets = make([]recap.Set, 0, len(node.Sets.Nodes))
		for _, set := range node.Sets.Nodes {
			out.Sets = append(out.Sets, mapSet(set))
		}
	}
	return out
}

// mapBracketType reads the bracket type of the event's final phase group,
// the one the overall placement comes from.
func mapBracketType(groups []phaseGroupNode) bracket.Type {
	for i := len(groups) - 1; i >= 0; i-- {
		if t := bracket.ParseType(groups[i].BracketType); t.Known() {
			return t
		}
	}
	return bracket.Unknown
}

func mapSet(node setNode) recap.Set {
	out := recap.Set{
		WinnerID:     node.WinnerID,
		DisplayScore: node.DisplayScore,
		Round:        strings.TrimSpace(node.FullRoundText),
	}
	if len(node.Games) > 0 {
		out.Games = make([]recap.Game, 0, len(node.Games))
		for _, game := range node.Games {
			out.Games = append(out.Games, mapGame(game))
		}
	}
	return out
}

func mapGame(node gameNode) recap.Game {
	out := recap.Game{WinnerID: node.WinnerID}
	for _, sel := range node.Selections {
		if sel.Entrant == nil {
			continue
		}
		mapped := recap.Selection{
			EntrantID:   sel.Entrant.ID,
			EntrantName: strings.TrimSpace(sel.Entrant.Name),
		}
		// Seeds can shift between registration and check-in; the check-in
		// seed is the one the bracket was run with.
		if sel.Entrant.CheckInSeed != nil {
			mapped.Seed = sel.Entrant.CheckInSeed.SeedNum
		}
		if sel.Character != nil {
			mapped.Character = strings.TrimSpace(sel.Character.Name)
		}
		out.Selections = append(out.Selections, mapped)
	}
	return out
}

func mapOpponentProfile(entrantName string, participants []participantNode) recap.OpponentProfile {
	out := recap.OpponentProfile{GamerTag: strings.TrimSpace(entrantName)}
	for _, participant := range participants {
		if participant.Player == nil {
			continue
		}
		if tag := strings.TrimSpace(participant.Player.GamerTag); tag != "" {
			out.GamerTag = tag
		}
		out.Prefix = strings.TrimSpace(participant.Player.Prefix)
		if participant.Player.User != nil {
			out.AvatarURL = firstImageURL(participant.Player.User.Images, "profile")
		}
		break
	}
	return out
}

func mapSearchResults(nodes []playerNode) []recap.PlayerSearchResult {
	out := make([]recap.PlayerSearchResult, 0, len(nodes))
	for _, node := range nodes {
		if node.ID <= 0 {
			continue
		}
		row := recap.PlayerSearchResult{
			ID:       node.ID,
			GamerTag: strings.TrimSpace(node.GamerTag),
			Prefix:   strings.TrimSpace(node.Prefix),
		}
		if user := node.User; user != nil {
			row.ImageURL = firstImageURL(user.Images, "profile")
			if user.Location != nil {
				row.Country = strings.TrimSpace(user.Location.Country)
			}
			if user.Events != nil {
				row.EventCount = user.Events.PageInfo.Total
			}
		}
		out = append(out, row)
	}
	return out
}

func firstImageURL(images []imageNode, preferredType string) string {
	for _, image := range images {
		if strings.EqualFold(image.Type, preferredType) && strings.TrimSpace(image.URL) != "" {
			return strings.TrimSpace(image.URL)
		}
	}
	for _, image := range images {
		if strings.TrimSpace(image.URL) != "" {
			return strings.TrimSpace(image.URL)
		}
	}
	return ""
}
