package recap

import (
	"sort"
	"strconv"
	"time"

	"github.com/pnsgg/SmashRecap/internal/domain/bracket"
	"github.com/pnsgg/SmashRecap/internal/domain/score"
)

var monthNames = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

const upsetDateLayout = "Jan 2"

// AttendanceByMonth buckets events into twelve month buckets by tournament
// start date (UTC). Events without a date contribute nothing.
func AttendanceByMonth(events []Event) []MonthAttendance {
	counts := make([]int, 12)
	for _, event := range events {
		start := event.Tournament.StartAt
		if start.IsZero() {
			continue
		}
		counts[start.UTC().Month()-1]++
	}

	out := make([]MonthAttendance, 0, 12)
	for i, name := range monthNames {
		out = append(out, MonthAttendance{Month: name, Attendance: counts[i]})
	}
	return out
}

// ActivityByWeekday buckets events into seven weekday buckets, Sunday first.
func ActivityByWeekday(events []Event) []WeekdayActivity {
	counts := make([]int, 7)
	for _, event := range events {
		start := event.Tournament.StartAt
		if start.IsZero() {
			continue
		}
		counts[start.UTC().Weekday()]++
	}

	out := make([]WeekdayActivity, 0, 7)
	for day := time.Sunday; day <= time.Saturday; day++ {
		out = append(out, WeekdayActivity{Weekday: day.String(), Attendance: counts[day]})
	}
	return out
}

// performanceOf builds a ranked Performance for an event, or false when the
// event misses any of the fields an SPR ranking needs.
func performanceOf(event Event) (Performance, bool) {
	if event.Seed == nil || event.Placement == nil || !event.Bracket.Known() {
		return Performance{}, false
	}
	t := event.Tournament
	if t.City == "" || t.StartAt.IsZero() || t.NumAttendees <= 0 {
		return Performance{}, false
	}

	spr, err := bracket.SeedingPerformanceRating(*event.Seed, *event.Placement, event.Bracket)
	if err != nil {
		return Performance{}, false
	}

	return Performance{
		Tournament:   t.Name,
		City:         t.City,
		Date:         t.StartAt.UTC().Format(upsetDateLayout),
		NumAttendees: t.NumAttendees,
		ImageURL:     t.ImageURL,
		Seed:         *event.Seed,
		Placement:    *event.Placement,
		SPR:          spr,
	}, true
}

// BestPerformances ranks qualifying events by SPR descending and returns the
// top n.
func BestPerformances(events []Event, n int) []Performance {
	ranked := make([]Performance, 0, len(events))
	for _, event := range events {
		if perf, ok := performanceOf(event); ok {
			ranked = append(ranked, perf)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].SPR > ranked[j].SPR })
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// WorstPerformance returns the single lowest-SPR qualifying event, the
// "buster run". Nil when no event qualifies.
func WorstPerformance(events []Event) *Performance {
	var worst *Performance
	for _, event := range events {
		perf, ok := performanceOf(event)
		if !ok {
			continue
		}
		if worst == nil || perf.SPR < worst.SPR {
			p := perf
			worst = &p
		}
	}
	return worst
}

// MostPlayedCharacters tallies characters picked under any of the player's
// aliases and returns the top n, ties broken by first-seen order.
func MostPlayedCharacters(events []Event, aliases *AliasSet, n int) []CharacterCount {
	counts := make(map[string]int)
	order := make([]string, 0, 16)

	for _, event := range events {
		for _, set := range event.Sets {
			for _, game := range set.Games {
				for _, sel := range game.Selections {
					if sel.Character == "" || !aliases.Contains(sel.EntrantName) {
						continue
					}
					if _, seen := counts[sel.Character]; !seen {
						order = append(order, sel.Character)
					}
					counts[sel.Character]++
				}
			}
		}
	}

	ranked := make([]CharacterCount, 0, len(order))
	for _, name := range order {
		ranked = append(ranked, CharacterCount{Name: name, Count: counts[name]})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Count > ranked[j].Count })
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// Gauntlet is the distinct set of opponent characters encountered across all
// games, in first-encounter order.
func Gauntlet(events []Event) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, 16)

	for _, event := range events {
		for _, set := range event.Sets {
			for _, game := range set.Games {
				for _, sel := range game.Selections {
					if sel.EntrantID == event.EntrantID || sel.Character == "" {
						continue
					}
					if _, ok := seen[sel.Character]; ok {
						continue
					}
					seen[sel.Character] = struct{}{}
					out = append(out, sel.Character)
				}
			}
		}
	}
	return out
}

// WorstMatchups tallies game-level wins and losses per opponent character and
// returns the n characters with the most losses. Loss count, not loss rate,
// decides the ranking.
func WorstMatchups(events []Event, n int) []Matchup {
	type tally struct{ wins, losses int }
	counts := make(map[string]*tally)
	order := make([]string, 0, 16)

	for _, event := range events {
		for _, set := range event.Sets {
			for _, game := range set.Games {
				if game.WinnerID == 0 {
					continue
				}
				sel, ok := opponentSelection(game, event.EntrantID)
				if !ok || sel.Character == "" {
					continue
				}

				entry := counts[sel.Character]
				if entry == nil {
					entry = &tally{}
					counts[sel.Character] = entry
					order = append(order, sel.Character)
				}
				if game.WinnerID == event.EntrantID {
					entry.wins++
				} else {
					entry.losses++
				}
			}
		}
	}

	ranked := make([]Matchup, 0, len(order))
	for _, name := range order {
		entry := counts[name]
		total := entry.wins + entry.losses
		lossRate := 0.0
		if total > 0 {
			lossRate = 100 * float64(entry.losses) / float64(total)
		}
		ranked = append(ranked, Matchup{
			Character: name,
			Wins:      entry.wins,
			Losses:    entry.losses,
			LossRate:  lossRate,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Losses > ranked[j].Losses })
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// CleanSweeps counts parsed, non-DQ sets where the player's side is known and
// the opposite side never scored.
func CleanSweeps(events []Event, aliases *AliasSet) int {
	count := 0
	forEachParsedSet(events, func(_ Event, _ Set, parsed score.Result) {
		if _, opponent, ok := parsed.SideFor(aliases.Members()); ok && opponent.Score == 0 {
			count++
		}
	})
	return count
}

// TotalSets counts every set that carries a display score, parseable or not.
func TotalSets(events []Event) int {
	count := 0
	for _, event := range events {
		for _, set := range event.Sets {
			if set.DisplayScore != nil {
				count++
			}
		}
	}
	return count
}

// LastGames reports the sets that went to a deciding game: parsed, non-DQ
// sets with a score difference of exactly one.
func LastGames(events []Event, aliases *AliasSet) LastGameRecord {
	var record LastGameRecord
	forEachParsedSet(events, func(_ Event, _ Set, parsed score.Result) {
		own, opponent, ok := parsed.SideFor(aliases.Members())
		if !ok || parsed.Diff() != 1 {
			return
		}
		record.Count++
		if own.Score > opponent.Score {
			record.WinCount++
		}
	})

	if record.Count > 0 {
		record.WinRate = 100 * float64(record.WinCount) / float64(record.Count)
	}
	return record
}

// DQCount counts the sets the player was disqualified from: a literal "DQ"
// display score where the recorded winner is not the player's entrant.
func DQCount(events []Event) int {
	count := 0
	for _, event := range events {
		for _, set := range event.Sets {
			if set.DisplayScore == nil || *set.DisplayScore != "DQ" {
				continue
			}
			if set.WinnerID == nil || *set.WinnerID != event.EntrantID {
				count++
			}
		}
	}
	return count
}

// Rivalries accumulates a set-level win/loss tally per opponent gamer tag.
// The rival is the most-faced opponent; the nemesis is the one with the most
// wins over the player, loss-count ties decided by the worse win rate.
// Remaining ties go to the opponent encountered first.
func Rivalries(events []Event) Rivalry {
	type tally struct {
		tag          string
		wins, losses int
	}
	counts := make(map[string]*tally)
	order := make([]string, 0, 16)

	for _, event := range events {
		for _, set := range event.Sets {
			if set.WinnerID == nil || len(set.Games) == 0 {
				continue
			}
			sel, ok := opponentSelection(set.Games[0], event.EntrantID)
			if !ok || sel.EntrantName == "" {
				continue
			}

			entry := counts[sel.EntrantName]
			if entry == nil {
				entry = &tally{tag: sel.EntrantName}
				counts[sel.EntrantName] = entry
				order = append(order, sel.EntrantName)
			}
			if *set.WinnerID == event.EntrantID {
				entry.wins++
			} else {
				entry.losses++
			}
		}
	}

	var rivalry Rivalry
	for _, tag := range order {
		entry := counts[tag]
		if rivalry.Rival == nil || entry.wins+entry.losses > rivalry.Rival.Wins+rivalry.Rival.Losses {
			rivalry.Rival = &RivalRecord{GamerTag: entry.tag, Wins: entry.wins, Losses: entry.losses}
		}
		if rivalry.Nemesis == nil ||
			entry.losses > rivalry.Nemesis.Losses ||
			(entry.losses == rivalry.Nemesis.Losses && entry.wins < rivalry.Nemesis.Wins) {
			rivalry.Nemesis = &RivalRecord{GamerTag: entry.tag, Wins: entry.wins, Losses: entry.losses}
		}
	}
	return rivalry
}

// ComputeGameStats sums game-level scores across all parsed, non-DQ sets,
// split player/opponent by alias membership.
func ComputeGameStats(events []Event, aliases *AliasSet) GameStats {
	var stats GameStats
	forEachParsedSet(events, func(_ Event, _ Set, parsed score.Result) {
		own, opponent, ok := parsed.SideFor(aliases.Members())
		if !ok {
			return
		}
		stats.PlayerGames += own.Score
		stats.OpponentGames += opponent.Score
	})

	if total := stats.PlayerGames + stats.OpponentGames; total > 0 {
		stats.WinRate = 100 * float64(stats.PlayerGames) / float64(total)
	}
	return stats
}

// HighestUpsetCandidate finds, among the sets the player won against a
// better-seeded opponent in events with a recognized bracket type, the one
// with the maximum upset factor. Nil when no such set exists.
func HighestUpsetCandidate(events []Event) *UpsetCandidate {
	var best *UpsetCandidate
	for _, event := range events {
		if !event.Bracket.Known() {
			continue
		}
		for _, set := range event.Sets {
			if set.WinnerID == nil || *set.WinnerID != event.EntrantID || len(set.Games) == 0 {
				continue
			}

			firstGame := set.Games[0]
			own, okOwn := ownSelection(firstGame, event.EntrantID)
			opponent, okOpp := opponentSelection(firstGame, event.EntrantID)
			if !okOwn || !okOpp || own.Seed <= 0 || opponent.Seed <= 0 {
				continue
			}
			// An upset requires the player's seed to be numerically worse.
			if own.Seed <= opponent.Seed {
				continue
			}

			factor, err := bracket.UpsetFactor(own.Seed, opponent.Seed, event.Bracket)
			if err != nil {
				continue
			}
			if best == nil || factor > best.Factor {
				best = &UpsetCandidate{
					Set:               set,
					Tournament:        event.Tournament,
					Factor:            factor,
					OpponentEntrantID: opponent.EntrantID,
				}
			}
		}
	}
	return best
}

// FormatUpsetScore renders the upset set's score with the higher count first,
// e.g. "3 - 2", or "DQ" for a disqualification. Empty when the set carries no
// parseable score.
func FormatUpsetScore(set Set) string {
	if set.DisplayScore == nil {
		return ""
	}
	parsed, err := score.Parse(*set.DisplayScore)
	if err != nil {
		return ""
	}
	if parsed.DQ {
		return "DQ"
	}

	high, low := parsed.Sides[0].Score, parsed.Sides[1].Score
	if low > high {
		high, low = low, high
	}
	return strconv.Itoa(high) + " - " + strconv.Itoa(low)
}

// FormatUpsetDate renders the tournament date the way the renderer expects.
func FormatUpsetDate(t Tournament) string {
	if t.StartAt.IsZero() {
		return ""
	}
	return t.StartAt.UTC().Format(upsetDateLayout)
}

// forEachParsedSet invokes fn for every set whose display score parses to a
// non-DQ result. Absent and unparseable scores are silently skipped.
func forEachParsedSet(events []Event, fn func(Event, Set, score.Result)) {
	for _, event := range events {
		for _, set := range event.Sets {
			if set.DisplayScore == nil {
				continue
			}
			parsed, err := score.Parse(*set.DisplayScore)
			if err != nil || parsed.DQ {
				continue
			}
			fn(event, set, parsed)
		}
	}
}
