package recap

// Bundle is the immutable year-in-review output handed to the rendering
// subsystem. Field names are stable; downstream consumers depend on them.
type Bundle struct {
	Year                 int               `json:"year"`
	Player               PlayerProfile     `json:"player"`
	Aliases              []string          `json:"aliases"`
	AttendanceByMonth    []MonthAttendance `json:"attendanceByMonth"`
	ActivityByWeekday    []WeekdayActivity `json:"activityByWeekday"`
	BestPerformances     []Performance     `json:"bestPerformances"`
	WorstPerformance     *Performance      `json:"worstPerformance,omitempty"`
	HighestUpset         *Upset            `json:"highestUpset,omitempty"`
	MostPlayedCharacters []CharacterCount  `json:"mostPlayedCharacters"`
	Gauntlet             []string          `json:"gauntlet"`
	Sets                 SetTotals         `json:"sets"`
	WorstMatchups        []Matchup         `json:"worstMatchups"`
	DQCount              int               `json:"dqCount"`
	Rivalry              Rivalry           `json:"rivalry"`
	GameStats            GameStats         `json:"gameStats"`
}

// MonthAttendance is one of twelve attendance buckets.
type MonthAttendance struct {
	Month      string `json:"month"`
	Attendance int    `json:"attendance"`
}

// WeekdayActivity is one of seven attendance buckets.
type WeekdayActivity struct {
	Weekday    string `json:"weekday"`
	Attendance int    `json:"attendance"`
}

// Performance is one seeded, placed event ranked by SPR.
type Performance struct {
	Tournament   string `json:"tournament"`
	City         string `json:"city"`
	Date         string `json:"date"`
	NumAttendees int    `json:"numAttendees"`
	ImageURL     string `json:"image,omitempty"`
	Seed         int    `json:"seed"`
	Placement    int    `json:"placement"`
	SPR          int    `json:"spr"`
}

// CharacterCount is a character usage tally.
type CharacterCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// SetTotals groups the set-level counters of the bundle.
type SetTotals struct {
	Total       int            `json:"total"`
	LastGames   LastGameRecord `json:"lastGames"`
	CleanSweeps int            `json:"cleanSweeps"`
}

// LastGameRecord covers sets decided by a single game. WinRate is a
// percentage and exactly 0 when Count is 0.
type LastGameRecord struct {
	Count    int     `json:"count"`
	WinCount int     `json:"winCount"`
	WinRate  float64 `json:"winRate"`
}

// Matchup is a per-opponent-character win/loss record. LossRate is a
// percentage.
type Matchup struct {
	Character string  `json:"characterName"`
	Wins      int     `json:"wins"`
	Losses    int     `json:"losses"`
	LossRate  float64 `json:"lossRate"`
}

// Rivalry names the most-played opponent and the one with the most wins
// against the player. Either is nil when the player faced nobody.
type Rivalry struct {
	Rival   *RivalRecord `json:"rival,omitempty"`
	Nemesis *RivalRecord `json:"nemesis,omitempty"`
}

// RivalRecord is a set-level head-to-head tally against one opponent tag.
type RivalRecord struct {
	GamerTag string `json:"gamerTag"`
	Wins     int    `json:"wins"`
	Losses   int    `json:"losses"`
}

// GameStats sums game-level scores across all parsed sets. WinRate is a
// percentage and exactly 0 when no games qualify.
type GameStats struct {
	PlayerGames   int     `json:"playerGames"`
	OpponentGames int     `json:"opponentGames"`
	WinRate       float64 `json:"winRate"`
}

// Upset describes the biggest win against a better-seeded opponent.
type Upset struct {
	Tournament UpsetTournament `json:"tournament"`
	Opponent   OpponentProfile `json:"opponent"`
	Score      string          `json:"score"`
	Round      string          `json:"round"`
	Factor     int             `json:"factor"`
}

// UpsetTournament is the tournament context of the upset set.
type UpsetTournament struct {
	Name     string `json:"name"`
	Date     string `json:"date"`
	ImageURL string `json:"image,omitempty"`
}

// UpsetCandidate is the pure-aggregation half of the highest-upset facet:
// the winning set with the maximum upset factor, before the opponent's
// profile has been resolved.
type UpsetCandidate struct {
	Set               Set
	Tournament        Tournament
	Factor            int
	OpponentEntrantID int64
}
