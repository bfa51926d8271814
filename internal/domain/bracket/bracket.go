package bracket

import (
	"errors"
	"math"
	"strings"
)

var (
	ErrUnknownBracket   = errors.New("unknown bracket type")
	ErrInvalidPlacement = errors.New("placement must be >= 1")
	ErrInvalidSeed      = errors.New("seed must be >= 1")
)

// Type identifies the elimination format of a bracket.
type Type string

const (
	SingleElimination Type = "SINGLE_ELIMINATION"
	DoubleElimination Type = "DOUBLE_ELIMINATION"
	Unknown           Type = ""
)

// ParseType maps the upstream bracket type string to a Type. Anything the
// metrics cannot score maps to Unknown.
func ParseType(raw string) Type {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(SingleElimination):
		return SingleElimination
	case string(DoubleElimination):
		return DoubleElimination
	default:
		return Unknown
	}
}

func (t Type) Known() bool {
	return t == SingleElimination || t == DoubleElimination
}

// RoundsFromVictory computes how many rounds a placement is removed from
// winning the bracket. See the pgstats SPR/UF articles for the derivation.
func RoundsFromVictory(placement int, t Type) (int, error) {
	if placement < 1 {
		return 0, ErrInvalidPlacement
	}

	switch t {
	case SingleElimination:
		return int(math.Ceil(math.Log2(float64(placement)))), nil
	case DoubleElimination:
		if placement == 1 {
			return 0, nil
		}
		losers := int(math.Floor(math.Log2(float64(placement - 1))))
		grand := int(math.Ceil(math.Log2(2.0 * float64(placement) / 3.0)))
		return losers + grand, nil
	default:
		return 0, ErrUnknownBracket
	}
}

// SeedingPerformanceRating measures how a player performed relative to their
// seed. Positive means the player outperformed the seed.
func SeedingPerformanceRating(seed, placement int, t Type) (int, error) {
	if seed < 1 {
		return 0, ErrInvalidSeed
	}

	expected, err := RoundsFromVictory(seed, t)
	if err != nil {
		return 0, err
	}
	actual, err := RoundsFromVictory(placement, t)
	if err != nil {
		return 0, err
	}

	return expected - actual, nil
}

// UpsetFactor is the rounds-from-victory difference between two seeds. Only
// meaningful for sets the worse-seeded player won.
func UpsetFactor(playerSeed, opponentSeed int, t Type) (int, error) {
	if playerSeed < 1 || opponentSeed < 1 {
		return 0, ErrInvalidSeed
	}

	playerRFV, err := RoundsFromVictory(playerSeed, t)
	if err != nil {
		return 0, err
	}
	opponentRFV, err := RoundsFromVictory(opponentSeed, t)
	if err != nil {
		return 0, err
	}

	return playerRFV - opponentRFV, nil
}
