// Package score parses the free-text display score attached to a set,
// e.g. "ARK | Licane 1 - PNS | Clembs 2" or the literal "DQ".
package score

import (
	"errors"
	"strconv"
	"strings"
)

const separator = " - "

var ErrUnparseable = errors.New("unparseable display score")

// Side is one competitor's half of a parsed score.
type Side struct {
	Name  string
	Score int
}

// Result is either a disqualification marker or exactly two sides.
type Result struct {
	DQ    bool
	Sides [2]Side
}

// Parse splits a display score token into structured per-side results.
// The token must contain exactly one " - " separator; each half is trimmed
// and split at its last space, so names may themselves contain spaces and
// team-tag pipes. A missing separator or a non-integer trailing token yields
// ErrUnparseable, which callers treat as "skip this set".
func Parse(token string) (Result, error) {
	if token == "DQ" {
		return Result{DQ: true}, nil
	}

	parts := strings.Split(token, separator)
	if len(parts) != 2 {
		return Result{}, ErrUnparseable
	}

	var out Result
	for i, part := range parts {
		part = strings.TrimSpace(part)
		lastSpace := strings.LastIndex(part, " ")
		if lastSpace < 0 {
			return Result{}, ErrUnparseable
		}

		value, err := strconv.Atoi(part[lastSpace+1:])
		if err != nil {
			return Result{}, ErrUnparseable
		}

		out.Sides[i] = Side{
			Name:  part[:lastSpace],
			Score: value,
		}
	}

	return out, nil
}

// SideFor returns the side whose name is contained in aliases and its
// opponent. ok is false for DQ results or when alias membership does not
// single out exactly one side.
func (r Result) SideFor(aliases map[string]struct{}) (own, opponent Side, ok bool) {
	if r.DQ {
		return Side{}, Side{}, false
	}

	_, first := aliases[r.Sides[0].Name]
	_, second := aliases[r.Sides[1].Name]
	switch {
	case first && !second:
		return r.Sides[0], r.Sides[1], true
	case second && !first:
		return r.Sides[1], r.Sides[0], true
	default:
		return Side{}, Side{}, false
	}
}

// Diff is the absolute score difference between the two sides.
func (r Result) Diff() int {
	diff := r.Sides[0].Score - r.Sides[1].Score
	if diff < 0 {
		return -diff
	}
	return diff
}
