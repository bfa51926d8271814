package score

import (
	"errors"
	"strconv"
	"strings"
	"testing"
)

func TestParseDQ(t *testing.T) {
	got, err := Parse("DQ")
	if err != nil {
		t.Fatalf("Parse(DQ): %v", err)
	}
	if !got.DQ {
		t.Fatal("expected DQ marker")
	}
}

func TestParseTeamTags(t *testing.T) {
	got, err := Parse("ARK | Licane 1 - PNS | Clembs 2")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.DQ {
		t.Fatal("unexpected DQ marker")
	}
	if got.Sides[0].Name != "ARK | Licane" || got.Sides[0].Score != 1 {
		t.Fatalf("unexpected first side: %+v", got.Sides[0])
	}
	if got.Sides[1].Name != "PNS | Clembs" || got.Sides[1].Score != 2 {
		t.Fatalf("unexpected second side: %+v", got.Sides[1])
	}
}

func TestParseRoundTrip(t *testing.T) {
	tokens := []string{
		"A | B 2 - C | D 0",
		"Mango 3 - Zain 2",
		"wi fi warrior 0 - lan only 3",
	}

	for _, token := range tokens {
		got, err := Parse(token)
		if err != nil {
			t.Fatalf("Parse(%q): %v", token, err)
		}

		rebuilt := make([]string, 0, 2)
		for _, side := range got.Sides {
			rebuilt = append(rebuilt, side.Name+" "+strconv.Itoa(side.Score))
		}
		if joined := strings.Join(rebuilt, " - "); joined != token {
			t.Fatalf("round trip mismatch: got=%q want=%q", joined, token)
		}
	}
}

func TestParseRejects(t *testing.T) {
	tokens := []string{
		"",
		"dq",
		"DQ ",
		"Mango 3",
		"Mango 3 - Zain 2 - Plup 1",
		"Mango three - Zain 2",
		"Mango 3 - 2",
	}

	for _, token := range tokens {
		if _, err := Parse(token); !errors.Is(err, ErrUnparseable) {
			t.Fatalf("Parse(%q): expected ErrUnparseable, got %v", token, err)
		}
	}
}

func TestSideFor(t *testing.T) {
	aliases := map[string]struct{}{"PNS | Clembs": {}}

	parsed, err := Parse("ARK | Licane 1 - PNS | Clembs 2")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	own, opponent, ok := parsed.SideFor(aliases)
	if !ok {
		t.Fatal("expected alias match")
	}
	if own.Name != "PNS | Clembs" || own.Score != 2 {
		t.Fatalf("unexpected own side: %+v", own)
	}
	if opponent.Name != "ARK | Licane" || opponent.Score != 1 {
		t.Fatalf("unexpected opponent side: %+v", opponent)
	}
	if parsed.Diff() != 1 {
		t.Fatalf("unexpected diff: %d", parsed.Diff())
	}

	// Neither side known.
	if _, _, ok := parsed.SideFor(map[string]struct{}{"Nobody": {}}); ok {
		t.Fatal("expected no alias match")
	}
}
