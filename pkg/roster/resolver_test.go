package roster

import (
	"testing"

	"pckstats/pkg/scoreboard"
)

// scriptScorer returns canned scores by extracted/candidate pair; unknown
// pairs score 0.
type scriptScorer map[[2]string]int

func (s scriptScorer) Score(a, b string) int { return s[[2]string{a, b}] }

func TestResolveHighConfidenceRenames(t *testing.T) {
	board := scoreboard.Board{"J0hn": {Kills: 12, Deaths: 4, Assists: 2}}
	r := &Resolver{Scorer: scriptScorer{{"J0hn", "John"}: 95}}

	amb := r.Resolve(board, []string{"John", "Mara"})
	if len(amb) != 0 {
		t.Fatalf("got %d ambiguities, want 0", len(amb))
	}
	line, ok := board["John"]
	if !ok {
		t.Fatal("extracted key was not rewritten to the canonical name")
	}
	if line.Kills != 12 || line.Deaths != 4 || line.Assists != 2 {
		t.Errorf("stat line lost in rename: %+v", line)
	}
	if _, stale := board["J0hn"]; stale {
		t.Error("extracted key still present after rename")
	}
}

func TestResolveMidConfidenceEscalates(t *testing.T) {
	board := scoreboard.Board{"Jon": {Kills: 1}}
	r := &Resolver{Scorer: scriptScorer{{"Jon", "John"}: 72}}

	amb := r.Resolve(board, []string{"John"})
	if len(amb) != 1 {
		t.Fatalf("got %d ambiguities, want 1", len(amb))
	}
	if amb[0].Extracted != "Jon" || amb[0].Candidate != "John" || amb[0].Score != 72 {
		t.Errorf("unexpected ambiguity: %+v", amb[0])
	}
	if _, ok := board["Jon"]; !ok {
		t.Error("escalated row must keep its extracted name")
	}
}

func TestResolveLowConfidenceLeavesName(t *testing.T) {
	board := scoreboard.Board{"Newcomer": {Kills: 3}}
	r := &Resolver{Scorer: scriptScorer{{"Newcomer", "John"}: 20}}

	if amb := r.Resolve(board, []string{"John"}); len(amb) != 0 {
		t.Fatalf("got %d ambiguities, want 0", len(amb))
	}
	if _, ok := board["Newcomer"]; !ok {
		t.Error("low-confidence name must stay on the board")
	}
}

func TestResolveExactMatchIsCaseInsensitive(t *testing.T) {
	board := scoreboard.Board{"john": {Kills: 9}}
	r := &Resolver{Scorer: scriptScorer{}}

	if amb := r.Resolve(board, []string{"John"}); len(amb) != 0 {
		t.Fatalf("got %d ambiguities, want 0", len(amb))
	}
	if _, ok := board["john"]; !ok {
		t.Error("exact match keeps the extracted spelling")
	}
}

func TestResolveEmptyRosterSkips(t *testing.T) {
	board := scoreboard.Board{"Anyone": {Kills: 1}}
	if amb := New().Resolve(board, nil); amb != nil {
		t.Fatalf("got %v, want nil for empty roster", amb)
	}
}

func TestResolveCollisionEscalatesInsteadOfOverwriting(t *testing.T) {
	board := scoreboard.Board{
		"John": {Kills: 10},
		"J0hn": {Kills: 3},
	}
	r := &Resolver{Scorer: scriptScorer{{"J0hn", "John"}: 96}}

	amb := r.Resolve(board, []string{"John"})
	if len(amb) != 1 {
		t.Fatalf("got %d ambiguities, want 1", len(amb))
	}
	if board["John"].Kills != 10 {
		t.Error("existing row was overwritten by the rename")
	}
	if _, ok := board["J0hn"]; !ok {
		t.Error("colliding row must keep its extracted name")
	}
}
