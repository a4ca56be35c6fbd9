// Package roster reconciles OCR-extracted player names against the canonical
// roster stored in the database.
package roster

import (
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"pckstats/pkg/scoreboard"
)

// Confidence tiers for fuzzy matches (0-100 scale).
const (
	HighConfidence = 90
	LowConfidence  = 50
)

// Scorer rates the similarity of two names on a 0-100 scale. Abstracted so
// the algorithm can be swapped and tests can use deterministic scores.
type Scorer interface {
	Score(a, b string) int
}

// WuzzyScorer scores with the weighted-ratio scorer from go-fuzzywuzzy.
type WuzzyScorer struct{}

func (WuzzyScorer) Score(a, b string) int { return fuzzy.WRatio(a, b) }

// Ambiguity records an extracted name the resolver could not settle on its
// own. These are surfaced to the correction session; resolution never blocks
// on them.
type Ambiguity struct {
	Extracted string
	Candidate string
	Score     int
}

// Resolver rewrites board keys to canonical roster names.
type Resolver struct {
	Scorer Scorer
}

func New() *Resolver { return &Resolver{Scorer: WuzzyScorer{}} }

// Resolve reconciles every name on the board against the known roster and
// returns the ambiguities needing human confirmation.
//
//   - exact case-insensitive match: key kept as extracted
//   - best fuzzy score >= HighConfidence: key rewritten to the canonical name
//   - score in [LowConfidence, HighConfidence): escalated as an Ambiguity
//   - below LowConfidence: left alone, committed later as a new player
//
// An empty roster skips resolution entirely. A high-confidence rewrite whose
// canonical name is already present on the board is not applied silently;
// the row keeps its extracted name and is escalated instead.
func (r *Resolver) Resolve(board scoreboard.Board, known []string) []Ambiguity {
	if len(known) == 0 {
		return nil
	}

	var ambiguous []Ambiguity
	for _, name := range board.Names() {
		if exactMatch(name, known) {
			continue
		}
		best, score := r.bestMatch(name, known)
		switch {
		case score >= HighConfidence:
			if _, taken := board[best]; taken {
				ambiguous = append(ambiguous, Ambiguity{Extracted: name, Candidate: best, Score: score})
				continue
			}
			board.Rename(name, best)
		case score >= LowConfidence:
			ambiguous = append(ambiguous, Ambiguity{Extracted: name, Candidate: best, Score: score})
		}
	}
	return ambiguous
}

func (r *Resolver) bestMatch(name string, known []string) (string, int) {
	best, bestScore := "", -1
	for _, candidate := range known {
		if s := r.Scorer.Score(name, candidate); s > bestScore {
			best, bestScore = candidate, s
		}
	}
	return best, bestScore
}

func exactMatch(name string, known []string) bool {
	for _, candidate := range known {
		if strings.EqualFold(name, candidate) {
			return true
		}
	}
	return false
}
