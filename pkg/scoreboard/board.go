package scoreboard

import (
	"fmt"
	"sort"
	"strings"
)

// StatLine is one player's kills/deaths/assists triple for a single match.
type StatLine struct {
	Kills   int
	Deaths  int
	Assists int
}

// Board maps player display names to their stat lines for one team. Keys are
// unique; insertion order carries no meaning. A Board lives for the duration
// of one pipeline run and is mutated only by name resolution and the
// correction session before being handed to the committer.
type Board map[string]StatLine

// Rename moves a player's stat line to a new key, preserving the triple.
// Returns false if the old name is not present. An existing entry under the
// new name is replaced; renames are explicit human actions, so the human's
// choice wins.
func (b Board) Rename(oldName, newName string) bool {
	line, ok := b[oldName]
	if !ok {
		return false
	}
	delete(b, oldName)
	b[newName] = line
	return true
}

// Names returns the player names in sorted order for deterministic output.
func (b Board) Names() []string {
	out := make([]string, 0, len(b))
	for name := range b {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Format renders the board the way it is presented to the submitting user
// during a correction session.
func (b Board) Format() string {
	var sb strings.Builder
	for _, name := range b.Names() {
		line := b[name]
		fmt.Fprintf(&sb, "%s: Kills - %d, Deaths - %d, Assists - %d\n", name, line.Kills, line.Deaths, line.Assists)
	}
	return sb.String()
}

// FormatSummary renders the post-commit match summary for both teams.
func FormatSummary(team1, team2 Board, mapName, matchType, score string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Match Summary:\nMap: %s\nMatch Type: %s\nScore: %s\n\n", mapName, matchType, score)
	sb.WriteString("Team 1 Stats:\n")
	sb.WriteString(team1.Format())
	sb.WriteString("\nTeam 2 Stats:\n")
	sb.WriteString(team2.Format())
	return sb.String()
}
