package main

import (
	"context"
	"log"

	"pckstats/pkg/roster"
	"pckstats/pkg/scoreboard"
	"pckstats/pkg/stats"
)

// runPipeline executes one full scoreboard submission: extract both teams,
// reconcile names against the roster, hold the correction dialogue with the
// submitting user, and commit the finalized boards. Any error aborts the run
// with nothing written.
func runPipeline(ctx context.Context, userID string, paths map[string]string, info stats.MatchInfo) (uint, error) {
	team1, err := scanner.Team(paths["team1_names"], paths["team1_stats"])
	if err != nil {
		return 0, err
	}
	team2, err := scanner.Team(paths["team2_names"], paths["team2_stats"])
	if err != nil {
		return 0, err
	}

	known, err := store.PlayerNames()
	if err != nil {
		return 0, err
	}
	ambiguities := resolver.Resolve(team1, known)
	ambiguities = append(ambiguities, resolver.Resolve(team2, known)...)
	logAmbiguities(ambiguities)

	sess := coordinator.Open(userID, team1, team2, ambiguities)
	team1, team2, err = coordinator.Wait(ctx, sess)
	if err != nil {
		return 0, err
	}

	matchID, err := store.CommitMatch(team1, team2, info)
	if err != nil {
		return 0, err
	}

	// fire-and-forget summary; delivery failure never fails the commit
	go func(t1, t2 scoreboard.Board) {
		summary := scoreboard.FormatSummary(t1, t2, info.MapName, info.MatchType, info.Score)
		if err := coordinator.Messenger.Send(userID, summary); err != nil {
			log.Printf("match summary delivery failed: %v", err)
		}
	}(team1, team2)

	return matchID, nil
}

func logAmbiguities(ambiguities []roster.Ambiguity) {
	for _, a := range ambiguities {
		log.Printf("ambiguous name %q (closest %q, score %d), escalated to correction session", a.Extracted, a.Candidate, a.Score)
	}
}
