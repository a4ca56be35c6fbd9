package stats

import (
	"errors"
	"testing"

	"pckstats/pkg/scoreboard"
)

func TestParseScore(t *testing.T) {
	cases := []struct {
		in       string
		a, b     int
		wantFail bool
	}{
		{in: "13-8", a: 13, b: 8},
		{in: " 13 - 8 ", a: 13, b: 8},
		{in: "0-13", a: 0, b: 13},
		{in: "8-8", a: 8, b: 8},
		{in: "13", wantFail: true},
		{in: "13-", wantFail: true},
		{in: "x-8", wantFail: true},
		{in: "", wantFail: true},
	}
	for _, c := range cases {
		a, b, err := ParseScore(c.in)
		if c.wantFail {
			if err == nil {
				t.Errorf("ParseScore(%q) accepted", c.in)
			}
			continue
		}
		if err != nil || a != c.a || b != c.b {
			t.Errorf("ParseScore(%q) = (%d, %d, %v), want (%d, %d)", c.in, a, b, err, c.a, c.b)
		}
	}
}

func TestResult(t *testing.T) {
	if got := Result(13, 8); got != "w" {
		t.Errorf("Result(13, 8) = %q, want w", got)
	}
	if got := Result(8, 13); got != "l" {
		t.Errorf("Result(8, 13) = %q, want l", got)
	}
	if got := Result(8, 8); got != "l" {
		t.Errorf("Result(8, 8) = %q, want l", got)
	}
}

func TestWinLoss(t *testing.T) {
	cases := []struct {
		teamScore, oppScore int
		won, lost           int
	}{
		{teamScore: 13, oppScore: 8, won: 1, lost: 0},
		{teamScore: 8, oppScore: 13, won: 0, lost: 1},
		{teamScore: 8, oppScore: 8, won: 0, lost: 0},
	}
	for _, c := range cases {
		won, lost := winLoss(c.teamScore, c.oppScore)
		if won != c.won || lost != c.lost {
			t.Errorf("winLoss(%d, %d) = (%d, %d), want (%d, %d)",
				c.teamScore, c.oppScore, won, lost, c.won, c.lost)
		}
	}
}

func TestOrderPairCanonicalizes(t *testing.T) {
	cases := []struct {
		id1, id2       uint
		id1Wins        int
		id2Wins        int
		lo, hi         uint
		loWins, hiWins int
	}{
		{id1: 1, id2: 2, id1Wins: 1, id2Wins: 0, lo: 1, hi: 2, loWins: 1, hiWins: 0},
		{id1: 1, id2: 2, id1Wins: 0, id2Wins: 1, lo: 1, hi: 2, loWins: 0, hiWins: 1},
		{id1: 5, id2: 2, id1Wins: 1, id2Wins: 0, lo: 2, hi: 5, loWins: 0, hiWins: 1},
		{id1: 5, id2: 2, id1Wins: 0, id2Wins: 1, lo: 2, hi: 5, loWins: 1, hiWins: 0},
		{id1: 1, id2: 2, id1Wins: 0, id2Wins: 0, lo: 1, hi: 2, loWins: 0, hiWins: 0},
	}
	for _, c := range cases {
		lo, hi, loWins, hiWins := OrderPair(c.id1, c.id2, c.id1Wins, c.id2Wins)
		if lo != c.lo || hi != c.hi || loWins != c.loWins || hiWins != c.hiWins {
			t.Errorf("OrderPair(%d, %d, %d, %d) = (%d, %d, %d, %d), want (%d, %d, %d, %d)",
				c.id1, c.id2, c.id1Wins, c.id2Wins, lo, hi, loWins, hiWins, c.lo, c.hi, c.loWins, c.hiWins)
		}
	}
}

func TestCommitMatchRejectsPlayerOnBothTeams(t *testing.T) {
	s := NewStore(nil)
	team1 := scoreboard.Board{"Alice": {Kills: 1}, "Bob": {Kills: 2}}
	team2 := scoreboard.Board{"Alice": {Kills: 5}}

	_, err := s.CommitMatch(team1, team2, MatchInfo{MapName: "dust2", MatchType: "comp", Score: "13-8"})
	if !errors.Is(err, ErrDuplicatePlayer) {
		t.Fatalf("got %v, want ErrDuplicatePlayer", err)
	}
}
