package stats

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pckstats/models"
	"pckstats/pkg/scoreboard"
)

// setupTestStore connects to the database named by DB_DSN. Integration tests
// are opt-in: set DB_DSN_TEST=1 and DB_DSN to run them.
func setupTestStore(t *testing.T) *Store {
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		t.Fatal("DB_DSN is not set")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	err = db.AutoMigrate(
		&models.Player{}, &models.GameMap{}, &models.MatchType{},
		&models.Match{}, &models.PlayerStat{}, &models.PlayerAggregateStat{}, &models.H2HRecord{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	db.Where("map_name = ?", "dust2").FirstOrCreate(&models.GameMap{Name: "dust2"})
	db.Where("description = ?", "competitive").FirstOrCreate(&models.MatchType{Description: "competitive"})
	return NewStore(db)
}

// uniqueName keeps repeated runs of the suite from colliding on the players
// unique index.
func uniqueName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

func TestCommitMatchPersistsEverything(t *testing.T) {
	s := setupTestStore(t)
	p1, p2 := uniqueName("alice"), uniqueName("bob")
	team1 := scoreboard.Board{p1: {Kills: 5, Deaths: 2, Assists: 3}}
	team2 := scoreboard.Board{p2: {Kills: 7, Deaths: 9, Assists: 4}}

	matchID, err := s.CommitMatch(team1, team2, MatchInfo{MapName: "dust2", MatchType: "competitive", Score: "13-8"})
	if err != nil {
		t.Fatalf("CommitMatch: %v", err)
	}
	if matchID == 0 {
		t.Fatal("CommitMatch returned match id 0")
	}

	sum, err := s.Summary(p1)
	if err != nil {
		t.Fatalf("Summary(%s): %v", p1, err)
	}
	if sum.TotalKills != 5 || sum.MatchesWon != 1 || sum.MatchesLost != 0 {
		t.Errorf("winner summary: %+v", sum)
	}
	sum, err = s.Summary(p2)
	if err != nil {
		t.Fatalf("Summary(%s): %v", p2, err)
	}
	if sum.MatchesWon != 0 || sum.MatchesLost != 1 {
		t.Errorf("loser summary: %+v", sum)
	}

	h2h, err := s.H2H(p1, p2)
	if err != nil {
		t.Fatalf("H2H: %v", err)
	}
	if h2h.PlayerOneWins != 1 || h2h.PlayerTwoWins != 0 {
		t.Errorf("h2h: %+v", h2h)
	}
	// order-insensitive lookup, re-ordered to the argument order
	h2h, err = s.H2H(p2, p1)
	if err != nil {
		t.Fatalf("H2H reversed: %v", err)
	}
	if h2h.PlayerOneWins != 0 || h2h.PlayerTwoWins != 1 {
		t.Errorf("h2h reversed: %+v", h2h)
	}
}

func TestCommitMatchAccumulatesAcrossMatches(t *testing.T) {
	s := setupTestStore(t)
	p1, p2 := uniqueName("carol"), uniqueName("dave")
	team1 := scoreboard.Board{p1: {Kills: 10, Deaths: 1, Assists: 0}}
	team2 := scoreboard.Board{p2: {Kills: 1, Deaths: 10, Assists: 0}}

	if _, err := s.CommitMatch(team1, team2, MatchInfo{MapName: "dust2", MatchType: "competitive", Score: "13-2"}); err != nil {
		t.Fatalf("first commit: %v", err)
	}
	if _, err := s.CommitMatch(team1, team2, MatchInfo{MapName: "dust2", MatchType: "competitive", Score: "5-13"}); err != nil {
		t.Fatalf("second commit: %v", err)
	}

	sum, err := s.Summary(p1)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if sum.TotalKills != 20 || sum.MatchesPlayed != 2 || sum.MatchesWon != 1 || sum.MatchesLost != 1 {
		t.Errorf("aggregates after two matches: %+v", sum)
	}
	h2h, err := s.H2H(p1, p2)
	if err != nil {
		t.Fatalf("H2H: %v", err)
	}
	if h2h.PlayerOneWins != 1 || h2h.PlayerTwoWins != 1 {
		t.Errorf("h2h after split results: %+v", h2h)
	}
}

func TestCommitMatchTieMovesNeitherCounter(t *testing.T) {
	s := setupTestStore(t)
	p1, p2 := uniqueName("hana"), uniqueName("ivan")
	team1 := scoreboard.Board{p1: {Kills: 6, Deaths: 6, Assists: 2}}
	team2 := scoreboard.Board{p2: {Kills: 6, Deaths: 6, Assists: 2}}

	if _, err := s.CommitMatch(team1, team2, MatchInfo{MapName: "dust2", MatchType: "competitive", Score: "8-8"}); err != nil {
		t.Fatalf("CommitMatch: %v", err)
	}

	sum, err := s.Summary(p1)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if sum.MatchesPlayed != 1 || sum.MatchesWon != 0 || sum.MatchesLost != 0 {
		t.Errorf("tie aggregates: %+v, want played 1, won 0, lost 0", sum)
	}
	h2h, err := s.H2H(p1, p2)
	if err != nil {
		t.Fatalf("H2H: %v", err)
	}
	if h2h.PlayerOneWins != 0 || h2h.PlayerTwoWins != 0 {
		t.Errorf("tie h2h: %+v, want neither counter moved", h2h)
	}
}

// TestCommitMatchMidCommitFailureRollsBack drives the transaction past the
// match insert and team1's rows, then fails in team2: the oversized name
// cannot fit the players.name column. Nothing written earlier may survive.
func TestCommitMatchMidCommitFailureRollsBack(t *testing.T) {
	s := setupTestStore(t)
	good := uniqueName("gina")
	oversized := strings.Repeat("x", 300)
	team1 := scoreboard.Board{good: {Kills: 4, Deaths: 1, Assists: 2}}
	team2 := scoreboard.Board{oversized: {Kills: 6, Deaths: 3, Assists: 0}}

	var matchesBefore, statsBefore int64
	s.DB.Model(&models.Match{}).Count(&matchesBefore)
	s.DB.Model(&models.PlayerStat{}).Count(&statsBefore)

	_, err := s.CommitMatch(team1, team2, MatchInfo{MapName: "dust2", MatchType: "competitive", Score: "13-8"})
	if err == nil {
		t.Fatal("commit with an oversized player name succeeded")
	}

	var matchesAfter, statsAfter int64
	s.DB.Model(&models.Match{}).Count(&matchesAfter)
	s.DB.Model(&models.PlayerStat{}).Count(&statsAfter)
	if matchesAfter != matchesBefore {
		t.Errorf("match rows %d -> %d, want the inserted match rolled back", matchesBefore, matchesAfter)
	}
	if statsAfter != statsBefore {
		t.Errorf("player stat rows %d -> %d, want team1's rows rolled back", statsBefore, statsAfter)
	}
	if _, err := s.Summary(good); !errors.Is(err, ErrPlayerNotFound) {
		t.Errorf("Summary(%s) = %v, want ErrPlayerNotFound after rollback", good, err)
	}
}

func TestCommitMatchMissingMapRollsBack(t *testing.T) {
	s := setupTestStore(t)
	p1, p2 := uniqueName("erin"), uniqueName("frank")
	team1 := scoreboard.Board{p1: {Kills: 1}}
	team2 := scoreboard.Board{p2: {Kills: 2}}

	_, err := s.CommitMatch(team1, team2, MatchInfo{MapName: "no-such-map", MatchType: "competitive", Score: "13-8"})
	if !errors.Is(err, ErrMissingReference) {
		t.Fatalf("got %v, want ErrMissingReference", err)
	}
	// the whole transaction rolled back, so neither player row survives
	if _, err := s.Summary(p1); !errors.Is(err, ErrPlayerNotFound) {
		t.Errorf("Summary(%s) = %v, want ErrPlayerNotFound", p1, err)
	}
}

func TestSetProfilePicture(t *testing.T) {
	s := setupTestStore(t)
	if err := s.SetProfilePicture(uniqueName("ghost"), "public/pfp/x.png"); !errors.Is(err, ErrPlayerNotFound) {
		t.Errorf("got %v, want ErrPlayerNotFound for an unknown player", err)
	}
}
