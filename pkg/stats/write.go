// Package stats owns every read and write against the persistent store: the
// transactional match commit plus the query surface the front-end exposes.
package stats

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pckstats/models"
	"pckstats/pkg/scoreboard"
)

// ErrMissingReference is returned when the named map or match type has no
// reference row. Those are seeded configuration, never auto-created; their
// absence is an operations problem, not a user retry.
var ErrMissingReference = errors.New("map or match type not seeded")

// ErrDuplicatePlayer is returned when the same name ends up on both boards,
// which a rename during the correction session can produce. A player cannot
// oppose themselves; the submission has to be corrected and resent.
var ErrDuplicatePlayer = errors.New("player appears on both teams")

// MatchInfo is the metadata accompanying one scoreboard submission.
type MatchInfo struct {
	MapName   string
	MatchType string
	Score     string // "13-8", team1 first
}

// Store wraps the gorm handle for match persistence and stat queries.
type Store struct {
	DB *gorm.DB
}

func NewStore(db *gorm.DB) *Store { return &Store{DB: db} }

// CommitMatch durably records one finalized match: the match row, every
// player's stat line, the per-player aggregates, and the head-to-head tallies
// for all cross-team pairs. All of it happens in one transaction; any failure
// leaves the store untouched.
func (s *Store) CommitMatch(team1, team2 scoreboard.Board, info MatchInfo) (uint, error) {
	score1, score2, err := ParseScore(info.Score)
	if err != nil {
		return 0, err
	}
	for name := range team1 {
		if _, ok := team2[name]; ok {
			return 0, fmt.Errorf("%w: %s", ErrDuplicatePlayer, name)
		}
	}

	var matchID uint
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var gameMap models.GameMap
		if err := tx.Where("map_name = ?", strings.ToLower(info.MapName)).First(&gameMap).Error; err != nil {
			return fmt.Errorf("%w: map %q", ErrMissingReference, info.MapName)
		}
		var matchType models.MatchType
		if err := tx.Where("description = ?", strings.ToLower(info.MatchType)).First(&matchType).Error; err != nil {
			return fmt.Errorf("%w: match type %q", ErrMissingReference, info.MatchType)
		}

		match := models.Match{MapID: gameMap.ID, MatchTypeID: matchType.ID, Score: info.Score, Date: time.Now()}
		if err := tx.Create(&match).Error; err != nil {
			return fmt.Errorf("insert match: %w", err)
		}
		matchID = match.ID

		// one cache for the whole commit so the same name never produces
		// two player rows
		playerIDs := map[string]uint{}

		if err := commitTeam(tx, playerIDs, team1, match.ID, score1, score2); err != nil {
			return err
		}
		if err := commitTeam(tx, playerIDs, team2, match.ID, score2, score1); err != nil {
			return err
		}
		return commitH2H(tx, playerIDs, team1, team2, score1, score2)
	})
	if err != nil {
		return 0, err
	}
	return matchID, nil
}

// commitTeam inserts one stat row per player and accumulates aggregates.
func commitTeam(tx *gorm.DB, playerIDs map[string]uint, team scoreboard.Board, matchID uint, teamScore, oppScore int) error {
	result := Result(teamScore, oppScore)
	won, lost := winLoss(teamScore, oppScore)
	for _, name := range team.Names() {
		line := team[name]
		playerID, err := ensurePlayer(tx, playerIDs, name)
		if err != nil {
			return err
		}
		ps := models.PlayerStat{
			PlayerID: playerID, MatchID: matchID,
			Kills: line.Kills, Deaths: line.Deaths, Assists: line.Assists,
			Result: result,
		}
		if err := tx.Create(&ps).Error; err != nil {
			return fmt.Errorf("insert player stat for %s: %w", name, err)
		}
		agg := models.PlayerAggregateStat{
			PlayerID:   playerID,
			TotalKills: line.Kills, TotalDeaths: line.Deaths, TotalAssists: line.Assists,
			MatchesPlayed: 1, MatchesWon: won, MatchesLost: lost,
		}
		err = tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "player_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"total_kills":    gorm.Expr("player_aggregate_stats.total_kills + ?", line.Kills),
				"total_deaths":   gorm.Expr("player_aggregate_stats.total_deaths + ?", line.Deaths),
				"total_assists":  gorm.Expr("player_aggregate_stats.total_assists + ?", line.Assists),
				"matches_played": gorm.Expr("player_aggregate_stats.matches_played + 1"),
				"matches_won":    gorm.Expr("player_aggregate_stats.matches_won + ?", won),
				"matches_lost":   gorm.Expr("player_aggregate_stats.matches_lost + ?", lost),
			}),
		}).Create(&agg).Error
		if err != nil {
			return fmt.Errorf("upsert aggregate for %s: %w", name, err)
		}
	}
	return nil
}

// commitH2H bumps the winning side's counter for every (team1 player, team2
// player) pair. A tie upserts the pair rows with neither counter moved.
func commitH2H(tx *gorm.DB, playerIDs map[string]uint, team1, team2 scoreboard.Board, score1, score2 int) error {
	team1Wins, team2Wins := 0, 0
	if score1 > score2 {
		team1Wins = 1
	}
	if score2 > score1 {
		team2Wins = 1
	}
	for _, p1 := range team1.Names() {
		id1, err := ensurePlayer(tx, playerIDs, p1)
		if err != nil {
			return err
		}
		for _, p2 := range team2.Names() {
			id2, err := ensurePlayer(tx, playerIDs, p2)
			if err != nil {
				return err
			}
			lo, hi, loWins, hiWins := OrderPair(id1, id2, team1Wins, team2Wins)
			rec := models.H2HRecord{PlayerOneID: lo, PlayerTwoID: hi, PlayerOneWins: loWins, PlayerTwoWins: hiWins}
			err = tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "player_one_id"}, {Name: "player_two_id"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"player_one_wins": gorm.Expr("h2h_records.player_one_wins + ?", loWins),
					"player_two_wins": gorm.Expr("h2h_records.player_two_wins + ?", hiWins),
				}),
			}).Create(&rec).Error
			if err != nil {
				return fmt.Errorf("upsert h2h (%s, %s): %w", p1, p2, err)
			}
		}
	}
	return nil
}

// ensurePlayer resolves a name to a player id, creating the row on first
// sight. The cache makes the lookup idempotent within one commit.
func ensurePlayer(tx *gorm.DB, cache map[string]uint, name string) (uint, error) {
	if id, ok := cache[name]; ok {
		return id, nil
	}
	var player models.Player
	err := tx.Where("name = ?", name).First(&player).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		player = models.Player{Name: name}
		err = tx.Create(&player).Error
	}
	if err != nil {
		return 0, fmt.Errorf("ensure player %s: %w", name, err)
	}
	cache[name] = player.ID
	return player.ID, nil
}

// ParseScore splits a "13-8" final score into the two team scores.
func ParseScore(s string) (int, int, error) {
	parts := strings.SplitN(strings.TrimSpace(s), "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed score %q", s)
	}
	a, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	b, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil || a < 0 || b < 0 {
		return 0, 0, fmt.Errorf("malformed score %q", s)
	}
	return a, b, nil
}

// Result reduces a score comparison to the stored "w"/"l" marker on the
// per-match row. A tie records "l"; the won/lost aggregate counters are
// derived separately (winLoss) and ignore ties.
func Result(teamScore, oppScore int) string {
	if teamScore > oppScore {
		return "w"
	}
	return "l"
}

// winLoss derives one team's aggregate counter increments. A tied match moves
// neither counter.
func winLoss(teamScore, oppScore int) (won, lost int) {
	if teamScore > oppScore {
		won = 1
	}
	if oppScore > teamScore {
		lost = 1
	}
	return
}

// OrderPair canonicalizes a cross-team pair: the lower id is always stored
// first and each side's win increment follows its id.
func OrderPair(id1, id2 uint, id1Wins, id2Wins int) (lo, hi uint, loWins, hiWins int) {
	if id1 < id2 {
		return id1, id2, id1Wins, id2Wins
	}
	return id2, id1, id2Wins, id1Wins
}
