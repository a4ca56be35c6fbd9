package stats

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"pckstats/models"
)

// ErrPlayerNotFound is returned by the read-side queries for unknown names.
var ErrPlayerNotFound = errors.New("player not found")

// PlayerNames returns every canonical roster name, sorted. This is the list
// the name resolver matches against; an empty slice means no players exist
// yet and resolution is skipped.
func (s *Store) PlayerNames() ([]string, error) {
	var names []string
	if err := s.DB.Model(&models.Player{}).Order("name asc").Pluck("name", &names).Error; err != nil {
		return nil, fmt.Errorf("list player names: %w", err)
	}
	return names, nil
}

// PlayerSummary is a player's all-time line as shown by the front-end.
type PlayerSummary struct {
	Name           string  `json:"name"`
	ProfilePicURL  string  `json:"profile_pic_url"`
	TotalKills     int     `json:"total_kills"`
	TotalDeaths    int     `json:"total_deaths"`
	TotalAssists   int     `json:"total_assists"`
	MatchesPlayed  int     `json:"matches_played"`
	MatchesWon     int     `json:"matches_won"`
	MatchesLost    int     `json:"matches_lost"`
	KDRatio        float64 `json:"kd_ratio"`
	WinRate        float64 `json:"win_rate"`
	AssistsPerGame float64 `json:"assists_per_game"`
}

// Summary returns the all-time aggregate line for one player.
func (s *Store) Summary(name string) (*PlayerSummary, error) {
	var player models.Player
	if err := s.DB.Where("name = ?", name).First(&player).Error; err != nil {
		return nil, ErrPlayerNotFound
	}
	var agg models.PlayerAggregateStat
	if err := s.DB.Where("player_id = ?", player.ID).First(&agg).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load aggregates for %s: %w", name, err)
	}

	out := &PlayerSummary{
		Name:          player.Name,
		ProfilePicURL: player.ProfilePicURL,
		TotalKills:    agg.TotalKills,
		TotalDeaths:   agg.TotalDeaths,
		TotalAssists:  agg.TotalAssists,
		MatchesPlayed: agg.MatchesPlayed,
		MatchesWon:    agg.MatchesWon,
		MatchesLost:   agg.MatchesLost,
	}
	if agg.TotalDeaths > 0 {
		out.KDRatio = float64(agg.TotalKills) / float64(agg.TotalDeaths)
	} else {
		out.KDRatio = float64(agg.TotalKills)
	}
	if agg.MatchesPlayed > 0 {
		out.WinRate = float64(agg.MatchesWon) / float64(agg.MatchesPlayed) * 100
		out.AssistsPerGame = float64(agg.TotalAssists) / float64(agg.MatchesPlayed)
	}
	return out, nil
}

// MapBreakdown is one player's record on a single map, derived from the
// per-match stat rows rather than the global aggregates.
type MapBreakdown struct {
	Player        string `json:"player"`
	Map           string `json:"map"`
	MatchesPlayed int    `json:"matches_played"`
	MatchesWon    int    `json:"matches_won"`
	MatchesLost   int    `json:"matches_lost"`
	TotalKills    int    `json:"total_kills"`
	TotalDeaths   int    `json:"total_deaths"`
}

// OnMap returns a player's record on the named map.
func (s *Store) OnMap(playerName, mapName string) (*MapBreakdown, error) {
	var player models.Player
	if err := s.DB.Where("name = ?", playerName).First(&player).Error; err != nil {
		return nil, ErrPlayerNotFound
	}
	var gameMap models.GameMap
	if err := s.DB.Where("map_name = ?", mapName).First(&gameMap).Error; err != nil {
		return nil, fmt.Errorf("%w: map %q", ErrMissingReference, mapName)
	}

	out := &MapBreakdown{Player: player.Name, Map: gameMap.Name}
	row := s.DB.Raw(`
		SELECT COUNT(*) AS matches_played,
		       COUNT(*) FILTER (WHERE ps.result = 'w') AS matches_won,
		       COUNT(*) FILTER (WHERE ps.result = 'l') AS matches_lost,
		       COALESCE(SUM(ps.kills), 0) AS total_kills,
		       COALESCE(SUM(ps.deaths), 0) AS total_deaths
		FROM player_stats ps
		JOIN matches m ON ps.match_id = m.match_id
		WHERE ps.player_id = ? AND m.map_id = ?`, player.ID, gameMap.ID).
		Row()
	if err := row.Scan(&out.MatchesPlayed, &out.MatchesWon, &out.MatchesLost, &out.TotalKills, &out.TotalDeaths); err != nil {
		return nil, fmt.Errorf("map breakdown for %s on %s: %w", playerName, mapName, err)
	}
	return out, nil
}

// H2HResult is a pair record re-ordered to match the caller's argument order,
// not the canonical storage order.
type H2HResult struct {
	PlayerOne     string `json:"player_one"`
	PlayerTwo     string `json:"player_two"`
	PlayerOneWins int    `json:"player_one_wins"`
	PlayerTwoWins int    `json:"player_two_wins"`
}

// H2H returns the head-to-head record between two players. Lookup order does
// not matter: (A, B) and (B, A) resolve to the same stored row.
func (s *Store) H2H(nameOne, nameTwo string) (*H2HResult, error) {
	var p1, p2 models.Player
	if err := s.DB.Where("name = ?", nameOne).First(&p1).Error; err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, nameOne)
	}
	if err := s.DB.Where("name = ?", nameTwo).First(&p2).Error; err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, nameTwo)
	}

	lo, hi := p1.ID, p2.ID
	if lo > hi {
		lo, hi = hi, lo
	}
	var rec models.H2HRecord
	err := s.DB.Where("player_one_id = ? AND player_two_id = ?", lo, hi).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &H2HResult{PlayerOne: p1.Name, PlayerTwo: p2.Name}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("h2h lookup: %w", err)
	}

	out := &H2HResult{PlayerOne: p1.Name, PlayerTwo: p2.Name}
	if p1.ID == rec.PlayerOneID {
		out.PlayerOneWins, out.PlayerTwoWins = rec.PlayerOneWins, rec.PlayerTwoWins
	} else {
		out.PlayerOneWins, out.PlayerTwoWins = rec.PlayerTwoWins, rec.PlayerOneWins
	}
	return out, nil
}

// SetProfilePicture updates a player's picture URL.
func (s *Store) SetProfilePicture(name, url string) error {
	res := s.DB.Model(&models.Player{}).Where("name = ?", name).Update("profile_pic_url", url)
	if res.Error != nil {
		return fmt.Errorf("update profile picture: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrPlayerNotFound
	}
	return nil
}
