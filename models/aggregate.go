package models

// PlayerAggregateStat carries a player's running totals, accumulated on every
// match commit. Aggregation is global per player: MapID and MatchTypeID are
// carried as nullable columns for a future per-map breakdown but are always
// null today, so the player id alone is the key.
type PlayerAggregateStat struct {
	PlayerID      uint  `gorm:"primaryKey;autoIncrement:false"`
	MapID         *uint `gorm:"index"`
	MatchTypeID   *uint `gorm:"index"`
	TotalKills    int   `gorm:"not null"`
	TotalDeaths   int   `gorm:"not null"`
	TotalAssists  int   `gorm:"not null"`
	MatchesPlayed int   `gorm:"not null"`
	MatchesWon    int   `gorm:"not null"`
	MatchesLost   int   `gorm:"not null"`
}

func (PlayerAggregateStat) TableName() string { return "player_aggregate_stats" }
