package models

import "time"

// PlayerStat is one player's line for one match.
type PlayerStat struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	PlayerID  uint   `gorm:"index;not null"`
	MatchID   uint   `gorm:"index;not null"`
	Kills     int    `gorm:"not null"`
	Deaths    int    `gorm:"not null"`
	Assists   int    `gorm:"not null"`
	Result    string `gorm:"size:1;not null"` // "w" or "l"
}

func (PlayerStat) TableName() string { return "player_stats" }
