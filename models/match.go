package models

import "time"

// GameMap is a reference row for a playable map. These are seeded ahead of
// time (cmd/seedref); the committer never creates them implicitly.
type GameMap struct {
	ID   uint   `gorm:"primaryKey;column:map_id"`
	Name string `gorm:"column:map_name;size:64;not null;uniqueIndex"`
}

func (GameMap) TableName() string { return "maps" }

// MatchType is a reference row describing the kind of match (e.g. "comp",
// "scrim"). Seeded ahead of time like GameMap.
type MatchType struct {
	ID          uint   `gorm:"primaryKey;column:match_type_id"`
	Description string `gorm:"size:64;not null;uniqueIndex"`
}

func (MatchType) TableName() string { return "match_types" }

// Match is one committed game.
type Match struct {
	ID          uint      `gorm:"primaryKey;column:match_id"`
	MapID       uint      `gorm:"index;not null"`
	MatchTypeID uint      `gorm:"index;not null"`
	Score       string    `gorm:"size:16;not null"` // e.g. "13-8", team1 first
	Date        time.Time `gorm:"not null"`
}

func (Match) TableName() string { return "matches" }
