package models

import "time"

// Player is a canonical roster entry. Rows are created on first sight of a
// new name during a match commit, never deleted.
type Player struct {
	ID            uint `gorm:"primaryKey;column:player_id"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Name          string `gorm:"size:255;not null;uniqueIndex"`
	ProfilePicURL string `gorm:"column:profile_pic_url;size:512"`
}

func (Player) TableName() string { return "players" }
