package models

// H2HRecord is the cumulative win tally between a pair of players. The lower
// player id is always stored as PlayerOneID so each pair has exactly one row
// regardless of lookup order; db.go additionally installs a CHECK constraint
// enforcing the ordering.
type H2HRecord struct {
	PlayerOneID   uint `gorm:"column:player_one_id;primaryKey;autoIncrement:false"`
	PlayerTwoID   uint `gorm:"column:player_two_id;primaryKey;autoIncrement:false"`
	PlayerOneWins int  `gorm:"not null"`
	PlayerTwoWins int  `gorm:"not null"`
}

func (H2HRecord) TableName() string { return "h2h_records" }
