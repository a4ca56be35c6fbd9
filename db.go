package main

import (
	"log"
	"os"
	"strings"

	"pckstats/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var db *gorm.DB

func initDB() {
	var err error
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN is not set. This project requires a Postgres DSN in DB_DSN.")
	}
	db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect postgres database:", err)
	}
	// Control schema migrations with env DB_AUTO_MIGRATE (default true). Any permission errors will be logged and ignored.
	shouldMigrate := true
	if v := os.Getenv("DB_AUTO_MIGRATE"); v != "" {
		lv := strings.ToLower(v)
		if lv == "false" || lv == "0" || lv == "no" {
			shouldMigrate = false
		}
	}
	if shouldMigrate {
		// Migrate models individually so a failure on one doesn't block others
		if err := db.AutoMigrate(&models.Player{}); err != nil {
			log.Printf("migration warning (players): %v", err)
		}
		if err := db.AutoMigrate(&models.GameMap{}); err != nil {
			log.Printf("migration warning (maps): %v", err)
		}
		if err := db.AutoMigrate(&models.MatchType{}); err != nil {
			log.Printf("migration warning (match_types): %v", err)
		}
		if err := db.AutoMigrate(&models.Match{}); err != nil {
			log.Printf("migration warning (matches): %v", err)
		}
		if err := db.AutoMigrate(&models.PlayerStat{}); err != nil {
			log.Printf("migration warning (player_stats): %v", err)
		}
		if err := db.AutoMigrate(&models.PlayerAggregateStat{}); err != nil {
			log.Printf("migration warning (player_aggregate_stats): %v", err)
		}
		if err := db.AutoMigrate(&models.H2HRecord{}); err != nil {
			log.Printf("migration warning (h2h_records): %v", err)
		}
		if err := ensureH2HOrderCheck(); err != nil {
			log.Printf("warning: ensuring h2h ordering check failed: %v", err)
		}
	}
	seedDB()
}

// ensureH2HOrderCheck installs the canonical-ordering CHECK constraint on
// h2h_records if it is missing, so a misordered pair can never be stored even
// by hand-written SQL.
func ensureH2HOrderCheck() error {
	type cnt struct{ N int }
	var c cnt
	checkSQL := `SELECT count(*) AS n
		FROM pg_constraint ct
		JOIN pg_class rel ON rel.oid = ct.conrelid
		WHERE rel.relname = 'h2h_records' AND ct.contype = 'c'
		  AND pg_get_constraintdef(ct.oid) ILIKE '%player_one_id%<%player_two_id%'`
	if err := db.Raw(checkSQL).Scan(&c).Error; err != nil {
		return err
	}
	if c.N == 0 {
		if err := db.Exec(`ALTER TABLE h2h_records
			ADD CONSTRAINT chk_h2h_order CHECK (player_one_id < player_two_id)`).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedDB() {
	// Seed reference rows from env so a fresh database can accept commits.
	// Maps/match types are configuration: the committer never creates them.
	seedMaps(splitList(os.Getenv("SEED_MAPS")))
	seedMatchTypes(splitList(os.Getenv("SEED_MATCH_TYPES")))
	ensureUploadBase()
}

func seedMaps(names []string) {
	for _, name := range names {
		var cnt int64
		db.Model(&models.GameMap{}).Where("map_name = ?", name).Count(&cnt)
		if cnt == 0 {
			db.Create(&models.GameMap{Name: name})
			log.Printf("seeded map %q", name)
		}
	}
}

func seedMatchTypes(descriptions []string) {
	for _, desc := range descriptions {
		var cnt int64
		db.Model(&models.MatchType{}).Where("description = ?", desc).Count(&cnt)
		if cnt == 0 {
			db.Create(&models.MatchType{Description: desc})
			log.Printf("seeded match type %q", desc)
		}
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.ToLower(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ensureUploadBase creates the base directory for profile pictures.
func ensureUploadBase() {
	base := uploadBaseDir()
	if err := os.MkdirAll(base, 0755); err != nil {
		log.Printf("failed to create upload base dir %s: %v", base, err)
	}
}

// uploadBaseDir returns the base directory for local uploads (configurable via UPLOAD_BASE env)
func uploadBaseDir() string {
	if v := os.Getenv("UPLOAD_BASE"); v != "" {
		return v
	}
	return "uploads"
}
