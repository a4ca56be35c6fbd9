// seedref inserts the map and match-type reference rows a deployment expects.
// The match committer refuses to invent these, so run this (or set SEED_MAPS /
// SEED_MATCH_TYPES) before accepting uploads.
package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"pckstats/models"
)

func main() {
	mapsArg := flag.String("maps", "", "comma-separated map names to seed")
	typesArg := flag.String("types", "", "comma-separated match type descriptions to seed")
	flag.Parse()
	if *mapsArg == "" && *typesArg == "" {
		log.Fatal("nothing to do: pass -maps and/or -types")
	}

	gdb := mustDBFromEnv()
	for _, name := range splitArg(*mapsArg) {
		var m models.GameMap
		if err := gdb.Where("map_name = ?", name).FirstOrCreate(&m, models.GameMap{Name: name}).Error; err != nil {
			log.Fatalf("seed map %q: %v", name, err)
		}
		log.Printf("map %q -> id %d", name, m.ID)
	}
	for _, desc := range splitArg(*typesArg) {
		var mt models.MatchType
		if err := gdb.Where("description = ?", desc).FirstOrCreate(&mt, models.MatchType{Description: desc}).Error; err != nil {
			log.Fatalf("seed match type %q: %v", desc, err)
		}
		log.Printf("match type %q -> id %d", desc, mt.ID)
	}
}

func mustDBFromEnv() *gorm.DB {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN not set in env")
	}
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	return gdb
}

func splitArg(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.ToLower(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
