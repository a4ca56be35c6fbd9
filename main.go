package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"pckstats/pkg/codes"
	"pckstats/pkg/digits"
	"pckstats/pkg/roster"
	"pckstats/pkg/scan"
	"pckstats/pkg/session"
	"pckstats/pkg/stats"
)

var jwtSecret []byte // loaded from env JWT_SECRET (fallback to dev default)

// process-wide collaborators wired in main and used by the handlers
var (
	registry    *codes.Registry
	coordinator *session.Coordinator
	store       *stats.Store
	scanner     *scan.Scanner
	resolver    *roster.Resolver
	pipelineSem chan struct{}
)

func main() {
	// Auto-load ./.env if present (no external dependency) before reading vars
	loadDotEnv()
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-insecure-secret-change" // development fallback
	}
	jwtSecret = []byte(secret)

	// Support a lightweight migrate command: `./pckstats migrate`
	// It runs AutoMigrate and reference seeding then exits.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		initDB()
		fmt.Println("migration and seeding completed")
		return
	}

	initDB()

	ctx := context.Background()

	registry = codes.NewRegistry()
	registry.StartSweeper(ctx, codes.SweepInterval)

	var messenger session.Messenger = session.LogMessenger{}
	if url := os.Getenv("BOT_WEBHOOK_URL"); url != "" {
		messenger = session.NewWebhookMessenger(url)
	}
	coordinator = session.NewCoordinator(messenger)
	store = stats.NewStore(db)
	resolver = roster.New()
	scanner = &scan.Scanner{Engine: scan.Tesseract{}}
	wireClassifier(scanner)

	pipelineSem = make(chan struct{}, pipelineConcurrency())

	r := gin.Default()

	setupRoutes(r)

	r.Run(":8000")
}

// wireClassifier attaches the six/nine second pass if a weights file is
// available. A missing or broken model is never fatal: the pipeline falls
// back to the raw OCR token.
func wireClassifier(s *scan.Scanner) {
	path := os.Getenv("DIGIT_MODEL")
	if path == "" {
		path = "models-data/sixnine.json"
	}
	classifier, err := digits.Load(path)
	if err != nil {
		log.Printf("digit model unavailable (%v); continuing with OCR tokens only", err)
		return
	}
	s.Disambiguate = classifier.Predict
	if _, err := digits.Watch(classifier, path); err != nil {
		log.Printf("model watch disabled: %v", err)
	}
}

func pipelineConcurrency() int {
	if v := os.Getenv("PIPELINE_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return 2
}

// loadDotEnv loads key=value pairs from a local .env file into the environment
// without overwriting variables that are already set. Lines starting with # are ignored.
func loadDotEnv() {
	path := ".env"
	if _, err := os.Stat(path); err != nil {
		return // no .env file
	}
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// split on first '='
		if eq := strings.IndexByte(line, '='); eq > 0 {
			key := strings.TrimSpace(line[:eq])
			val := strings.TrimSpace(line[eq+1:])
			if _, exists := os.LookupEnv(key); !exists {
				_ = os.Setenv(key, val)
			}
		}
	}
}
