package main

import (
	"errors"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"pckstats/pkg/scan"
	"pckstats/pkg/session"
	"pckstats/pkg/stats"
)

func setupRoutes(r *gin.Engine) {
	r.GET("/ping", pingHandler)
	r.POST("/upload", uploadScoreboardHandler)

	serviceGroup := r.Group("")
	serviceGroup.Use(serviceAuthMiddleware())
	serviceGroup.POST("/access_codes", storeAccessCodeHandler)
	serviceGroup.POST("/sessions/:id/events", sessionEventHandler)
	serviceGroup.PUT("/players/:name/picture", profilePictureHandler)

	r.GET("/players", listPlayersHandler)
	r.GET("/players/:name", playerSummaryHandler)
	r.GET("/players/:name/maps/:map", playerMapHandler)
	r.GET("/h2h", h2hHandler)
}

func pingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

// storeAccessCodeHandler registers a single-use access code issued by the bot
// to a user who asked to submit a scoreboard.
func storeAccessCodeHandler(c *gin.Context) {
	var req struct {
		UserID     string `json:"user_id" binding:"required"`
		AccessCode string `json:"access_code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	registry.Store(req.AccessCode, req.UserID)
	c.JSON(http.StatusOK, gin.H{"message": "access code stored"})
}

// sessionEventHandler routes one user reply, relayed by the bot, into its
// open correction session. The session id comes from the opening prompt.
func sessionEventHandler(c *gin.Context) {
	var req struct {
		Kind  string `json:"kind" binding:"required"`
		Value string `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	kind, ok := session.ParseEventKind(req.Kind)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown event kind " + req.Kind})
		return
	}
	err := coordinator.Submit(c.Param("id"), session.Event{Kind: kind, Value: req.Value})
	switch {
	case errors.Is(err, session.ErrUnknownSession):
		c.JSON(http.StatusNotFound, gin.H{"error": "no open session with that id"})
	case err != nil:
		c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "event accepted"})
	}
}

// uploadScoreboardHandler is the single inbound trigger of the pipeline: four
// scoreboard images plus match metadata, authorized by a single-use code.
func uploadScoreboardHandler(c *gin.Context) {
	mapName := c.PostForm("map")
	finalScore := c.PostForm("final_score")
	matchType := c.PostForm("match_type")
	accessCode := c.PostForm("access_code")
	if mapName == "" || finalScore == "" || matchType == "" || accessCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "map, final_score, match_type and access_code are required"})
		return
	}
	if _, _, err := stats.ParseScore(finalScore); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	files := map[string]*multipart.FileHeader{}
	for _, label := range []string{"team1_names", "team2_names", "team1_stats", "team2_stats"} {
		fh, err := c.FormFile(label)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": label + " image missing"})
			return
		}
		files[label] = fh
	}

	// All inputs validated; only now is the code spent. A rejected request
	// leaves no side effects.
	userID, ok := registry.Consume(accessCode)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "invalid or expired access code"})
		return
	}

	select {
	case pipelineSem <- struct{}{}:
		defer func() { <-pipelineSem }()
	default:
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "too many submissions in flight, retry shortly"})
		return
	}

	tmpDir, err := os.MkdirTemp("", "scoreboard-*")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "temp dir failed"})
		return
	}
	defer os.RemoveAll(tmpDir)

	paths := map[string]string{}
	for label, fh := range files {
		dst := filepath.Join(tmpDir, label+".png")
		if err := c.SaveUploadedFile(fh, dst); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed for " + label})
			return
		}
		paths[label] = dst
	}

	info := stats.MatchInfo{MapName: mapName, MatchType: matchType, Score: finalScore}
	matchID, err := runPipeline(c.Request.Context(), userID, paths, info)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, scan.ErrExtraction), errors.Is(err, stats.ErrDuplicatePlayer):
			status = http.StatusUnprocessableEntity
		case errors.Is(err, session.ErrTimeout):
			status = http.StatusRequestTimeout
		case errors.Is(err, stats.ErrMissingReference):
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "match recorded", "match_id": matchID})
}

func listPlayersHandler(c *gin.Context) {
	names, err := store.PlayerNames()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"players": names})
}

func playerSummaryHandler(c *gin.Context) {
	summary, err := store.Summary(c.Param("name"))
	if err != nil {
		if errors.Is(err, stats.ErrPlayerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "player not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func playerMapHandler(c *gin.Context) {
	breakdown, err := store.OnMap(c.Param("name"), strings.ToLower(c.Param("map")))
	if err != nil {
		switch {
		case errors.Is(err, stats.ErrPlayerNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "player not found"})
		case errors.Is(err, stats.ErrMissingReference):
			c.JSON(http.StatusNotFound, gin.H{"error": "map not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		}
		return
	}
	c.JSON(http.StatusOK, breakdown)
}

func h2hHandler(c *gin.Context) {
	p1 := c.Query("player1")
	p2 := c.Query("player2")
	if p1 == "" || p2 == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "player1 and player2 are required"})
		return
	}
	record, err := store.H2H(p1, p2)
	if err != nil {
		if errors.Is(err, stats.ErrPlayerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, record)
}

// profilePictureHandler stores a player's picture under the upload base dir
// and records its public path.
func profilePictureHandler(c *gin.Context) {
	name := c.Param("name")
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file missing"})
		return
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported image type"})
		return
	}
	if file.Size > 5*1024*1024 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large (max 5MB)"})
		return
	}
	relPath := "pfp/" + name + ext
	fullPath := filepath.Join(uploadBaseDir(), relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "mkdir failed"})
		return
	}
	if err := c.SaveUploadedFile(file, fullPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}
	publicURL := "public/" + relPath
	if err := store.SetProfilePicture(name, publicURL); err != nil {
		if errors.Is(err, stats.ErrPlayerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "player not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": publicURL})
}
