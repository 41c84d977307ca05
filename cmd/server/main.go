package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"truthscan/internal/api"
	"truthscan/internal/config"
)

func main() {
	// Load .env file if it exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logProviderStatus(cfg)

	// Set Gin mode (default to release mode)
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	// Add CORS middleware for the web frontend
	r.Use(corsMiddleware())

	api.NewServer(cfg).RegisterRoutes(r)

	log.Printf("TruthScan backend running on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// logProviderStatus reports which detection providers are usable so a missing
// key is visible at startup rather than at first request.
func logProviderStatus(cfg *config.Config) {
	providers := []struct {
		name       string
		configured bool
	}{
		{"Hugging Face", config.KeyConfigured(cfg.HFAPIKey)},
		{"GPTZero", config.KeyConfigured(cfg.GPTZeroAPIKey)},
		{"Hive Moderation", config.KeyConfigured(cfg.HiveAPIKey)},
		{"AI-or-Not", config.KeyConfigured(cfg.AIOrNotAPIKey)},
		{"ElevenLabs", config.KeyConfigured(cfg.ElevenLabsAPIKey) && cfg.ElevenLabsURL != ""},
	}
	for _, p := range providers {
		status := "not configured (fallback only)"
		if p.configured {
			status = "configured"
		}
		log.Printf("[Config] %s: %s", p.name, status)
	}
}

// corsMiddleware adds CORS headers for the web frontend
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
