package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all process configuration. It is loaded once at startup and
// passed by reference into the orchestrator and adapter constructors; request
// handling code never reads the environment directly.
type Config struct {
	Port string `envconfig:"PORT" default:"8080"`

	// Text providers
	HFAPIKey    string `envconfig:"HF_API_KEY"`
	HFTextModel string `envconfig:"HF_TEXT_MODEL" default:"openai-community/roberta-base-openai-detector"`
	HFBaseURL   string `envconfig:"HF_BASE_URL" default:"https://api-inference.huggingface.co"`

	GPTZeroAPIKey string `envconfig:"GPTZERO_API_KEY"`
	GPTZeroURL    string `envconfig:"GPTZERO_URL" default:"https://api.gptzero.me/v2/predict/text"`

	// Image / video-frame providers
	HiveAPIKey string `envconfig:"HIVE_API_KEY"`
	HiveURL    string `envconfig:"HIVE_URL" default:"https://api.thehive.ai/api/v2/task/sync"`

	AIOrNotAPIKey string `envconfig:"AIORNOT_API_KEY"`
	AIOrNotURL    string `envconfig:"AIORNOT_URL" default:"https://api.aiornot.com/v1/reports/image"`

	// Audio provider. The detection URL has no default on purpose: the
	// endpoint is not generally available, so both values must be set.
	ElevenLabsAPIKey string `envconfig:"ELEVENLABS_API_KEY"`
	ElevenLabsURL    string `envconfig:"ELEVENLABS_AUDIO_DETECTION_URL"`

	// Media tooling
	VideoFrameCount int    `envconfig:"VIDEO_FRAME_COUNT" default:"10"`
	FFmpegPath      string `envconfig:"FFMPEG_PATH" default:"ffmpeg"`
	FFprobePath     string `envconfig:"FFPROBE_PATH" default:"ffprobe"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}
	if cfg.VideoFrameCount < 1 {
		cfg.VideoFrameCount = 10
	}
	return &cfg, nil
}

// Placeholder values that commonly leak out of .env templates. A key holding
// one of these is treated the same as an unset key.
var placeholderKeys = map[string]struct{}{
	"your_key_here": {},
	"changeme":      {},
	"replace_me":    {},
}

// KeyConfigured reports whether a provider credential is actually usable:
// non-empty after trimming and not a known placeholder string.
func KeyConfigured(value string) bool {
	key := strings.TrimSpace(value)
	if key == "" {
		return false
	}
	_, placeholder := placeholderKeys[strings.ToLower(key)]
	return !placeholder
}
