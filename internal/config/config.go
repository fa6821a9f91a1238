package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvProduction represents the production environment.
	EnvProduction = "production"
)

// Config holds all application configuration.
type Config struct {
	// Server settings
	Env  string `envconfig:"ENV" default:"development"`
	Port string `envconfig:"PORT" default:"8080"`

	// Security settings
	HSTSMaxAge int    `envconfig:"HSTS_MAX_AGE" default:"31536000"`
	CSPMode    string `envconfig:"CSP_MODE" default:"relaxed"`

	// Logging settings
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// AI provider keys. The plural variables take a comma-separated list
	// for pool rotation; the singular forms stay supported for single-key
	// setups and are merged in by OpenAIKeys/AnthropicKeys.
	OpenAIAPIKey     string   `envconfig:"OPENAI_API_KEY"`
	OpenAIAPIKeyList []string `envconfig:"OPENAI_API_KEYS"`
	AnthropicAPIKey  string   `envconfig:"ANTHROPIC_API_KEY"`
	AnthropicKeyList []string `envconfig:"ANTHROPIC_API_KEYS"`

	// Media pipeline settings
	AudioDir          string        `envconfig:"AUDIO_DIR" default:"/tmp/clipscribe/audio"`
	AudioTTL          time.Duration `envconfig:"AUDIO_TTL" default:"1h"`
	MaxVideoSeconds   int           `envconfig:"MAX_VIDEO_SECONDS" default:"300"`
	ChunkSeconds      int           `envconfig:"CHUNK_SECONDS" default:"60"`
	RequestsPerMinute int           `envconfig:"REQUESTS_PER_MINUTE" default:"15"`

	// External tool paths. Bare names resolve through PATH.
	YTDLPPath   string `envconfig:"YTDLP_PATH" default:"yt-dlp"`
	FFmpegPath  string `envconfig:"FFMPEG_PATH" default:"ffmpeg"`
	FFprobePath string `envconfig:"FFPROBE_PATH" default:"ffprobe"`
}

// LoadConfig loads configuration from .env file and environment variables.
func LoadConfig() (*Config, error) {
	// Try to load .env file (optional for development)
	if err := godotenv.Load(); err != nil {
		// Not an error if file doesn't exist (expected in production)
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	}

	// Parse environment variables into config struct
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	return &config, nil
}

// OpenAIKeys merges the key list with the single-key variable, list first.
func (c *Config) OpenAIKeys() []string {
	return mergeKeys(c.OpenAIAPIKeyList, c.OpenAIAPIKey)
}

// AnthropicKeys merges the key list with the single-key variable, list first.
func (c *Config) AnthropicKeys() []string {
	return mergeKeys(c.AnthropicKeyList, c.AnthropicAPIKey)
}

func mergeKeys(list []string, single string) []string {
	merged := make([]string, 0, len(list)+1)
	seen := make(map[string]bool, len(list)+1)
	for _, key := range append(append([]string{}, list...), single) {
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, key)
	}
	return merged
}

// BuildCSP constructs Content Security Policy based on mode.
func BuildCSP(mode string) string {
	if mode == "strict" {
		// Production CSP
		return "default-src 'self'; " +
			"style-src 'self' 'unsafe-inline'; " +
			"script-src 'self'; " +
			"img-src 'self' data:; " +
			"media-src 'self'; " +
			"object-src 'none'; " +
			"base-uri 'self'; " +
			"form-action 'self'"
	}

	// Development/relaxed CSP
	return "default-src 'self'; " +
		"style-src 'self' 'unsafe-inline'; " +
		"script-src 'self' 'unsafe-inline'; " +
		"img-src 'self' data:; " +
		"media-src 'self'"
}
