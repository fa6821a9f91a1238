package main

import (
	"log"

	"github.com/clipwise/clipscribe/internal/config"
	"github.com/clipwise/clipscribe/internal/content"
	"github.com/clipwise/clipscribe/internal/keypool"
	"github.com/clipwise/clipscribe/internal/keyring"
	"github.com/clipwise/clipscribe/internal/logger"
	"github.com/clipwise/clipscribe/internal/pipeline"
	"github.com/clipwise/clipscribe/internal/server"
	"github.com/clipwise/clipscribe/internal/store"
	"github.com/clipwise/clipscribe/pkg/executor"
)

func main() {
	// Load configuration
	config, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup structured logging
	logger := logger.SetupLogger(config)

	// Log startup information
	logger.Info("Starting clipscribe server",
		"env", config.Env,
		"port", config.Port,
		"audio_dir", config.AudioDir,
	)

	// Resolve API keys: environment variables take priority, fallback to keychain
	openAIKeys := resolveKeys(config.OpenAIKeys(), keyring.OpenAI)
	if len(openAIKeys) == 0 {
		log.Fatalf("Missing OpenAI API key: set OPENAI_API_KEY or run 'clipscribe config set-key openai <key>'")
	}

	anthropicKeys := resolveKeys(config.AnthropicKeys(), keyring.Anthropic)
	if len(anthropicKeys) == 0 {
		log.Fatalf("Missing Anthropic API key: set ANTHROPIC_API_KEY or run 'clipscribe config set-key anthropic <key>'")
	}

	transcriberKeys, err := keypool.New(openAIKeys...)
	if err != nil {
		log.Fatalf("Fatal: %v", err)
	}

	summarizerKeys, err := keypool.New(anthropicKeys...)
	if err != nil {
		log.Fatalf("Fatal: %v", err)
	}

	logger.Info("API key pools ready",
		"openai_keys", transcriberKeys.Size(),
		"anthropic_keys", summarizerKeys.Size(),
	)

	// Audio store with TTL janitor
	st, err := store.New(config.AudioDir, config.AudioTTL, logger)
	if err != nil {
		logger.Error("Failed to prepare audio store", "error", err)
		log.Fatalf("Fatal: %v", err)
	}
	st.StartJanitor()

	// Media pipeline
	pipe := pipeline.New(
		executor.New(),
		st,
		content.NewTranscriber(transcriberKeys),
		content.NewSummarizer(summarizerKeys),
		logger,
		pipeline.Options{
			YTDLPPath:         config.YTDLPPath,
			FFmpegPath:        config.FFmpegPath,
			FFprobePath:       config.FFprobePath,
			MaxVideoSeconds:   config.MaxVideoSeconds,
			ChunkSeconds:      config.ChunkSeconds,
			RequestsPerMinute: config.RequestsPerMinute,
		},
	)

	srv := server.New(config, logger, pipe, st)

	// Start server
	logger.Info("Server listening", "port", config.Port)
	if err := server.Run(srv); err != nil {
		logger.Error("Failed to start server", "error", err)
		log.Fatalf("Fatal: %v", err)
	}
}

// resolveKeys returns the configured API keys, falling back to the system
// keychain when the environment provides none.
func resolveKeys(envKeys []string, apiKey keyring.APIKey) []string {
	if len(envKeys) > 0 {
		return envKeys
	}

	secret, err := keyring.Get(apiKey)
	if err != nil || secret == "" {
		return nil
	}

	return []string{secret}
}
