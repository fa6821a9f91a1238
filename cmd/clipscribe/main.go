package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/clipwise/clipscribe/internal/api"
	"github.com/clipwise/clipscribe/internal/keyring"
	"github.com/clipwise/clipscribe/internal/tui"
)

// CLI defines the clipscribe command structure.
type CLI struct {
	// Default TUI command (runs when no subcommand given)
	TUI TUICmd `cmd:"" default:"withargs" help:"Launch terminal UI for video transcription"`

	// Subcommands
	Process ProcessCmd `cmd:"" help:"Transcribe and summarize a video, print the result"`
	Extract ExtractCmd `cmd:"" help:"Extract audio from a video, print the download link"`
	Config  ConfigCmd  `cmd:"" help:"Manage configuration"`
}

// TUICmd is the default command that runs the TUI.
type TUICmd struct {
	URL      string `arg:"" optional:"" help:"Video URL to prefill"`
	Server   string `flag:"" default:"http://localhost:8080" env:"CLIPSCRIBE_SERVER" help:"Processing server base URL"`
	Language string `flag:"" default:"en" enum:"en,ru,lt" help:"Summary language"`
}

// Run executes the TUI command.
func (c *TUICmd) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := api.NewClient(c.Server)

	config := tui.Config{
		InitialURL: c.URL,
		Language:   c.Language,
		Ctx:        ctx,
		Cancel:     cancel,
	}

	p := tea.NewProgram(tui.New(config, client))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to start TUI: %w", err)
	}

	return nil
}

// ProcessCmd transcribes and summarizes a video without the TUI.
type ProcessCmd struct {
	URL      string `arg:"" required:"" help:"Video URL"`
	Server   string `flag:"" default:"http://localhost:8080" env:"CLIPSCRIBE_SERVER" help:"Processing server base URL"`
	Language string `flag:"" default:"en" enum:"en,ru,lt" help:"Summary language"`
}

// Run executes the process command.
func (c *ProcessCmd) Run() error {
	client := api.NewClient(c.Server)

	result, err := client.Process(context.Background(), c.URL, c.Language)
	if err != nil {
		if api.IsTooLong(err) {
			return fmt.Errorf("%w Run 'clipscribe extract %s' first, then retry", err, c.URL)
		}

		return fmt.Errorf("processing failed: %w", err)
	}

	fmt.Println("Transcription:")
	fmt.Println(result.Transcription)
	fmt.Println()
	fmt.Println("Summary:")
	fmt.Println(result.Summary)

	if result.AudioPath != "" {
		fmt.Println()
		fmt.Printf("Audio: %s\n", client.DownloadURL(result.AudioPath))
	}

	return nil
}

// ExtractCmd extracts a video's audio track without the TUI.
type ExtractCmd struct {
	URL    string `arg:"" required:"" help:"Video URL"`
	Server string `flag:"" default:"http://localhost:8080" env:"CLIPSCRIBE_SERVER" help:"Processing server base URL"`
}

// Run executes the extract command.
func (c *ExtractCmd) Run() error {
	client := api.NewClient(c.Server)

	result, err := client.ExtractAudio(context.Background(), c.URL, "")
	if err != nil {
		return fmt.Errorf("audio extraction failed: %w", err)
	}

	fmt.Printf("Audio: %s\n", client.DownloadURL(result.AudioPath))

	if result.SizeMB > 0 {
		fmt.Printf("Size: %.2f MB\n", result.SizeMB)
	}

	return nil
}

// ConfigCmd groups configuration-related subcommands.
type ConfigCmd struct {
	SetKey    SetKeyCmd    `cmd:"" help:"Store an API key in system keychain"`
	ListKeys  ListKeysCmd  `cmd:"" name:"list-keys" help:"Show which API keys are configured"`
	DeleteKey DeleteKeyCmd `cmd:"" name:"delete-key" help:"Remove an API key from system keychain"`
}

// SetKeyCmd stores an API key in the system keychain.
type SetKeyCmd struct {
	Service string `arg:"" enum:"openai,anthropic" help:"Service name (openai or anthropic)"`
	Secret  string `arg:"" help:"API key value"`
}

// Run executes the set-key command.
func (c *SetKeyCmd) Run() error {
	if strings.TrimSpace(c.Secret) == "" {
		return errors.New("API key cannot be empty")
	}

	apiKey, err := keyring.FromProvider(c.Service)
	if err != nil {
		return fmt.Errorf("invalid service: %w", err)
	}

	if err := keyring.Set(apiKey, c.Secret); err != nil {
		return fmt.Errorf("failed to store API key: %w", err)
	}

	fmt.Printf("%s API key stored in keychain\n", c.Service)

	return nil
}

// ListKeysCmd shows which API keys are configured.
type ListKeysCmd struct{}

// Run executes the list-keys command.
//
//nolint:unparam // error return required by Kong interface
func (c *ListKeysCmd) Run() error {
	allSet := true

	for _, apiKey := range keyring.AllAPIKeys() {
		if keyring.IsSet(apiKey) {
			fmt.Printf("%s: configured\n", apiKey.DisplayName())
		} else {
			fmt.Printf("%s: not set\n", apiKey.DisplayName())
			allSet = false
		}
	}

	if !allSet {
		fmt.Println("\nRun 'clipscribe config set-key <service> <key>' to configure.")
	}

	return nil
}

// DeleteKeyCmd removes an API key from the system keychain.
type DeleteKeyCmd struct {
	Service string `arg:"" enum:"openai,anthropic" help:"Service name (openai or anthropic)"`
}

// Run executes the delete-key command.
func (c *DeleteKeyCmd) Run() error {
	apiKey, err := keyring.FromProvider(c.Service)
	if err != nil {
		return fmt.Errorf("invalid service: %w", err)
	}

	if err := keyring.Delete(apiKey); err != nil {
		return fmt.Errorf("failed to delete API key: %w", err)
	}

	fmt.Printf("%s API key removed from keychain\n", c.Service)

	return nil
}

func main() {
	// Set up text-based logger for CLI output
	//nolint:exhaustruct // Using default values for other HandlerOptions fields
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)

	cli := &CLI{} //nolint:exhaustruct // Kong fills in command fields
	ctx := kong.Parse(cli)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
	os.Exit(0)
}
