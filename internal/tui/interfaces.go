package tui

import (
	"context"

	"github.com/clipwise/clipscribe/internal/api"
)

// Processor is the processing server as the TUI sees it. Satisfied by
// *api.Client; tests substitute a mock.
type Processor interface {
	Process(ctx context.Context, videoURL, targetLanguage string) (*api.ProcessResult, error)
	ExtractAudio(ctx context.Context, videoURL, targetLanguage string) (*api.ExtractResult, error)
	DownloadURL(audioPath string) string
}
