// Package content wraps the AI providers: Whisper for transcription and
// Claude for summaries. Both draw their keys from a rotating pool.
package content

import (
	"context"
	"fmt"
	"io"

	"github.com/clipwise/clipscribe/internal/keypool"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Transcriber handles Whisper API transcription requests.
type Transcriber struct {
	keys *keypool.Pool
}

// NewTranscriber creates a new transcription client.
func NewTranscriber(keys *keypool.Pool) *Transcriber {
	return &Transcriber{keys: keys}
}

// TranscribeFile transcribes an audio file using the Whisper API.
func (t *Transcriber) TranscribeFile(ctx context.Context, audioFile io.Reader) (string, error) {
	apiKey, err := t.keys.Acquire()
	if err != nil {
		return "", fmt.Errorf("selecting OpenAI API key: %w", err)
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))

	params := openai.AudioTranscriptionNewParams{
		File:  audioFile,
		Model: openai.AudioModelWhisper1,
	}

	resp, err := client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		t.keys.ReportError(apiKey, err)
		return "", fmt.Errorf("failed to create transcription via Whisper API: %w", err)
	}

	return resp.Text, nil
}
