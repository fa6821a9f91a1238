package content

import (
	"context"
	"errors"
	"fmt"

	"github.com/clipwise/clipscribe/internal/keypool"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Summarizer handles Anthropic API requests for transcript summaries.
type Summarizer struct {
	keys  *keypool.Pool
	model anthropic.Model
}

// NewSummarizer creates a new summary client.
func NewSummarizer(keys *keypool.Pool) *Summarizer {
	return &Summarizer{
		keys:  keys,
		model: anthropic.Model("claude-sonnet-4-5-20250929"),
	}
}

// Summarize produces a summary of the transcript in the target language.
func (s *Summarizer) Summarize(ctx context.Context, transcript, language string) (string, error) {
	apiKey, err := s.keys.Acquire()
	if err != nil {
		return "", fmt.Errorf("selecting Anthropic API key: %w", err)
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	params := anthropic.MessageNewParams{
		Model:     s.model,
		MaxTokens: 4096,
		System: []anthropic.TextBlockParam{
			{Text: SummarySystemPrompt(language)},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(transcript)),
		},
	}

	resp, err := client.Messages.New(ctx, params)
	if err != nil {
		s.keys.ReportError(apiKey, err)
		return "", fmt.Errorf("failed to generate summary via Anthropic API: %w", err)
	}

	if len(resp.Content) == 0 {
		return "", errors.New("empty response from Anthropic API")
	}

	textBlock, ok := resp.Content[0].AsAny().(anthropic.TextBlock)
	if !ok {
		return "", errors.New("unexpected response type from Anthropic API")
	}

	return textBlock.Text, nil
}
