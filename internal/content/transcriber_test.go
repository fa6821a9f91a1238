package content

import (
	"context"
	"testing"

	"github.com/clipwise/clipscribe/internal/keypool"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTranscriber(t *testing.T) {
	keys, err := keypool.New("test-api-key")
	require.NoError(t, err)

	transcriber := NewTranscriber(keys)

	assert.NotNil(t, transcriber)
}

func TestTranscriber_TranscribeFile_NoUsableKey(t *testing.T) {
	keys, err := keypool.New("sk-tired")
	require.NoError(t, err)
	// Burn the only key with quota errors so Acquire has nothing to hand out.
	keys.ReportError("sk-tired", assert.AnError)
	keys.ReportError("sk-tired", errQuota{})

	transcriber := NewTranscriber(keys)

	text, err := transcriber.TranscribeFile(context.Background(), nil)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "selecting OpenAI API key")
	assert.Empty(t, text)
}

type errQuota struct{}

func (errQuota) Error() string { return "429 rate limit reached" }
