package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/clipwise/clipscribe/internal/store"
)

// processStored transcribes previously extracted audio chunk by chunk and
// summarizes the stitched transcript. Chunked transcription is what lets
// audio over the duration cap through, so no cap check happens here.
func (p *Pipeline) processStored(ctx context.Context, entry store.Entry, language string) (*Result, error) {
	chunkDir, err := os.MkdirTemp("", "clipscribe-chunks-*")
	if err != nil {
		return nil, &StageError{Stage: StageSplit, Message: "failed to create chunk workspace", Err: err}
	}
	defer os.RemoveAll(chunkDir)

	chunks, err := p.splitAudio(ctx, entry.Path, chunkDir)
	if err != nil {
		return nil, err
	}
	p.logger.Info("Audio split into chunks", "name", entry.Name, "count", len(chunks))

	parts := make([]string, 0, len(chunks))
	for i, chunkPath := range chunks {
		text, err := p.transcribeChunk(ctx, chunkPath)
		if err != nil {
			return nil, err
		}
		parts = append(parts, text)
		p.logger.Debug("Chunk transcribed", "chunk", i+1, "total", len(chunks))
	}
	transcript := strings.Join(parts, " ")

	if err := p.limiter.wait(ctx); err != nil {
		return nil, err
	}
	summary, err := p.summarize(ctx, transcript, language)
	if err != nil {
		return nil, err
	}
	p.logger.Info("Summary generated")

	return &Result{Transcription: transcript, Summary: summary, AudioPath: entry.Name}, nil
}

// splitAudio cuts the mp3 into fixed-length chunks with ffmpeg's segment
// muxer and returns their paths in playback order.
func (p *Pipeline) splitAudio(ctx context.Context, audioPath, dir string) ([]string, error) {
	args := []string{
		"-i", audioPath,
		"-f", "segment",
		"-segment_time", strconv.Itoa(p.chunkSecs),
		"-c", "copy",
		"-y",
		filepath.Join(dir, "chunk_%03d.mp3"),
	}

	if _, err := p.exec.Execute(ctx, p.ffmpeg, args...); err != nil {
		return nil, &StageError{Stage: StageSplit, Message: "audio splitting failed", Err: err}
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, &StageError{Stage: StageSplit, Message: "cannot read chunk workspace", Err: err}
	}

	chunks := make([]string, 0, len(files))
	for _, f := range files {
		if !f.IsDir() && filepath.Ext(f.Name()) == ".mp3" {
			chunks = append(chunks, filepath.Join(dir, f.Name()))
		}
	}
	sort.Strings(chunks)

	if len(chunks) == 0 {
		return nil, &StageError{Stage: StageSplit, Message: "ffmpeg produced no chunks"}
	}
	return chunks, nil
}

// transcribeChunk keeps retrying one chunk with exponential backoff, falling
// back to a bracketed placeholder so a single bad chunk cannot sink the
// whole run. The returned error is non-nil only on context cancellation.
func (p *Pipeline) transcribeChunk(ctx context.Context, chunkPath string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			backoff := time.Duration(1<<(attempt-2)) * time.Second
			if err := p.sleep(ctx, backoff); err != nil {
				return "", err
			}
		}
		if err := p.limiter.wait(ctx); err != nil {
			return "", err
		}

		text, err := p.transcribeChunkOnce(ctx, chunkPath)
		if err == nil {
			return text, nil
		}
		lastErr = err
		p.logger.Warn("Chunk transcription failed",
			"chunk", filepath.Base(chunkPath),
			"attempt", attempt,
			"error", err,
		)
	}

	return fmt.Sprintf("[Error transcribing chunk after %d attempts: %v]", maxAttempts, lastErr), nil
}

func (p *Pipeline) transcribeChunkOnce(ctx context.Context, chunkPath string) (string, error) {
	f, err := os.Open(chunkPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	return p.trans.TranscribeFile(ctx, f)
}
