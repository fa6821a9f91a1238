// Package pipeline drives the video-to-text flow: fetch the video with
// yt-dlp, pull the audio track with ffmpeg, transcribe it, and summarize
// the transcript. External tools run through pkg/executor so tests can
// script them.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/clipwise/clipscribe/internal/store"
	"github.com/clipwise/clipscribe/pkg/executor"
)

const (
	defaultMaxVideoSeconds   = 300
	defaultChunkSeconds      = 60
	defaultRequestsPerMinute = 15
)

// Transcriber turns an audio stream into text.
type Transcriber interface {
	TranscribeFile(ctx context.Context, audio io.Reader) (string, error)
}

// Summarizer condenses a transcript into the target language.
type Summarizer interface {
	Summarize(ctx context.Context, transcript, language string) (string, error)
}

// Options tune the pipeline. Zero values fall back to the defaults.
type Options struct {
	YTDLPPath         string
	FFmpegPath        string
	FFprobePath       string
	MaxVideoSeconds   int
	ChunkSeconds      int
	RequestsPerMinute int
}

// Result is the outcome of a full processing run. AudioPath is set only
// when stored audio backed the run.
type Result struct {
	Transcription string
	Summary       string
	AudioPath     string
}

// Extract is the outcome of an audio-only run.
type Extract struct {
	AudioPath string
	SizeMB    float64
}

// Pipeline orchestrates download, audio extraction, transcription and
// summarization.
type Pipeline struct {
	exec    executor.Executor
	store   *store.Store
	trans   Transcriber
	summ    Summarizer
	logger  *slog.Logger
	limiter *rateLimiter
	sleep   func(ctx context.Context, d time.Duration) error

	ytdlp      string
	ffmpeg     string
	ffprobe    string
	maxSeconds int
	chunkSecs  int
}

// New wires a pipeline from its collaborators.
func New(exec executor.Executor, st *store.Store, trans Transcriber, summ Summarizer, logger *slog.Logger, opts Options) *Pipeline {
	if opts.YTDLPPath == "" {
		opts.YTDLPPath = "yt-dlp"
	}
	if opts.FFmpegPath == "" {
		opts.FFmpegPath = "ffmpeg"
	}
	if opts.FFprobePath == "" {
		opts.FFprobePath = "ffprobe"
	}
	if opts.MaxVideoSeconds <= 0 {
		opts.MaxVideoSeconds = defaultMaxVideoSeconds
	}
	if opts.ChunkSeconds <= 0 {
		opts.ChunkSeconds = defaultChunkSeconds
	}
	if opts.RequestsPerMinute <= 0 {
		opts.RequestsPerMinute = defaultRequestsPerMinute
	}

	return &Pipeline{
		exec:       exec,
		store:      st,
		trans:      trans,
		summ:       summ,
		logger:     logger,
		limiter:    newRateLimiter(opts.RequestsPerMinute),
		sleep:      sleepCtx,
		ytdlp:      opts.YTDLPPath,
		ffmpeg:     opts.FFmpegPath,
		ffprobe:    opts.FFprobePath,
		maxSeconds: opts.MaxVideoSeconds,
		chunkSecs:  opts.ChunkSeconds,
	}
}

// ProcessVideo runs the full flow for a video URL. URLs with previously
// extracted audio skip the download and the duration cap and go through the
// chunked path instead.
func (p *Pipeline) ProcessVideo(ctx context.Context, videoURL, language string) (*Result, error) {
	if err := validateVideoURL(videoURL); err != nil {
		return nil, err
	}

	if entry, ok := p.store.Lookup(videoURL); ok {
		p.logger.Info("Processing stored audio", "name", entry.Name)
		return p.processStored(ctx, entry, language)
	}

	tmpDir, err := os.MkdirTemp("", "clipscribe-*")
	if err != nil {
		return nil, &StageError{Stage: StageDownload, Message: "failed to create temporary workspace", Err: err}
	}
	defer os.RemoveAll(tmpDir)

	videoPath, err := p.download(ctx, videoURL, tmpDir)
	if err != nil {
		return nil, err
	}
	p.logger.Info("Video downloaded", "path", videoPath)

	duration, err := p.probeDuration(ctx, videoPath)
	if err != nil {
		return nil, err
	}
	limit := time.Duration(p.maxSeconds) * time.Second
	if duration > limit {
		p.logger.Warn("Video over transcription cap", "duration", duration, "limit", limit)
		return nil, &TooLongError{Duration: duration, Limit: limit}
	}

	audioPath, err := p.extractAudio(ctx, videoPath, tmpDir)
	if err != nil {
		return nil, err
	}
	p.logger.Info("Audio extracted", "path", audioPath)

	transcript, err := p.transcribeFile(ctx, audioPath)
	if err != nil {
		return nil, err
	}
	p.logger.Info("Transcription completed")

	summary, err := p.summarize(ctx, transcript, language)
	if err != nil {
		return nil, err
	}
	p.logger.Info("Summary generated")

	return &Result{Transcription: transcript, Summary: summary}, nil
}

// ExtractAudio downloads the video and stores just its audio track. No
// duration cap applies; this is the fallback for videos over it.
func (p *Pipeline) ExtractAudio(ctx context.Context, videoURL string) (*Extract, error) {
	if err := validateVideoURL(videoURL); err != nil {
		return nil, err
	}

	if entry, ok := p.store.Lookup(videoURL); ok {
		p.logger.Info("Serving stored audio", "name", entry.Name)
		return &Extract{AudioPath: entry.Name, SizeMB: entry.SizeMB}, nil
	}

	tmpDir, err := os.MkdirTemp("", "clipscribe-*")
	if err != nil {
		return nil, &StageError{Stage: StageDownload, Message: "failed to create temporary workspace", Err: err}
	}
	defer os.RemoveAll(tmpDir)

	videoPath, err := p.download(ctx, videoURL, tmpDir)
	if err != nil {
		return nil, err
	}
	p.logger.Info("Video downloaded", "path", videoPath)

	audioPath, err := p.extractAudio(ctx, videoPath, tmpDir)
	if err != nil {
		return nil, err
	}

	entry, err := p.store.Put(videoURL, audioPath)
	if err != nil {
		return nil, &StageError{Stage: StageStore, Message: "failed to store extracted audio", Err: err}
	}
	p.logger.Info("Audio stored", "name", entry.Name, "size_mb", entry.SizeMB)

	return &Extract{AudioPath: entry.Name, SizeMB: entry.SizeMB}, nil
}

// download fetches the video through yt-dlp and returns the final file path.
func (p *Pipeline) download(ctx context.Context, videoURL, dir string) (string, error) {
	args := []string{
		"--no-playlist",
		"--no-warnings",
		"--quiet",
		"--no-simulate",
		"--print", "after_move:filepath",
		"-f", "bv*[ext=mp4]+ba[ext=m4a]/b[ext=mp4]/b",
		"-o", filepath.Join(dir, "%(title)s-%(id)s.%(ext)s"),
		videoURL,
	}

	var videoPath string
	err := p.retry(ctx, func() error {
		out, err := p.exec.Execute(ctx, p.ytdlp, args...)
		if err != nil {
			return err
		}
		videoPath = lastStdoutLine(out)
		if videoPath == "" {
			return errors.New("yt-dlp reported no output file")
		}
		return nil
	})
	if err != nil {
		return "", &StageError{Stage: StageDownload, Message: "video download failed", Err: err}
	}

	return videoPath, nil
}

// probeDuration reads the media duration with ffprobe.
func (p *Pipeline) probeDuration(ctx context.Context, mediaPath string) (time.Duration, error) {
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		mediaPath,
	}

	out, err := p.exec.Execute(ctx, p.ffprobe, args...)
	if err != nil {
		return 0, &StageError{Stage: StageProbe, Message: "could not read media duration", Err: err}
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	if err != nil {
		return 0, &StageError{
			Stage:   StageProbe,
			Message: fmt.Sprintf("unexpected ffprobe output %q", strings.TrimSpace(out)),
			Err:     err,
		}
	}

	return time.Duration(seconds * float64(time.Second)), nil
}

// extractAudio pulls the audio track into an mp3 named after the video.
func (p *Pipeline) extractAudio(ctx context.Context, videoPath, dir string) (string, error) {
	base := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
	audioPath := filepath.Join(dir, safeBaseName(base)+".mp3")

	args := []string{
		"-i", videoPath,
		"-vn",
		"-c:a", "libmp3lame",
		"-b:a", "128k",
		"-y",
		audioPath,
	}

	err := p.retry(ctx, func() error {
		_, err := p.exec.Execute(ctx, p.ffmpeg, args...)
		return err
	})
	if err != nil {
		return "", &StageError{Stage: StageExtract, Message: "audio extraction failed", Err: err}
	}

	return audioPath, nil
}

// transcribeFile sends one audio file through the transcriber, reopening it
// for each retry attempt.
func (p *Pipeline) transcribeFile(ctx context.Context, audioPath string) (string, error) {
	var transcript string
	err := p.retry(ctx, func() error {
		f, err := os.Open(audioPath)
		if err != nil {
			return err
		}
		defer f.Close()

		text, err := p.trans.TranscribeFile(ctx, f)
		if err != nil {
			return err
		}
		transcript = text
		return nil
	})
	if err != nil {
		return "", &StageError{Stage: StageTranscribe, Message: "transcription failed", Err: err}
	}

	return transcript, nil
}

func (p *Pipeline) summarize(ctx context.Context, transcript, language string) (string, error) {
	var summary string
	err := p.retry(ctx, func() error {
		text, err := p.summ.Summarize(ctx, transcript, language)
		if err != nil {
			return err
		}
		summary = text
		return nil
	})
	if err != nil {
		return "", &StageError{Stage: StageSummarize, Message: "summary generation failed", Err: err}
	}

	return summary, nil
}

func validateVideoURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}
	return nil
}

// lastStdoutLine returns the final non-empty line of command output, which
// is where yt-dlp prints the downloaded file path.
func lastStdoutLine(out string) string {
	trimmed := strings.TrimSpace(out)
	if i := strings.LastIndexByte(trimmed, '\n'); i >= 0 {
		trimmed = trimmed[i+1:]
	}
	return strings.TrimSpace(trimmed)
}
