package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/clipwise/clipscribe/internal/api"
	"github.com/clipwise/clipscribe/internal/config"
	"github.com/clipwise/clipscribe/internal/pipeline"
	"github.com/clipwise/clipscribe/internal/server"
	"github.com/clipwise/clipscribe/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProcessor struct {
	processResult *pipeline.Result
	processErr    error
	extractResult *pipeline.Extract
	extractErr    error

	lastURL      string
	lastLanguage string
}

func (s *stubProcessor) ProcessVideo(ctx context.Context, videoURL, language string) (*pipeline.Result, error) {
	s.lastURL = videoURL
	s.lastLanguage = language

	if s.processErr != nil {
		return nil, s.processErr
	}
	return s.processResult, nil
}

func (s *stubProcessor) ExtractAudio(ctx context.Context, videoURL string) (*pipeline.Extract, error) {
	s.lastURL = videoURL

	if s.extractErr != nil {
		return nil, s.extractErr
	}
	return s.extractResult, nil
}

func newTestServer(t *testing.T, proc server.Processor) (*server.Server, *store.Store) {
	t.Helper()

	cfg := &config.Config{
		Env:        "test",
		Port:       "8080",
		HSTSMaxAge: 31536000,
		CSPMode:    "relaxed",
		LogLevel:   "info",
	}

	// Create a test logger (discard output)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError, // Only show errors during tests
	}))

	st, err := store.New(t.TempDir(), time.Hour, logger)
	require.NoError(t, err)

	return server.New(cfg, logger, proc, st), st
}

func postJSON(srv *server.Server, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func get(srv *server.Server, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, &stubProcessor{})

	w := get(srv, "/health")

	assert.Equal(t, http.StatusOK, w.Code, "Health endpoint should return 200 OK")
	assert.Contains(t, w.Body.String(), "healthy")
	assert.Contains(t, w.Body.String(), "clipscribe")
}

func TestProcessEndpoint_Success(t *testing.T) {
	proc := &stubProcessor{processResult: &pipeline.Result{
		Transcription: "hello world",
		Summary:       "a greeting",
	}}
	srv, _ := newTestServer(t, proc)

	w := postJSON(srv, "/process", `{"url":"https://youtube.com/shorts/abc","target_language":"ru"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var result api.ProcessResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "hello world", result.Transcription)
	assert.Equal(t, "a greeting", result.Summary)
	assert.Empty(t, result.AudioPath)

	assert.Equal(t, "https://youtube.com/shorts/abc", proc.lastURL)
	assert.Equal(t, "ru", proc.lastLanguage)
}

func TestProcessEndpoint_InvalidBody(t *testing.T) {
	srv, _ := newTestServer(t, &stubProcessor{})

	w := postJSON(srv, "/process", `{"url": 12`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid request body")
}

func TestProcessEndpoint_InvalidURL(t *testing.T) {
	proc := &stubProcessor{processErr: fmt.Errorf("%w: %q", pipeline.ErrInvalidURL, "junk")}
	srv, _ := newTestServer(t, proc)

	w := postJSON(srv, "/process", `{"url":"junk","target_language":"en"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid video URL")
}

func TestProcessEndpoint_TooLongVideo(t *testing.T) {
	proc := &stubProcessor{processErr: &pipeline.TooLongError{
		Duration: 301 * time.Second,
		Limit:    300 * time.Second,
	}}
	srv, _ := newTestServer(t, proc)

	w := postJSON(srv, "/process", `{"url":"https://youtube.com/shorts/long","target_language":"en"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body api.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body.Detail, "too long")
}

func TestProcessEndpoint_PipelineFailure(t *testing.T) {
	proc := &stubProcessor{processErr: &pipeline.StageError{
		Stage:   pipeline.StageDownload,
		Message: "video download failed",
		Err:     errors.New("yt-dlp: exit status 1: ERROR: unsupported URL"),
	}}
	srv, _ := newTestServer(t, proc)

	w := postJSON(srv, "/process", `{"url":"https://youtube.com/shorts/abc","target_language":"en"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body api.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body.Detail, "downloading")
	assert.Contains(t, body.Detail, "unsupported URL")
}

func TestExtractAudioEndpoint(t *testing.T) {
	proc := &stubProcessor{extractResult: &pipeline.Extract{
		AudioPath: "clip_0123456789ab.mp3",
		SizeMB:    3.5,
	}}
	srv, _ := newTestServer(t, proc)

	w := postJSON(srv, "/extract-audio", `{"url":"https://youtube.com/shorts/abc","target_language":"en"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var result api.ExtractResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "clip_0123456789ab.mp3", result.AudioPath)
	assert.InDelta(t, 3.5, result.SizeMB, 0.001)
}

func TestDownloadAudio(t *testing.T) {
	srv, st := newTestServer(t, &stubProcessor{})

	src := filepath.Join(t.TempDir(), "clip.mp3")
	require.NoError(t, os.WriteFile(src, []byte("mp3 bytes"), 0o644))
	entry, err := st.Put("https://youtube.com/shorts/abc", src)
	require.NoError(t, err)

	w := get(srv, "/download-audio/"+entry.Name)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Equal(t, "mp3 bytes", w.Body.String())
}

func TestDownloadAudio_NotFound(t *testing.T) {
	srv, _ := newTestServer(t, &stubProcessor{})

	w := get(srv, "/download-audio/missing_000000000000.mp3")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "audio file not found")
}

func TestDownloadAudio_RejectsNonMP3(t *testing.T) {
	srv, _ := newTestServer(t, &stubProcessor{})

	w := get(srv, "/download-audio/secrets.txt")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid audio file name")
}

func TestUnknownRouteReturnsJSON(t *testing.T) {
	srv, _ := newTestServer(t, &stubProcessor{})

	w := get(srv, "/nope")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not found")
}
