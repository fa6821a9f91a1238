package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Processing a long video is minutes of yt-dlp plus two AI round trips, so
// the transport timeout is a backstop, not a budget. Callers cancel through
// the context.
const defaultTimeout = 15 * time.Minute

// Client talks to the processing server. Transport-level failures come back
// as plain wrapped errors; deliberate server rejections come back as
// *ServerError or *TooLongError.
type Client struct {
	baseURL string
	httpc   *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: defaultTimeout},
	}
}

// Process submits the video for the full transcribe-and-summarize run.
func (c *Client) Process(ctx context.Context, videoURL, targetLanguage string) (*ProcessResult, error) {
	var result ProcessResult
	err := c.post(ctx, "/process", ProcessRequest{URL: videoURL, TargetLanguage: targetLanguage}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ExtractAudio asks the server for just the audio track, skipping the
// duration cap. This is the fallback for videos /process rejects as too long.
func (c *Client) ExtractAudio(ctx context.Context, videoURL, targetLanguage string) (*ExtractResult, error) {
	var result ExtractResult
	err := c.post(ctx, "/extract-audio", ProcessRequest{URL: videoURL, TargetLanguage: targetLanguage}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// DownloadURL renders the link for a stored audio file. The server only
// issues flat file names, but escape anyway.
func (c *Client) DownloadURL(audioPath string) string {
	return c.baseURL + "/download-audio/" + url.PathEscape(audioPath)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding %s request: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading %s response: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb ErrorBody
		// A detail-less body (proxies, panics) still classifies, with a
		// generic fallback message.
		_ = json.Unmarshal(raw, &eb)
		return classify(resp.StatusCode, strings.TrimSpace(eb.Detail))
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}
