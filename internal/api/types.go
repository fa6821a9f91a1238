// Package api holds the wire contract between the clipscribe client and the
// processing server, plus an HTTP client that classifies failures for the UI.
package api

// ProcessRequest asks the server to transcribe and summarize one video.
// The same body drives the follow-up request for previously extracted audio.
type ProcessRequest struct {
	URL            string `json:"url"`
	TargetLanguage string `json:"target_language"`
}

// ProcessResult is the success payload of POST /process. AudioPath, when
// present, names a stored file reachable through GET /download-audio.
type ProcessResult struct {
	Transcription string `json:"transcription"`
	Summary       string `json:"summary"`
	AudioPath     string `json:"audio_path,omitempty"`
}

// ExtractResult is the success payload of POST /extract-audio.
type ExtractResult struct {
	AudioPath string  `json:"audio_path"`
	SizeMB    float64 `json:"size_mb,omitempty"`
}

// ErrorBody is the FastAPI-style failure payload every non-2xx response carries.
type ErrorBody struct {
	Detail string `json:"detail"`
}
