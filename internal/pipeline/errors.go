package pipeline

import (
	"errors"
	"fmt"
	"time"
)

// Stage names reported in pipeline errors.
const (
	StageDownload   = "downloading"
	StageProbe      = "probing"
	StageExtract    = "extracting"
	StageSplit      = "splitting"
	StageTranscribe = "transcribing"
	StageSummarize  = "summarizing"
	StageStore      = "storing"
)

// ErrInvalidURL rejects input that is not an absolute http(s) URL.
var ErrInvalidURL = errors.New("invalid video URL")

// StageError is a stage-aware pipeline failure.
type StageError struct {
	Stage   string
	Message string
	Err     error
}

// Error formats pipeline failures for logs and error response bodies.
func (e *StageError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Stage, e.Message)
	}

	return fmt.Sprintf("%s: %s: %v", e.Stage, e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As.
func (e *StageError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// TooLongError reports a video over the transcription duration cap. Its
// message is what /process clients see in the error detail, so the "too
// long" wording stays load-bearing.
type TooLongError struct {
	Duration time.Duration
	Limit    time.Duration
}

func (e *TooLongError) Error() string {
	return "This video is too long for automatic transcription. " +
		"Extract the audio and process it separately."
}
