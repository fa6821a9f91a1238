package api

import (
	"errors"
	"fmt"
	"strings"
)

// tooLongMarker identifies the server's video-length rejection. The server
// phrases the detail as prose, so matching is by substring, case-insensitive.
const tooLongMarker = "too long"

// ServerError is a non-2xx response whose detail the server produced on
// purpose. The detail is safe to show to the user as-is.
type ServerError struct {
	StatusCode int
	Detail     string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Detail)
}

// TooLongError is the server rejecting a video over its duration cap. It is
// split from ServerError because the UI offers an audio-extraction fallback
// instead of a plain failure.
type TooLongError struct {
	Detail string
}

func (e *TooLongError) Error() string {
	return e.Detail
}

// classify turns a non-2xx status and its detail into a typed error.
func classify(status int, detail string) error {
	if detail == "" {
		detail = fmt.Sprintf("processing failed with status %d", status)
	}
	if strings.Contains(strings.ToLower(detail), tooLongMarker) {
		return &TooLongError{Detail: detail}
	}
	return &ServerError{StatusCode: status, Detail: detail}
}

// IsTooLong reports whether err is the duration-cap rejection.
func IsTooLong(err error) bool {
	var tl *TooLongError
	return errors.As(err, &tl)
}
