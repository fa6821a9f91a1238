// Package executor runs external tools (yt-dlp, ffmpeg, ffprobe) with
// captured output, so callers can fold stderr into their errors and tests
// can substitute a fake.
package executor

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Executor runs an external command and returns its stdout.
type Executor interface {
	Execute(ctx context.Context, name string, args ...string) (string, error)
}

type cmdExecutor struct{}

// New returns an Executor backed by os/exec.
func New() Executor {
	return &cmdExecutor{}
}

func (e *cmdExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%s: %w: %s", name, err, lastLine(msg))
		}
		return "", fmt.Errorf("%s: %w", name, err)
	}

	return stdout.String(), nil
}

// lastLine trims tool output down to its final line, which is where yt-dlp
// and ffmpeg put the actual failure reason.
func lastLine(s string) string {
	lines := strings.Split(s, "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
