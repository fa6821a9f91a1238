package pipeline

import (
	"regexp"
	"strings"
)

const maxBaseNameLen = 50

var (
	unsafeChars = regexp.MustCompile(`[^\p{L}\p{N}_\s-]+`)
	dashRuns    = regexp.MustCompile(`[-\s]+`)
)

// safeBaseName turns an arbitrary media title into a lowercase slug safe for
// file names. Video titles arrive with whatever characters the uploader
// liked, and the slug ends up in download links.
func safeBaseName(name string) string {
	name = unsafeChars.ReplaceAllString(name, "")
	name = dashRuns.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-_ ")
	name = strings.ToLower(name)

	if runes := []rune(name); len(runes) > maxBaseNameLen {
		name = strings.Trim(string(runes[:maxBaseNameLen]), "-_ ")
	}
	if name == "" {
		name = "audio"
	}

	return name
}
