// Package vtt converts WebVTT caption files into flat plain text.
//
// The conversion classifies lines instead of parsing the full WebVTT grammar:
// the only consumer is a human reader, so cue identifiers, positioning
// metadata and inline styling left in the text are acceptable, and the
// classifier tolerates the format variations real caption files exhibit.
package vtt

import (
	"regexp"
	"strings"
)

var (
	// headerRe matches the mandatory WEBVTT header block up to and including
	// the first blank line.
	headerRe = regexp.MustCompile(`(?s)^WEBVTT.*?\n\n`)

	// timingRe matches a cue timing range; anything after the end timestamp
	// (cue settings like position or alignment) is ignored.
	timingRe = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{3} --> \d{2}:\d{2}:\d{2}\.\d{3}`)

	// cueNumberRe matches standalone cue sequence numbers.
	cueNumberRe = regexp.MustCompile(`^\d+$`)

	whitespaceRe = regexp.MustCompile(`\s+`)
)

// IsWellFormed reports whether raw begins with the WEBVTT header token.
// A well-formed caption resource always does; ToText still accepts input
// without it.
func IsWellFormed(raw string) bool {
	return strings.HasPrefix(strings.TrimPrefix(raw, "\uFEFF"), "WEBVTT")
}

// ToText converts raw WebVTT content to a plain-text transcript. The header
// block, cue numbers, timing lines and blank lines are dropped; surviving
// text lines are joined with single spaces and whitespace runs collapsed.
// The result has no leading or trailing whitespace.
//
// ToText is idempotent: running it on its own output returns the same text.
func ToText(raw string) string {
	content := strings.ReplaceAll(raw, "\r\n", "\n")
	content = strings.TrimPrefix(content, "\uFEFF")
	content = headerRe.ReplaceAllString(content, "")

	var textLines []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if cueNumberRe.MatchString(line) {
			continue
		}
		if timingRe.MatchString(line) {
			continue
		}
		textLines = append(textLines, line)
	}

	transcript := strings.Join(textLines, " ")
	transcript = whitespaceRe.ReplaceAllString(transcript, " ")
	return strings.TrimSpace(transcript)
}
