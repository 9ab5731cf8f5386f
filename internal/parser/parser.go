// Package parser provides the plain-text helpers for note bodies: line
// splitting, title derivation, and inline #tag extraction.
package parser

import (
	"regexp"
	"strings"

	"github.com/starford/ansuz/internal/models"
)

var (
	tagRe     = regexp.MustCompile(`(?:^|\s)#([A-Za-z][A-Za-z0-9_/-]*)`)
	newlineRe = regexp.MustCompile(`\r\n|\r|\n`)
)

// Result holds the output of parsing a note body.
type Result struct {
	Title string
	Tags  []string
}

// SplitLines splits text on any newline convention (\r\n, \r, \n).
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	return newlineRe.Split(text, -1)
}

// Parse derives a title and collects inline tags from raw body text.
func Parse(body string) *Result {
	return &Result{
		Title: DeriveTitle(body),
		Tags:  ExtractTags(body),
	}
}

// DeriveTitle returns the first non-empty line of the body with any leading
// Markdown heading markers stripped. Empty string when the body is blank.
func DeriveTitle(body string) string {
	for _, line := range SplitLines(body) {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		for strings.HasPrefix(trimmed, "#") {
			trimmed = strings.TrimPrefix(trimmed, "#")
		}
		return strings.TrimSpace(trimmed)
	}
	return ""
}

// ExtractTags collects normalized, deduplicated inline #tags from the body.
func ExtractTags(body string) []string {
	matches := tagRe.FindAllStringSubmatch(body, -1)
	raw := make([]string, 0, len(matches))
	for _, m := range matches {
		raw = append(raw, m[1])
	}
	return models.NormalizeTags(raw)
}
