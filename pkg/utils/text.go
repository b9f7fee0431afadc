package utils

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
	"strings"
)

var htmlTagPattern = regexp.MustCompile(`<[^>]+>`)

func StripTags(s string) string {
	return htmlTagPattern.ReplaceAllString(s, "")
}

// Excerpt truncates plain text to at most length runes, preferring a word
// boundary, and appends an ellipsis.
func Excerpt(content string, length int) string {
	text := strings.TrimSpace(StripTags(content))
	runes := []rune(text)
	if len(runes) <= length {
		return text
	}

	cut := string(runes[:length])
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "..."
}

// ReadingTime estimates minutes to read at 200 words per minute, minimum 1.
func ReadingTime(content string) int {
	words := len(strings.Fields(StripTags(content)))
	minutes := words / 200
	if minutes < 1 {
		return 1
	}
	return minutes
}

func CountWords(content string) int {
	return len(strings.Fields(StripTags(content)))
}

// NormalizeTagName lowercases a tag and collapses surrounding whitespace.
func NormalizeTagName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// RandomString returns n hex characters from a cryptographic source.
func RandomString(n int) string {
	buf := make([]byte, (n+1)/2)
	rand.Read(buf)
	return hex.EncodeToString(buf)[:n]
}
