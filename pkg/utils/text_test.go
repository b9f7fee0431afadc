package utils

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestExcerptShortTextUntouched(t *testing.T) {
	if got := Excerpt("<p>Short note</p>", 200); got != "Short note" {
		t.Fatalf("expected tags stripped and text untouched, got %q", got)
	}
}

func TestExcerptCutsAtWordBoundary(t *testing.T) {
	got := Excerpt("one two three four five", 13)
	if got != "one two..." {
		t.Fatalf("expected cut at word boundary, got %q", got)
	}
}

func TestExcerptKeepsMultibyteRunesIntact(t *testing.T) {
	text := strings.Repeat("я", 150)
	got := Excerpt(text, 120)
	if !utf8.ValidString(got) {
		t.Fatalf("excerpt produced invalid UTF-8: %q", got)
	}
	if utf8.RuneCountInString(got) != 123 {
		t.Fatalf("expected 120 runes plus ellipsis, got %d", utf8.RuneCountInString(got))
	}
}

func TestExcerptCountsRunesNotBytes(t *testing.T) {
	text := strings.Repeat("я", 150)
	if got := Excerpt(text, 201); got != text {
		t.Fatalf("150-rune text must fit a 201-rune budget, got %q", got)
	}
}
