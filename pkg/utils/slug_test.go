package utils

import (
	"errors"
	"testing"
)

func TestGenerateSlug(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"  Spaces   Everywhere  ", "spaces-everywhere"},
		{"Что такое Go?", "chto-takoe-go"},
		{"Кэширование в Redis", "keshirovanie-v-redis"},
		{"C++ & Go: сравнение", "c-go-sravnenie"},
		{"---", ""},
	}

	for _, tc := range cases {
		if got := GenerateSlug(tc.in); got != tc.want {
			t.Errorf("GenerateSlug(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestUniqueSlugAppendsSuffix(t *testing.T) {
	taken := map[string]bool{
		"hello-world":   true,
		"hello-world-1": true,
	}
	exists := func(slug string) (bool, error) {
		return taken[slug], nil
	}

	slug, err := UniqueSlug("Hello World", exists)
	if err != nil {
		t.Fatalf("UniqueSlug returned error: %v", err)
	}
	if slug != "hello-world-2" {
		t.Fatalf("expected hello-world-2, got %q", slug)
	}
}

func TestUniqueSlugFirstUse(t *testing.T) {
	slug, err := UniqueSlug("Hello World", func(string) (bool, error) { return false, nil })
	if err != nil {
		t.Fatalf("UniqueSlug returned error: %v", err)
	}
	if slug != "hello-world" {
		t.Fatalf("expected hello-world, got %q", slug)
	}
}

func TestUniqueSlugEmptyTitle(t *testing.T) {
	slug, err := UniqueSlug("???", func(string) (bool, error) { return false, nil })
	if err != nil {
		t.Fatalf("UniqueSlug returned error: %v", err)
	}
	if slug != "untitled" {
		t.Fatalf("expected untitled fallback, got %q", slug)
	}
}

func TestUniqueSlugPropagatesError(t *testing.T) {
	wantErr := errors.New("db down")
	if _, err := UniqueSlug("Hello", func(string) (bool, error) { return false, wantErr }); !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestExcerpt(t *testing.T) {
	text := "<p>One two three four five six seven eight nine ten</p>"
	got := Excerpt(text, 20)
	if got != "One two three four..." {
		t.Fatalf("unexpected excerpt: %q", got)
	}

	short := Excerpt("short text", 200)
	if short != "short text" {
		t.Fatalf("short text should pass through, got %q", short)
	}
}

func TestReadingTimeMinimumOneMinute(t *testing.T) {
	if got := ReadingTime("a few words only"); got != 1 {
		t.Fatalf("expected 1 minute, got %d", got)
	}
}
