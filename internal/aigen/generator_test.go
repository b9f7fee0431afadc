package aigen

import (
	"strings"
	"testing"
)

func TestGenerateKnownTopic(t *testing.T) {
	g := NewGeneratorWithSeed(1)

	post, err := g.Generate("технологии", "блокчейн")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if post.Category != "технологии" {
		t.Errorf("expected category технологии, got %q", post.Category)
	}
	if post.Topic != "блокчейн" {
		t.Errorf("expected topic блокчейн, got %q", post.Topic)
	}
	if !strings.Contains(strings.ToLower(post.Title), "блокчейн") {
		t.Errorf("title should mention the topic, got %q", post.Title)
	}
	if !strings.Contains(post.Content, "## Основные факты") {
		t.Error("content should contain the facts section")
	}
	if !strings.Contains(post.Content, "## Источники информации") {
		t.Error("content should contain the sources section")
	}
	if post.Excerpt == "" || !strings.HasSuffix(post.Excerpt, ".") {
		t.Errorf("excerpt should be a sentence, got %q", post.Excerpt)
	}
	if post.ReadingTime < 1 {
		t.Errorf("reading time must be at least 1, got %d", post.ReadingTime)
	}
	if post.QualityScore <= 0 || post.QualityScore > 1 {
		t.Errorf("quality score out of range: %f", post.QualityScore)
	}
}

func TestGenerateTopicWithoutCategory(t *testing.T) {
	g := NewGeneratorWithSeed(2)

	post, err := g.Generate("", "космос и астрономия")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if post.Category != "наука" {
		t.Errorf("expected topic to resolve to category наука, got %q", post.Category)
	}
}

func TestGenerateUnknownTopic(t *testing.T) {
	g := NewGeneratorWithSeed(3)

	_, err := g.Generate("", "несуществующая тема")
	if err == nil {
		t.Fatal("expected error for unknown topic")
	}
}

func TestGenerateRandomTopicAvoidsRepeats(t *testing.T) {
	g := NewGeneratorWithSeed(4)

	first, err := g.Generate("технологии", "")
	if err != nil {
		t.Fatalf("first Generate failed: %v", err)
	}
	second, err := g.Generate("технологии", "")
	if err != nil {
		t.Fatalf("second Generate failed: %v", err)
	}

	if first.Topic == second.Topic {
		t.Errorf("consecutive generations picked the same topic %q", first.Topic)
	}
}

func TestGenerateTagsIncludeTopicAndCategory(t *testing.T) {
	g := NewGeneratorWithSeed(5)

	post, err := g.Generate("наука", "машинное обучение")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	hasTopic, hasCategory := false, false
	for _, tag := range post.Tags {
		if tag == "машинное обучение" {
			hasTopic = true
		}
		if tag == "наука" {
			hasCategory = true
		}
	}
	if !hasTopic || !hasCategory {
		t.Errorf("tags must include topic and category, got %v", post.Tags)
	}
	if len(post.Tags) < 3 {
		t.Errorf("expected additional tags, got %v", post.Tags)
	}
}

func TestTopicsListsAllCategories(t *testing.T) {
	g := NewGeneratorWithSeed(6)

	topics := g.Topics()
	for _, category := range []string{"технологии", "наука", "общество"} {
		if len(topics[category]) == 0 {
			t.Errorf("expected topics for category %q", category)
		}
	}
}
