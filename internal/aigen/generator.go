package aigen

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"blogforge-backend/pkg/utils"
)

var ErrUnknownTopic = errors.New("topic not present in any category bank")

// GeneratedPost is the output of one generation run, ready to be persisted
// as a draft or published post.
type GeneratedPost struct {
	Title        string
	Content      string
	Excerpt      string
	Category     string
	Topic        string
	Tags         []string
	ReadingTime  int
	QualityScore float64
}

// Generator assembles posts from the fixed template banks.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand

	// recent topics, capped, to avoid generating the same topic twice in a row
	history    []string
	maxHistory int
}

func NewGenerator() *Generator {
	return &Generator{
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		maxHistory: 20,
	}
}

// NewGeneratorWithSeed returns a deterministic generator.
func NewGeneratorWithSeed(seed int64) *Generator {
	return &Generator{
		rng:        rand.New(rand.NewSource(seed)),
		maxHistory: 20,
	}
}

// Generate produces a post for the given category and topic. Empty category
// or topic picks a random one from the banks, preferring topics not generated
// recently.
func (g *Generator) Generate(category, topic string) (*GeneratedPost, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	category, topic, facts, err := g.resolve(category, topic)
	if err != nil {
		return nil, err
	}

	title := fmt.Sprintf(g.pick(titleTemplates), capitalize(topic))
	content := g.buildContent(topic, facts)
	excerpt := buildExcerpt(content)

	g.remember(topic)

	return &GeneratedPost{
		Title:        title,
		Content:      content,
		Excerpt:      excerpt,
		Category:     category,
		Topic:        topic,
		Tags:         g.buildTags(topic, category),
		ReadingTime:  utils.ReadingTime(content),
		QualityScore: qualityScore(content, facts),
	}, nil
}

// Topics lists every known topic grouped by category.
func (g *Generator) Topics() map[string][]string {
	result := make(map[string][]string, len(topicBank))
	for category, topics := range topicBank {
		for topic := range topics {
			result[category] = append(result[category], topic)
		}
	}
	return result
}

func (g *Generator) resolve(category, topic string) (string, string, topicFacts, error) {
	if topic != "" {
		topic = strings.ToLower(strings.TrimSpace(topic))
		if category != "" {
			if facts, ok := topicBank[category][topic]; ok {
				return category, topic, facts, nil
			}
		}
		for cat, topics := range topicBank {
			if facts, ok := topics[topic]; ok {
				return cat, topic, facts, nil
			}
		}
		return "", "", topicFacts{}, fmt.Errorf("%w: %q", ErrUnknownTopic, topic)
	}

	if category == "" || topicBank[category] == nil {
		categories := make([]string, 0, len(topicBank))
		for cat := range topicBank {
			categories = append(categories, cat)
		}
		category = categories[g.rng.Intn(len(categories))]
	}

	topics := make([]string, 0, len(topicBank[category]))
	for t := range topicBank[category] {
		if !g.seenRecently(t) {
			topics = append(topics, t)
		}
	}
	if len(topics) == 0 {
		for t := range topicBank[category] {
			topics = append(topics, t)
		}
	}

	topic = topics[g.rng.Intn(len(topics))]
	return category, topic, topicBank[category][topic], nil
}

func (g *Generator) buildContent(topic string, facts topicFacts) string {
	var b strings.Builder

	fmt.Fprintf(&b, g.pick(introTemplates), topic)
	b.WriteString("\n\n")

	if len(facts.Facts) > 0 {
		b.WriteString("## Основные факты\n\n")
		for i, fact := range facts.Facts {
			fmt.Fprintf(&b, "%d. ", i+1)
			fmt.Fprintf(&b, g.pick(evidenceTemplates), fact)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("## Практическое применение\n\n")
	fmt.Fprintf(&b, "Знания о %s находят применение в различных областях:\n\n", topic)
	b.WriteString("- Исследовательская деятельность\n")
	b.WriteString("- Образовательные программы\n")
	b.WriteString("- Практические решения\n\n")

	b.WriteString("## Перспективы развития\n\n")
	fmt.Fprintf(&b, "Развитие %s открывает новые возможности для:\n\n", topic)
	b.WriteString("- Углубления научных знаний\n")
	b.WriteString("- Создания инновационных решений\n")
	b.WriteString("- Междисциплинарного сотрудничества\n\n")

	fmt.Fprintf(&b, g.pick(conclusionTemplates), topic)

	if len(facts.Sources) > 0 {
		b.WriteString("\n\n## Источники информации\n\n")
		fmt.Fprintf(&b, "Материал подготовлен на основе данных из: %s.", strings.Join(facts.Sources, ", "))
	}

	return b.String()
}

func (g *Generator) buildTags(topic, category string) []string {
	tags := []string{topic, category}

	extra, ok := categoryTags[category]
	if !ok {
		extra = defaultTags
	}
	extra = append([]string(nil), extra...)
	g.rng.Shuffle(len(extra), func(i, j int) { extra[i], extra[j] = extra[j], extra[i] })

	n := 3
	if len(extra) < n {
		n = len(extra)
	}
	return append(tags, extra[:n]...)
}

func (g *Generator) pick(templates []string) string {
	return templates[g.rng.Intn(len(templates))]
}

func (g *Generator) remember(topic string) {
	g.history = append(g.history, topic)
	if len(g.history) > g.maxHistory {
		g.history = g.history[len(g.history)-g.maxHistory:]
	}
}

func (g *Generator) seenRecently(topic string) bool {
	for _, t := range g.history {
		if t == topic {
			return true
		}
	}
	return false
}

func buildExcerpt(content string) string {
	first, _, _ := strings.Cut(content, ".")
	clean := strings.NewReplacer("#", "", "*", "", "`", "").Replace(first)
	clean = strings.TrimSpace(clean)

	runes := []rune(clean)
	if len(runes) > 147 {
		clean = string(runes[:147]) + "..."
	}
	return clean + "."
}

// qualityScore is a rough heuristic over 0..1 rewarding length, structure
// and fact coverage.
func qualityScore(content string, facts topicFacts) float64 {
	score := 0.4

	words := utils.CountWords(content)
	if words >= 150 {
		score += 0.2
	} else if words >= 80 {
		score += 0.1
	}

	if strings.Count(content, "## ") >= 3 {
		score += 0.2
	}

	if len(facts.Facts) >= 3 {
		score += 0.2
	} else if len(facts.Facts) > 0 {
		score += 0.1
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}

func capitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	return strings.ToUpper(string(runes[0])) + string(runes[1:])
}
