// Package seo scores post content with a regex-based heuristic. The score
// starts at 100 and loses fixed points per detected issue.
package seo

import (
	"regexp"
	"strings"

	"blogforge-backend/pkg/utils"
)

type ContentAnalysis struct {
	WordCount        int      `json:"word_count"`
	HeadingCount     int      `json:"heading_count"`
	H1Count          int      `json:"h1_count"`
	ImageCount       int      `json:"image_count"`
	ImagesWithoutAlt int      `json:"images_without_alt"`
	InternalLinks    int      `json:"internal_links"`
	ExternalLinks    int      `json:"external_links"`
	TitleLength      int      `json:"title_length"`
	MetaLength       int      `json:"meta_length"`
	Score            int      `json:"score"`
	Recommendations  []string `json:"recommendations"`
}

var (
	headingHTMLRe     = regexp.MustCompile(`(?i)<h[1-6][^>]*>`)
	h1HTMLRe          = regexp.MustCompile(`(?i)<h1[^>]*>`)
	headingMarkdownRe = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	h1MarkdownRe      = regexp.MustCompile(`(?m)^#\s+`)
	imageHTMLRe       = regexp.MustCompile(`(?i)<img[^>]*>`)
	imageAltRe        = regexp.MustCompile(`(?i)alt\s*=\s*"[^"]{2,}"`)
	imageMarkdownRe   = regexp.MustCompile(`!\[([^\]]*)\]\([^)]+\)`)
	internalLinkRe    = regexp.MustCompile(`\[[^\]]+\]\(/[^)]+\)|(?i)<a[^>]+href\s*=\s*"/[^"]*"`)
	externalLinkRe    = regexp.MustCompile(`\[[^\]]+\]\(https?://[^)]+\)|(?i)<a[^>]+href\s*=\s*"https?://[^"]*"`)
)

const (
	minWordCount   = 300
	titleMinLength = 20
	titleMaxLength = 70
	metaMinLength  = 50
	metaMaxLength  = 160
)

// Analyze inspects markdown or HTML content and returns structural counts
// plus a 0..100 score.
func Analyze(title, content, metaDescription string) *ContentAnalysis {
	analysis := &ContentAnalysis{
		WordCount:   utils.CountWords(utils.StripTags(content)),
		TitleLength: len([]rune(title)),
		MetaLength:  len([]rune(metaDescription)),
	}

	analysis.HeadingCount = len(headingHTMLRe.FindAllString(content, -1)) +
		len(headingMarkdownRe.FindAllString(content, -1))
	analysis.H1Count = len(h1HTMLRe.FindAllString(content, -1)) +
		len(h1MarkdownRe.FindAllString(content, -1))

	htmlImages := imageHTMLRe.FindAllString(content, -1)
	analysis.ImageCount = len(htmlImages) + len(imageMarkdownRe.FindAllString(content, -1))
	for _, img := range htmlImages {
		if !imageAltRe.MatchString(img) {
			analysis.ImagesWithoutAlt++
		}
	}
	for _, match := range imageMarkdownRe.FindAllStringSubmatch(content, -1) {
		if len(strings.TrimSpace(match[1])) < 2 {
			analysis.ImagesWithoutAlt++
		}
	}

	analysis.InternalLinks = len(internalLinkRe.FindAllString(content, -1))
	analysis.ExternalLinks = len(externalLinkRe.FindAllString(content, -1))

	analysis.Score, analysis.Recommendations = score(analysis)
	return analysis
}

func score(a *ContentAnalysis) (int, []string) {
	total := 100
	var recommendations []string

	deduct := func(points int, recommendation string) {
		total -= points
		recommendations = append(recommendations, recommendation)
	}

	if a.WordCount < minWordCount {
		deduct(20, "Увеличьте объем контента: рекомендуется не менее 300 слов")
	}
	if a.HeadingCount == 0 {
		deduct(15, "Добавьте заголовки H2 и H3 для структурирования текста")
	}
	if a.H1Count > 1 {
		deduct(5, "Используйте только один заголовок H1")
	}
	if a.ImageCount == 0 {
		deduct(5, "Добавьте изображения к посту")
	}
	if a.ImagesWithoutAlt > 0 {
		deduct(10, "Добавьте alt-текст к изображениям")
	}
	if a.InternalLinks == 0 {
		deduct(10, "Добавьте внутренние ссылки на релевантные страницы")
	}
	if a.ExternalLinks == 0 {
		deduct(5, "Добавьте авторитетные внешние ссылки")
	}
	if a.TitleLength < titleMinLength || a.TitleLength > titleMaxLength {
		deduct(10, "Оптимизируйте длину заголовка: от 20 до 70 символов")
	}
	if a.MetaLength < metaMinLength || a.MetaLength > metaMaxLength {
		deduct(10, "Создайте мета-описание длиной от 50 до 160 символов")
	}

	if total < 0 {
		total = 0
	}
	return total, recommendations
}
