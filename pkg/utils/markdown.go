package utils

import (
	"bytes"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"blogforge-backend/pkg/logger"
)

var (
	markdownOnce  sync.Once
	markdown      goldmark.Markdown
	postPolicy    *bluemonday.Policy
	commentPolicy *bluemonday.Policy
)

func initMarkdown() {
	markdownOnce.Do(func() {
		markdown = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		)

		postPolicy = bluemonday.UGCPolicy()
		postPolicy.AllowAttrs("loading").OnElements("img")

		// Comments only get inline formatting, links and quotes.
		commentPolicy = bluemonday.NewPolicy()
		commentPolicy.AllowElements("a", "b", "code", "em", "i", "strong", "p", "br", "blockquote")
		commentPolicy.AllowAttrs("href", "rel", "title").OnElements("a")
		commentPolicy.RequireNoFollowOnLinks(true)
	})
}

// RenderPostHTML converts post markdown to sanitized HTML.
func RenderPostHTML(content string) string {
	initMarkdown()

	var buf bytes.Buffer
	if err := markdown.Convert([]byte(content), &buf); err != nil {
		logger.Error(err, "Failed to render markdown", nil)
		return postPolicy.Sanitize(content)
	}
	return postPolicy.Sanitize(buf.String())
}

// RenderCommentHTML converts comment markdown to HTML with a restricted tag set.
func RenderCommentHTML(content string) string {
	initMarkdown()

	var buf bytes.Buffer
	if err := markdown.Convert([]byte(content), &buf); err != nil {
		logger.Error(err, "Failed to render comment markdown", nil)
		return commentPolicy.Sanitize(content)
	}
	return commentPolicy.Sanitize(buf.String())
}
