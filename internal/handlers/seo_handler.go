package handlers

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"blogforge-backend/internal/config"
	"blogforge-backend/internal/models"
	"blogforge-backend/internal/service"
	"blogforge-backend/pkg/logger"
)

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// SEOHandler serves sitemap.xml and robots.txt.
type SEOHandler struct {
	postService     *service.PostService
	categoryService *service.CategoryService
	config          *config.Config
}

func NewSEOHandler(postService *service.PostService, categoryService *service.CategoryService, cfg *config.Config) *SEOHandler {
	return &SEOHandler{
		postService:     postService,
		categoryService: categoryService,
		config:          cfg,
	}
}

func (h *SEOHandler) Sitemap(c *gin.Context) {
	baseURL := h.normalizedBaseURL()
	if baseURL == "" {
		c.String(http.StatusInternalServerError, "Unable to determine site URL")
		return
	}

	posts, err := h.postService.ListPublishedForSitemap()
	if err != nil {
		logger.Error(err, "Failed to load posts for sitemap", nil)
		c.String(http.StatusInternalServerError, "Failed to build sitemap")
		return
	}

	categories, err := h.categoryService.GetAll(true)
	if err != nil {
		logger.Error(err, "Failed to load categories for sitemap", nil)
		c.String(http.StatusInternalServerError, "Failed to build sitemap")
		return
	}

	tags, err := h.postService.GetAllTags()
	if err != nil {
		logger.Error(err, "Failed to load tags for sitemap", nil)
		c.String(http.StatusInternalServerError, "Failed to build sitemap")
		return
	}

	urls := []sitemapURL{
		{Loc: baseURL + "/", ChangeFreq: "daily", Priority: "1.0"},
		{Loc: h.joinURL(baseURL, "/blog"), ChangeFreq: "daily", Priority: "0.8"},
	}

	for _, post := range posts {
		lastMod := post.UpdatedAt
		if lastMod.IsZero() {
			lastMod = post.CreatedAt
		}

		urls = append(urls, sitemapURL{
			Loc:        h.joinURL(baseURL, h.postPath(post)),
			LastMod:    h.formatLastMod(lastMod),
			ChangeFreq: "weekly",
			Priority:   "0.7",
		})
	}

	for _, category := range categories {
		if category.Slug == "" {
			continue
		}

		urls = append(urls, sitemapURL{
			Loc:        h.joinURL(baseURL, fmt.Sprintf("/category/%s", category.Slug)),
			ChangeFreq: "weekly",
			Priority:   "0.5",
		})
	}

	for _, tag := range tags {
		if tag.Slug == "" || tag.PostsCount == 0 {
			continue
		}

		urls = append(urls, sitemapURL{
			Loc:        h.joinURL(baseURL, fmt.Sprintf("/tag/%s", tag.Slug)),
			ChangeFreq: "weekly",
			Priority:   "0.4",
		})
	}

	response := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}

	c.Header("Cache-Control", "public, max-age=3600")
	c.XML(http.StatusOK, response)
}

func (h *SEOHandler) Robots(c *gin.Context) {
	baseURL := h.normalizedBaseURL()

	lines := []string{
		"User-agent: *",
		"Allow: /",
		"Disallow: /admin",
		"Disallow: /profile",
		"Disallow: /api/",
	}

	if baseURL != "" {
		lines = append(lines, fmt.Sprintf("Sitemap: %s", h.joinURL(baseURL, "/sitemap.xml")))
	}

	body := strings.Join(lines, "\n") + "\n"

	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(body))
}

func (h *SEOHandler) normalizedBaseURL() string {
	trimmed := strings.TrimSpace(h.config.SiteURL)
	return strings.TrimSuffix(trimmed, "/")
}

func (h *SEOHandler) joinURL(base, path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

func (h *SEOHandler) postPath(post models.Post) string {
	if post.Slug != "" {
		return fmt.Sprintf("/blog/post/%s", post.Slug)
	}
	return fmt.Sprintf("/blog/post/%d", post.ID)
}

func (h *SEOHandler) formatLastMod(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.UTC().Format(time.RFC3339)
}
