package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"blogforge-backend/internal/service"
)

type SearchHandler struct {
	searchService *service.SearchService
}

func NewSearchHandler(searchService *service.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

func (h *SearchHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	page, limit := paginationParams(c)

	results, err := h.searchService.Search(query, page, limit)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, results)
}

func (h *SearchHandler) SearchPosts(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	page, limit := paginationParams(c)

	posts, total, err := h.searchService.SearchPosts(query, page, limit)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, paginatedResponse(posts, total, page, limit))
}
