package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"blogforge-backend/pkg/cache"
)

type CacheHandler struct {
	cache *cache.Cache
}

func NewCacheHandler(cacheService *cache.Cache) *CacheHandler {
	return &CacheHandler{cache: cacheService}
}

// Flush drops every cached entry. Admin only.
func (h *CacheHandler) Flush(c *gin.Context) {
	if h.cache == nil || !h.cache.Enabled() {
		c.JSON(http.StatusOK, gin.H{"message": "cache is disabled, nothing to flush"})
		return
	}

	if err := h.cache.FlushAll(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to flush cache"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "cache flushed"})
}
