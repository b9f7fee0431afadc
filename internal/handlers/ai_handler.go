package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"blogforge-backend/internal/models"
	"blogforge-backend/internal/service"
)

type AIHandler struct {
	aiService *service.AIService
}

func NewAIHandler(aiService *service.AIService) *AIHandler {
	return &AIHandler{aiService: aiService}
}

func (h *AIHandler) ensureService(c *gin.Context) bool {
	if h == nil || h.aiService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "content generation is disabled"})
		return false
	}
	return true
}

func (h *AIHandler) Generate(c *gin.Context) {
	if !h.ensureService(c) {
		return
	}

	var req models.GenerateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.aiService.GenerateBatch(req.Count, req.Category, req.Topic, req.Publish, false)
	if err != nil {
		if errors.Is(err, service.ErrDailyCapReached) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error(), "result": result})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
}

func (h *AIHandler) Topics(c *gin.Context) {
	if !h.ensureService(c) {
		return
	}

	c.JSON(http.StatusOK, gin.H{"topics": h.aiService.Manager().Generator().Topics()})
}

func (h *AIHandler) TestProviders(c *gin.Context) {
	if !h.ensureService(c) {
		return
	}

	manager := h.aiService.Manager()
	if !manager.HasProviders() {
		c.JSON(http.StatusOK, gin.H{
			"providers": []string{},
			"message":   "no external providers configured, template generation only",
		})
		return
	}

	results := manager.TestProviders(c.Request.Context())
	statuses := make(map[string]string, len(results))
	for name, err := range results {
		if err != nil {
			statuses[name] = err.Error()
		} else {
			statuses[name] = "ok"
		}
	}

	c.JSON(http.StatusOK, gin.H{"providers": statuses})
}
