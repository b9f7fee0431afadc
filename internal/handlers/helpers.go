package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

func currentUserID(c *gin.Context) (uint, bool) {
	val, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	id, ok := val.(uint)
	return id, ok
}

func isAdmin(c *gin.Context) bool {
	role, exists := c.Get("role")
	return exists && role == "admin"
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

func paginationParams(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	return page, limit
}

func paginatedResponse(items interface{}, total int64, page, limit int) gin.H {
	if limit < 1 {
		limit = 20
	}
	if page < 1 {
		page = 1
	}
	pages := (total + int64(limit) - 1) / int64(limit)
	return gin.H{
		"items": items,
		"total": total,
		"page":  page,
		"limit": limit,
		"pages": pages,
	}
}
