package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ──────────────────────────────────────────────────────────────────────────────
// Standard response helpers
// ──────────────────────────────────────────────────────────────────────────────

// respondSuccess writes {"success": true, "data": data} with the given status.
func respondSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

// respondError writes {"success": false, "error": msg, "code": code}.
func respondError(c *gin.Context, status int, code, msg string) {
	respondErrorWith(c, status, code, msg, nil)
}

// respondErrorWith adds extra top-level fields to the error envelope, such
// as a navigation hint.
func respondErrorWith(c *gin.Context, status int, code, msg string, extra gin.H) {
	body := gin.H{
		"success": false,
		"error":   msg,
		"code":    code,
	}
	for k, v := range extra {
		body[k] = v
	}
	c.AbortWithStatusJSON(status, body)
}

// respondList writes {"success": true, "data": items, "meta": meta}.
func respondList(c *gin.Context, items interface{}, total int, meta gin.H) {
	m := gin.H{"total": total}
	for k, v := range meta {
		m[k] = v
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    items,
		"meta":    m,
	})
}
