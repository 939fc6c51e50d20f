package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/commt/commitments/internal/domain"
	"github.com/commt/commitments/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CtxUserID is the gin.Context key holding the authenticated user's UUID.
const CtxUserID = "userID"

// ──────────────────────────────────────────────────────────────────────────────
// JWTMiddleware
// ──────────────────────────────────────────────────────────────────────────────

// JWTMiddleware validates the Bearer token in the Authorization header.
// On success it stores userID (uuid.UUID) in the gin context.
func JWTMiddleware(authSvc *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			abortAuth(c, "ERR_UNAUTHORIZED", domain.ErrUnauthorized)
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		claims, err := authSvc.ParseAccessToken(tokenString)
		if err != nil {
			if errors.Is(err, domain.ErrTokenExpired) {
				abortAuth(c, "ERR_TOKEN_EXPIRED", domain.ErrTokenExpired)
				return
			}
			abortAuth(c, "ERR_TOKEN_INVALID", domain.ErrTokenInvalid)
			return
		}

		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			abortAuth(c, "ERR_TOKEN_INVALID", domain.ErrTokenInvalid)
			return
		}

		c.Set(CtxUserID, userID)
		c.Next()
	}
}

func abortAuth(c *gin.Context, code string, err error) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error":   err.Error(),
		"code":    code,
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Helper — extract userID from context (for use in handlers)
// ──────────────────────────────────────────────────────────────────────────────

// GetUserID retrieves the authenticated user's UUID from the gin context.
// Returns uuid.Nil if the middleware was not applied or the value is missing.
func GetUserID(c *gin.Context) uuid.UUID {
	v, exists := c.Get(CtxUserID)
	if !exists {
		return uuid.Nil
	}
	id, _ := v.(uuid.UUID)
	return id
}
