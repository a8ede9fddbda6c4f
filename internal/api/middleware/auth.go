package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/shelf/pkg/response"
	"github.com/d60-Lab/shelf/pkg/token"
)

const (
	ctxUserID   = "user_id"
	ctxUsername = "username"
)

// TokenParser verifies bearer tokens.
type TokenParser interface {
	Parse(raw string) (*token.Claims, error)
}

func bearer(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func authenticate(c *gin.Context, tp TokenParser) bool {
	raw := bearer(c)
	if raw == "" {
		return false
	}
	claims, err := tp.Parse(raw)
	if err != nil {
		return false
	}
	c.Set(ctxUserID, claims.ID)
	c.Set(ctxUsername, claims.Username)
	return true
}

// RequireAuth 校验 Bearer token，失败返回 401
func RequireAuth(tp TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, tp) {
			response.Unauthorized(c, "authentication required")
			return
		}
		c.Next()
	}
}

// OptionalAuth records the principal when a valid token is present and never rejects.
func OptionalAuth(tp TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		authenticate(c, tp)
		c.Next()
	}
}

// CurrentUserID returns the authenticated user id, or 0 and false for anonymous requests.
func CurrentUserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(ctxUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok && id > 0
}
