package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/blog-admin/internal/auth"
	"github.com/d60-Lab/blog-admin/pkg/response"
)

const ClaimsKey = "claims"

// JWTAuth 校验 Authorization: Bearer <token>
func JWTAuth(a *auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			response.Unauthorized(c, "missing bearer token")
			return
		}
		claims, err := a.Parse(token)
		if err != nil {
			response.Unauthorized(c, "invalid token")
			return
		}
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// RequireAuthority 需在 JWTAuth 之后使用
func RequireAuthority(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := c.Get(ClaimsKey)
		if !ok {
			response.Unauthorized(c, "not authenticated")
			return
		}
		if cl, _ := claims.(*auth.Claims); cl == nil || !cl.HasAuthority(name) {
			response.Forbidden(c)
			return
		}
		c.Next()
	}
}
