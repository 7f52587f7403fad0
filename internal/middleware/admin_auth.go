package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"movie-discovery-service/internal/model"

	"github.com/gin-gonic/gin"
)

// AdminAuth returns a middleware that validates the admin API key.
// If apiKey is empty, authentication is disabled.
func AdminAuth(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			c.Next()
			return
		}

		// 支持 "Bearer <token>" 和 "ApiKey <token>" 格式
		auth := c.GetHeader("Authorization")
		if auth == "" {
			// 也支持从查询参数获取（方便测试）
			auth = c.Query("api_key")
			if auth == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, model.APIResponse{
					Code:  http.StatusUnauthorized,
					Error: "unauthorized: missing API key",
				})
				return
			}
		} else {
			auth = strings.TrimPrefix(auth, "Bearer ")
			auth = strings.TrimPrefix(auth, "ApiKey ")
		}

		if subtle.ConstantTimeCompare([]byte(auth), []byte(apiKey)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, model.APIResponse{
				Code:  http.StatusForbidden,
				Error: "forbidden: invalid API key",
			})
			return
		}

		c.Next()
	}
}
