package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/erp/grabfood/internal/interfaces/http/dto"
)

// APIKeyHeader carries the admin API key
const APIKeyHeader = "X-API-Key"

// APIKeyAuth guards admin routes with a static key list. An empty list leaves routes open.
func APIKeyAuth(keys []string) gin.HandlerFunc {
	accepted := make([][]byte, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			accepted = append(accepted, []byte(k))
		}
	}
	return func(c *gin.Context) {
		if len(accepted) == 0 {
			c.Next()
			return
		}
		given := []byte(c.GetHeader(APIKeyHeader))
		for _, k := range accepted {
			if subtle.ConstantTimeCompare(given, k) == 1 {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized,
			dto.NewErrorResponseWithRequestID(dto.ErrCodeUnauthorized, "Invalid or missing API key", GetRequestID(c)))
	}
}
