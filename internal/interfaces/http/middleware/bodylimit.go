package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/erp/grabfood/internal/interfaces/http/dto"
)

// DefaultMaxBodySize bounds webhook and admin request bodies
const DefaultMaxBodySize int64 = 10 << 20

// BodyLimit rejects bodies declared larger than maxBytes and caps streamed bodies
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodySize
	}
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeRequestTooLarge, "Request body exceeds maximum allowed size", GetRequestID(c)))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
