package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/muhohoweb/shoe-app/internal/interfaces/http/dto"
)

// BodyLimit returns a middleware that limits request body size.
// Requests with a declared Content-Length over the limit are rejected
// up front; streaming bodies are capped with a MaxBytesReader.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponse(dto.ErrCodeBadRequest, "Request body exceeds maximum allowed size"))
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
