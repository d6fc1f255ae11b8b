package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pharmalink/backend/internal/interfaces/http/dto"
)

// BodyLimit caps request bodies at maxBytes. A non-positive limit disables it.
//
// A Content-Length above the limit is answered with 413 before the handler
// runs. Bodies without a declared length are wrapped in http.MaxBytesReader,
// so an oversize stream fails when the handler decodes it.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	if maxBytes <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		if c.Request.Body == nil || c.Request.Body == http.NoBody {
			c.Next()
			return
		}
		if c.Request.ContentLength > maxBytes {
			abortTooLarge(c)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func abortTooLarge(c *gin.Context) {
	c.Header("Connection", "close")
	c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeRequestTooLarge,
		"Request body exceeds maximum allowed size",
		GetRequestID(c),
	))
}
