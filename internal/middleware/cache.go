package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// CacheControl marks responses as publicly cacheable for maxAgeSeconds.
// A non-positive maxAgeSeconds sends "no-cache" so clients revalidate
// against Last-Modified on every load; only bundles with fingerprinted file
// names should get a positive value.
func CacheControl(maxAgeSeconds int) gin.HandlerFunc {
	value := "no-cache"
	if maxAgeSeconds > 0 {
		value = fmt.Sprintf("public, max-age=%d", maxAgeSeconds)
	}
	return func(c *gin.Context) {
		c.Header("Cache-Control", value)
		c.Next()
	}
}
