package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const secretHeader = "X-Secret-Key"

// RequireSecret rejects any request whose X-Secret-Key header does not
// equal the configured shared secret. Nothing past this middleware runs on
// a mismatch, so no remote call can be triggered by an unauthorized caller.
func RequireSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader(secretHeader) != secret {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		c.Next()
	}
}
