package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// secretEnvelope peeks only the secret field of a batch body. Binding with
// ShouldBindBodyWith buffers the body so handlers can bind it again.
type secretEnvelope struct {
	Secret string `json:"secret"`
}

// SharedSecret guards the 1C exchange surface. The secret may arrive as the
// `secret` query parameter or inside the JSON body envelope; absence or
// mismatch yields 401 before any ledger entry is created.
func SharedSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		supplied := c.Query("secret")
		if supplied == "" && c.Request.Body != nil && c.Request.Method != http.MethodGet {
			var envelope secretEnvelope
			if err := c.ShouldBindBodyWith(&envelope, binding.JSON); err == nil {
				supplied = envelope.Secret
			}
		}

		if secret == "" || subtle.ConstantTimeCompare([]byte(supplied), []byte(secret)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "UNAUTHORIZED", "message": "Invalid or missing secret"},
			})
			return
		}
		c.Next()
	}
}
