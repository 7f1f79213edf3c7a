package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGuardedRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	guarded := r.Group("/sync", SharedSecret(secret))
	guarded.GET("/orders/queued", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	guarded.POST("/stock", func(c *gin.Context) {
		var body struct {
			Items []struct {
				ProductGUID string `json:"productGuid"`
			} `json:"items"`
		}
		if err := c.ShouldBindBodyWith(&body, binding.JSON); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "items": len(body.Items)})
	})
	return r
}

func TestSharedSecret(t *testing.T) {
	t.Run("accepts the secret as a query parameter", func(t *testing.T) {
		r := newGuardedRouter("s3cret-s3cret-s3c")

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/sync/orders/queued?secret=s3cret-s3cret-s3c", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("accepts the secret inside the body envelope", func(t *testing.T) {
		r := newGuardedRouter("s3cret-s3cret-s3c")

		payload := `{"secret":"s3cret-s3cret-s3c","items":[{"productGuid":"p-1"},{"productGuid":"p-2"}]}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/sync/stock", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		// The handler must still be able to bind the buffered body.
		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, float64(2), resp["items"])
	})

	t.Run("rejects a wrong secret", func(t *testing.T) {
		r := newGuardedRouter("s3cret-s3cret-s3c")

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/sync/orders/queued?secret=wrong", nil)
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusUnauthorized, w.Code)

		var resp struct {
			Success bool `json:"success"`
			Error   struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, "UNAUTHORIZED", resp.Error.Code)
	})

	t.Run("rejects a missing secret", func(t *testing.T) {
		r := newGuardedRouter("s3cret-s3cret-s3c")

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/sync/stock", strings.NewReader(`{"items":[]}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("locks the surface when no secret is configured", func(t *testing.T) {
		r := newGuardedRouter("")

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/sync/orders/queued?secret=", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
