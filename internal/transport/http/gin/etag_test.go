package httpgin

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestWriteJSONWithCache(t *testing.T) {
	gin.SetMode(gin.TestMode)

	payload := map[string]string{"city": "TLV"}

	r := gin.New()
	r.GET("/", func(c *gin.Context) {
		writeJSONWithCache(c, http.StatusOK, payload, "public, max-age=60", true)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "public, max-age=60", w.Header().Get("Cache-Control"))

	tag := w.Header().Get("ETag")
	assert.NotEmpty(t, tag)
	assert.True(t, len(tag) > 2 && tag[:2] == "W/")

	t.Run("304 on matching If-None-Match", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("If-None-Match", tag)

		w2 := httptest.NewRecorder()
		r.ServeHTTP(w2, req)

		assert.Equal(t, http.StatusNotModified, w2.Code)
		assert.Empty(t, w2.Body.String())
	})

	t.Run("full body on stale If-None-Match", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("If-None-Match", `W/"stale"`)

		w2 := httptest.NewRecorder()
		r.ServeHTTP(w2, req)

		assert.Equal(t, http.StatusOK, w2.Code)
		assert.JSONEq(t, `{"city":"TLV"}`, w2.Body.String())
	})
}
