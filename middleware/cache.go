package middleware

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/navbryce/next-blog-be/services"
)

type bodyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (br *bodyRecorder) Write(data []byte) (int, error) {
	br.body.Write(data)
	return br.ResponseWriter.Write(data)
}

func (br *bodyRecorder) WriteString(s string) (int, error) {
	br.body.WriteString(s)
	return br.ResponseWriter.WriteString(s)
}

// PageCacheKey is keyPrefix:<viewer id or anon>:<request uri>.
func PageCacheKey(c *gin.Context, keyPrefix string) string {
	viewer := GetUserIdMaybe(c)
	if viewer == "" {
		viewer = "anon"
	}
	return keyPrefix + ":" + viewer + ":" + c.Request.URL.RequestURI()
}

// CachePage serves GET responses from cache while they are fresh. Only 200s are stored.
// Must run after GenAuth so the key sees the viewer.
func CachePage(cache *services.PageCache, keyPrefix string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}
		key := PageCacheKey(c, keyPrefix)
		if page, ok := cache.Get(key); ok {
			c.Data(page.Status, page.ContentType, page.Body)
			c.Abort()
			return
		}

		recorder := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = recorder
		c.Next()

		if recorder.Status() != http.StatusOK || c.IsAborted() {
			return
		}
		cache.Set(key, &services.CachedPage{
			Status:      recorder.Status(),
			ContentType: recorder.Header().Get("Content-Type"),
			Body:        append([]byte(nil), recorder.body.Bytes()...),
		})
	}
}
