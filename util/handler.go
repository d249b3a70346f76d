package util

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const ErrorTemplate = "core/error.html"

type HandlerOpts struct {
	// Status overrides the 200 sent with successful responses
	Status int
}

type JSONHandler func(c *gin.Context) (interface{}, *HTTPError)

// HandlerWrapper adapts a JSON handler to gin, wrapping the result in the
// {"success", "data"} envelope.
func HandlerWrapper(handler JSONHandler, opts *HandlerOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, httpErr := handler(c)
		if httpErr != nil {
			HandleHTTPErrorRes(c, httpErr)
			return
		}
		status := http.StatusOK
		if opts != nil && opts.Status != 0 {
			status = opts.Status
		}
		c.JSON(status, gin.H{
			"success": true,
			"data":    data,
		})
	}
}

// PageHandler renders or redirects on its own and only returns errors.
type PageHandler func(c *gin.Context) *HTTPError

// PageWrapper renders the error page for any HTTPError the handler returns.
func PageWrapper(handler PageHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		if httpErr := handler(c); httpErr != nil {
			HandleHTTPErrorPage(c, httpErr)
		}
	}
}

func HandleHTTPErrorPage(c *gin.Context, err *HTTPError) {
	c.HTML(err.Status, ErrorTemplate, gin.H{
		"status":  err.Status,
		"message": err.Message,
		"path":    c.Request.URL.Path,
	})
	c.Abort()
}
