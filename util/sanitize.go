package util

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var XSSPolicy = bluemonday.UGCPolicy()

// XSSSanitize sanitizes of HTML and returns the unescaped HTML
func XSSSanitize(val string) string {
	return html.UnescapeString(XSSPolicy.Sanitize(val))
}

// CleanText trims and sanitizes user submitted text. Blank input stays blank.
func CleanText(val string) string {
	return strings.TrimSpace(XSSSanitize(strings.TrimSpace(val)))
}
