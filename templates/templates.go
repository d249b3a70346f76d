package templates

import (
	"embed"
	"html/template"
	"time"

	"github.com/navbryce/next-blog-be/services"
)

//go:embed html
var files embed.FS

const dateLayout = "2 January 2006"

// New parses every page. Pages are addressed by their {{define}} name, e.g. "posts/index.html".
func New(media services.MediaStore, loginURL string) (*template.Template, error) {
	funcs := template.FuncMap{
		"loginURL": func() string {
			return loginURL
		},
		"media": func(blobName string) string {
			if blobName == "" {
				return ""
			}
			return media.URL(blobName)
		},
		"date": func(t time.Time) string {
			return t.Format(dateLayout)
		},
	}
	return template.New("").Funcs(funcs).ParseFS(files, "html/*.html", "html/*/*.html")
}
