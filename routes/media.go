package routes

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/navbryce/next-blog-be/services"
	"github.com/navbryce/next-blog-be/util"
)

const MediaPath = "/media/"

// AddMediaRoutes serves blobs held by an in-process media store. Deployments backed
// by the storage bucket link to the bucket directly.
func AddMediaRoutes(group *gin.RouterGroup, store *services.MemoryMediaStore) {
	group.GET(MediaPath+"*blob", util.PageWrapper(func(c *gin.Context) *util.HTTPError {
		contentType, content, ok := store.Get(strings.TrimPrefix(c.Param("blob"), "/"))
		if !ok {
			httpErr := util.NotFoundHTTPErr
			return &httpErr
		}
		c.Data(http.StatusOK, contentType, content)
		return nil
	}))
}
