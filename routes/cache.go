package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/navbryce/next-blog-be/db"
	"github.com/navbryce/next-blog-be/middleware"
	"github.com/navbryce/next-blog-be/services"
	"github.com/navbryce/next-blog-be/util"
)

type cacheRoutes struct {
	pageCache *services.PageCache
}

// AddCacheRoutes exposes manual invalidation of the page cache. Writes never clear it;
// entries otherwise live out their TTL.
func AddCacheRoutes(group *gin.RouterGroup, db db.Database, verifier middleware.TokenVerifier, pageCache *services.PageCache) {
	routes := cacheRoutes{pageCache}
	cache := group.Group("/cache",
		middleware.GenAuth(db, verifier, &middleware.AuthConfig{SessionRequired: true}),
		middleware.RequireAccount(),
		middleware.RequireAdmin())
	cache.DELETE("", util.HandlerWrapper(routes.clearCache, &util.HandlerOpts{}))
}

func (cr *cacheRoutes) clearCache(c *gin.Context) (interface{}, *util.HTTPError) {
	cleared := cr.pageCache.Len()
	cr.pageCache.Clear()
	return gin.H{
		"cleared": cleared,
	}, nil
}
