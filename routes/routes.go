package routes

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/navbryce/next-blog-be/config"
	"github.com/navbryce/next-blog-be/controllers"
	"github.com/navbryce/next-blog-be/db"
	"github.com/navbryce/next-blog-be/middleware"
	"github.com/navbryce/next-blog-be/services"
	"github.com/navbryce/next-blog-be/templates"
)

type Dependencies struct {
	DB        db.Database
	Verifier  middleware.TokenVerifier
	Media     services.MediaStore
	PageCache *services.PageCache
}

// Register loads the page templates and mounts every route group on r.
func Register(r *gin.Engine, deps *Dependencies, cfg *config.Config) error {
	tmpl, err := templates.New(deps.Media, cfg.LoginURL)
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	controller := controllers.NewPostController(deps.DB, deps.Media)
	AddHealthCheckRoutes(&r.RouterGroup)
	AddUserRoutes(&r.RouterGroup, deps.DB, deps.Verifier)
	AddGroupRoutes(&r.RouterGroup, deps.DB, deps.Verifier)
	AddCacheRoutes(&r.RouterGroup, deps.DB, deps.Verifier, deps.PageCache)
	AddPostRoutes(&r.RouterGroup, deps.DB, controller, deps.Verifier, deps.PageCache, cfg)
	AddFollowRoutes(&r.RouterGroup, deps.DB, deps.Verifier, cfg)
	if memoryMedia, ok := deps.Media.(*services.MemoryMediaStore); ok {
		AddMediaRoutes(&r.RouterGroup, memoryMedia)
	}
	return nil
}
