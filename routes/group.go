package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/navbryce/next-blog-be/db"
	"github.com/navbryce/next-blog-be/middleware"
	"github.com/navbryce/next-blog-be/util"
)

type groupRoutes struct {
	db db.Database
}

// AddGroupRoutes exposes group administration. Only admins may call it.
func AddGroupRoutes(group *gin.RouterGroup, db db.Database, verifier middleware.TokenVerifier) {
	routes := groupRoutes{db}
	groups := group.Group("/groups",
		middleware.GenAuth(db, verifier, &middleware.AuthConfig{SessionRequired: true}),
		middleware.RequireAccount(),
		middleware.RequireAdmin())
	groups.PUT("", util.HandlerWrapper(routes.createGroup, &util.HandlerOpts{Status: http.StatusCreated}))
	groups.DELETE("/:slug", util.HandlerWrapper(routes.deleteGroup, &util.HandlerOpts{}))
}

type createGroupReq struct {
	Title       string `json:"title" binding:"required,max=200"`
	Slug        string `json:"slug" binding:"required,max=50,slug"`
	Description string `json:"description"`
}

func (gr *groupRoutes) createGroup(c *gin.Context) (interface{}, *util.HTTPError) {
	var req createGroupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	id, err := gr.db.CreateGroup(c, &db.CreateGroup{
		Title:       util.CleanText(req.Title),
		Slug:        req.Slug,
		Description: util.CleanText(req.Description),
	})
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return gin.H{
		"id": id,
	}, nil
}

// deleteGroup keeps the group's posts; they lose their group.
func (gr *groupRoutes) deleteGroup(c *gin.Context) (interface{}, *util.HTTPError) {
	group, err := gr.db.GetGroupBySlug(c, c.Param("slug"))
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	if err := gr.db.DeleteGroup(c, group.Id); err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return nil, nil
}
