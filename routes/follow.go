package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/navbryce/next-blog-be/app"
	"github.com/navbryce/next-blog-be/config"
	"github.com/navbryce/next-blog-be/db"
	"github.com/navbryce/next-blog-be/middleware"
	"github.com/navbryce/next-blog-be/model"
	"github.com/navbryce/next-blog-be/util"
)

type followRoutes struct {
	db      db.Database
	perPage int
}

func AddFollowRoutes(group *gin.RouterGroup, db db.Database, verifier middleware.TokenVerifier, cfg *config.Config) {
	routes := followRoutes{db: db, perPage: cfg.PageSize}
	follows := group.Group("",
		middleware.GenAuth(db, verifier, &middleware.AuthConfig{}),
		middleware.RequireLogin(cfg.LoginURL))
	follows.GET("/follow/", util.PageWrapper(routes.followIndex))
	follows.GET("/profile/:username/follow/", util.PageWrapper(routes.follow))
	follows.GET("/profile/:username/unfollow/", util.PageWrapper(routes.unfollow))
}

func (fr *followRoutes) followIndex(c *gin.Context) *util.HTTPError {
	user := middleware.MustGetUser(c)
	page, err := app.GetFeedForUser(c, fr.db, user, c.Query("page"), fr.perPage)
	if err != nil {
		return util.BuildDbHTTPErr(err)
	}
	follows, err := fr.db.GetFollowsForUser(c, user.Id)
	if err != nil {
		return util.BuildDbHTTPErr(err)
	}
	data := pageData(c, "Following")
	data["page"] = page
	data["followingCount"] = len(follows)
	c.HTML(http.StatusOK, "posts/follow.html", data)
	return nil
}

// follow is idempotent: an existing edge counts as success. Following yourself is a no-op.
func (fr *followRoutes) follow(c *gin.Context) *util.HTTPError {
	author, httpErr := getAuthor(c, fr.db)
	if httpErr != nil {
		return httpErr
	}
	user := middleware.MustGetUser(c)
	if !user.Is(author) {
		if err := fr.db.CreateFollow(c, &model.Follow{
			UserId:   user.Id,
			AuthorId: author.Id,
		}); err != nil && !db.IsDupKeyErr(err) {
			return util.BuildDbHTTPErr(err)
		}
	}
	c.Redirect(http.StatusFound, profilePath(author.Username))
	return nil
}

func (fr *followRoutes) unfollow(c *gin.Context) *util.HTTPError {
	author, httpErr := getAuthor(c, fr.db)
	if httpErr != nil {
		return httpErr
	}
	if err := fr.db.DeleteFollow(c, &model.Follow{
		UserId:   middleware.MustGetUser(c).Id,
		AuthorId: author.Id,
	}); err != nil {
		return util.BuildDbHTTPErr(err)
	}
	c.Redirect(http.StatusFound, profilePath(author.Username))
	return nil
}
