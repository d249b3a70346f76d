package routes

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/navbryce/next-blog-be/app"
	"github.com/navbryce/next-blog-be/config"
	"github.com/navbryce/next-blog-be/controllers"
	"github.com/navbryce/next-blog-be/db"
	"github.com/navbryce/next-blog-be/middleware"
	"github.com/navbryce/next-blog-be/model"
	"github.com/navbryce/next-blog-be/services"
	"github.com/navbryce/next-blog-be/util"
)

const IndexCacheKeyPrefix = "index_page"

type postRoutes struct {
	db         db.Database
	controller *controllers.PostController
	perPage    int
}

func AddPostRoutes(group *gin.RouterGroup, db db.Database, controller *controllers.PostController, verifier middleware.TokenVerifier, pageCache *services.PageCache, cfg *config.Config) {
	routes := postRoutes{db: db, controller: controller, perPage: cfg.PageSize}
	posts := group.Group("", middleware.GenAuth(db, verifier, &middleware.AuthConfig{}))
	posts.GET("/", middleware.CachePage(pageCache, IndexCacheKeyPrefix), util.PageWrapper(routes.index))
	posts.GET("/group/:slug/", util.PageWrapper(routes.groupPosts))
	posts.GET("/profile/:username/", util.PageWrapper(routes.profile))
	posts.GET("/posts/:id/", util.PageWrapper(routes.postDetail))

	loggedIn := posts.Group("", middleware.RequireLogin(cfg.LoginURL))
	loggedIn.GET("/create/", util.PageWrapper(routes.createPostForm))
	loggedIn.POST("/create/", util.PageWrapper(routes.createPost))
	loggedIn.GET("/posts/:id/edit/", util.PageWrapper(routes.editPostForm))
	loggedIn.POST("/posts/:id/edit/", util.PageWrapper(routes.editPost))
	loggedIn.POST("/posts/:id/delete/", util.PageWrapper(routes.deletePost))
	loggedIn.POST("/posts/:id/comment/", util.PageWrapper(routes.addComment))
}

// pageData seeds template data with what the layout needs.
func pageData(c *gin.Context, title string) gin.H {
	return gin.H{
		"viewer": middleware.GetUserMaybe(c),
		"title":  title,
	}
}

func (pr *postRoutes) index(c *gin.Context) *util.HTTPError {
	page, err := app.ListPosts(c, pr.db, nil, c.Query("page"), pr.perPage)
	if err != nil {
		return util.BuildDbHTTPErr(err)
	}
	data := pageData(c, "")
	data["page"] = page
	c.HTML(http.StatusOK, "posts/index.html", data)
	return nil
}

func (pr *postRoutes) groupPosts(c *gin.Context) *util.HTTPError {
	group, err := pr.db.GetGroupBySlug(c, c.Param("slug"))
	if err != nil {
		return util.BuildDbHTTPErr(err)
	}
	page, err := app.ListPosts(c, pr.db, &db.PostFilter{GroupId: group.Id}, c.Query("page"), pr.perPage)
	if err != nil {
		return util.BuildDbHTTPErr(err)
	}
	data := pageData(c, group.Title)
	data["group"] = group
	data["page"] = page
	c.HTML(http.StatusOK, "posts/group_list.html", data)
	return nil
}

func (pr *postRoutes) profile(c *gin.Context) *util.HTTPError {
	author, httpErr := getAuthor(c, pr.db)
	if httpErr != nil {
		return httpErr
	}
	profile, err := app.GetProfile(c, pr.db, author, middleware.GetUserMaybe(c), c.Query("page"), pr.perPage)
	if err != nil {
		return util.BuildDbHTTPErr(err)
	}
	data := pageData(c, author.Name())
	data["author"] = profile.Author
	data["page"] = profile.Page
	data["following"] = profile.Following
	c.HTML(http.StatusOK, "posts/profile.html", data)
	return nil
}

func (pr *postRoutes) postDetail(c *gin.Context) *util.HTTPError {
	post, httpErr := pr.getPost(c)
	if httpErr != nil {
		return httpErr
	}
	postsCount, err := pr.db.CountPosts(c, &db.PostFilter{AuthorId: post.Author.Id})
	if err != nil {
		return util.BuildDbHTTPErr(err)
	}
	comments, err := pr.db.GetComments(c, post.Id)
	if err != nil {
		return util.BuildDbHTTPErr(err)
	}
	data := pageData(c, post.Excerpt())
	data["post"] = post
	data["postsCount"] = postsCount
	data["comments"] = comments
	data["canEdit"] = post.CanEdit(middleware.GetUserMaybe(c))
	c.HTML(http.StatusOK, "posts/post_detail.html", data)
	return nil
}

func (pr *postRoutes) createPostForm(c *gin.Context) *util.HTTPError {
	return pr.renderPostForm(c, nil, &postForm{}, nil)
}

func (pr *postRoutes) createPost(c *gin.Context) *util.HTTPError {
	form, submission, formErrors, httpErr := pr.bindPostForm(c)
	if httpErr != nil {
		return httpErr
	}
	if !formErrors.Valid() {
		return pr.renderPostForm(c, nil, form, formErrors)
	}
	user := middleware.MustGetUser(c)
	if _, httpErr := pr.controller.CreatePost(c, user, submission); httpErr != nil {
		return httpErr
	}
	c.Redirect(http.StatusFound, profilePath(user.Username))
	return nil
}

func (pr *postRoutes) editPostForm(c *gin.Context) *util.HTTPError {
	post, httpErr := pr.getPost(c)
	if httpErr != nil {
		return httpErr
	}
	if !post.CanEdit(middleware.MustGetUser(c)) {
		c.Redirect(http.StatusFound, postPath(post.Id))
		return nil
	}
	form := &postForm{Text: post.Text}
	if post.Group != nil {
		form.Group = strconv.FormatInt(post.Group.Id, 10)
	}
	return pr.renderPostForm(c, post, form, nil)
}

func (pr *postRoutes) editPost(c *gin.Context) *util.HTTPError {
	post, httpErr := pr.getPost(c)
	if httpErr != nil {
		return httpErr
	}
	if !post.CanEdit(middleware.MustGetUser(c)) {
		c.Redirect(http.StatusFound, postPath(post.Id))
		return nil
	}
	form, submission, formErrors, httpErr := pr.bindPostForm(c)
	if httpErr != nil {
		return httpErr
	}
	if !formErrors.Valid() {
		return pr.renderPostForm(c, post, form, formErrors)
	}
	if httpErr := pr.controller.EditPost(c, post, submission); httpErr != nil {
		return httpErr
	}
	c.Redirect(http.StatusFound, postPath(post.Id))
	return nil
}

func (pr *postRoutes) deletePost(c *gin.Context) *util.HTTPError {
	post, httpErr := pr.getPost(c)
	if httpErr != nil {
		return httpErr
	}
	user := middleware.MustGetUser(c)
	if !post.CanEdit(user) {
		c.Redirect(http.StatusFound, postPath(post.Id))
		return nil
	}
	if httpErr := pr.controller.DeletePost(c, post); httpErr != nil {
		return httpErr
	}
	c.Redirect(http.StatusFound, profilePath(user.Username))
	return nil
}

type commentForm struct {
	Text string `form:"text" binding:"required"`
}

// addComment redirects back to the post whether or not the comment was valid.
func (pr *postRoutes) addComment(c *gin.Context) *util.HTTPError {
	post, httpErr := pr.getPost(c)
	if httpErr != nil {
		return httpErr
	}
	var form commentForm
	if err := c.ShouldBind(&form); err == nil && strings.TrimSpace(form.Text) != "" {
		if _, httpErr := pr.controller.AddComment(c, post, middleware.MustGetUser(c), &controllers.CommentSubmission{
			Text: form.Text,
		}); httpErr != nil {
			return httpErr
		}
	}
	c.Redirect(http.StatusFound, postPath(post.Id))
	return nil
}

// renderPostForm renders the create page, or the edit page when post is set.
func (pr *postRoutes) renderPostForm(c *gin.Context, post *model.Post, form *postForm, formErrors FormErrors) *util.HTTPError {
	groups, err := pr.db.GetGroups(c)
	if err != nil {
		return util.BuildDbHTTPErr(err)
	}
	title := "New post"
	if post != nil {
		title = "Edit post"
	}
	data := pageData(c, title)
	data["form"] = form
	data["errors"] = formErrors
	data["groups"] = groups
	data["isEdit"] = post != nil
	data["post"] = post
	c.HTML(http.StatusOK, "posts/create_post.html", data)
	return nil
}

func (pr *postRoutes) getPost(c *gin.Context) (*model.Post, *util.HTTPError) {
	id, httpErr := util.ParseId(c.Param("id"))
	if httpErr != nil {
		return nil, httpErr
	}
	post, err := pr.db.GetPostById(c, id)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return post, nil
}

// getAuthor loads the user named by the :username param. Unknown users are a 404.
func getAuthor(c *gin.Context, userDB db.UserDatabase) (*model.User, *util.HTTPError) {
	author, err := userDB.GetUserByUsername(c, c.Param("username"))
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	if author == nil {
		httpErr := util.NotFoundHTTPErr
		return nil, &httpErr
	}
	return author, nil
}

func postPath(id int64) string {
	return fmt.Sprintf("/posts/%d/", id)
}

func profilePath(username string) string {
	return fmt.Sprintf("/profile/%s/", username)
}
