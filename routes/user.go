package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/navbryce/next-blog-be/db"
	"github.com/navbryce/next-blog-be/middleware"
	"github.com/navbryce/next-blog-be/model"
	"github.com/navbryce/next-blog-be/util"
)

type userRoutes struct {
	db db.UserDatabase
}

// AddUserRoutes lets a signed-in firebase identity create its local profile.
func AddUserRoutes(group *gin.RouterGroup, userDatabase db.UserDatabase, verifier middleware.TokenVerifier) {
	routes := userRoutes{userDatabase}
	users := group.Group("/users", middleware.GenAuth(userDatabase, verifier, &middleware.AuthConfig{
		SessionRequired: true,
	}))
	users.PUT("", util.HandlerWrapper(routes.createUser, &util.HandlerOpts{}))
}

type createUserReq struct {
	Username    string `json:"username" binding:"required,max=150,username"`
	DisplayName string `json:"displayName" binding:"max=150"`
}

func (ur *userRoutes) createUser(c *gin.Context) (interface{}, *util.HTTPError) {
	var req createUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	user := &model.User{
		Id:          middleware.MustGetToken(c).UID,
		Username:    req.Username,
		DisplayName: util.CleanText(req.DisplayName),
	}
	if err := ur.db.CreateUser(c, user); err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	created, err := ur.db.GetUser(c, user.Id)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return created, nil
}
