package middleware

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/navbryce/next-blog-be/db"
	"github.com/navbryce/next-blog-be/model"
)

const (
	TOKEN_KEY = "authToken"
	USER_KEY  = "user"

	SessionCookieName = "session"
)

// TokenVerifier is the part of the firebase auth client the middleware needs.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
	VerifySessionCookie(ctx context.Context, sessionCookie string) (*auth.Token, error)
}

var _ TokenVerifier = (*auth.Client)(nil)

type AuthConfig struct {
	// SessionRequired rejects requests without a valid token with a 401.
	SessionRequired bool
}

// GenAuth resolves the firebase identity from a bearer token or the session cookie and
// loads the matching local profile. Without SessionRequired a missing or invalid
// token leaves the request anonymous.
func GenAuth(userDB db.UserDatabase, verifier TokenVerifier, config *AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, message := verifyRequest(c, verifier)
		if token == nil {
			if config.SessionRequired {
				c.JSON(http.StatusUnauthorized, gin.H{
					"success": false,
					"message": message,
				})
				c.Abort()
			}
			return
		}
		c.Set(TOKEN_KEY, token)

		user, err := userDB.GetUser(c, token.UID)
		if err != nil {
			log.Println("database error occurred while loading user", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "database error",
			})
			c.Abort()
			return
		}
		if user != nil {
			c.Set(USER_KEY, user)
		}
	}
}

// verifyRequest returns nil and the reason when the request carries no usable token.
func verifyRequest(c *gin.Context, verifier TokenVerifier) (*auth.Token, string) {
	if authorizationHeader := c.GetHeader("Authorization"); authorizationHeader != "" {
		if strings.Index(authorizationHeader, "Bearer ") != 0 || len(authorizationHeader) < 8 {
			return nil, "incorrectly formatted authorization header"
		}
		token, err := verifier.VerifyIDToken(c, authorizationHeader[7:])
		if err != nil {
			return nil, "invalid token"
		}
		return token, ""
	}
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie != "" {
		token, err := verifier.VerifySessionCookie(c, cookie)
		if err != nil {
			return nil, "invalid session"
		}
		return token, ""
	}
	return nil, "no authorization header"
}

// RequireAccount rejects requests without a local user profile.
func RequireAccount() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUserMaybe(c) == nil {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "must have a user profile",
			})
			c.Abort()
		}
	}
}

// RequireAdmin must run after RequireAccount.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !MustGetUser(c).IsAdmin {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "admin only",
			})
			c.Abort()
		}
	}
}

// RequireLogin redirects visitors without a profile to loginURL, passing the
// requested path as ?next=.
func RequireLogin(loginURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUserMaybe(c) != nil {
			return
		}
		c.Redirect(http.StatusFound, LoginRedirectURL(loginURL, c.Request.URL.RequestURI()))
		c.Abort()
	}
}

func LoginRedirectURL(loginURL string, next string) string {
	separator := "?"
	if strings.Contains(loginURL, "?") {
		separator = "&"
	}
	return loginURL + separator + "next=" + url.QueryEscape(next)
}

func GetTokenMaybe(c *gin.Context) *auth.Token {
	token, ok := c.Get(TOKEN_KEY)
	if !ok {
		return nil
	}
	return token.(*auth.Token)
}

func MustGetToken(c *gin.Context) *auth.Token {
	return c.MustGet(TOKEN_KEY).(*auth.Token)
}

func GetUserMaybe(c *gin.Context) *model.User {
	user, ok := c.Get(USER_KEY)
	if !ok {
		return nil
	}
	return user.(*model.User)
}

func MustGetUser(c *gin.Context) *model.User {
	return c.MustGet(USER_KEY).(*model.User)
}

func GetUserIdMaybe(c *gin.Context) string {
	if user := GetUserMaybe(c); user != nil {
		return user.Id
	}
	return ""
}
