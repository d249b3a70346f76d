package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/navbryce/next-blog-be/db/memory"
	"github.com/navbryce/next-blog-be/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockVerifier struct {
	mock.Mock
}

func (m *mockVerifier) VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error) {
	args := m.Called(idToken)
	token, _ := args.Get(0).(*auth.Token)
	return token, args.Error(1)
}

func (m *mockVerifier) VerifySessionCookie(ctx context.Context, sessionCookie string) (*auth.Token, error) {
	args := m.Called(sessionCookie)
	token, _ := args.Get(0).(*auth.Token)
	return token, args.Error(1)
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthEngine(t *testing.T, verifier TokenVerifier, config *AuthConfig, extra ...gin.HandlerFunc) *gin.Engine {
	t.Helper()
	database := memory.NewMemoryDB()
	require.NoError(t, database.CreateUser(context.Background(), &model.User{Id: "uid-leo", Username: "leo"}))

	r := gin.New()
	handlers := append([]gin.HandlerFunc{GenAuth(database, verifier, config)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		uid := ""
		if token := GetTokenMaybe(c); token != nil {
			uid = token.UID
		}
		c.JSON(http.StatusOK, gin.H{"uid": uid, "user": GetUserIdMaybe(c)})
	})
	r.GET("/", handlers...)
	r.GET("/create/", handlers...)
	return r
}

func TestGenAuthBearerToken(t *testing.T) {
	verifier := &mockVerifier{}
	verifier.On("VerifyIDToken", "good").Return(&auth.Token{UID: "uid-leo"}, nil)
	r := newAuthEngine(t, verifier, &AuthConfig{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"uid":"uid-leo","user":"uid-leo"}`, w.Body.String())
	verifier.AssertExpectations(t)
}

func TestGenAuthSessionCookie(t *testing.T) {
	verifier := &mockVerifier{}
	verifier.On("VerifySessionCookie", "cookie-value").Return(&auth.Token{UID: "uid-leo"}, nil)
	r := newAuthEngine(t, verifier, &AuthConfig{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "cookie-value"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.JSONEq(t, `{"uid":"uid-leo","user":"uid-leo"}`, w.Body.String())
	verifier.AssertExpectations(t)
}

func TestGenAuthTokenWithoutProfile(t *testing.T) {
	verifier := &mockVerifier{}
	verifier.On("VerifyIDToken", "fresh").Return(&auth.Token{UID: "uid-new"}, nil)
	r := newAuthEngine(t, verifier, &AuthConfig{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer fresh")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.JSONEq(t, `{"uid":"uid-new","user":""}`, w.Body.String())
}

func TestGenAuthInvalidToken(t *testing.T) {
	verifier := &mockVerifier{}
	verifier.On("VerifyIDToken", "bad").Return(nil, errors.New("expired"))

	t.Run("anonymous when session optional", func(t *testing.T) {
		r := newAuthEngine(t, verifier, &AuthConfig{})
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer bad")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"uid":"","user":""}`, w.Body.String())
	})

	t.Run("401 when session required", func(t *testing.T) {
		r := newAuthEngine(t, verifier, &AuthConfig{SessionRequired: true})
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer bad")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"success":false,"message":"invalid token"}`, w.Body.String())
	})

	t.Run("malformed header", func(t *testing.T) {
		r := newAuthEngine(t, verifier, &AuthConfig{SessionRequired: true})
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Token bad")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "incorrectly formatted authorization header")
	})
}

func TestRequireLogin(t *testing.T) {
	verifier := &mockVerifier{}
	verifier.On("VerifyIDToken", "good").Return(&auth.Token{UID: "uid-leo"}, nil)
	r := newAuthEngine(t, verifier, &AuthConfig{}, RequireLogin("/auth/login/"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/create/", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login/?next=%2Fcreate%2F", w.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/create/", nil)
	req.Header.Set("Authorization", "Bearer good")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAccount(t *testing.T) {
	verifier := &mockVerifier{}
	verifier.On("VerifyIDToken", "fresh").Return(&auth.Token{UID: "uid-new"}, nil)
	r := newAuthEngine(t, verifier, &AuthConfig{SessionRequired: true}, RequireAccount())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer fresh")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"must have a user profile"}`, w.Body.String())
}

func TestLoginRedirectURL(t *testing.T) {
	assert.Equal(t, "/auth/login/?next=%2Fposts%2F3%2Fedit%2F", LoginRedirectURL("/auth/login/", "/posts/3/edit/"))
	assert.Equal(t, "https://id.example.com/?app=blog&next=%2Ffollow%2F", LoginRedirectURL("https://id.example.com/?app=blog", "/follow/"))
}
