package routes

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/navbryce/next-blog-be/config"
	"github.com/navbryce/next-blog-be/db"
	"github.com/navbryce/next-blog-be/db/memory"
	"github.com/navbryce/next-blog-be/model"
	"github.com/navbryce/next-blog-be/services"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const pngHeader = "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"

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

type testServer struct {
	t      *testing.T
	engine *gin.Engine
	db     *memory.MemoryDB
	media  *services.MemoryMediaStore
	cache  *services.PageCache
}

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestServer seeds users leo and kim, admin boss and a "cats" group. Each user's
// bearer token is "tok-<username>"; "tok-newbie" is a firebase identity without a profile.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()
	database := memory.NewMemoryDB()
	verifier := &mockVerifier{}
	for _, user := range []*model.User{
		{Id: "uid-leo", Username: "leo", DisplayName: "Leo"},
		{Id: "uid-kim", Username: "kim"},
		{Id: "uid-boss", Username: "boss", IsAdmin: true},
	} {
		require.NoError(t, database.CreateUser(ctx, user))
		verifier.On("VerifyIDToken", "tok-"+user.Username).Return(&auth.Token{UID: user.Id}, nil).Maybe()
	}
	verifier.On("VerifyIDToken", "tok-newbie").Return(&auth.Token{UID: "uid-newbie"}, nil).Maybe()
	_, err := database.CreateGroup(ctx, &db.CreateGroup{Title: "Cats", Slug: "cats", Description: "All about cats"})
	require.NoError(t, err)

	media := services.NewMemoryMediaStore(MediaPath)
	cache := services.NewPageCache(64, time.Minute)
	engine := gin.New()
	require.NoError(t, Register(engine, &Dependencies{
		DB:        database,
		Verifier:  verifier,
		Media:     media,
		PageCache: cache,
	}, &config.Config{
		LoginURL: "/auth/login/",
		PageSize: 10,
	}))
	return &testServer{t: t, engine: engine, db: database, media: media, cache: cache}
}

func (ts *testServer) do(method string, target string, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	ts.engine.ServeHTTP(w, req)
	return w
}

func (ts *testServer) get(target string, token string) *httptest.ResponseRecorder {
	return ts.do(http.MethodGet, target, token, nil, "")
}

func (ts *testServer) postForm(target string, token string, values url.Values) *httptest.ResponseRecorder {
	return ts.do(http.MethodPost, target, token, strings.NewReader(values.Encode()), "application/x-www-form-urlencoded")
}

// postMultipart submits fields plus an optional "image" file.
func (ts *testServer) postMultipart(target string, token string, fields map[string]string, image []byte) *httptest.ResponseRecorder {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for name, value := range fields {
		require.NoError(ts.t, writer.WriteField(name, value))
	}
	if image != nil {
		part, err := writer.CreateFormFile("image", "upload.bin")
		require.NoError(ts.t, err)
		_, err = part.Write(image)
		require.NoError(ts.t, err)
	}
	require.NoError(ts.t, writer.Close())
	return ts.do(http.MethodPost, target, token, &body, writer.FormDataContentType())
}

func (ts *testServer) createPost(authorId string, text string, groupId *int64) int64 {
	id, err := ts.db.CreatePost(context.Background(), &db.CreatePost{AuthorId: authorId, Text: text, GroupId: groupId})
	require.NoError(ts.t, err)
	return id
}

func (ts *testServer) catsGroup() *model.Group {
	group, err := ts.db.GetGroupBySlug(context.Background(), "cats")
	require.NoError(ts.t, err)
	return group
}

func (ts *testServer) countPosts(filter *db.PostFilter) int {
	count, err := ts.db.CountPosts(context.Background(), filter)
	require.NoError(ts.t, err)
	return count
}

func listedPosts(w *httptest.ResponseRecorder) int {
	return strings.Count(w.Body.String(), `class="post" data-post-id=`)
}
