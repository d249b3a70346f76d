package routes

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/navbryce/next-blog-be/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexPagination(t *testing.T) {
	ts := newTestServer(t)
	for i := 0; i < 13; i++ {
		ts.createPost("uid-leo", fmt.Sprintf("post number %d", i), nil)
	}

	cases := []struct {
		target string
		posts  int
	}{
		{"/", 10},
		{"/?page=1", 10},
		{"/?page=2", 3},
		{"/?page=99", 3},
		{"/?page=0", 10},
		{"/?page=abc", 10},
	}
	for _, tc := range cases {
		t.Run(tc.target, func(t *testing.T) {
			w := ts.get(tc.target, "")
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tc.posts, listedPosts(w))
		})
	}

	body := ts.get("/?page=2", "").Body.String()
	assert.Contains(t, body, "post number 0")
	assert.NotContains(t, body, "post number 12")
}

func TestIndexCache(t *testing.T) {
	ts := newTestServer(t)
	ts.createPost("uid-leo", "first post", nil)

	first := ts.get("/", "")
	require.Equal(t, http.StatusOK, first.Code)

	ts.createPost("uid-kim", "written behind the cache", nil)
	second := ts.get("/", "")
	assert.Equal(t, first.Body.Bytes(), second.Body.Bytes())

	ts.cache.Clear()
	third := ts.get("/", "")
	assert.NotEqual(t, first.Body.Bytes(), third.Body.Bytes())
	assert.Contains(t, third.Body.String(), "written behind the cache")

	signedIn := ts.get("/", "tok-leo")
	assert.NotEqual(t, third.Body.Bytes(), signedIn.Body.Bytes())
	assert.Contains(t, signedIn.Body.String(), `href="/create/"`)
}

func TestIndexCacheOutlivesWrites(t *testing.T) {
	ts := newTestServer(t)
	before := ts.get("/", "")
	require.Equal(t, http.StatusOK, before.Code)

	w := ts.postMultipart("/create/", "tok-leo", map[string]string{"text": "fresh news"}, nil)
	require.Equal(t, http.StatusFound, w.Code)

	cached := ts.get("/", "")
	assert.Equal(t, before.Body.Bytes(), cached.Body.Bytes())

	w = ts.do(http.MethodDelete, "/cache", "tok-kim", nil, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.do(http.MethodDelete, "/cache", "tok-boss", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"cleared":1}}`, w.Body.String())

	after := ts.get("/", "")
	assert.Contains(t, after.Body.String(), "fresh news")
}

func TestPostTextStoredVerbatim(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	texts := []string{
		"Wrap fields in <form> and use <input type=text>",
		"Tom &amp; Jerry",
		"<script>alert(1)</script>",
		"1 < 2 & 3 > 2",
	}
	for _, text := range texts {
		t.Run(text, func(t *testing.T) {
			before := ts.countPosts(nil)
			w := ts.postMultipart("/create/", "tok-leo", map[string]string{"text": "  " + text + "\n"}, nil)
			require.Equal(t, http.StatusFound, w.Code)
			require.Equal(t, before+1, ts.countPosts(nil))

			posts, err := ts.db.GetPosts(ctx, &db.PostsListQuery{PostFilter: &db.PostFilter{}, Limit: 1})
			require.NoError(t, err)
			assert.Equal(t, text, posts[0].Text)

			w = ts.postForm(postPath(posts[0].Id)+"comment/", "tok-kim", url.Values{"text": {text}})
			require.Equal(t, http.StatusFound, w.Code)
			comments, err := ts.db.GetComments(ctx, posts[0].Id)
			require.NoError(t, err)
			require.Len(t, comments, 1)
			assert.Equal(t, text, comments[0].Text)

			body := ts.get(postPath(posts[0].Id), "").Body.String()
			assert.NotContains(t, body, text)
		})
	}

	body := ts.get("/profile/leo/", "").Body.String()
	assert.Contains(t, body, "Wrap fields in &lt;form&gt; and use &lt;input type=text&gt;")
	assert.Contains(t, body, "Tom &amp;amp; Jerry")
}

func TestGroupPosts(t *testing.T) {
	ts := newTestServer(t)
	cats := ts.catsGroup()
	ts.createPost("uid-leo", "meow", &cats.Id)
	ts.createPost("uid-leo", "woof", nil)

	w := ts.get("/group/cats/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, listedPosts(w))
	assert.Contains(t, w.Body.String(), "meow")
	assert.Contains(t, w.Body.String(), "All about cats")

	assert.Equal(t, http.StatusNotFound, ts.get("/group/dogs/", "").Code)
}

func TestProfile(t *testing.T) {
	ts := newTestServer(t)
	ts.createPost("uid-leo", "one", nil)
	ts.createPost("uid-leo", "two", nil)
	ts.createPost("uid-kim", "not leo", nil)

	w := ts.get("/profile/leo/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, listedPosts(w))
	assert.Contains(t, w.Body.String(), `<span class="post-count">2</span>`)
	assert.NotContains(t, w.Body.String(), "/profile/leo/follow/")

	w = ts.get("/profile/leo/", "tok-kim")
	assert.Contains(t, w.Body.String(), `href="/profile/leo/follow/"`)

	w = ts.get("/profile/leo/", "tok-leo")
	assert.NotContains(t, w.Body.String(), "/profile/leo/follow/")

	assert.Equal(t, http.StatusNotFound, ts.get("/profile/nobody/", "").Code)
}

func TestPostDetail(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createPost("uid-leo", "details matter", nil)

	w := ts.get(postPath(id), "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "details matter")
	assert.Contains(t, body, `<span class="posts-count">1</span>`)
	assert.NotContains(t, body, "/edit/")
	assert.NotContains(t, body, `action="/posts/`+strconv.FormatInt(id, 10)+`/comment/"`)

	w = ts.get(postPath(id), "tok-leo")
	assert.Contains(t, w.Body.String(), fmt.Sprintf(`href="/posts/%d/edit/"`, id))

	assert.Equal(t, http.StatusNotFound, ts.get("/posts/999/", "").Code)
	assert.Equal(t, http.StatusBadRequest, ts.get("/posts/abc/", "").Code)
}

func TestCreatePost(t *testing.T) {
	ts := newTestServer(t)
	cats := ts.catsGroup()

	t.Run("guest is sent to login", func(t *testing.T) {
		w := ts.get("/create/", "")
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/auth/login/?next=%2Fcreate%2F", w.Header().Get("Location"))

		w = ts.postMultipart("/create/", "", map[string]string{"text": "sneaky"}, nil)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Zero(t, ts.countPosts(nil))
	})

	t.Run("form renders groups", func(t *testing.T) {
		w := ts.get("/create/", "tok-leo")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), fmt.Sprintf(`<option value="%d">Cats</option>`, cats.Id))
	})

	t.Run("valid submission", func(t *testing.T) {
		w := ts.postMultipart("/create/", "tok-leo", map[string]string{
			"text":  "my cat",
			"group": strconv.FormatInt(cats.Id, 10),
		}, []byte(pngHeader))
		require.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/profile/leo/", w.Header().Get("Location"))

		require.Equal(t, 1, ts.countPosts(nil))
		posts, err := ts.db.GetPosts(context.Background(), &db.PostsListQuery{PostFilter: &db.PostFilter{}, Limit: 1})
		require.NoError(t, err)
		post := posts[0]
		assert.Equal(t, "my cat", post.Text)
		assert.Equal(t, "uid-leo", post.Author.Id)
		require.NotNil(t, post.Group)
		assert.Equal(t, cats.Id, post.Group.Id)
		assert.True(t, strings.HasSuffix(post.Image, ".png"))

		media := ts.get(MediaPath+post.Image, "")
		assert.Equal(t, http.StatusOK, media.Code)
		assert.Equal(t, "image/png", media.Header().Get("Content-Type"))
	})

	t.Run("invalid submissions re-render", func(t *testing.T) {
		cases := map[string]struct {
			fields map[string]string
			image  []byte
			field  string
		}{
			"missing text":  {map[string]string{}, nil, "text"},
			"blank text":    {map[string]string{"text": "   "}, nil, "text"},
			"unknown group": {map[string]string{"text": "x", "group": "999"}, nil, "group"},
			"garbage group": {map[string]string{"text": "x", "group": "cats"}, nil, "group"},
			"not an image":  {map[string]string{"text": "x"}, []byte("just some text"), "image"},
		}
		for name, tc := range cases {
			t.Run(name, func(t *testing.T) {
				w := ts.postMultipart("/create/", "tok-leo", tc.fields, tc.image)
				assert.Equal(t, http.StatusOK, w.Code)
				assert.Contains(t, w.Body.String(), fmt.Sprintf(`data-field="%s"`, tc.field))
				assert.Equal(t, 1, ts.countPosts(nil))
			})
		}
	})
}

func TestEditPost(t *testing.T) {
	ts := newTestServer(t)
	cats := ts.catsGroup()
	id := ts.createPost("uid-leo", "original", &cats.Id)
	editPath := fmt.Sprintf("/posts/%d/edit/", id)

	t.Run("guest is sent to login", func(t *testing.T) {
		w := ts.get(editPath, "")
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/auth/login/?next="+url.QueryEscape(editPath), w.Header().Get("Location"))
	})

	t.Run("non-author cannot edit", func(t *testing.T) {
		w := ts.get(editPath, "tok-kim")
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, postPath(id), w.Header().Get("Location"))

		w = ts.postMultipart(editPath, "tok-kim", map[string]string{"text": "hijacked"}, nil)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, postPath(id), w.Header().Get("Location"))

		post, err := ts.db.GetPostById(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, "original", post.Text)
		assert.Equal(t, cats.Id, post.Group.Id)
	})

	t.Run("author form is prefilled", func(t *testing.T) {
		w := ts.get(editPath, "tok-leo")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), ">original</textarea>")
		assert.Contains(t, w.Body.String(), fmt.Sprintf(`<option value="%d" selected>Cats</option>`, cats.Id))
	})

	t.Run("author edits", func(t *testing.T) {
		w := ts.postMultipart(editPath, "tok-leo", map[string]string{"text": "revised"}, nil)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, postPath(id), w.Header().Get("Location"))

		post, err := ts.db.GetPostById(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, "revised", post.Text)
		assert.Nil(t, post.Group)
	})

	t.Run("unknown post", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, ts.get("/posts/999/edit/", "tok-leo").Code)
	})
}

func TestDeletePost(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createPost("uid-leo", "short lived", nil)
	deletePath := fmt.Sprintf("/posts/%d/delete/", id)

	w := ts.postForm(deletePath, "tok-kim", url.Values{})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, postPath(id), w.Header().Get("Location"))
	assert.Equal(t, 1, ts.countPosts(nil))

	w = ts.postForm(deletePath, "tok-leo", url.Values{})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/profile/leo/", w.Header().Get("Location"))
	assert.Zero(t, ts.countPosts(nil))
}

func TestAddComment(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	id := ts.createPost("uid-leo", "discuss", nil)
	commentPath := fmt.Sprintf("/posts/%d/comment/", id)

	w := ts.postForm(commentPath, "", url.Values{"text": {"anon"}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Location"), "/auth/login/?next="))

	w = ts.postForm(commentPath, "tok-kim", url.Values{"text": {"great post"}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, postPath(id), w.Header().Get("Location"))

	comments, err := ts.db.GetComments(ctx, id)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "great post", comments[0].Text)
	assert.Equal(t, "uid-kim", comments[0].Author.Id)

	w = ts.postForm(commentPath, "tok-kim", url.Values{"text": {"  "}})
	assert.Equal(t, http.StatusFound, w.Code)
	comments, err = ts.db.GetComments(ctx, id)
	require.NoError(t, err)
	assert.Len(t, comments, 1)

	assert.Contains(t, ts.get(postPath(id), "").Body.String(), "great post")
	assert.Equal(t, http.StatusNotFound, ts.postForm("/posts/999/comment/", "tok-kim", url.Values{"text": {"x"}}).Code)
}
