package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"postboard/internal/config"
	"postboard/internal/middleware"
	"postboard/internal/models"
	"postboard/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const postCardMarker = `<article class="post">`

type testEnv struct {
	t   *testing.T
	srv *Server
	app *fiber.App
	db  *gorm.DB
	mr  *miniredis.Miniredis
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := &config.Config{
		JWTSecret:            testSecret,
		PageSize:             10,
		IndexCacheTTLSeconds: 20,
		ImageMaxUploadSizeMB: 5,
	}
	srv, err := NewServerWithDeps(cfg, db, rdb, testutil.NewMemoryStore())
	require.NoError(t, err)

	return &testEnv{t: t, srv: srv, app: srv.NewApp(), db: db, mr: mr}
}

func (e *testEnv) user(username string) *models.User {
	e.t.Helper()
	u := &models.User{Username: username, Email: username + "@example.com", Password: "unused"}
	require.NoError(e.t, e.srv.userRepo.Create(context.Background(), u))
	return u
}

func (e *testEnv) group(title, slug string) *models.Group {
	e.t.Helper()
	g := &models.Group{Title: title, Slug: slug, Description: title + " posts"}
	require.NoError(e.t, e.srv.groupRepo.Create(context.Background(), g))
	return g
}

func (e *testEnv) post(author *models.User, text string, group *models.Group) *models.Post {
	e.t.Helper()
	p := &models.Post{Text: text, AuthorID: author.ID}
	if group != nil {
		p.GroupID = &group.ID
	}
	require.NoError(e.t, e.srv.postRepo.Create(context.Background(), p))
	return p
}

func (e *testEnv) do(req *http.Request, as *models.User) (*http.Response, string) {
	e.t.Helper()
	if as != nil {
		token, _, err := middleware.IssueToken(testSecret, as.ID, as.Username, time.Hour)
		require.NoError(e.t, err)
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(e.t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(e.t, err)
	return resp, string(body)
}

func (e *testEnv) get(path string, as *models.User) (*http.Response, string) {
	return e.do(httptest.NewRequest(http.MethodGet, path, nil), as)
}

func (e *testEnv) postForm(path string, form url.Values, as *models.User) (*http.Response, string) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	return e.do(req, as)
}

func (e *testEnv) reload(p *models.Post) *models.Post {
	e.t.Helper()
	fresh, err := e.srv.postRepo.GetByID(context.Background(), p.ID)
	require.NoError(e.t, err)
	return fresh
}

func TestPagination_GroupPages(t *testing.T) {
	e := newTestEnv(t)
	author := e.user("leo")
	g := e.group("Cats", "cats")
	for i := 0; i < 13; i++ {
		e.post(author, fmt.Sprintf("post %d", i), g)
	}

	resp, body := e.get("/group/cats/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 10, strings.Count(body, postCardMarker))
	assert.Contains(t, body, "Page 1 of 2")

	resp, body = e.get("/group/cats/?page=2", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 3, strings.Count(body, postCardMarker))

	// Past the end clamps to the last page; garbage means page 1.
	_, body = e.get("/group/cats/?page=99", nil)
	assert.Equal(t, 3, strings.Count(body, postCardMarker))
	_, body = e.get("/group/cats/?page=abc", nil)
	assert.Equal(t, 10, strings.Count(body, postCardMarker))
}

func TestAPI_GroupPostsAreFiltered(t *testing.T) {
	e := newTestEnv(t)
	author := e.user("leo")
	cats := e.group("Cats", "cats")
	dogs := e.group("Dogs", "dogs")
	for i := 0; i < 4; i++ {
		e.post(author, fmt.Sprintf("cat %d", i), cats)
	}
	e.post(author, "dog", dogs)
	e.post(author, "no group", nil)

	resp, body := e.get("/api/v1/groups/cats/posts", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Group models.Group `json:"group"`
		Page  struct {
			Items []models.Post `json:"items"`
			Total int           `json:"total"`
		} `json:"page"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.Equal(t, "cats", out.Group.Slug)
	assert.Equal(t, 4, out.Page.Total)
	for _, p := range out.Page.Items {
		require.NotNil(t, p.GroupID)
		assert.Equal(t, cats.ID, *p.GroupID)
	}

	resp, _ = e.get("/api/v1/groups/birds/posts", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFollowAndUnfollow(t *testing.T) {
	e := newTestEnv(t)
	reader := e.user("reader")
	author := e.user("author")
	ctx := context.Background()

	resp, _ := e.get("/profile/author/follow/", reader)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/profile/author/", resp.Header.Get("Location"))

	following, err := e.srv.followService.IsFollowing(ctx, reader.ID, author.ID)
	require.NoError(t, err)
	assert.True(t, following)

	// A second follow keeps a single edge.
	e.get("/profile/author/follow/", reader)
	var edges int64
	require.NoError(t, e.db.Model(&models.Follow{}).Where("user_id = ? AND author_id = ?", reader.ID, author.ID).Count(&edges).Error)
	assert.Equal(t, int64(1), edges)

	_, body := e.get("/profile/author/", reader)
	assert.Contains(t, body, "/profile/author/unfollow/")

	resp, _ = e.get("/profile/author/unfollow/", reader)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	following, err = e.srv.followService.IsFollowing(ctx, reader.ID, author.ID)
	require.NoError(t, err)
	assert.False(t, following)

	// Unfollowing again is not an error.
	resp, _ = e.get("/profile/author/unfollow/", reader)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}

func TestFollow_AnonymousIsSentToLogin(t *testing.T) {
	e := newTestEnv(t)
	e.user("author")

	resp, _ := e.get("/profile/author/follow/", nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/auth/login/?next=/profile/author/follow/", resp.Header.Get("Location"))
}

func TestNewPostVisibility(t *testing.T) {
	e := newTestEnv(t)
	author := e.user("author")
	follower := e.user("follower")
	stranger := e.user("stranger")
	g := e.group("Cats", "cats")
	require.NoError(t, e.db.Omit("User", "Author").Create(&models.Follow{UserID: follower.ID, AuthorID: author.ID}).Error)

	resp, _ := e.postForm("/create/", url.Values{
		"text":  {"fresh post"},
		"group": {fmt.Sprint(g.ID)},
	}, author)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/profile/author/", resp.Header.Get("Location"))

	for _, path := range []string{"/", "/group/cats/", "/profile/author/"} {
		_, body := e.get(path, nil)
		assert.Contains(t, body, "fresh post", path)
	}

	_, body := e.get("/follow/", follower)
	assert.Contains(t, body, "fresh post")

	_, body = e.get("/follow/", stranger)
	assert.NotContains(t, body, "fresh post")
}

func TestCreatePost_Validation(t *testing.T) {
	e := newTestEnv(t)
	author := e.user("author")

	resp, body := e.postForm("/create/", url.Values{"text": {"   "}}, author)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "text is required")

	resp, body = e.postForm("/create/", url.Values{"text": {"hello"}, "group": {"999"}}, author)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Select a valid choice")

	var count int64
	require.NoError(t, e.db.Model(&models.Post{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestEditPost_NonAuthorIsRedirected(t *testing.T) {
	e := newTestEnv(t)
	author := e.user("author")
	intruder := e.user("intruder")
	g := e.group("Cats", "cats")
	p := e.post(author, "original", g)

	resp, _ := e.get(fmt.Sprintf("/posts/%d/edit/", p.ID), intruder)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, postPath(p.ID), resp.Header.Get("Location"))

	resp, _ = e.postForm(fmt.Sprintf("/posts/%d/edit/", p.ID), url.Values{"text": {"hijacked"}}, intruder)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, postPath(p.ID), resp.Header.Get("Location"))

	fresh := e.reload(p)
	assert.Equal(t, "original", fresh.Text)
	require.NotNil(t, fresh.GroupID)
	assert.Equal(t, g.ID, *fresh.GroupID)

	_, body := e.get(postPath(p.ID), intruder)
	assert.Contains(t, body, "original")
	assert.NotContains(t, body, "/edit/")
}

func TestEditPost_NonAuthorNeverSeesForm(t *testing.T) {
	e := newTestEnv(t)
	author := e.user("author")
	intruder := e.user("intruder")
	p := e.post(author, "original", nil)
	editPath := fmt.Sprintf("/posts/%d/edit/", p.ID)

	t.Run("invalid group", func(t *testing.T) {
		resp, body := e.postForm(editPath, url.Values{"text": {"hijacked"}, "group": {"abc"}}, intruder)
		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, postPath(p.ID), resp.Header.Get("Location"))
		assert.NotContains(t, body, "Select a valid choice.")
	})

	t.Run("unreadable image", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		require.NoError(t, mw.WriteField("text", "hijacked"))
		fw, err := mw.CreateFormFile("image", "notes.png")
		require.NoError(t, err)
		_, err = fw.Write([]byte("definitely not a png"))
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, editPath, &buf)
		req.Header.Set(fiber.HeaderContentType, mw.FormDataContentType())
		resp, body := e.do(req, intruder)
		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, postPath(p.ID), resp.Header.Get("Location"))
		assert.NotContains(t, body, "hijacked")
	})

	t.Run("unknown post", func(t *testing.T) {
		resp, _ := e.postForm("/posts/9999/edit/", url.Values{"text": {"x"}, "group": {"abc"}}, intruder)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	assert.Equal(t, "original", e.reload(p).Text)
	assert.Empty(t, e.reload(p).Image)
}

func TestEditPost_MovesBetweenGroups(t *testing.T) {
	e := newTestEnv(t)
	author := e.user("author")
	g1 := e.group("First", "first")
	g2 := e.group("Second", "second")

	resp, _ := e.postForm("/create/", url.Values{
		"text":  {"Тестовый пост"},
		"group": {fmt.Sprint(g1.ID)},
	}, author)
	require.Equal(t, http.StatusFound, resp.StatusCode)

	page, err := e.srv.feedService.Index(context.Background(), 1)
	require.NoError(t, err)
	require.NotEmpty(t, page.Items)
	p := page.Items[0]
	assert.Equal(t, "Тестовый пост", p.Text)

	_, body := e.get("/", nil)
	assert.Contains(t, body, "Тестовый пост")

	resp, _ = e.postForm(fmt.Sprintf("/posts/%d/edit/", p.ID), url.Values{
		"text":  {"Тестовый пост, исправленный"},
		"group": {fmt.Sprint(g2.ID)},
	}, author)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, postPath(p.ID), resp.Header.Get("Location"))

	_, body = e.get("/group/first/", nil)
	assert.NotContains(t, body, "Тестовый пост")

	_, body = e.get("/group/second/", nil)
	assert.Contains(t, body, "Тестовый пост, исправленный")
}

func TestAddComment(t *testing.T) {
	e := newTestEnv(t)
	author := e.user("author")
	reader := e.user("reader")
	p := e.post(author, "commented post", nil)
	commentPath := fmt.Sprintf("/posts/%d/comment/", p.ID)

	countComments := func() int64 {
		var n int64
		require.NoError(t, e.db.Model(&models.Comment{}).Where("post_id = ?", p.ID).Count(&n).Error)
		return n
	}

	t.Run("anonymous is sent to login", func(t *testing.T) {
		resp, _ := e.postForm(commentPath, url.Values{"text": {"hi"}}, nil)
		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/auth/login/?next="+commentPath, resp.Header.Get("Location"))
		assert.Zero(t, countComments())
	})

	t.Run("blank comment is dropped", func(t *testing.T) {
		resp, _ := e.postForm(commentPath, url.Values{"text": {"  "}}, reader)
		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Zero(t, countComments())
	})

	t.Run("comment lands on the detail page", func(t *testing.T) {
		resp, _ := e.postForm(commentPath, url.Values{"text": {"nice one"}}, reader)
		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, postPath(p.ID), resp.Header.Get("Location"))
		assert.Equal(t, int64(1), countComments())

		_, body := e.get(postPath(p.ID), nil)
		assert.Contains(t, body, "nice one")
	})

	t.Run("unknown post", func(t *testing.T) {
		resp, _ := e.postForm("/posts/9999/comment/", url.Values{"text": {"hi"}}, reader)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestAddComment_LoginResumesOnPost(t *testing.T) {
	e := newTestEnv(t)
	hashed, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	reader := &models.User{Username: "leo", Email: "leo@example.com", Password: string(hashed)}
	require.NoError(t, e.srv.userRepo.Create(context.Background(), reader))
	p := e.post(e.user("author"), "commented post", nil)
	commentPath := fmt.Sprintf("/posts/%d/comment/", p.ID)

	resp, _ := e.postForm(commentPath, url.Values{"text": {"hi"}}, nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	loginPath := resp.Header.Get("Location")
	assert.Equal(t, loginURL(commentPath), loginPath)

	resp, _ = e.postForm(loginPath, url.Values{"username": {"leo"}, "password": {testPassword}}, nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	next := resp.Header.Get("Location")
	assert.Equal(t, commentPath, next)

	resp, _ = e.get(next, reader)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, postPath(p.ID), resp.Header.Get("Location"))

	resp, _ = e.get(next, nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, loginURL(commentPath), resp.Header.Get("Location"))

	resp, _ = e.get("/posts/abc/comment/", reader)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPostImages_RenderStoredCover(t *testing.T) {
	e := newTestEnv(t)
	author := e.user("author")
	withCover := &models.Post{Text: "has cover", AuthorID: author.ID, Image: "posts/cat.png", Cover: "posts/cat_cover.webp"}
	plain := &models.Post{Text: "no cover", AuthorID: author.ID, Image: "posts/dog.png"}
	require.NoError(t, e.srv.postRepo.Create(context.Background(), withCover))
	require.NoError(t, e.srv.postRepo.Create(context.Background(), plain))

	_, body := e.get("/", nil)
	assert.Contains(t, body, `src="/media/posts/cat_cover.webp"`)
	assert.NotContains(t, body, `src="/media/posts/cat.png"`)
	assert.Contains(t, body, `src="/media/posts/dog.png"`)

	_, body = e.get(postPath(withCover.ID), nil)
	assert.Contains(t, body, `src="/media/posts/cat_cover.webp"`)
}

func TestIndexCache(t *testing.T) {
	e := newTestEnv(t)
	author := e.user("author")
	admin := e.user("admin")
	require.NoError(t, e.srv.userRepo.SetAdmin(context.Background(), "admin", true))
	e.post(author, "first post", nil)

	_, body := e.get("/", nil)
	require.Contains(t, body, "first post")

	e.post(author, "second post", nil)
	_, body = e.get("/", nil)
	assert.NotContains(t, body, "second post", "index is served from cache")

	// A non-admin cannot clear the cache.
	resp, _ := e.do(httptest.NewRequest(http.MethodPost, "/api/v1/admin/cache/clear", nil), author)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = e.do(httptest.NewRequest(http.MethodPost, "/api/v1/admin/cache/clear", nil), admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, body = e.get("/", nil)
	assert.Contains(t, body, "second post")

	e.post(author, "third post", nil)
	_, body = e.get("/", nil)
	assert.NotContains(t, body, "third post")

	e.mr.FastForward(21 * time.Second)
	_, body = e.get("/", nil)
	assert.Contains(t, body, "third post")
}

func TestNotFoundPages(t *testing.T) {
	e := newTestEnv(t)

	for _, path := range []string{"/nowhere/", "/group/missing/", "/profile/nobody/", "/posts/12345/", "/posts/abc/"} {
		resp, body := e.get(path, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
		assert.Contains(t, body, "Page not found", path)
		assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "text/html", path)
	}

	resp, body := e.get("/api/v1/posts/12345", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var apiErr models.ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(body), &apiErr))
	assert.Equal(t, models.CodeNotFound, apiErr.Code)
}

func TestLoginPage_HonoursNext(t *testing.T) {
	e := newTestEnv(t)
	hashed, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, e.srv.userRepo.Create(context.Background(), &models.User{
		Username: "leo", Email: "leo@example.com", Password: string(hashed),
	}))

	resp, body := e.postForm("/auth/login/", url.Values{"username": {"leo"}, "password": {"wrong"}}, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Please enter a correct username and password.")

	resp, _ = e.postForm("/auth/login/?next=/follow/", url.Values{"username": {"leo"}, "password": {testPassword}}, nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/follow/", resp.Header.Get("Location"))

	var session string
	for _, ck := range resp.Cookies() {
		if ck.Name == middleware.SessionCookie {
			session = ck.Value
		}
	}
	require.NotEmpty(t, session)
	claims, err := middleware.ParseToken(testSecret, session)
	require.NoError(t, err)
	assert.Equal(t, "leo", claims.Username)

	resp, _ = e.postForm("/auth/login/", url.Values{
		"username": {"leo"},
		"password": {testPassword},
		"next":     {"https://evil.example.com/"},
	}, nil)
	assert.Equal(t, "/", resp.Header.Get("Location"))
}

func TestAPI_PostsAndComments(t *testing.T) {
	e := newTestEnv(t)
	author := e.user("author")
	reader := e.user("reader")

	req := jsonRequest(t, http.MethodPost, "/api/v1/posts", map[string]string{"text": "from the api"})
	resp, body := e.do(req, author)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)

	var created models.Post
	require.NoError(t, json.Unmarshal([]byte(body), &created))
	assert.Equal(t, "author", created.Author.Username)

	resp, _ = e.do(jsonRequest(t, http.MethodPost, "/api/v1/posts", map[string]string{"text": "anon"}), nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	path := fmt.Sprintf("/api/v1/posts/%d/comments", created.ID)
	resp, _ = e.do(jsonRequest(t, http.MethodPost, path, map[string]string{"text": "first!"}), reader)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body = e.get(path, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var comments []models.Comment
	require.NoError(t, json.Unmarshal([]byte(body), &comments))
	require.Len(t, comments, 1)
	assert.Equal(t, "first!", comments[0].Text)

	resp, _ = e.do(jsonRequest(t, http.MethodPut, fmt.Sprintf("/api/v1/posts/%d", created.ID),
		map[string]string{"text": "rewritten"}), reader)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "from the api", e.reload(&created).Text)

	resp, _ = e.do(httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/v1/posts/%d", created.ID), nil), author)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var remaining int64
	require.NoError(t, e.db.Model(&models.Comment{}).Where("post_id = ?", created.ID).Count(&remaining).Error)
	assert.Zero(t, remaining)
}

func TestAPI_ProfileAndFollowFeed(t *testing.T) {
	e := newTestEnv(t)
	author := e.user("author")
	reader := e.user("reader")
	e.post(author, "for followers", nil)

	resp, _ := e.do(httptest.NewRequest(http.MethodPost, "/api/v1/profiles/author/follow", nil), reader)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := e.get("/api/v1/profiles/author", reader)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var profile struct {
		PostCount int  `json:"post_count"`
		Following bool `json:"following"`
		Followers int  `json:"followers"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &profile))
	assert.Equal(t, 1, profile.PostCount)
	assert.True(t, profile.Following)
	assert.Equal(t, 1, profile.Followers)

	resp, body = e.get("/api/v1/follow", reader)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "for followers")

	resp, _ = e.do(httptest.NewRequest(http.MethodDelete, "/api/v1/profiles/author/follow", nil), reader)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, body = e.get("/api/v1/follow", reader)
	assert.NotContains(t, body, "for followers")
}

func TestHealthEndpoints(t *testing.T) {
	e := newTestEnv(t)

	resp, _ := e.get("/health/live", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := e.get("/health/ready", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "healthy")
}
