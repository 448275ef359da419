package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/blog-admin/config"
	"github.com/d60-Lab/blog-admin/internal/api/handler"
	"github.com/d60-Lab/blog-admin/internal/api/middleware"
	"github.com/d60-Lab/blog-admin/internal/auth"
	"github.com/d60-Lab/blog-admin/internal/model"
	"github.com/d60-Lab/blog-admin/internal/repository"
	"github.com/d60-Lab/blog-admin/internal/service"
	"github.com/d60-Lab/blog-admin/pkg/cache"
	"github.com/d60-Lab/blog-admin/pkg/database"
	"github.com/d60-Lab/blog-admin/pkg/response"
)

type testServer struct {
	t      *testing.T
	router *gin.Engine
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWith(t, nil)
}

func newTestServerWith(t *testing.T, configure func(*config.Config)) *testServer {
	t.Helper()
	db, err := database.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	c, err := cache.NewLRU(128, time.Minute)
	require.NoError(t, err)

	adminHash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.MinCost)
	require.NoError(t, err)
	userHash, err := bcrypt.GenerateFromPassword([]byte("user"), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: gin.TestMode, RateLimitRPS: 1000, RateBurst: 1000},
		JWT:    config.JWTConfig{Secret: "test-secret", TTL: time.Hour, Issuer: "blog-admin"},
		Users: []config.UserConfig{
			{Username: "admin", PasswordHash: string(adminHash), Authorities: []string{model.RoleAdmin, model.RoleUser}},
			{Username: "user", PasswordHash: string(userHash), Authorities: []string{model.RoleUser}},
		},
	}
	if configure != nil {
		configure(cfg)
	}
	a := auth.NewAuthenticator(cfg.JWT, cfg.Users)

	statusRepo := repository.NewPostStatusRepository(db)
	postRepo := repository.NewPostRepository(db)
	statuses := service.NewPostStatusService(statusRepo, c)
	posts := service.NewPostService(postRepo, statusRepo, statuses, c)
	h := handler.New(
		statuses,
		posts,
		service.NewCommentService(repository.NewCommentRepository(db), postRepo, posts, c),
		service.NewAuthorityService(repository.NewAuthorityRepository(db)),
		service.NewExportService(postRepo),
		a,
	)

	s := &testServer{t: t, router: NewRouter(Deps{Config: cfg, Handler: h, Auth: a, Metrics: middleware.NewMetrics(), DB: db})}
	s.token = s.login("admin", "admin")
	return s
}

func (s *testServer) do(method, path, token, contentType string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) call(method, path string, body any) *httptest.ResponseRecorder {
	return s.do(method, path, s.token, "application/json", body)
}

func (s *testServer) login(user, pass string) string {
	w := s.do(http.MethodPost, "/api/authenticate", "", "application/json", map[string]string{"username": user, "password": pass})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	var res struct {
		IDToken string `json:"id_token"`
	}
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &res))
	return res.IDToken
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestAuthenticate(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodPost, "/api/authenticate", "", "application/json", map[string]string{"username": "admin", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/api/posts", "", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPostStatusEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := s.call(http.MethodPost, "/api/post-statuses", map[string]any{"status": "draft"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[model.PostStatus](t, w)
	require.NotNil(t, created.ID)
	id := *created.ID
	assert.Equal(t, "/api/post-statuses/"+itoa(id), w.Header().Get("Location"))
	assert.Equal(t, "blogAdminApp.postStatus.created", w.Header().Get(response.AlertHeader))
	assert.Equal(t, itoa(id), w.Header().Get(response.ParamsHeader))

	w = s.call(http.MethodPost, "/api/post-statuses", map[string]any{"id": 5, "status": "x"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "idexists", decode[response.Problem](t, w).ErrorKey)

	w = s.call(http.MethodPut, "/api/post-statuses/"+itoa(id), map[string]any{"status": "x"})
	assert.Equal(t, "idnull", decode[response.Problem](t, w).ErrorKey)
	w = s.call(http.MethodPut, "/api/post-statuses/"+itoa(id), map[string]any{"id": id + 1, "status": "x"})
	assert.Equal(t, "idinvalid", decode[response.Problem](t, w).ErrorKey)
	w = s.call(http.MethodPut, "/api/post-statuses/999", map[string]any{"id": 999, "status": "x"})
	assert.Equal(t, "idnotfound", decode[response.Problem](t, w).ErrorKey)

	w = s.do(http.MethodPatch, "/api/post-statuses/"+itoa(id), s.token, "application/merge-patch+json", map[string]any{"id": id, "status": "published"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "published", decode[model.PostStatus](t, w).Status)
	assert.Equal(t, "blogAdminApp.postStatus.updated", w.Header().Get(response.AlertHeader))

	w = s.call(http.MethodGet, "/api/post-statuses/"+itoa(id), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "published", decode[model.PostStatus](t, w).Status)

	s.call(http.MethodPost, "/api/post-statuses", map[string]any{"status": "archived"})
	w = s.call(http.MethodGet, "/api/post-statuses?sort=status,asc", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]model.PostStatus](t, w)
	require.Len(t, list, 2)
	assert.Equal(t, "archived", list[0].Status)

	w = s.call(http.MethodGet, "/api/post-statuses?sort=secret,asc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.call(http.MethodDelete, "/api/post-statuses/"+itoa(id), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
	assert.Equal(t, "blogAdminApp.postStatus.deleted", w.Header().Get(response.AlertHeader))

	w = s.call(http.MethodGet, "/api/post-statuses/"+itoa(id), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPostEndpointsPagination(t *testing.T) {
	s := newTestServer(t)

	st := decode[model.PostStatus](t, s.call(http.MethodPost, "/api/post-statuses", map[string]any{"status": "draft"}))
	for i := range 5 {
		body := map[string]any{
			"title":      "post " + itoa(int64(i)),
			"createTime": "2025-04-10T10:53:00Z",
			"updateTime": "2025-04-10T12:12:00Z",
		}
		if i%2 == 0 {
			body["postStatus"] = map[string]any{"id": *st.ID}
		}
		w := s.call(http.MethodPost, "/api/posts", body)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := s.call(http.MethodGet, "/api/posts?page=1&size=2&sort=id,asc", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "5", w.Header().Get("X-Total-Count"))
	link := w.Header().Get("Link")
	assert.Contains(t, link, `page=2&size=2&sort=id%2Casc>; rel="next"`)
	assert.Contains(t, link, `rel="prev"`)
	assert.Contains(t, link, `page=0&size=2&sort=id%2Casc>; rel="first"`)
	page := decode[[]model.Post](t, w)
	require.Len(t, page, 2)
	assert.Equal(t, "post 2", page[0].Title)
	require.NotNil(t, page[0].PostStatus)
	assert.Equal(t, "draft", page[0].PostStatus.Status)

	w = s.call(http.MethodGet, "/api/posts/count?postStatusId.specified=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "3", strings.TrimSpace(w.Body.String()))

	w = s.call(http.MethodGet, "/api/posts?author.equals=x", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.call(http.MethodGet, "/api/post-statuses?filter=post-is-null", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]model.PostStatus](t, w))

	w = s.call(http.MethodGet, "/api/posts/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCommentEndpoints(t *testing.T) {
	s := newTestServer(t)

	post := decode[model.Post](t, s.call(http.MethodPost, "/api/posts", map[string]any{
		"title": "hello", "createTime": "2025-04-10T10:53:00Z", "updateTime": "2025-04-10T10:53:00Z",
	}))
	w := s.call(http.MethodPost, "/api/comments", map[string]any{
		"content": "first", "createTime": "2025-04-10T11:00:00Z", "post": map[string]any{"id": *post.ID},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	c := decode[model.Comment](t, w)
	require.NotNil(t, c.Post)
	assert.Equal(t, "hello", c.Post.Title)

	w = s.call(http.MethodGet, "/api/comments?postId.equals="+itoa(*post.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]model.Comment](t, w), 1)

	w = s.call(http.MethodPost, "/api/comments", map[string]any{"createTime": "2025-04-10T11:00:00Z"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	require.Equal(t, http.StatusOK, s.call(http.MethodDelete, "/api/posts/"+itoa(*post.ID), nil).Code)
	w = s.call(http.MethodGet, "/api/comments/"+itoa(*c.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decode[model.Comment](t, w).Post)
}

func TestListDefaultsToFirstPage(t *testing.T) {
	s := newTestServer(t)

	post := decode[model.Post](t, s.call(http.MethodPost, "/api/posts", map[string]any{
		"title": "hello", "createTime": "2025-04-10T10:53:00Z", "updateTime": "2025-04-10T10:53:00Z",
	}))
	for i := range 25 {
		w := s.call(http.MethodPost, "/api/comments", map[string]any{
			"content": "c" + itoa(int64(i)), "createTime": "2025-04-10T11:00:00Z", "post": map[string]any{"id": *post.ID},
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		s.call(http.MethodPost, "/api/post-statuses", map[string]any{"status": "s" + itoa(int64(i))})
	}

	w := s.call(http.MethodGet, "/api/comments", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]model.Comment](t, w), model.DefaultPageSize)
	assert.Equal(t, "25", w.Header().Get("X-Total-Count"))
	link := w.Header().Get("Link")
	assert.Contains(t, link, `page=1&size=20>; rel="next"`)
	assert.Contains(t, link, `page=0&size=20>; rel="first"`)

	w = s.call(http.MethodGet, "/api/posts", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]model.Post](t, w), 1)
	assert.Contains(t, w.Header().Get("Link"), `rel="last"`)

	// 帖子状态列表不分页
	w = s.call(http.MethodGet, "/api/post-statuses", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]model.PostStatus](t, w), 25)

	w = s.call(http.MethodGet, "/api/comments?id.in=", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.call(http.MethodGet, "/api/posts?title.notIn=,", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRateLimitKeysOnRemoteAddr(t *testing.T) {
	s := newTestServerWith(t, func(cfg *config.Config) {
		cfg.Server.RateLimitRPS = 0.001
		cfg.Server.RateBurst = 1
	})

	// 登录已用掉 RemoteAddr 的唯一令牌，伪造 X-Forwarded-For 也拿不到新令牌
	for i := range 10 {
		req := httptest.NewRequest(http.MethodGet, "/api/post-statuses", nil)
		req.Header.Set("Authorization", "Bearer "+s.token)
		req.Header.Set("X-Forwarded-For", "198.51.100."+itoa(int64(i+1)))
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	}
}

func TestAuthorityEndpoints(t *testing.T) {
	s := newTestServer(t)
	userToken := s.login("user", "user")

	w := s.do(http.MethodGet, "/api/authorities", userToken, "", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.call(http.MethodPost, "/api/authorities", map[string]any{"name": "ROLE_MODERATOR"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/api/authorities/ROLE_MODERATOR", w.Header().Get("Location"))

	w = s.call(http.MethodPost, "/api/authorities", map[string]any{"name": "ROLE_MODERATOR"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.call(http.MethodGet, "/api/authorities/ROLE_MODERATOR", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, http.StatusOK, s.call(http.MethodDelete, "/api/authorities/ROLE_MODERATOR", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.call(http.MethodGet, "/api/authorities/ROLE_MODERATOR", nil).Code)
}

func TestExportAndManagement(t *testing.T) {
	s := newTestServer(t)
	s.call(http.MethodPost, "/api/posts", map[string]any{
		"title": "exported", "content": "# Heading", "createTime": "2025-04-10T10:53:00Z", "updateTime": "2025-04-10T10:53:00Z",
	})

	w := s.call(http.MethodGet, "/api/export/posts", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "<h1>Heading</h1>")

	w = s.do(http.MethodGet, "/management/health", "", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"UP"`)

	w = s.do(http.MethodGet, "/management/prometheus", "", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "blog_admin_http_requests_total")
}

func itoa(v int64) string { return strconv.FormatInt(v, 10) }
