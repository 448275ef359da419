package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/blog-admin/internal/model"
	"github.com/d60-Lab/blog-admin/internal/model/sample"
)

type recorded struct {
	method      string
	path        string
	query       url.Values
	contentType string
	auth        string
	body        string
}

func newServer(t *testing.T, fn func(w http.ResponseWriter, r *http.Request)) (*Client, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		calls = append(calls, recorded{
			method:      r.Method,
			path:        r.URL.Path,
			query:       r.URL.Query(),
			contentType: r.Header.Get("Content-Type"),
			auth:        r.Header.Get("Authorization"),
			body:        string(b),
		})
		fn(w, r)
	}))
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, WithToken("tok"))
	require.NoError(t, err)
	return c, &calls
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestFind(t *testing.T) {
	full := sample.PostStatusWithFullData()
	c, calls := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/post-statuses/7017":
			writeJSON(w, http.StatusOK, full)
		case "/api/post-statuses/1":
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	svc := NewPostStatusService(c)
	ctx := context.Background()

	got, err := svc.Find(ctx, 7017)
	require.NoError(t, err)
	assert.Equal(t, full, *got)
	assert.Equal(t, "Bearer tok", (*calls)[0].auth)

	_, err = svc.Find(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Find(ctx, 2)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateUpdatePatchDelete(t *testing.T) {
	c, calls := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var s model.PostStatus
			_ = json.NewDecoder(r.Body).Decode(&s)
			s.ID = ptr(int64(10))
			writeJSON(w, http.StatusCreated, s)
		case http.MethodPut, http.MethodPatch:
			writeJSON(w, http.StatusOK, model.PostStatus{ID: ptr(int64(10)), Status: "updated"})
		case http.MethodDelete:
			if r.URL.Path == "/api/post-statuses/10" {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			w.WriteHeader(http.StatusOK)
		}
	})
	svc := NewPostStatusService(c)
	ctx := context.Background()

	newStatus := sample.PostStatusWithNewData()
	created, err := svc.Create(ctx, &newStatus)
	require.NoError(t, err)
	assert.Equal(t, int64(10), *created.ID)
	assert.Equal(t, "eyeglasses", created.Status)
	assert.Equal(t, "/api/post-statuses", (*calls)[0].path)
	assert.JSONEq(t, `{"id":null,"status":"eyeglasses"}`, (*calls)[0].body)

	_, err = svc.Update(ctx, &newStatus)
	assert.ErrorIs(t, err, ErrMissingID)

	updated, err := svc.Update(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, "updated", updated.Status)
	assert.Equal(t, http.MethodPut, (*calls)[1].method)
	assert.Equal(t, "/api/post-statuses/10", (*calls)[1].path)

	_, err = svc.PartialUpdate(ctx, 10, model.PostStatusPatch{ID: ptr(int64(10)), Status: ptr("x")})
	require.NoError(t, err)
	assert.Equal(t, "application/merge-patch+json", (*calls)[2].contentType)

	assert.NoError(t, svc.Delete(ctx, 10))
	assert.NoError(t, svc.Delete(ctx, 11))
}

func TestQuery(t *testing.T) {
	c, calls := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/posts/count" {
			writeJSON(w, http.StatusOK, 42)
			return
		}
		w.Header().Set("X-Total-Count", "42")
		writeJSON(w, http.StatusOK, []model.Post{sample.PostWithRequiredData()})
	})
	svc := NewPostService(c)
	ctx := context.Background()

	page, size := 1, 5
	res, err := svc.Query(ctx, QueryOptions{
		Sort:     []string{"title,asc", "id,asc"},
		Page:     &page,
		Size:     &size,
		Criteria: url.Values{"title.contains": {"go"}},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 42, res.Total)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "lawful above unless", res.Items[0].Title)

	q := (*calls)[0].query
	assert.Equal(t, []string{"title,asc", "id,asc"}, q["sort"])
	assert.Equal(t, "1", q.Get("page"))
	assert.Equal(t, "5", q.Get("size"))
	assert.Equal(t, "go", q.Get("title.contains"))

	n, err := svc.Count(ctx, url.Values{"title.contains": {"go"}})
	require.NoError(t, err)
	assert.EqualValues(t, 42, n)
}

func TestQueryWithoutTotal(t *testing.T) {
	c, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	res, err := NewCommentService(c).Query(context.Background(), QueryOptions{Filter: "post-is-null"})
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.EqualValues(t, -1, res.Total)
}

func TestAPIError(t *testing.T) {
	c, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"title": "A new postStatus cannot already have an ID", "status": 400, "entityName": "postStatus", "errorKey": "idexists",
		})
	})
	full := sample.PostStatusWithFullData()
	_, err := NewPostStatusService(c).Create(context.Background(), &full)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "idexists", apiErr.Problem.ErrorKey)
	assert.Contains(t, apiErr.Error(), "idexists")
}

func TestAuthenticate(t *testing.T) {
	c, calls := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"id_token": "fresh"})
	})
	c.SetToken("")
	token, err := c.Authenticate(context.Background(), "admin", "admin")
	require.NoError(t, err)
	assert.Equal(t, "fresh", token)
	assert.Equal(t, "fresh", c.Token())
	assert.Empty(t, (*calls)[0].auth)
	assert.JSONEq(t, `{"username":"admin","password":"admin"}`, (*calls)[0].body)
}

func TestNewRejectsRelativeURL(t *testing.T) {
	_, err := New("localhost:8080")
	assert.Error(t, err)
}

func ptr[T any](v T) *T { return &v }
