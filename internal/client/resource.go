package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/d60-Lab/blog-admin/internal/entity"
	"github.com/d60-Lab/blog-admin/internal/model"
)

// ErrMissingID 更新时实体没有 id
var ErrMissingID = errors.New("entity has no id")

// QueryOptions 列表查询参数；Criteria 形如 title.contains=go
type QueryOptions struct {
	Sort     []string
	Filter   string
	Page     *int
	Size     *int
	Criteria url.Values
}

func (o QueryOptions) values() url.Values {
	v := url.Values{}
	for k, vals := range o.Criteria {
		v[k] = append([]string(nil), vals...)
	}
	for _, s := range o.Sort {
		v.Add("sort", s)
	}
	if o.Filter != "" {
		v.Set("filter", o.Filter)
	}
	if o.Page != nil {
		v.Set("page", strconv.Itoa(*o.Page))
	}
	if o.Size != nil {
		v.Set("size", strconv.Itoa(*o.Size))
	}
	return v
}

// Page 列表结果；Total 来自 X-Total-Count，缺失时为 -1
type Page[P any] struct {
	Items []P
	Total int64
}

// Resource 一个实体的 CRUD 端点，如 api/posts
type Resource[E any, P entity.Ref[E]] struct {
	c    *Client
	path string
}

func NewResource[E any, P entity.Ref[E]](c *Client, path string) *Resource[E, P] {
	return &Resource[E, P]{c: c, path: path}
}

type (
	PostStatusService = Resource[model.PostStatus, *model.PostStatus]
	PostService       = Resource[model.Post, *model.Post]
	CommentService    = Resource[model.Comment, *model.Comment]
)

func NewPostStatusService(c *Client) *PostStatusService {
	return NewResource[model.PostStatus](c, "api/post-statuses")
}

func NewPostService(c *Client) *PostService { return NewResource[model.Post](c, "api/posts") }

func NewCommentService(c *Client) *CommentService { return NewResource[model.Comment](c, "api/comments") }

func (r *Resource[E, P]) item(id int64) string {
	return r.path + "/" + strconv.FormatInt(id, 10)
}

func (r *Resource[E, P]) Create(ctx context.Context, e P) (P, error) {
	out := P(new(E))
	if _, err := r.c.do(ctx, http.MethodPost, r.path, nil, "", e, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Resource[E, P]) Update(ctx context.Context, e P) (P, error) {
	id := entity.Identifier(e)
	if id == nil {
		return nil, ErrMissingID
	}
	out := P(new(E))
	if _, err := r.c.do(ctx, http.MethodPut, r.item(*id), nil, "", e, out); err != nil {
		return nil, err
	}
	return out, nil
}

// PartialUpdate patch 中须带 id，只发送需要修改的字段
func (r *Resource[E, P]) PartialUpdate(ctx context.Context, id int64, patch any) (P, error) {
	out := P(new(E))
	if _, err := r.c.do(ctx, http.MethodPatch, r.item(id), nil, "application/merge-patch+json", patch, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Find 实体不存在返回 ErrNotFound
func (r *Resource[E, P]) Find(ctx context.Context, id int64) (P, error) {
	out := P(new(E))
	if _, err := r.c.do(ctx, http.MethodGet, r.item(id), nil, "", nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Resource[E, P]) Query(ctx context.Context, opts QueryOptions) (Page[P], error) {
	var items []P
	h, err := r.c.do(ctx, http.MethodGet, r.path, opts.values(), "", nil, &items)
	if errors.Is(err, errEmptyBody) {
		err = nil
	}
	if err != nil {
		return Page[P]{}, err
	}
	page := Page[P]{Items: items, Total: -1}
	if n, err := strconv.ParseInt(h.Get("X-Total-Count"), 10, 64); err == nil {
		page.Total = n
	}
	return page, nil
}

func (r *Resource[E, P]) Count(ctx context.Context, criteria url.Values) (int64, error) {
	var n int64
	if _, err := r.c.do(ctx, http.MethodGet, r.path+"/count", criteria, "", nil, &n); err != nil {
		return 0, err
	}
	return n, nil
}

// Delete 200 与 204 都视为成功
func (r *Resource[E, P]) Delete(ctx context.Context, id int64) error {
	_, err := r.c.do(ctx, http.MethodDelete, r.item(id), nil, "", nil, nil)
	return err
}
