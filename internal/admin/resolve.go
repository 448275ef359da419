package admin

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/d60-Lab/blog-admin/internal/client"
	"github.com/d60-Lab/blog-admin/internal/entity"
)

// Resolve 按路由 id 取实体。
// id 为空：不请求，返回 nil 与 emitted=true（新建流程）。
// 实体不存在或 id 非法：跳转 404，emitted=false。
func Resolve[E any, P entity.Ref[E]](ctx context.Context, f Finder[P], id string, nav Navigator) (P, bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, true, nil
	}
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		nav.Navigate(NotFoundRoute)
		return nil, false, nil
	}
	e, err := f.Find(ctx, n)
	if errors.Is(err, client.ErrNotFound) || (err == nil && e == nil) {
		nav.Navigate(NotFoundRoute)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return e, true, nil
}
