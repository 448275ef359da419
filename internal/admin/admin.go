// Package admin 管理界面的各个视图：解析路由实体、列表、编辑、删除确认与详情。
// 视图只持有状态，数据通过 client 包访问，跳转通过 Navigator 完成。
package admin

import (
	"context"
	"strings"
	"sync"

	"github.com/d60-Lab/blog-admin/internal/client"
)

// Navigator 路由跳转
type Navigator interface {
	Back()
	Navigate(path ...string)
}

// Event 对话框关闭原因
type Event string

const (
	ItemDeletedEvent Event = "deleted"
	DismissedEvent   Event = "dismissed"
)

const NotFoundRoute = "404"

type Finder[P any] interface {
	Find(ctx context.Context, id int64) (P, error)
}

type Querier[P any] interface {
	Query(ctx context.Context, opts client.QueryOptions) (client.Page[P], error)
}

type Saver[P any] interface {
	Create(ctx context.Context, e P) (P, error)
	Update(ctx context.Context, e P) (P, error)
}

type Deleter interface {
	Delete(ctx context.Context, id int64) error
}

// History 内存中的导航栈，供命令行与测试使用
type History struct {
	mu    sync.Mutex
	stack []string
}

func NewHistory(start string) *History { return &History{stack: []string{start}} }

func (h *History) Navigate(path ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stack = append(h.stack, strings.Join(path, "/"))
}

func (h *History) Back() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.stack) > 1 {
		h.stack = h.stack[:len(h.stack)-1]
	}
}

// Current 当前路径
func (h *History) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.stack) == 0 {
		return ""
	}
	return h.stack[len(h.stack)-1]
}
