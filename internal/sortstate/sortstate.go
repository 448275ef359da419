// Package sortstate 列表单字段排序：解析/生成 sort 参数，并在本地按同一字段排序。
package sortstate

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/d60-Lab/blog-admin/internal/model"
)

const (
	Asc  = "asc"
	Desc = "desc"
)

// SortState Predicate 为字段名，Order 为 asc/desc；任一为空表示保持服务端顺序
type SortState struct {
	Predicate string
	Order     string
}

func (s SortState) Active() bool { return s.Predicate != "" && s.Order != "" }

// ParseSortParam 解析 "status,asc"
func ParseSortParam(raw string) SortState {
	pred, order, _ := strings.Cut(raw, ",")
	pred = strings.TrimSpace(pred)
	order = strings.ToLower(strings.TrimSpace(order))
	if order != Asc && order != Desc {
		order = ""
	}
	return SortState{Predicate: pred, Order: order}
}

// BuildSortParam 生成 sort 参数；fallback 非空且不同于 Predicate 时追加 "fallback,asc"
func BuildSortParam(s SortState, fallback string) []string {
	var out []string
	if s.Active() {
		out = append(out, s.Predicate+","+s.Order)
	}
	if fallback != "" && s.Predicate != fallback {
		out = append(out, fallback+","+Asc)
	}
	return out
}

// Fields 字段名到升序比较函数
type Fields[T any] map[string]func(a, b T) int

// Comparator 返回按 state 排序的比较函数；state 不完整或字段未知时 ok 为 false
func Comparator[T any](s SortState, fields Fields[T]) (func(a, b T) int, bool) {
	if !s.Active() {
		return nil, false
	}
	f, ok := fields[s.Predicate]
	if !ok {
		return nil, false
	}
	if s.Order == Desc {
		return func(a, b T) int { return f(b, a) }, true
	}
	return f, true
}

// Sort 稳定排序，相等元素保持原有先后；无法排序时 items 不变
func Sort[T any](items []T, s SortState, fields Fields[T]) {
	if c, ok := Comparator(s, fields); ok {
		slices.SortStableFunc(items, c)
	}
}

// ByString / ByInt / ByTime 构造字段比较函数，nil 排在最前
func ByString[T any](get func(T) *string) func(a, b T) int {
	return func(a, b T) int { return comparePtr(get(a), get(b)) }
}

func ByInt[T any](get func(T) *int64) func(a, b T) int {
	return func(a, b T) int { return comparePtr(get(a), get(b)) }
}

func ByTime[T any](get func(T) time.Time) func(a, b T) int {
	return func(a, b T) int { return get(a).Compare(get(b)) }
}

func comparePtr[V cmp.Ordered](a, b *V) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return cmp.Compare(*a, *b)
}

var PostStatusFields = Fields[*model.PostStatus]{
	"id":     ByInt(func(s *model.PostStatus) *int64 { return s.ID }),
	"status": ByString(func(s *model.PostStatus) *string { return &s.Status }),
}

var PostFields = Fields[*model.Post]{
	"id":            ByInt(func(p *model.Post) *int64 { return p.ID }),
	"title":         ByString(func(p *model.Post) *string { return &p.Title }),
	"content":       ByString(func(p *model.Post) *string { return p.Content }),
	"createTime":    ByTime(func(p *model.Post) time.Time { return p.CreateTime }),
	"updateTime":    ByTime(func(p *model.Post) time.Time { return p.UpdateTime }),
	"postStatus.id": ByInt(func(p *model.Post) *int64 { return p.PostStatus.GetID() }),
}

var CommentFields = Fields[*model.Comment]{
	"id":         ByInt(func(c *model.Comment) *int64 { return c.ID }),
	"content":    ByString(func(c *model.Comment) *string { return &c.Content }),
	"createTime": ByTime(func(c *model.Comment) time.Time { return c.CreateTime }),
	"post.id":    ByInt(func(c *model.Comment) *int64 { return c.Post.GetID() }),
}
