// Package form 实体与编辑态（raw value）之间的转换。
// 编辑态中时间字段为 DateTimeFormat 文本，按 Loc（默认本地时区）解释，精度到分钟。
package form

import (
	"fmt"
	"strings"
	"time"

	"github.com/d60-Lab/blog-admin/internal/model"
)

const DateTimeFormat = "2006-01-02T15:04"

// Form 一种实体的编辑态转换
type Form[E any, R any] interface {
	// Defaults 新建时的初始值：id 为空，时间字段为 now
	Defaults(now time.Time) R
	ToRawValue(e *E) R
	FromRawValue(r R) (*E, error)
}

// IDEditable id 分配之后不可再编辑
func IDEditable(id *int64) bool { return id == nil }

// FormatTime 零值返回 nil
func FormatTime(t time.Time, loc *time.Location) *string {
	if t.IsZero() {
		return nil
	}
	s := t.In(location(loc)).Format(DateTimeFormat)
	return &s
}

// ParseTime nil 或空串返回零值
func ParseTime(s *string, loc *time.Location) (time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(DateTimeFormat, strings.TrimSpace(*s), location(loc))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date time %q, want %s", *s, DateTimeFormat)
	}
	return t, nil
}

func location(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}

type PostStatusRawValue struct {
	ID     *int64 `json:"id"`
	Status string `json:"status"`
}

type PostStatusForm struct{}

func (PostStatusForm) Defaults(time.Time) PostStatusRawValue { return PostStatusRawValue{} }

func (PostStatusForm) ToRawValue(s *model.PostStatus) PostStatusRawValue {
	if s == nil {
		return PostStatusRawValue{}
	}
	return PostStatusRawValue{ID: s.ID, Status: s.Status}
}

func (PostStatusForm) FromRawValue(r PostStatusRawValue) (*model.PostStatus, error) {
	return &model.PostStatus{ID: r.ID, Status: r.Status}, nil
}

type PostRawValue struct {
	ID         *int64            `json:"id"`
	Title      string            `json:"title"`
	Content    *string           `json:"content"`
	CreateTime *string           `json:"createTime"`
	UpdateTime *string           `json:"updateTime"`
	PostStatus *model.PostStatus `json:"postStatus"`
}

type PostForm struct {
	Loc *time.Location
}

func (f PostForm) Defaults(now time.Time) PostRawValue {
	return PostRawValue{CreateTime: FormatTime(now, f.Loc), UpdateTime: FormatTime(now, f.Loc)}
}

func (f PostForm) ToRawValue(p *model.Post) PostRawValue {
	if p == nil {
		return PostRawValue{}
	}
	return PostRawValue{
		ID:         p.ID,
		Title:      p.Title,
		Content:    p.Content,
		CreateTime: FormatTime(p.CreateTime, f.Loc),
		UpdateTime: FormatTime(p.UpdateTime, f.Loc),
		PostStatus: p.PostStatus,
	}
}

func (f PostForm) FromRawValue(r PostRawValue) (*model.Post, error) {
	created, err := ParseTime(r.CreateTime, f.Loc)
	if err != nil {
		return nil, fmt.Errorf("createTime: %w", err)
	}
	updated, err := ParseTime(r.UpdateTime, f.Loc)
	if err != nil {
		return nil, fmt.Errorf("updateTime: %w", err)
	}
	return &model.Post{
		ID:         r.ID,
		Title:      r.Title,
		Content:    r.Content,
		CreateTime: created,
		UpdateTime: updated,
		PostStatus: r.PostStatus,
	}, nil
}

type CommentRawValue struct {
	ID         *int64      `json:"id"`
	Content    string      `json:"content"`
	CreateTime *string     `json:"createTime"`
	Post       *model.Post `json:"post"`
}

type CommentForm struct {
	Loc *time.Location
}

func (f CommentForm) Defaults(now time.Time) CommentRawValue {
	return CommentRawValue{CreateTime: FormatTime(now, f.Loc)}
}

func (f CommentForm) ToRawValue(c *model.Comment) CommentRawValue {
	if c == nil {
		return CommentRawValue{}
	}
	return CommentRawValue{ID: c.ID, Content: c.Content, CreateTime: FormatTime(c.CreateTime, f.Loc), Post: c.Post}
}

func (f CommentForm) FromRawValue(r CommentRawValue) (*model.Comment, error) {
	created, err := ParseTime(r.CreateTime, f.Loc)
	if err != nil {
		return nil, fmt.Errorf("createTime: %w", err)
	}
	return &model.Comment{ID: r.ID, Content: r.Content, CreateTime: created, Post: r.Post}, nil
}

var (
	_ Form[model.PostStatus, PostStatusRawValue] = PostStatusForm{}
	_ Form[model.Post, PostRawValue]             = PostForm{}
	_ Form[model.Comment, CommentRawValue]       = CommentForm{}
)
