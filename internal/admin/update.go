package admin

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/d60-Lab/blog-admin/internal/client"
	"github.com/d60-Lab/blog-admin/internal/entity"
	"github.com/d60-Lab/blog-admin/internal/form"
	"github.com/d60-Lab/blog-admin/internal/model"
)

// ErrSaveInProgress 上一次保存尚未结束
var ErrSaveInProgress = errors.New("save already in progress")

// UpdateView 新建/编辑表单
type UpdateView[E any, P entity.Ref[E], R any] struct {
	Entity P
	Raw    R

	saving atomic.Bool
	svc    Saver[P]
	form   form.Form[E, R]
	nav    Navigator
}

func NewUpdateView[E any, P entity.Ref[E], R any](svc Saver[P], f form.Form[E, R], nav Navigator) *UpdateView[E, P, R] {
	return &UpdateView[E, P, R]{svc: svc, form: f, nav: nav}
}

// Init e 为 nil 时进入新建流程，表单取默认值
func (v *UpdateView[E, P, R]) Init(e P, now time.Time) {
	v.Entity = e
	if e == nil {
		v.Raw = v.form.Defaults(now)
		return
	}
	v.Raw = v.form.ToRawValue((*E)(e))
}

func (v *UpdateView[E, P, R]) IsSaving() bool { return v.saving.Load() }

// Save id 非空时更新，否则新建。成功后返回上一页；失败不跳转。两种情况 IsSaving 都会复位。
func (v *UpdateView[E, P, R]) Save(ctx context.Context, raw R) (P, error) {
	if !v.saving.CompareAndSwap(false, true) {
		return nil, ErrSaveInProgress
	}
	defer v.saving.Store(false)

	v.Raw = raw
	e, err := v.form.FromRawValue(raw)
	if err != nil {
		return nil, err
	}
	p := P(e)

	var res P
	if entity.Identifier(p) != nil {
		res, err = v.svc.Update(ctx, p)
	} else {
		res, err = v.svc.Create(ctx, p)
	}
	if err != nil {
		return nil, err
	}
	v.Entity = res
	v.nav.Back()
	return res, nil
}

func (v *UpdateView[E, P, R]) PreviousState() { v.nav.Back() }

// PostStatusOptions 帖子可选的状态：未被引用的状态加上当前状态
func PostStatusOptions(ctx context.Context, svc Querier[*model.PostStatus], current *model.PostStatus) ([]*model.PostStatus, error) {
	page, err := svc.Query(ctx, client.QueryOptions{Filter: "post-is-null"})
	if err != nil {
		return nil, err
	}
	return entity.AddToCollectionIfMissing(page.Items, current), nil
}

// PostOptions 评论可选的帖子：全部帖子加上当前帖子
func PostOptions(ctx context.Context, svc Querier[*model.Post], current *model.Post) ([]*model.Post, error) {
	page, err := svc.Query(ctx, client.QueryOptions{})
	if err != nil {
		return nil, err
	}
	return entity.AddToCollectionIfMissing(page.Items, current), nil
}
