package admin

import (
	"context"

	"github.com/d60-Lab/blog-admin/internal/client"
	"github.com/d60-Lab/blog-admin/internal/sortstate"
)

// ListView 实体列表
type ListView[P any] struct {
	Items     []P
	IsLoading bool
	Sort      sortstate.SortState
	// Filter/Criteria 原样传给查询
	Filter   string
	Criteria map[string][]string

	svc    Querier[P]
	fields sortstate.Fields[P]
}

func NewListView[P any](svc Querier[P], fields sortstate.Fields[P]) *ListView[P] {
	return &ListView[P]{svc: svc, fields: fields}
}

// ApplyRoute 读取路由上的 sort 参数，空时用 defaultSort；列表为空时加载，否则只在本地重排
func (v *ListView[P]) ApplyRoute(ctx context.Context, sortParam, defaultSort string) error {
	if sortParam == "" {
		sortParam = defaultSort
	}
	v.Sort = sortstate.ParseSortParam(sortParam)
	if len(v.Items) == 0 {
		return v.Load(ctx)
	}
	v.refine()
	return nil
}

func (v *ListView[P]) Load(ctx context.Context) error {
	v.IsLoading = true
	defer func() { v.IsLoading = false }()

	page, err := v.svc.Query(ctx, client.QueryOptions{
		Sort:     sortstate.BuildSortParam(v.Sort, ""),
		Filter:   v.Filter,
		Criteria: v.Criteria,
	})
	if err != nil {
		return err
	}
	v.Items = page.Items
	if v.Items == nil {
		v.Items = []P{}
	}
	v.refine()
	return nil
}

// SortParam 当前排序对应的路由参数
func (v *ListView[P]) SortParam() []string {
	return sortstate.BuildSortParam(v.Sort, "")
}

// Delete 对话框确认删除后重新加载
func (v *ListView[P]) Delete(ctx context.Context, dialog *DeleteDialog, id int64) (Event, error) {
	ev, err := dialog.ConfirmDelete(ctx, id)
	if err != nil {
		return ev, err
	}
	if ev == ItemDeletedEvent {
		return ev, v.Load(ctx)
	}
	return ev, nil
}

func (v *ListView[P]) refine() {
	sortstate.Sort(v.Items, v.Sort, v.fields)
}
