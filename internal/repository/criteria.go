package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/blog-admin/internal/model"
)

// 各实体允许排序的字段：JSON 名 -> 列名
var (
	postStatusColumns = map[string]string{"id": "id", "status": "status"}
	postColumns       = map[string]string{
		"id": "id", "title": "title", "content": "content",
		"createTime": "create_time", "updateTime": "update_time", "postStatus.id": "post_status_id",
	}
	commentColumns = map[string]string{
		"id": "id", "content": "content", "createTime": "create_time", "post.id": "post_id",
	}
)

func applyString(db *gorm.DB, col string, f *model.StringFilter) *gorm.DB {
	if f == nil {
		return db
	}
	if f.Equals != nil {
		db = db.Where(clause.Eq{Column: col, Value: *f.Equals})
	}
	if f.NotEquals != nil {
		db = db.Where(clause.Neq{Column: col, Value: *f.NotEquals})
	}
	if len(f.In) > 0 {
		db = db.Where(clause.IN{Column: col, Values: toAny(f.In)})
	}
	if len(f.NotIn) > 0 {
		db = db.Where(clause.Not(clause.IN{Column: col, Values: toAny(f.NotIn)}))
	}
	if f.Contains != nil {
		db = db.Where(fmt.Sprintf("LOWER(%s) LIKE LOWER(?)", col), "%"+*f.Contains+"%")
	}
	if f.DoesNotContain != nil {
		db = db.Where(fmt.Sprintf("LOWER(%s) NOT LIKE LOWER(?)", col), "%"+*f.DoesNotContain+"%")
	}
	return applySpecified(db, col, f.Specified)
}

func applyRange[T int64 | time.Time](db *gorm.DB, col string, f *model.RangeFilter[T]) *gorm.DB {
	if f == nil {
		return db
	}
	if f.Equals != nil {
		db = db.Where(clause.Eq{Column: col, Value: *f.Equals})
	}
	if f.NotEquals != nil {
		db = db.Where(clause.Neq{Column: col, Value: *f.NotEquals})
	}
	if len(f.In) > 0 {
		db = db.Where(clause.IN{Column: col, Values: toAny(f.In)})
	}
	if len(f.NotIn) > 0 {
		db = db.Where(clause.Not(clause.IN{Column: col, Values: toAny(f.NotIn)}))
	}
	if f.GreaterThan != nil {
		db = db.Where(clause.Gt{Column: col, Value: *f.GreaterThan})
	}
	if f.LessThan != nil {
		db = db.Where(clause.Lt{Column: col, Value: *f.LessThan})
	}
	if f.GreaterThanOrEqual != nil {
		db = db.Where(clause.Gte{Column: col, Value: *f.GreaterThanOrEqual})
	}
	if f.LessThanOrEqual != nil {
		db = db.Where(clause.Lte{Column: col, Value: *f.LessThanOrEqual})
	}
	return applySpecified(db, col, f.Specified)
}

func applySpecified(db *gorm.DB, col string, specified *bool) *gorm.DB {
	if specified == nil {
		return db
	}
	if *specified {
		return db.Where(fmt.Sprintf("%s IS NOT NULL", col))
	}
	return db.Where(fmt.Sprintf("%s IS NULL", col))
}

// applySort 只接受白名单字段；无排序时按 id 升序保证结果稳定
func applySort(db *gorm.DB, orders []model.Order, columns map[string]string) (*gorm.DB, error) {
	if len(orders) == 0 {
		return db.Order("id"), nil
	}
	for _, o := range orders {
		col, ok := columns[o.Property]
		if !ok {
			return nil, fmt.Errorf("%w: unknown property %q", model.ErrInvalidSort, o.Property)
		}
		db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: col}, Desc: o.Desc})
	}
	return db, nil
}

func applyPage(db *gorm.DB, p model.Pageable) *gorm.DB {
	if !p.Paged {
		return db
	}
	return db.Offset(p.Offset()).Limit(p.Size)
}

func toAny[T any](xs []T) []any {
	out := make([]any, len(xs))
	for i, x := range xs {
		out[i] = x
	}
	return out
}
