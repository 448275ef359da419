package model

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidCriteria 未知字段、未知操作符或值无法解析
var ErrInvalidCriteria = errors.New("invalid criteria")

// StringFilter 查询参数形如 title.contains=foo
type StringFilter struct {
	Equals         *string
	NotEquals      *string
	In             []string
	NotIn          []string
	Contains       *string
	DoesNotContain *string
	Specified      *bool
}

// RangeFilter 数值/时间过滤
type RangeFilter[T int64 | time.Time] struct {
	Equals             *T
	NotEquals          *T
	In                 []T
	NotIn              []T
	GreaterThan        *T
	LessThan           *T
	GreaterThanOrEqual *T
	LessThanOrEqual    *T
	Specified          *bool
}

type (
	LongFilter = RangeFilter[int64]
	TimeFilter = RangeFilter[time.Time]
)

// PostCriteria GET /api/posts 支持的过滤条件
type PostCriteria struct {
	ID           *LongFilter
	Title        *StringFilter
	Content      *StringFilter
	CreateTime   *TimeFilter
	UpdateTime   *TimeFilter
	PostStatusID *LongFilter
	Distinct     *bool
}

// CommentCriteria GET /api/comments 支持的过滤条件
type CommentCriteria struct {
	ID         *LongFilter
	Content    *StringFilter
	CreateTime *TimeFilter
	PostID     *LongFilter
	Distinct   *bool
}

// ParsePostCriteria 从查询参数解析；不含 "." 的参数（sort/page/size）忽略
func ParsePostCriteria(values url.Values) (PostCriteria, error) {
	var c PostCriteria
	err := eachCriterion(values, func(field, op, raw string) error {
		switch field {
		case "id":
			return longOp(&c.ID, op, raw)
		case "title":
			return stringOp(&c.Title, op, raw)
		case "content":
			return stringOp(&c.Content, op, raw)
		case "createTime":
			return timeOp(&c.CreateTime, op, raw)
		case "updateTime":
			return timeOp(&c.UpdateTime, op, raw)
		case "postStatusId":
			return longOp(&c.PostStatusID, op, raw)
		case "distinct":
			return boolOp(&c.Distinct, raw)
		}
		return fmt.Errorf("%w: unknown field %q", ErrInvalidCriteria, field)
	})
	return c, err
}

// ParseCommentCriteria 同 ParsePostCriteria
func ParseCommentCriteria(values url.Values) (CommentCriteria, error) {
	var c CommentCriteria
	err := eachCriterion(values, func(field, op, raw string) error {
		switch field {
		case "id":
			return longOp(&c.ID, op, raw)
		case "content":
			return stringOp(&c.Content, op, raw)
		case "createTime":
			return timeOp(&c.CreateTime, op, raw)
		case "postId":
			return longOp(&c.PostID, op, raw)
		case "distinct":
			return boolOp(&c.Distinct, raw)
		}
		return fmt.Errorf("%w: unknown field %q", ErrInvalidCriteria, field)
	})
	return c, err
}

func eachCriterion(values url.Values, fn func(field, op, raw string) error) error {
	for key, vs := range values {
		if key == "distinct" {
			if err := fn("distinct", "", vs[0]); err != nil {
				return err
			}
			continue
		}
		field, op, ok := strings.Cut(key, ".")
		if !ok {
			continue
		}
		for _, raw := range vs {
			if err := fn(field, op, raw); err != nil {
				return err
			}
		}
	}
	return nil
}

func stringOp(dst **StringFilter, op, raw string) error {
	if *dst == nil {
		*dst = &StringFilter{}
	}
	f := *dst
	switch op {
	case "equals":
		f.Equals = &raw
	case "notEquals":
		f.NotEquals = &raw
	case "in", "notIn":
		list, err := splitList(op, raw)
		if err != nil {
			return err
		}
		if op == "in" {
			f.In = list
		} else {
			f.NotIn = list
		}
	case "contains":
		f.Contains = &raw
	case "doesNotContain":
		f.DoesNotContain = &raw
	case "specified":
		return boolOp(&f.Specified, raw)
	default:
		return fmt.Errorf("%w: unknown operator %q", ErrInvalidCriteria, op)
	}
	return nil
}

func longOp(dst **LongFilter, op, raw string) error {
	return rangeOp(dst, op, raw, func(s string) (int64, error) {
		return strconv.ParseInt(s, 10, 64)
	})
}

func timeOp(dst **TimeFilter, op, raw string) error {
	return rangeOp(dst, op, raw, func(s string) (time.Time, error) {
		return time.Parse(time.RFC3339, s)
	})
}

func rangeOp[T int64 | time.Time](dst **RangeFilter[T], op, raw string, parse func(string) (T, error)) error {
	if *dst == nil {
		*dst = &RangeFilter[T]{}
	}
	f := *dst
	if op == "specified" {
		return boolOp(&f.Specified, raw)
	}
	if op == "in" || op == "notIn" {
		items, err := splitList(op, raw)
		if err != nil {
			return err
		}
		var list []T
		for _, s := range items {
			v, err := parse(s)
			if err != nil {
				return fmt.Errorf("%w: %s=%q: %v", ErrInvalidCriteria, op, s, err)
			}
			list = append(list, v)
		}
		if op == "in" {
			f.In = list
		} else {
			f.NotIn = list
		}
		return nil
	}

	v, err := parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %s=%q: %v", ErrInvalidCriteria, op, raw, err)
	}
	switch op {
	case "equals":
		f.Equals = &v
	case "notEquals":
		f.NotEquals = &v
	case "greaterThan":
		f.GreaterThan = &v
	case "lessThan":
		f.LessThan = &v
	case "greaterThanOrEqual":
		f.GreaterThanOrEqual = &v
	case "lessThanOrEqual":
		f.LessThanOrEqual = &v
	default:
		return fmt.Errorf("%w: unknown operator %q", ErrInvalidCriteria, op)
	}
	return nil
}

func boolOp(dst **bool, raw string) error {
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return fmt.Errorf("%w: %q is not a boolean", ErrInvalidCriteria, raw)
	}
	*dst = &b
	return nil
}

// splitList 空列表无法表达 IN ()，直接拒绝
func splitList(op, raw string) ([]string, error) {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s requires at least one value", ErrInvalidCriteria, op)
	}
	return out, nil
}
