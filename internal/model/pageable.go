package model

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 2000
)

var ErrInvalidSort = errors.New("invalid sort")

// Order 排序项，Property 为 JSON 字段名
type Order struct {
	Property string
	Desc     bool
}

// Pageable page 从 0 开始
type Pageable struct {
	Page  int
	Size  int
	Sort  []Order
	Paged bool
}

func (p Pageable) Offset() int { return p.Page * p.Size }

// OrDefault 未指定 page/size 时按第 0 页、DefaultPageSize 条分页
func (p Pageable) OrDefault() Pageable {
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	p.Paged = true
	return p
}

// ParsePageable 解析 page/size/sort；sort 可重复，如 sort=id,desc&sort=title
func ParsePageable(values url.Values) (Pageable, error) {
	p := Pageable{Size: DefaultPageSize}
	if s := values.Get("page"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return p, fmt.Errorf("%w: page=%q", ErrInvalidCriteria, s)
		}
		p.Page, p.Paged = n, true
	}
	if s := values.Get("size"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return p, fmt.Errorf("%w: size=%q", ErrInvalidCriteria, s)
		}
		p.Size, p.Paged = min(n, MaxPageSize), true
	}
	for _, raw := range values["sort"] {
		o, err := ParseOrder(raw)
		if err != nil {
			return p, err
		}
		p.Sort = append(p.Sort, o)
	}
	return p, nil
}

// ParseOrder 解析 "field,asc|desc"，方向缺省为 asc
func ParseOrder(raw string) (Order, error) {
	prop, dir, _ := strings.Cut(raw, ",")
	prop = strings.TrimSpace(prop)
	if prop == "" {
		return Order{}, fmt.Errorf("%w: %q", ErrInvalidSort, raw)
	}
	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "", "asc":
		return Order{Property: prop}, nil
	case "desc":
		return Order{Property: prop, Desc: true}, nil
	}
	return Order{}, fmt.Errorf("%w: direction %q", ErrInvalidSort, dir)
}

// Query 反向编码为查询参数
func (p Pageable) Query() url.Values {
	v := url.Values{}
	if p.Paged {
		v.Set("page", strconv.Itoa(p.Page))
		v.Set("size", strconv.Itoa(p.Size))
	}
	for _, o := range p.Sort {
		dir := "asc"
		if o.Desc {
			dir = "desc"
		}
		v.Add("sort", o.Property+","+dir)
	}
	return v
}
