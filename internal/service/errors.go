package service

import (
	"errors"
	"fmt"

	"github.com/d60-Lab/blog-admin/internal/model"
)

var (
	// ErrIDExists 新建实体却带了 id
	ErrIDExists = errors.New("a new entity cannot already have an ID")
	// ErrIDNull 更新时缺少 id
	ErrIDNull = errors.New("invalid id")
	// ErrIDInvalid 路径 id 与请求体 id 不一致
	ErrIDInvalid = errors.New("invalid ID")
	// ErrEntityNotFound 更新目标不存在（400 idnotfound）
	ErrEntityNotFound = errors.New("entity not found")
	// ErrNotFound 查询目标不存在（404）
	ErrNotFound = errors.New("not found")
	ErrValidation = errors.New("validation failed")

	ErrInvalidCriteria = model.ErrInvalidCriteria
	ErrInvalidSort     = model.ErrInvalidSort
)

func validate(v any) error {
	if err := model.Validate(v); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

// checkUpdateID 校验 PUT/PATCH 的 id
func checkUpdateID(pathID int64, bodyID *int64) error {
	if bodyID == nil {
		return ErrIDNull
	}
	if *bodyID != pathID {
		return ErrIDInvalid
	}
	return nil
}
