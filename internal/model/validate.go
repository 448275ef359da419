package model

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validate 按 validate tag 校验实体
func Validate(v any) error {
	validateOnce.Do(func() { validate = validator.New(validator.WithRequiredStructEnabled()) })
	return validate.Struct(v)
}
