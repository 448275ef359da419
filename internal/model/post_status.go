package model

// PostStatus 帖子状态
type PostStatus struct {
	ID     *int64 `json:"id" gorm:"primaryKey;autoIncrement"`
	Status string `json:"status" gorm:"type:varchar(255);not null" validate:"required,max=255"`
}

func (PostStatus) TableName() string { return "post_status" }

func (s *PostStatus) GetID() *int64 {
	if s == nil {
		return nil
	}
	return s.ID
}

// PostStatusPatch PATCH 请求体，nil 字段保持原值
type PostStatusPatch struct {
	ID     *int64  `json:"id"`
	Status *string `json:"status" validate:"omitempty,max=255"`
}
