package model

import "time"

// Post 帖子，可选关联一个 PostStatus
type Post struct {
	ID           *int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	Title        string      `json:"title" gorm:"type:varchar(255);not null" validate:"required,max=255"`
	Content      *string     `json:"content" gorm:"type:text"`
	CreateTime   time.Time   `json:"createTime" gorm:"not null" validate:"required"`
	UpdateTime   time.Time   `json:"updateTime" gorm:"not null" validate:"required"`
	PostStatusID *int64      `json:"-" gorm:"index:idx_post_status"`
	PostStatus   *PostStatus `json:"postStatus" gorm:"foreignKey:PostStatusID;constraint:OnDelete:SET NULL" validate:"-"`
}

func (Post) TableName() string { return "post" }

func (p *Post) GetID() *int64 {
	if p == nil {
		return nil
	}
	return p.ID
}

// SyncRefs 以嵌套对象的 id 为准回填外键列
func (p *Post) SyncRefs() {
	p.PostStatusID = p.PostStatus.GetID()
}

// PostPatch PATCH 请求体
type PostPatch struct {
	ID         *int64     `json:"id"`
	Title      *string    `json:"title" validate:"omitempty,max=255"`
	Content    *string    `json:"content"`
	CreateTime *time.Time `json:"createTime"`
	UpdateTime *time.Time `json:"updateTime"`
}

// Apply 非 nil 字段覆盖到 p
func (pp PostPatch) Apply(p *Post) {
	if pp.Title != nil {
		p.Title = *pp.Title
	}
	if pp.Content != nil {
		p.Content = pp.Content
	}
	if pp.CreateTime != nil {
		p.CreateTime = *pp.CreateTime
	}
	if pp.UpdateTime != nil {
		p.UpdateTime = *pp.UpdateTime
	}
}
