package model

import "time"

// Comment 评论，可选关联一个 Post
type Comment struct {
	ID         *int64    `json:"id" gorm:"primaryKey;autoIncrement"`
	Content    string    `json:"content" gorm:"type:varchar(255);not null" validate:"required,max=255"`
	CreateTime time.Time `json:"createTime" gorm:"not null" validate:"required"`
	PostID     *int64    `json:"-" gorm:"index:idx_comment_post"`
	Post       *Post     `json:"post" gorm:"foreignKey:PostID;constraint:OnDelete:SET NULL" validate:"-"`
}

func (Comment) TableName() string { return "comment" }

func (c *Comment) GetID() *int64 {
	if c == nil {
		return nil
	}
	return c.ID
}

func (c *Comment) SyncRefs() {
	c.PostID = c.Post.GetID()
}

type CommentPatch struct {
	ID         *int64     `json:"id"`
	Content    *string    `json:"content" validate:"omitempty,max=255"`
	CreateTime *time.Time `json:"createTime"`
}

func (cp CommentPatch) Apply(c *Comment) {
	if cp.Content != nil {
		c.Content = *cp.Content
	}
	if cp.CreateTime != nil {
		c.CreateTime = *cp.CreateTime
	}
}
