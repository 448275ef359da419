package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/blog-admin/internal/model"
)

// CommentRepository 评论仓储，读取时预加载 Post
type CommentRepository interface {
	Create(ctx context.Context, c *model.Comment) error
	Save(ctx context.Context, c *model.Comment) error
	FindByID(ctx context.Context, id int64) (*model.Comment, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	FindByCriteria(ctx context.Context, c model.CommentCriteria, p model.Pageable) ([]*model.Comment, error)
	CountByCriteria(ctx context.Context, c model.CommentCriteria) (int64, error)
	DeleteByID(ctx context.Context, id int64) error
}

type commentRepository struct{ db *gorm.DB }

func NewCommentRepository(db *gorm.DB) CommentRepository { return &commentRepository{db: db} }

func (r *commentRepository) Create(ctx context.Context, c *model.Comment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error
}

func (r *commentRepository) Save(ctx context.Context, c *model.Comment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(c).Error
}

func (r *commentRepository) FindByID(ctx context.Context, id int64) (*model.Comment, error) {
	var c model.Comment
	if err := r.db.WithContext(ctx).Preload("Post").Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *commentRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).Model(&model.Comment{}).Where("id = ?", id).Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *commentRepository) FindByCriteria(ctx context.Context, c model.CommentCriteria, p model.Pageable) ([]*model.Comment, error) {
	q, err := applySort(r.where(r.db.WithContext(ctx), c), p.Sort, commentColumns)
	if err != nil {
		return nil, err
	}
	var res []*model.Comment
	err = applyPage(q, p).Preload("Post").Find(&res).Error
	return res, err
}

func (r *commentRepository) CountByCriteria(ctx context.Context, c model.CommentCriteria) (int64, error) {
	var cnt int64
	err := r.where(r.db.WithContext(ctx).Model(&model.Comment{}), c).Count(&cnt).Error
	return cnt, err
}

func (r *commentRepository) where(db *gorm.DB, c model.CommentCriteria) *gorm.DB {
	db = applyRange(db, "id", c.ID)
	db = applyString(db, "content", c.Content)
	db = applyRange(db, "create_time", c.CreateTime)
	return applyRange(db, "post_id", c.PostID)
}

func (r *commentRepository) DeleteByID(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Comment{}, id).Error
}
