package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/blog-admin/internal/model"
)

// PostStatusRepository 帖子状态仓储
type PostStatusRepository interface {
	Create(ctx context.Context, s *model.PostStatus) error
	Save(ctx context.Context, s *model.PostStatus) error
	FindByID(ctx context.Context, id int64) (*model.PostStatus, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	FindAll(ctx context.Context, p model.Pageable) ([]*model.PostStatus, error)
	// FindAllWherePostIsNull 未被任何帖子引用的状态
	FindAllWherePostIsNull(ctx context.Context) ([]*model.PostStatus, error)
	DeleteByID(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

type postStatusRepository struct{ db *gorm.DB }

func NewPostStatusRepository(db *gorm.DB) PostStatusRepository { return &postStatusRepository{db: db} }

func (r *postStatusRepository) Create(ctx context.Context, s *model.PostStatus) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *postStatusRepository) Save(ctx context.Context, s *model.PostStatus) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *postStatusRepository) FindByID(ctx context.Context, id int64) (*model.PostStatus, error) {
	var s model.PostStatus
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *postStatusRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).Model(&model.PostStatus{}).Where("id = ?", id).Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *postStatusRepository) FindAll(ctx context.Context, p model.Pageable) ([]*model.PostStatus, error) {
	q, err := applySort(r.db.WithContext(ctx), p.Sort, postStatusColumns)
	if err != nil {
		return nil, err
	}
	var res []*model.PostStatus
	err = applyPage(q, p).Find(&res).Error
	return res, err
}

func (r *postStatusRepository) FindAllWherePostIsNull(ctx context.Context) ([]*model.PostStatus, error) {
	var res []*model.PostStatus
	sub := r.db.Model(&model.Post{}).Select("post_status_id").Where("post_status_id IS NOT NULL")
	err := r.db.WithContext(ctx).Where("id NOT IN (?)", sub).Order("id").Find(&res).Error
	return res, err
}

// DeleteByID 先解除帖子引用再删除
func (r *postStatusRepository) DeleteByID(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Post{}).Where("post_status_id = ?", id).Update("post_status_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&model.PostStatus{}, id).Error
	})
}

func (r *postStatusRepository) Count(ctx context.Context) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.PostStatus{}).Count(&cnt).Error
	return cnt, err
}
