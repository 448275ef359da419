package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/blog-admin/internal/model"
)

// PostRepository 帖子仓储，读取时预加载 PostStatus
type PostRepository interface {
	Create(ctx context.Context, p *model.Post) error
	Save(ctx context.Context, p *model.Post) error
	FindByID(ctx context.Context, id int64) (*model.Post, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	FindByCriteria(ctx context.Context, c model.PostCriteria, p model.Pageable) ([]*model.Post, error)
	CountByCriteria(ctx context.Context, c model.PostCriteria) (int64, error)
	DeleteByID(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

type postRepository struct{ db *gorm.DB }

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

func (r *postRepository) Create(ctx context.Context, p *model.Post) error {
	// 关联对象只落外键，不级联写入
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error
}

func (r *postRepository) Save(ctx context.Context, p *model.Post) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(p).Error
}

func (r *postRepository) FindByID(ctx context.Context, id int64) (*model.Post, error) {
	var p model.Post
	if err := r.db.WithContext(ctx).Preload("PostStatus").Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).Model(&model.Post{}).Where("id = ?", id).Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *postRepository) FindByCriteria(ctx context.Context, c model.PostCriteria, p model.Pageable) ([]*model.Post, error) {
	q, err := applySort(r.where(r.db.WithContext(ctx), c), p.Sort, postColumns)
	if err != nil {
		return nil, err
	}
	var res []*model.Post
	err = applyPage(q, p).Preload("PostStatus").Find(&res).Error
	return res, err
}

func (r *postRepository) CountByCriteria(ctx context.Context, c model.PostCriteria) (int64, error) {
	var cnt int64
	err := r.where(r.db.WithContext(ctx).Model(&model.Post{}), c).Count(&cnt).Error
	return cnt, err
}

// where 单表查询，Distinct 无需处理
func (r *postRepository) where(db *gorm.DB, c model.PostCriteria) *gorm.DB {
	db = applyRange(db, "id", c.ID)
	db = applyString(db, "title", c.Title)
	db = applyString(db, "content", c.Content)
	db = applyRange(db, "create_time", c.CreateTime)
	db = applyRange(db, "update_time", c.UpdateTime)
	return applyRange(db, "post_status_id", c.PostStatusID)
}

// DeleteByID 评论的 post_id 置空后删除帖子
func (r *postRepository) DeleteByID(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Comment{}).Where("post_id = ?", id).Update("post_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Post{}, id).Error
	})
}

func (r *postRepository) Count(ctx context.Context) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Post{}).Count(&cnt).Error
	return cnt, err
}
