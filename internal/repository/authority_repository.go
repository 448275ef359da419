package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/blog-admin/internal/model"
)

type AuthorityRepository interface {
	Create(ctx context.Context, a *model.Authority) error
	FindByName(ctx context.Context, name string) (*model.Authority, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	FindAll(ctx context.Context) ([]*model.Authority, error)
	DeleteByName(ctx context.Context, name string) error
}

type authorityRepository struct{ db *gorm.DB }

func NewAuthorityRepository(db *gorm.DB) AuthorityRepository { return &authorityRepository{db: db} }

func (r *authorityRepository) Create(ctx context.Context, a *model.Authority) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *authorityRepository) FindByName(ctx context.Context, name string) (*model.Authority, error) {
	var a model.Authority
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *authorityRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).Model(&model.Authority{}).Where("name = ?", name).Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *authorityRepository) FindAll(ctx context.Context) ([]*model.Authority, error) {
	var res []*model.Authority
	err := r.db.WithContext(ctx).Order("name").Find(&res).Error
	return res, err
}

func (r *authorityRepository) DeleteByName(ctx context.Context, name string) error {
	return r.db.WithContext(ctx).Where("name = ?", name).Delete(&model.Authority{}).Error
}
