package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/blog-admin/internal/model"
	"github.com/d60-Lab/blog-admin/internal/repository"
	"github.com/d60-Lab/blog-admin/pkg/logger"
)

// AuthorityService 权限只支持新建、查询、删除
type AuthorityService interface {
	Save(ctx context.Context, a *model.Authority) (*model.Authority, error)
	FindAll(ctx context.Context) ([]*model.Authority, error)
	FindOne(ctx context.Context, name string) (*model.Authority, error)
	Delete(ctx context.Context, name string) error
}

type authorityService struct {
	repo repository.AuthorityRepository
}

func NewAuthorityService(repo repository.AuthorityRepository) AuthorityService {
	return &authorityService{repo: repo}
}

func (s *authorityService) Save(ctx context.Context, a *model.Authority) (*model.Authority, error) {
	logger.Debug("Request to save Authority", zap.String("name", a.Name))
	if err := validate(a); err != nil {
		return nil, err
	}
	ok, err := s.repo.ExistsByName(ctx, a.Name)
	if err != nil {
		return nil, err
	}
	if ok {
		return nil, ErrIDExists
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *authorityService) FindAll(ctx context.Context) ([]*model.Authority, error) {
	return s.repo.FindAll(ctx)
}

func (s *authorityService) FindOne(ctx context.Context, name string) (*model.Authority, error) {
	a, err := s.repo.FindByName(ctx, name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return a, err
}

func (s *authorityService) Delete(ctx context.Context, name string) error {
	logger.Debug("Request to delete Authority", zap.String("name", name))
	return s.repo.DeleteByName(ctx, name)
}
