package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/blog-admin/internal/model"
	"github.com/d60-Lab/blog-admin/internal/repository"
	"github.com/d60-Lab/blog-admin/pkg/cache"
	"github.com/d60-Lab/blog-admin/pkg/logger"
)

type PostStatusService interface {
	Save(ctx context.Context, s *model.PostStatus) (*model.PostStatus, error)
	Update(ctx context.Context, id int64, s *model.PostStatus) (*model.PostStatus, error)
	PartialUpdate(ctx context.Context, id int64, patch *model.PostStatusPatch) (*model.PostStatus, error)
	FindAll(ctx context.Context, p model.Pageable) ([]*model.PostStatus, error)
	// FindAllWherePostIsNull 返回未被任何帖子引用的状态
	FindAllWherePostIsNull(ctx context.Context) ([]*model.PostStatus, error)
	Count(ctx context.Context) (int64, error)
	FindOne(ctx context.Context, id int64) (*model.PostStatus, error)
	Delete(ctx context.Context, id int64) error
}

type postStatusService struct {
	repo  repository.PostStatusRepository
	cache cache.Cache
}

func NewPostStatusService(repo repository.PostStatusRepository, c cache.Cache) PostStatusService {
	return &postStatusService{repo: repo, cache: c}
}

func (s *postStatusService) Save(ctx context.Context, st *model.PostStatus) (*model.PostStatus, error) {
	logger.Debug("Request to save PostStatus", zap.Any("postStatus", st))
	if st.ID != nil {
		return nil, ErrIDExists
	}
	if err := validate(st); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *postStatusService) Update(ctx context.Context, id int64, st *model.PostStatus) (*model.PostStatus, error) {
	logger.Debug("Request to update PostStatus", zap.Int64("id", id), zap.Any("postStatus", st))
	if err := checkUpdateID(id, st.ID); err != nil {
		return nil, err
	}
	ok, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrEntityNotFound
	}
	if err := validate(st); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, st); err != nil {
		return nil, err
	}
	evict(ctx, s.cache, postStatusEntity, id)
	return st, nil
}

func (s *postStatusService) PartialUpdate(ctx context.Context, id int64, patch *model.PostStatusPatch) (*model.PostStatus, error) {
	logger.Debug("Request to partially update PostStatus", zap.Int64("id", id), zap.Any("patch", patch))
	if err := checkUpdateID(id, patch.ID); err != nil {
		return nil, err
	}
	if err := validate(patch); err != nil {
		return nil, err
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntityNotFound
		}
		return nil, err
	}
	if patch.Status != nil {
		existing.Status = *patch.Status
	}
	if err := validate(existing); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, existing); err != nil {
		return nil, err
	}
	evict(ctx, s.cache, postStatusEntity, id)
	return existing, nil
}

func (s *postStatusService) FindAll(ctx context.Context, p model.Pageable) ([]*model.PostStatus, error) {
	logger.Debug("Request to get all PostStatuses")
	return s.repo.FindAll(ctx, p)
}

func (s *postStatusService) FindAllWherePostIsNull(ctx context.Context) ([]*model.PostStatus, error) {
	logger.Debug("Request to get all postStatuses where Post is null")
	return s.repo.FindAllWherePostIsNull(ctx)
}

func (s *postStatusService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *postStatusService) FindOne(ctx context.Context, id int64) (*model.PostStatus, error) {
	logger.Debug("Request to get PostStatus", zap.Int64("id", id))
	st, err := loadThrough(ctx, s.cache, cache.Key(postStatusEntity, id), func(ctx context.Context) (*model.PostStatus, error) {
		return s.repo.FindByID(ctx, id)
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return st, err
}

func (s *postStatusService) Delete(ctx context.Context, id int64) error {
	logger.Debug("Request to delete PostStatus", zap.Int64("id", id))
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return err
	}
	evict(ctx, s.cache, postStatusEntity, id)
	return nil
}
