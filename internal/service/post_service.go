package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/blog-admin/internal/model"
	"github.com/d60-Lab/blog-admin/internal/repository"
	"github.com/d60-Lab/blog-admin/pkg/cache"
	"github.com/d60-Lab/blog-admin/pkg/logger"
)

type PostService interface {
	Save(ctx context.Context, p *model.Post) (*model.Post, error)
	Update(ctx context.Context, id int64, p *model.Post) (*model.Post, error)
	PartialUpdate(ctx context.Context, id int64, patch *model.PostPatch) (*model.Post, error)
	FindByCriteria(ctx context.Context, c model.PostCriteria, p model.Pageable) ([]*model.Post, error)
	CountByCriteria(ctx context.Context, c model.PostCriteria) (int64, error)
	FindOne(ctx context.Context, id int64) (*model.Post, error)
	Delete(ctx context.Context, id int64) error
}

// cachedPost 缓存只存外键，读出时再取关联对象
type cachedPost struct {
	model.Post
	PostStatusID *int64 `json:"postStatusId"`
}

type postService struct {
	repo     repository.PostRepository
	statuses repository.PostStatusRepository
	statusSv PostStatusService
	cache    cache.Cache
}

func NewPostService(repo repository.PostRepository, statuses repository.PostStatusRepository, statusSv PostStatusService, c cache.Cache) PostService {
	return &postService{repo: repo, statuses: statuses, statusSv: statusSv, cache: c}
}

func (s *postService) Save(ctx context.Context, p *model.Post) (*model.Post, error) {
	logger.Debug("Request to save Post", zap.Any("post", p))
	if p.ID != nil {
		return nil, ErrIDExists
	}
	if err := s.prepare(ctx, p); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, *p.ID)
}

func (s *postService) Update(ctx context.Context, id int64, p *model.Post) (*model.Post, error) {
	logger.Debug("Request to update Post", zap.Int64("id", id), zap.Any("post", p))
	if err := checkUpdateID(id, p.ID); err != nil {
		return nil, err
	}
	ok, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrEntityNotFound
	}
	if err := s.prepare(ctx, p); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	evict(ctx, s.cache, postEntity, id)
	return s.repo.FindByID(ctx, id)
}

func (s *postService) PartialUpdate(ctx context.Context, id int64, patch *model.PostPatch) (*model.Post, error) {
	logger.Debug("Request to partially update Post", zap.Int64("id", id), zap.Any("patch", patch))
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
	patch.Apply(existing)
	if err := validate(existing); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, existing); err != nil {
		return nil, err
	}
	evict(ctx, s.cache, postEntity, id)
	return existing, nil
}

// prepare 校验并同步外键；引用的状态必须存在
func (s *postService) prepare(ctx context.Context, p *model.Post) error {
	if err := validate(p); err != nil {
		return err
	}
	p.SyncRefs()
	if p.PostStatusID == nil {
		return nil
	}
	ok, err := s.statuses.ExistsByID(ctx, *p.PostStatusID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: postStatus %d does not exist", ErrValidation, *p.PostStatusID)
	}
	return nil
}

func (s *postService) FindByCriteria(ctx context.Context, c model.PostCriteria, p model.Pageable) ([]*model.Post, error) {
	logger.Debug("Request to get Posts by criteria", zap.Any("criteria", c))
	return s.repo.FindByCriteria(ctx, c, p)
}

func (s *postService) CountByCriteria(ctx context.Context, c model.PostCriteria) (int64, error) {
	return s.repo.CountByCriteria(ctx, c)
}

func (s *postService) FindOne(ctx context.Context, id int64) (*model.Post, error) {
	logger.Debug("Request to get Post", zap.Int64("id", id))
	row, err := loadThrough(ctx, s.cache, cache.Key(postEntity, id), func(ctx context.Context) (*cachedPost, error) {
		p, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		row := &cachedPost{Post: *p, PostStatusID: p.PostStatusID}
		row.Post.PostStatus = nil
		return row, nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	p := row.Post
	p.PostStatusID = row.PostStatusID
	if p.PostStatusID != nil {
		st, err := s.statusSv.FindOne(ctx, *p.PostStatusID)
		switch {
		case errors.Is(err, ErrNotFound):
			p.PostStatusID = nil
		case err != nil:
			return nil, err
		default:
			p.PostStatus = st
		}
	}
	return &p, nil
}

func (s *postService) Delete(ctx context.Context, id int64) error {
	logger.Debug("Request to delete Post", zap.Int64("id", id))
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return err
	}
	evict(ctx, s.cache, postEntity, id)
	return nil
}
