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

type CommentService interface {
	Save(ctx context.Context, c *model.Comment) (*model.Comment, error)
	Update(ctx context.Context, id int64, c *model.Comment) (*model.Comment, error)
	PartialUpdate(ctx context.Context, id int64, patch *model.CommentPatch) (*model.Comment, error)
	FindByCriteria(ctx context.Context, c model.CommentCriteria, p model.Pageable) ([]*model.Comment, error)
	CountByCriteria(ctx context.Context, c model.CommentCriteria) (int64, error)
	FindOne(ctx context.Context, id int64) (*model.Comment, error)
	Delete(ctx context.Context, id int64) error
}

type cachedComment struct {
	model.Comment
	PostID *int64 `json:"postId"`
}

type commentService struct {
	repo   repository.CommentRepository
	posts  repository.PostRepository
	postSv PostService
	cache  cache.Cache
}

func NewCommentService(repo repository.CommentRepository, posts repository.PostRepository, postSv PostService, c cache.Cache) CommentService {
	return &commentService{repo: repo, posts: posts, postSv: postSv, cache: c}
}

func (s *commentService) Save(ctx context.Context, c *model.Comment) (*model.Comment, error) {
	logger.Debug("Request to save Comment", zap.Any("comment", c))
	if c.ID != nil {
		return nil, ErrIDExists
	}
	if err := s.prepare(ctx, c); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, *c.ID)
}

func (s *commentService) Update(ctx context.Context, id int64, c *model.Comment) (*model.Comment, error) {
	logger.Debug("Request to update Comment", zap.Int64("id", id), zap.Any("comment", c))
	if err := checkUpdateID(id, c.ID); err != nil {
		return nil, err
	}
	ok, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrEntityNotFound
	}
	if err := s.prepare(ctx, c); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	evict(ctx, s.cache, commentEntity, id)
	return s.repo.FindByID(ctx, id)
}

func (s *commentService) PartialUpdate(ctx context.Context, id int64, patch *model.CommentPatch) (*model.Comment, error) {
	logger.Debug("Request to partially update Comment", zap.Int64("id", id), zap.Any("patch", patch))
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
	evict(ctx, s.cache, commentEntity, id)
	return existing, nil
}

func (s *commentService) prepare(ctx context.Context, c *model.Comment) error {
	if err := validate(c); err != nil {
		return err
	}
	c.SyncRefs()
	if c.PostID == nil {
		return nil
	}
	ok, err := s.posts.ExistsByID(ctx, *c.PostID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: post %d does not exist", ErrValidation, *c.PostID)
	}
	return nil
}

func (s *commentService) FindByCriteria(ctx context.Context, c model.CommentCriteria, p model.Pageable) ([]*model.Comment, error) {
	logger.Debug("Request to get Comments by criteria", zap.Any("criteria", c))
	return s.repo.FindByCriteria(ctx, c, p)
}

func (s *commentService) CountByCriteria(ctx context.Context, c model.CommentCriteria) (int64, error) {
	return s.repo.CountByCriteria(ctx, c)
}

func (s *commentService) FindOne(ctx context.Context, id int64) (*model.Comment, error) {
	logger.Debug("Request to get Comment", zap.Int64("id", id))
	row, err := loadThrough(ctx, s.cache, cache.Key(commentEntity, id), func(ctx context.Context) (*cachedComment, error) {
		c, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		row := &cachedComment{Comment: *c, PostID: c.PostID}
		row.Comment.Post = nil
		return row, nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	c := row.Comment
	c.PostID = row.PostID
	if c.PostID != nil {
		p, err := s.postSv.FindOne(ctx, *c.PostID)
		switch {
		case errors.Is(err, ErrNotFound):
			c.PostID = nil
		case err != nil:
			return nil, err
		default:
			c.Post = p
		}
	}
	return &c, nil
}

func (s *commentService) Delete(ctx context.Context, id int64) error {
	logger.Debug("Request to delete Comment", zap.Int64("id", id))
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return err
	}
	evict(ctx, s.cache, commentEntity, id)
	return nil
}
