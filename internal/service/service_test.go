package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/blog-admin/internal/model"
	"github.com/d60-Lab/blog-admin/internal/model/sample"
	"github.com/d60-Lab/blog-admin/internal/repository"
	"github.com/d60-Lab/blog-admin/pkg/cache"
	"github.com/d60-Lab/blog-admin/pkg/database"
)

type services struct {
	statuses PostStatusService
	posts    PostService
	comments CommentService
	auth     AuthorityService
	export   ExportService
	mr       *miniredis.Miniredis
}

func setup(t *testing.T) *services {
	t.Helper()
	db, err := database.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	c := cache.NewRedis(client, time.Minute)

	statusRepo := repository.NewPostStatusRepository(db)
	postRepo := repository.NewPostRepository(db)
	statuses := NewPostStatusService(statusRepo, c)
	posts := NewPostService(postRepo, statusRepo, statuses, c)
	return &services{
		statuses: statuses,
		posts:    posts,
		comments: NewCommentService(repository.NewCommentRepository(db), postRepo, posts, c),
		auth:     NewAuthorityService(repository.NewAuthorityRepository(db)),
		export:   NewExportService(postRepo),
		mr:       mr,
	}
}

func ptr[T any](v T) *T { return &v }

func TestPostStatusService(t *testing.T) {
	s := setup(t)
	ctx := context.Background()

	st := sample.PostStatusWithNewData()
	saved, err := s.statuses.Save(ctx, &st)
	require.NoError(t, err)
	require.NotNil(t, saved.ID)
	id := *saved.ID

	withID := sample.PostStatusWithFullData()
	_, err = s.statuses.Save(ctx, &withID)
	assert.ErrorIs(t, err, ErrIDExists)

	_, err = s.statuses.Save(ctx, &model.PostStatus{})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = s.statuses.Update(ctx, id, &model.PostStatus{Status: "x"})
	assert.ErrorIs(t, err, ErrIDNull)
	_, err = s.statuses.Update(ctx, id, &model.PostStatus{ID: ptr(id + 1), Status: "x"})
	assert.ErrorIs(t, err, ErrIDInvalid)
	_, err = s.statuses.Update(ctx, 999, &model.PostStatus{ID: ptr(int64(999)), Status: "x"})
	assert.ErrorIs(t, err, ErrEntityNotFound)
	_, err = s.statuses.PartialUpdate(ctx, 999, &model.PostStatusPatch{ID: ptr(int64(999))})
	assert.ErrorIs(t, err, ErrEntityNotFound)

	got, err := s.statuses.FindOne(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "eyeglasses", got.Status)
	assert.True(t, s.mr.Exists(cache.Key(postStatusEntity, id)))

	patched, err := s.statuses.PartialUpdate(ctx, id, &model.PostStatusPatch{ID: ptr(id), Status: ptr("archived")})
	require.NoError(t, err)
	assert.Equal(t, "archived", patched.Status)
	assert.False(t, s.mr.Exists(cache.Key(postStatusEntity, id)))

	got, err = s.statuses.FindOne(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "archived", got.Status)

	n, err := s.statuses.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	require.NoError(t, s.statuses.Delete(ctx, id))
	_, err = s.statuses.FindOne(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostStatusWherePostIsNull(t *testing.T) {
	s := setup(t)
	ctx := context.Background()

	used, err := s.statuses.Save(ctx, &model.PostStatus{Status: "used"})
	require.NoError(t, err)
	free, err := s.statuses.Save(ctx, &model.PostStatus{Status: "free"})
	require.NoError(t, err)

	p := sample.PostWithNewData()
	p.PostStatus = &model.PostStatus{ID: used.ID}
	_, err = s.posts.Save(ctx, &p)
	require.NoError(t, err)

	res, err := s.statuses.FindAllWherePostIsNull(ctx)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, *free.ID, *res[0].ID)
}

func TestPostServiceReferences(t *testing.T) {
	s := setup(t)
	ctx := context.Background()

	st, err := s.statuses.Save(ctx, &model.PostStatus{Status: "draft"})
	require.NoError(t, err)

	p := sample.PostWithNewData()
	p.PostStatus = &model.PostStatus{ID: st.ID}
	saved, err := s.posts.Save(ctx, &p)
	require.NoError(t, err)
	require.NotNil(t, saved.PostStatus)
	assert.Equal(t, "draft", saved.PostStatus.Status)

	bad := sample.PostWithNewData()
	bad.PostStatus = &model.PostStatus{ID: ptr(int64(404))}
	_, err = s.posts.Save(ctx, &bad)
	assert.ErrorIs(t, err, ErrValidation)

	got, err := s.posts.FindOne(ctx, *saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "draft", got.PostStatus.Status)
	assert.True(t, s.mr.Exists(cache.Key(postEntity, *saved.ID)))

	// 状态改名后，缓存中的帖子仍取到新状态
	_, err = s.statuses.Update(ctx, *st.ID, &model.PostStatus{ID: st.ID, Status: "published"})
	require.NoError(t, err)
	got, err = s.posts.FindOne(ctx, *saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "published", got.PostStatus.Status)

	patched, err := s.posts.PartialUpdate(ctx, *saved.ID, &model.PostPatch{ID: saved.ID, Content: ptr("new body")})
	require.NoError(t, err)
	assert.Equal(t, p.Title, patched.Title)
	assert.Equal(t, "new body", *patched.Content)
	assert.False(t, s.mr.Exists(cache.Key(postEntity, *saved.ID)))

	full := *patched
	full.PostStatus = nil
	updated, err := s.posts.Update(ctx, *saved.ID, &full)
	require.NoError(t, err)
	assert.Nil(t, updated.PostStatus)

	require.NoError(t, s.statuses.Delete(ctx, *st.ID))
	require.NoError(t, s.posts.Delete(ctx, *saved.ID))
	_, err = s.posts.FindOne(ctx, *saved.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostServiceCriteria(t *testing.T) {
	s := setup(t)
	ctx := context.Background()
	for _, title := range []string{"go generics", "gorm tips", "rust"} {
		p := sample.PostWithNewData()
		p.Title = title
		_, err := s.posts.Save(ctx, &p)
		require.NoError(t, err)
	}

	c := model.PostCriteria{Title: &model.StringFilter{Contains: ptr("GO")}}
	res, err := s.posts.FindByCriteria(ctx, c, model.Pageable{Sort: []model.Order{{Property: "title", Desc: true}}})
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "gorm tips", res[0].Title)

	n, err := s.posts.CountByCriteria(ctx, c)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	_, err = s.posts.FindByCriteria(ctx, c, model.Pageable{Sort: []model.Order{{Property: "password"}}})
	assert.ErrorIs(t, err, ErrInvalidSort)
}

func TestCommentServiceDanglingPost(t *testing.T) {
	s := setup(t)
	ctx := context.Background()

	p := sample.PostWithNewData()
	post, err := s.posts.Save(ctx, &p)
	require.NoError(t, err)

	c := sample.CommentWithNewData()
	c.Post = &model.Post{ID: post.ID}
	saved, err := s.comments.Save(ctx, &c)
	require.NoError(t, err)
	require.NotNil(t, saved.Post)
	assert.Equal(t, p.Title, saved.Post.Title)

	got, err := s.comments.FindOne(ctx, *saved.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Post)

	require.NoError(t, s.posts.Delete(ctx, *post.ID))
	got, err = s.comments.FindOne(ctx, *saved.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Post)

	_, err = s.comments.Update(ctx, *saved.ID, &model.Comment{Content: "x", CreateTime: time.Now()})
	assert.ErrorIs(t, err, ErrIDNull)

	patched, err := s.comments.PartialUpdate(ctx, *saved.ID, &model.CommentPatch{ID: saved.ID, Content: ptr("edited")})
	require.NoError(t, err)
	assert.Equal(t, "edited", patched.Content)
	assert.Nil(t, patched.Post)

	n, err := s.comments.CountByCriteria(ctx, model.CommentCriteria{PostID: &model.LongFilter{Specified: ptr(false)}})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	require.NoError(t, s.comments.Delete(ctx, *saved.ID))
	_, err = s.comments.FindOne(ctx, *saved.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAuthorityService(t *testing.T) {
	s := setup(t)
	ctx := context.Background()

	a := sample.AuthorityWithRequiredData()
	_, err := s.auth.Save(ctx, &a)
	require.NoError(t, err)
	_, err = s.auth.Save(ctx, &model.Authority{Name: a.Name})
	assert.ErrorIs(t, err, ErrIDExists)

	got, err := s.auth.FindOne(ctx, a.Name)
	require.NoError(t, err)
	assert.Equal(t, a.Name, got.Name)

	all, err := s.auth.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, s.auth.Delete(ctx, a.Name))
	_, err = s.auth.FindOne(ctx, a.Name)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExportPosts(t *testing.T) {
	s := setup(t)
	ctx := context.Background()

	st, err := s.statuses.Save(ctx, &model.PostStatus{Status: "published"})
	require.NoError(t, err)
	p := sample.PostWithNewData()
	p.Content = ptr("**bold** text <script>alert(1)</script>")
	p.PostStatus = &model.PostStatus{ID: st.ID}
	_, err = s.posts.Save(ctx, &p)
	require.NoError(t, err)

	out, err := s.export.ExportPosts(ctx)
	require.NoError(t, err)
	html := string(out)
	assert.Contains(t, html, "<h2>willfully settler</h2>")
	assert.Contains(t, html, "<strong>bold</strong>")
	assert.Contains(t, html, "[published]")
	assert.NotContains(t, html, "<script>")
}
