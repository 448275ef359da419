package repository

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/blog-admin/internal/model"
	"github.com/d60-Lab/blog-admin/internal/model/sample"
	"github.com/d60-Lab/blog-admin/pkg/database"
)

func setupDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	db, err := database.NewMemory()
	if err != nil {
		tb.Fatalf("open db: %v", err)
	}
	tb.Cleanup(func() { _ = database.Close(db) })
	return db
}

func newPost(title string, status *model.PostStatus, created time.Time) *model.Post {
	p := &model.Post{Title: title, CreateTime: created, UpdateTime: created, PostStatus: status}
	p.SyncRefs()
	return p
}

func TestPostStatusRepositoryCRUD(t *testing.T) {
	repo := NewPostStatusRepository(setupDB(t))
	ctx := context.Background()

	s := sample.PostStatusWithNewData()
	require.NoError(t, repo.Create(ctx, &s))
	require.NotNil(t, s.ID)

	got, err := repo.FindByID(ctx, *s.ID)
	require.NoError(t, err)
	assert.Equal(t, "eyeglasses", got.Status)

	got.Status = "archived"
	require.NoError(t, repo.Save(ctx, got))
	got, err = repo.FindByID(ctx, *s.ID)
	require.NoError(t, err)
	assert.Equal(t, "archived", got.Status)

	ok, err := repo.ExistsByID(ctx, *s.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, repo.DeleteByID(ctx, *s.ID))
	_, err = repo.FindByID(ctx, *s.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	cnt, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, cnt)
}

func TestPostStatusFindAllSortedAndUnreferenced(t *testing.T) {
	db := setupDB(t)
	statuses := NewPostStatusRepository(db)
	posts := NewPostRepository(db)
	ctx := context.Background()

	var created []*model.PostStatus
	for _, name := range []string{"normal", "draft", "archived"} {
		s := &model.PostStatus{Status: name}
		require.NoError(t, statuses.Create(ctx, s))
		created = append(created, s)
	}
	require.NoError(t, posts.Create(ctx, newPost("p", created[1], time.Now())))

	all, err := statuses.FindAll(ctx, model.Pageable{Sort: []model.Order{{Property: "status"}}})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"archived", "draft", "normal"}, []string{all[0].Status, all[1].Status, all[2].Status})

	_, err = statuses.FindAll(ctx, model.Pageable{Sort: []model.Order{{Property: "nope"}}})
	assert.ErrorIs(t, err, model.ErrInvalidSort)

	free, err := statuses.FindAllWherePostIsNull(ctx)
	require.NoError(t, err)
	require.Len(t, free, 2)
	assert.Equal(t, "normal", free[0].Status)
	assert.Equal(t, "archived", free[1].Status)
}

func TestPostStatusDeleteDetachesPosts(t *testing.T) {
	db := setupDB(t)
	statuses := NewPostStatusRepository(db)
	posts := NewPostRepository(db)
	ctx := context.Background()

	s := &model.PostStatus{Status: "normal"}
	require.NoError(t, statuses.Create(ctx, s))
	p := newPost("attached", s, time.Now())
	require.NoError(t, posts.Create(ctx, p))

	require.NoError(t, statuses.DeleteByID(ctx, *s.ID))
	got, err := posts.FindByID(ctx, *p.ID)
	require.NoError(t, err)
	assert.Nil(t, got.PostStatusID)
	assert.Nil(t, got.PostStatus)
}

func TestPostRepositoryCriteria(t *testing.T) {
	db := setupDB(t)
	statuses := NewPostStatusRepository(db)
	repo := NewPostRepository(db)
	ctx := context.Background()

	s := &model.PostStatus{Status: "normal"}
	require.NoError(t, statuses.Create(ctx, s))
	epoch := time.Unix(0, 0).UTC()
	later := epoch.Add(48 * time.Hour)
	require.NoError(t, repo.Create(ctx, newPost("AAAAAAAAAA", s, epoch)))
	require.NoError(t, repo.Create(ctx, newPost("BBBBBBBBBB", nil, later)))

	tests := []struct {
		query string
		want  []string
	}{
		{"title.equals=AAAAAAAAAA", []string{"AAAAAAAAAA"}},
		{"title.in=AAAAAAAAAA,BBBBBBBBBB", []string{"AAAAAAAAAA", "BBBBBBBBBB"}},
		{"title.notIn=AAAAAAAAAA", []string{"BBBBBBBBBB"}},
		{"title.contains=bbb", []string{"BBBBBBBBBB"}},
		{"title.doesNotContain=BBB", []string{"AAAAAAAAAA"}},
		{"title.specified=true", []string{"AAAAAAAAAA", "BBBBBBBBBB"}},
		{"postStatusId.specified=false", []string{"BBBBBBBBBB"}},
		{"postStatusId.equals=" + itoa(*s.ID), []string{"AAAAAAAAAA"}},
		{"createTime.greaterThan=1970-01-01T00:00:00Z", []string{"BBBBBBBBBB"}},
		{"createTime.lessThanOrEqual=1970-01-01T00:00:00Z", []string{"AAAAAAAAAA"}},
		{"sort=id,desc", []string{"BBBBBBBBBB", "AAAAAAAAAA"}},
		{"sort=id,asc&page=1&size=1", []string{"BBBBBBBBBB"}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)
			c, err := model.ParsePostCriteria(q)
			require.NoError(t, err)
			p, err := model.ParsePageable(q)
			require.NoError(t, err)

			res, err := repo.FindByCriteria(ctx, c, p)
			require.NoError(t, err)
			titles := make([]string, len(res))
			for i, r := range res {
				titles[i] = r.Title
			}
			assert.Equal(t, tt.want, titles)

			if !p.Paged {
				cnt, err := repo.CountByCriteria(ctx, c)
				require.NoError(t, err)
				assert.Equal(t, int64(len(tt.want)), cnt)
			}
		})
	}

	res, err := repo.FindByCriteria(ctx, model.PostCriteria{}, model.Pageable{})
	require.NoError(t, err)
	require.NotNil(t, res[0].PostStatus)
	assert.Equal(t, "normal", res[0].PostStatus.Status)
}

func TestPostDeleteDetachesComments(t *testing.T) {
	db := setupDB(t)
	posts := NewPostRepository(db)
	comments := NewCommentRepository(db)
	ctx := context.Background()

	p := newPost("with comments", nil, time.Now())
	require.NoError(t, posts.Create(ctx, p))
	c := sample.CommentWithNewData()
	c.Post = p
	c.SyncRefs()
	require.NoError(t, comments.Create(ctx, &c))

	got, err := comments.FindByID(ctx, *c.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Post)
	assert.Equal(t, "with comments", got.Post.Title)

	require.NoError(t, posts.DeleteByID(ctx, *p.ID))
	got, err = comments.FindByID(ctx, *c.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Post)

	exists, err := posts.ExistsByID(ctx, *p.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCommentRepositoryCriteria(t *testing.T) {
	db := setupDB(t)
	posts := NewPostRepository(db)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	p := newPost("p", nil, time.Now())
	require.NoError(t, posts.Create(ctx, p))
	for i, content := range []string{"first", "second", "third"} {
		c := &model.Comment{Content: content, CreateTime: time.Now()}
		if i == 0 {
			c.Post = p
			c.SyncRefs()
		}
		require.NoError(t, repo.Create(ctx, c))
	}

	c, err := model.ParseCommentCriteria(url.Values{"postId.equals": {itoa(*p.ID)}})
	require.NoError(t, err)
	res, err := repo.FindByCriteria(ctx, c, model.Pageable{})
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "first", res[0].Content)

	cnt, err := repo.CountByCriteria(ctx, model.CommentCriteria{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), cnt)

	require.NoError(t, repo.DeleteByID(ctx, *res[0].ID))
	ok, err := repo.ExistsByID(ctx, *res[0].ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAuthorityRepository(t *testing.T) {
	repo := NewAuthorityRepository(setupDB(t))
	ctx := context.Background()

	for _, n := range []string{model.RoleUser, model.RoleAdmin} {
		require.NoError(t, repo.Create(ctx, &model.Authority{Name: n}))
	}
	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, model.RoleAdmin, all[0].Name)

	ok, err := repo.ExistsByName(ctx, model.RoleUser)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, repo.DeleteByName(ctx, model.RoleUser))
	_, err = repo.FindByName(ctx, model.RoleUser)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func itoa(v int64) string { return strconv.FormatInt(v, 10) }
