package entity

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"

	"github.com/d60-Lab/blog-admin/internal/model"
	"github.com/d60-Lab/blog-admin/internal/model/sample"
)

func ptr[T any](v T) *T { return &v }

func status(id int64) *model.PostStatus { return &model.PostStatus{ID: ptr(id)} }

func TestCompare(t *testing.T) {
	assert.True(t, Compare[model.PostStatus](nil, nil))
	assert.False(t, Compare(status(1), nil))
	assert.False(t, Compare(nil, status(1)))
	assert.False(t, Compare(status(1), status(2)))
	assert.True(t, Compare(status(1), status(1)))

	a, b := sample.PostWithRequiredData(), sample.PostWithRequiredData()
	b.Title = "changed"
	assert.True(t, Compare(&a, &b))
}

func TestAddToCollectionIfMissing(t *testing.T) {
	req := sample.PostStatusWithRequiredData()
	partial := sample.PostStatusWithPartialData()

	t.Run("adds to empty collection", func(t *testing.T) {
		res := AddToCollectionIfMissing([]*model.PostStatus{}, &req)
		assert.Len(t, res, 1)
		assert.Contains(t, res, &req)
	})

	t.Run("skips entity already present", func(t *testing.T) {
		coll := []*model.PostStatus{&req}
		same := sample.PostStatusWithRequiredData()
		res := AddToCollectionIfMissing(coll, &same)
		assert.Len(t, res, 1)
	})

	t.Run("prepends missing entities", func(t *testing.T) {
		coll := []*model.PostStatus{&partial}
		res := AddToCollectionIfMissing(coll, &req)
		assert.Equal(t, []*model.PostStatus{&req, &partial}, res)
	})

	t.Run("dedupes candidates", func(t *testing.T) {
		dup := sample.PostStatusWithRequiredData()
		res := AddToCollectionIfMissing([]*model.PostStatus{}, &req, &partial, &dup)
		assert.Len(t, res, 2)
	})

	t.Run("nil candidates keep collection identity", func(t *testing.T) {
		coll := []*model.PostStatus{&req}
		res := AddToCollectionIfMissing(coll, nil, nil)
		assert.Equal(t, unsafe.SliceData(coll), unsafe.SliceData(res))
		assert.Len(t, res, 1)

		var empty []*model.PostStatus
		assert.Nil(t, AddToCollectionIfMissing(empty, nil))
	})

	t.Run("does not mutate input", func(t *testing.T) {
		coll := make([]*model.PostStatus, 1, 8)
		coll[0] = &partial
		res := AddToCollectionIfMissing(coll, &req)
		assert.Len(t, coll, 1)
		assert.Same(t, &partial, coll[0])
		assert.Len(t, res, 2)
	})
}

func TestIdentifier(t *testing.T) {
	c := sample.CommentWithNewData()
	assert.Nil(t, Identifier(&c))
	c2 := sample.CommentWithFullData()
	assert.Equal(t, int64(28427), *Identifier(&c2))
	assert.Nil(t, Identifier(nil))
}
