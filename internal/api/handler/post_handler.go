package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/blog-admin/internal/model"
	"github.com/d60-Lab/blog-admin/pkg/response"
)

// CreatePost 新建帖子，postStatus 只需带 id
// @Summary 新建帖子
// @Tags 帖子
// @Accept json
// @Produce json
// @Param request body model.Post true "帖子（id 为空）"
// @Success 201 {object} model.Post
// @Failure 400 {object} response.Problem
// @Security BearerAuth
// @Router /api/posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
	var req model.Post
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	res, err := h.posts.Save(c.Request.Context(), &req)
	if err != nil {
		fail(c, postEntity, err)
		return
	}
	response.CreationAlert(c, postEntity, idString(res.ID))
	response.Created(c, "/api/posts/"+idString(res.ID), res)
}

// UpdatePost 全量更新
// @Summary 更新帖子
// @Tags 帖子
// @Accept json
// @Produce json
// @Param id path int true "ID"
// @Param request body model.Post true "帖子"
// @Success 200 {object} model.Post
// @Failure 400 {object} response.Problem
// @Security BearerAuth
// @Router /api/posts/{id} [put]
func (h *Handler) UpdatePost(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req model.Post
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	res, err := h.posts.Update(c.Request.Context(), id, &req)
	if err != nil {
		fail(c, postEntity, err)
		return
	}
	response.UpdateAlert(c, postEntity, idString(res.ID))
	response.Success(c, res)
}

// PatchPost 部分更新
// @Summary 部分更新帖子
// @Tags 帖子
// @Accept json
// @Produce json
// @Param id path int true "ID"
// @Param request body model.PostPatch true "需要修改的字段"
// @Success 200 {object} model.Post
// @Failure 400 {object} response.Problem
// @Security BearerAuth
// @Router /api/posts/{id} [patch]
func (h *Handler) PatchPost(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req model.PostPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	res, err := h.posts.PartialUpdate(c.Request.Context(), id, &req)
	if err != nil {
		fail(c, postEntity, err)
		return
	}
	response.UpdateAlert(c, postEntity, idString(res.ID))
	response.Success(c, res)
}

// ListPosts 条件分页查询
// @Summary 帖子列表
// @Description 过滤参数形如 title.contains=go、id.in=1,2、postStatusId.specified=false
// @Tags 帖子
// @Produce json
// @Param page query int false "页码，从 0 开始"
// @Param size query int false "每页数量" default(20)
// @Param sort query string false "排序，如 id,desc"
// @Success 200 {array} model.Post
// @Header 200 {integer} X-Total-Count "总数"
// @Header 200 {string} Link "分页链接"
// @Failure 400 {object} response.Problem
// @Security BearerAuth
// @Router /api/posts [get]
func (h *Handler) ListPosts(c *gin.Context) {
	q := c.Request.URL.Query()
	criteria, err := model.ParsePostCriteria(q)
	if err != nil {
		fail(c, postEntity, err)
		return
	}
	p, err := model.ParsePageable(q)
	if err != nil {
		fail(c, postEntity, err)
		return
	}
	p = p.OrDefault()
	ctx := c.Request.Context()
	total, err := h.posts.CountByCriteria(ctx, criteria)
	if err != nil {
		fail(c, postEntity, err)
		return
	}
	res, err := h.posts.FindByCriteria(ctx, criteria, p)
	if err != nil {
		fail(c, postEntity, err)
		return
	}
	paginationHeaders(c, p, total)
	response.Success(c, res)
}

// CountPosts 与列表使用相同的过滤参数
// @Summary 按条件计数
// @Tags 帖子
// @Produce json
// @Success 200 {integer} int
// @Security BearerAuth
// @Router /api/posts/count [get]
func (h *Handler) CountPosts(c *gin.Context) {
	criteria, err := model.ParsePostCriteria(c.Request.URL.Query())
	if err != nil {
		fail(c, postEntity, err)
		return
	}
	n, err := h.posts.CountByCriteria(c.Request.Context(), criteria)
	if err != nil {
		fail(c, postEntity, err)
		return
	}
	response.Success(c, n)
}

// GetPost 返回帖子及其状态
// @Summary 查询帖子
// @Tags 帖子
// @Produce json
// @Param id path int true "ID"
// @Success 200 {object} model.Post
// @Failure 404 {object} response.Problem
// @Security BearerAuth
// @Router /api/posts/{id} [get]
func (h *Handler) GetPost(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	res, err := h.posts.FindOne(c.Request.Context(), id)
	if err != nil {
		fail(c, postEntity, err)
		return
	}
	response.Success(c, res)
}

// DeletePost 删除帖子，其评论保留但不再关联
// @Summary 删除帖子
// @Tags 帖子
// @Param id path int true "ID"
// @Success 200
// @Security BearerAuth
// @Router /api/posts/{id} [delete]
func (h *Handler) DeletePost(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.posts.Delete(c.Request.Context(), id); err != nil {
		fail(c, postEntity, err)
		return
	}
	response.DeletionAlert(c, postEntity, c.Param("id"))
	response.Empty(c)
}
