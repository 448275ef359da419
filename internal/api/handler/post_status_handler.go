package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/blog-admin/internal/model"
	"github.com/d60-Lab/blog-admin/pkg/response"
)

// CreatePostStatus 新建帖子状态
// @Summary 新建帖子状态
// @Tags 帖子状态
// @Accept json
// @Produce json
// @Param request body model.PostStatus true "帖子状态（id 为空）"
// @Success 201 {object} model.PostStatus
// @Failure 400 {object} response.Problem
// @Security BearerAuth
// @Router /api/post-statuses [post]
func (h *Handler) CreatePostStatus(c *gin.Context) {
	var req model.PostStatus
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	res, err := h.statuses.Save(c.Request.Context(), &req)
	if err != nil {
		fail(c, postStatusEntity, err)
		return
	}
	response.CreationAlert(c, postStatusEntity, idString(res.ID))
	response.Created(c, "/api/post-statuses/"+idString(res.ID), res)
}

// UpdatePostStatus 全量更新
// @Summary 更新帖子状态
// @Tags 帖子状态
// @Accept json
// @Produce json
// @Param id path int true "ID"
// @Param request body model.PostStatus true "帖子状态"
// @Success 200 {object} model.PostStatus
// @Failure 400 {object} response.Problem
// @Security BearerAuth
// @Router /api/post-statuses/{id} [put]
func (h *Handler) UpdatePostStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req model.PostStatus
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	res, err := h.statuses.Update(c.Request.Context(), id, &req)
	if err != nil {
		fail(c, postStatusEntity, err)
		return
	}
	response.UpdateAlert(c, postStatusEntity, idString(res.ID))
	response.Success(c, res)
}

// PatchPostStatus 部分更新，支持 application/merge-patch+json
// @Summary 部分更新帖子状态
// @Tags 帖子状态
// @Accept json
// @Produce json
// @Param id path int true "ID"
// @Param request body model.PostStatusPatch true "需要修改的字段"
// @Success 200 {object} model.PostStatus
// @Failure 400 {object} response.Problem
// @Security BearerAuth
// @Router /api/post-statuses/{id} [patch]
func (h *Handler) PatchPostStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req model.PostStatusPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	res, err := h.statuses.PartialUpdate(c.Request.Context(), id, &req)
	if err != nil {
		fail(c, postStatusEntity, err)
		return
	}
	response.UpdateAlert(c, postStatusEntity, idString(res.ID))
	response.Success(c, res)
}

// ListPostStatuses 查询全部状态；filter=post-is-null 时只返回未被帖子引用的
// @Summary 帖子状态列表
// @Tags 帖子状态
// @Produce json
// @Param filter query string false "post-is-null"
// @Param sort query string false "排序，如 status,asc"
// @Success 200 {array} model.PostStatus
// @Security BearerAuth
// @Router /api/post-statuses [get]
func (h *Handler) ListPostStatuses(c *gin.Context) {
	ctx := c.Request.Context()
	if c.Query("filter") == "post-is-null" {
		res, err := h.statuses.FindAllWherePostIsNull(ctx)
		if err != nil {
			fail(c, postStatusEntity, err)
			return
		}
		response.Success(c, res)
		return
	}

	p, err := model.ParsePageable(c.Request.URL.Query())
	if err != nil {
		fail(c, postStatusEntity, err)
		return
	}
	res, err := h.statuses.FindAll(ctx, p)
	if err != nil {
		fail(c, postStatusEntity, err)
		return
	}
	response.Success(c, res)
}

// GetPostStatus 按 id 查询
// @Summary 查询帖子状态
// @Tags 帖子状态
// @Produce json
// @Param id path int true "ID"
// @Success 200 {object} model.PostStatus
// @Failure 404 {object} response.Problem
// @Security BearerAuth
// @Router /api/post-statuses/{id} [get]
func (h *Handler) GetPostStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	res, err := h.statuses.FindOne(c.Request.Context(), id)
	if err != nil {
		fail(c, postStatusEntity, err)
		return
	}
	response.Success(c, res)
}

// DeletePostStatus 删除，引用它的帖子状态置空
// @Summary 删除帖子状态
// @Tags 帖子状态
// @Param id path int true "ID"
// @Success 200
// @Security BearerAuth
// @Router /api/post-statuses/{id} [delete]
func (h *Handler) DeletePostStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.statuses.Delete(c.Request.Context(), id); err != nil {
		fail(c, postStatusEntity, err)
		return
	}
	response.DeletionAlert(c, postStatusEntity, c.Param("id"))
	response.Empty(c)
}
