package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/blog-admin/internal/model"
	"github.com/d60-Lab/blog-admin/pkg/response"
)

// CreateComment 新建评论，post 只需带 id
// @Summary 新建评论
// @Tags 评论
// @Accept json
// @Produce json
// @Param request body model.Comment true "评论（id 为空）"
// @Success 201 {object} model.Comment
// @Failure 400 {object} response.Problem
// @Security BearerAuth
// @Router /api/comments [post]
func (h *Handler) CreateComment(c *gin.Context) {
	var req model.Comment
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	res, err := h.comments.Save(c.Request.Context(), &req)
	if err != nil {
		fail(c, commentEntity, err)
		return
	}
	response.CreationAlert(c, commentEntity, idString(res.ID))
	response.Created(c, "/api/comments/"+idString(res.ID), res)
}

// UpdateComment 全量更新
// @Summary 更新评论
// @Tags 评论
// @Accept json
// @Produce json
// @Param id path int true "ID"
// @Param request body model.Comment true "评论"
// @Success 200 {object} model.Comment
// @Failure 400 {object} response.Problem
// @Security BearerAuth
// @Router /api/comments/{id} [put]
func (h *Handler) UpdateComment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req model.Comment
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	res, err := h.comments.Update(c.Request.Context(), id, &req)
	if err != nil {
		fail(c, commentEntity, err)
		return
	}
	response.UpdateAlert(c, commentEntity, idString(res.ID))
	response.Success(c, res)
}

// PatchComment 部分更新
// @Summary 部分更新评论
// @Tags 评论
// @Accept json
// @Produce json
// @Param id path int true "ID"
// @Param request body model.CommentPatch true "需要修改的字段"
// @Success 200 {object} model.Comment
// @Failure 400 {object} response.Problem
// @Security BearerAuth
// @Router /api/comments/{id} [patch]
func (h *Handler) PatchComment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req model.CommentPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	res, err := h.comments.PartialUpdate(c.Request.Context(), id, &req)
	if err != nil {
		fail(c, commentEntity, err)
		return
	}
	response.UpdateAlert(c, commentEntity, idString(res.ID))
	response.Success(c, res)
}

// ListComments 条件分页查询
// @Summary 评论列表
// @Description 过滤参数形如 content.contains=spam、postId.equals=3、createTime.greaterThan=2025-04-10T00:00:00Z
// @Tags 评论
// @Produce json
// @Param page query int false "页码，从 0 开始"
// @Param size query int false "每页数量" default(20)
// @Param sort query string false "排序，如 id,desc"
// @Success 200 {array} model.Comment
// @Header 200 {integer} X-Total-Count "总数"
// @Header 200 {string} Link "分页链接"
// @Failure 400 {object} response.Problem
// @Security BearerAuth
// @Router /api/comments [get]
func (h *Handler) ListComments(c *gin.Context) {
	q := c.Request.URL.Query()
	criteria, err := model.ParseCommentCriteria(q)
	if err != nil {
		fail(c, commentEntity, err)
		return
	}
	p, err := model.ParsePageable(q)
	if err != nil {
		fail(c, commentEntity, err)
		return
	}
	p = p.OrDefault()
	ctx := c.Request.Context()
	total, err := h.comments.CountByCriteria(ctx, criteria)
	if err != nil {
		fail(c, commentEntity, err)
		return
	}
	res, err := h.comments.FindByCriteria(ctx, criteria, p)
	if err != nil {
		fail(c, commentEntity, err)
		return
	}
	paginationHeaders(c, p, total)
	response.Success(c, res)
}

// CountComments 与列表使用相同的过滤参数
// @Summary 按条件计数
// @Tags 评论
// @Produce json
// @Success 200 {integer} int
// @Security BearerAuth
// @Router /api/comments/count [get]
func (h *Handler) CountComments(c *gin.Context) {
	criteria, err := model.ParseCommentCriteria(c.Request.URL.Query())
	if err != nil {
		fail(c, commentEntity, err)
		return
	}
	n, err := h.comments.CountByCriteria(c.Request.Context(), criteria)
	if err != nil {
		fail(c, commentEntity, err)
		return
	}
	response.Success(c, n)
}

// GetComment 返回评论及所属帖子
// @Summary 查询评论
// @Tags 评论
// @Produce json
// @Param id path int true "ID"
// @Success 200 {object} model.Comment
// @Failure 404 {object} response.Problem
// @Security BearerAuth
// @Router /api/comments/{id} [get]
func (h *Handler) GetComment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	res, err := h.comments.FindOne(c.Request.Context(), id)
	if err != nil {
		fail(c, commentEntity, err)
		return
	}
	response.Success(c, res)
}

// DeleteComment 删除评论
// @Summary 删除评论
// @Tags 评论
// @Param id path int true "ID"
// @Success 200
// @Security BearerAuth
// @Router /api/comments/{id} [delete]
func (h *Handler) DeleteComment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.comments.Delete(c.Request.Context(), id); err != nil {
		fail(c, commentEntity, err)
		return
	}
	response.DeletionAlert(c, commentEntity, c.Param("id"))
	response.Empty(c)
}
