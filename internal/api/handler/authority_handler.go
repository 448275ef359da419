package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/blog-admin/internal/model"
	"github.com/d60-Lab/blog-admin/pkg/response"
)

// CreateAuthority 仅管理员
// @Summary 新建权限
// @Tags 权限
// @Accept json
// @Produce json
// @Param request body model.Authority true "权限"
// @Success 201 {object} model.Authority
// @Failure 400 {object} response.Problem
// @Security BearerAuth
// @Router /api/authorities [post]
func (h *Handler) CreateAuthority(c *gin.Context) {
	var req model.Authority
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	res, err := h.authorities.Save(c.Request.Context(), &req)
	if err != nil {
		fail(c, authorityEntity, err)
		return
	}
	response.CreationAlert(c, authorityEntity, res.Name)
	response.Created(c, "/api/authorities/"+res.Name, res)
}

// ListAuthorities 按名称排序
// @Summary 权限列表
// @Tags 权限
// @Produce json
// @Success 200 {array} model.Authority
// @Security BearerAuth
// @Router /api/authorities [get]
func (h *Handler) ListAuthorities(c *gin.Context) {
	res, err := h.authorities.FindAll(c.Request.Context())
	if err != nil {
		fail(c, authorityEntity, err)
		return
	}
	response.Success(c, res)
}

// GetAuthority 按名称查询
// @Summary 查询权限
// @Tags 权限
// @Produce json
// @Param name path string true "权限名"
// @Success 200 {object} model.Authority
// @Failure 404 {object} response.Problem
// @Security BearerAuth
// @Router /api/authorities/{name} [get]
func (h *Handler) GetAuthority(c *gin.Context) {
	res, err := h.authorities.FindOne(c.Request.Context(), c.Param("name"))
	if err != nil {
		fail(c, authorityEntity, err)
		return
	}
	response.Success(c, res)
}

// DeleteAuthority 仅管理员
// @Summary 删除权限
// @Tags 权限
// @Param name path string true "权限名"
// @Success 200
// @Security BearerAuth
// @Router /api/authorities/{name} [delete]
func (h *Handler) DeleteAuthority(c *gin.Context) {
	name := c.Param("name")
	if err := h.authorities.Delete(c.Request.Context(), name); err != nil {
		fail(c, authorityEntity, err)
		return
	}
	response.DeletionAlert(c, authorityEntity, name)
	response.Empty(c)
}
