package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/blog-admin/internal/auth"
	"github.com/d60-Lab/blog-admin/pkg/response"
)

type loginRequest struct {
	Username   string `json:"username" binding:"required"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"rememberMe"`
}

type tokenResponse struct {
	IDToken string `json:"id_token"`
}

// Authenticate 用户名密码换取访问令牌
// @Summary 登录
// @Tags 账号
// @Accept json
// @Produce json
// @Param request body loginRequest true "登录信息"
// @Success 200 {object} tokenResponse
// @Failure 401 {object} response.Problem
// @Router /api/authenticate [post]
func (h *Handler) Authenticate(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	token, err := h.auth.Authenticate(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrBadCredentials) {
			response.Unauthorized(c, "bad credentials")
			return
		}
		response.InternalError(c, err)
		return
	}
	c.Header("Authorization", "Bearer "+token)
	c.JSON(http.StatusOK, tokenResponse{IDToken: token})
}

// ExportPosts 导出全部帖子为 HTML
// @Summary 导出帖子
// @Tags 导出
// @Produce html
// @Success 200 {string} string "HTML 文档"
// @Security BearerAuth
// @Router /api/export/posts [get]
func (h *Handler) ExportPosts(c *gin.Context) {
	doc, err := h.export.ExportPosts(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="posts.html"`)
	c.Data(http.StatusOK, "text/html; charset=utf-8", doc)
}
