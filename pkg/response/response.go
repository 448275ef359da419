package response

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/blog-admin/pkg/logger"
)

// 前端通过这两个 header 展示操作提示
const (
	AlertHeader  = "X-blogAdminApp-alert"
	ParamsHeader = "X-blogAdminApp-params"
	appName      = "blogAdminApp"
)

// Problem 错误响应体（problem-details 风格）
type Problem struct {
	Title      string `json:"title"`
	Status     int    `json:"status"`
	Detail     string `json:"detail,omitempty"`
	EntityName string `json:"entityName,omitempty"`
	ErrorKey   string `json:"errorKey,omitempty"`
}

func (p Problem) Error() string { return p.Title }

// Success 200，返回实体本身
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Created 201 + Location
func Created(c *gin.Context, location string, data any) {
	c.Header("Location", location)
	c.JSON(http.StatusCreated, data)
}

// Empty 200 无响应体
func Empty(c *gin.Context) {
	c.Status(http.StatusOK)
	c.Writer.WriteHeaderNow()
}

// Total 写 X-Total-Count
func Total(c *gin.Context, total int64) {
	c.Header("X-Total-Count", strconv.FormatInt(total, 10))
}

// CreationAlert / UpdateAlert / DeletionAlert 写操作提示 header
func CreationAlert(c *gin.Context, entityName, param string) {
	alert(c, entityName, "created", param)
}

func UpdateAlert(c *gin.Context, entityName, param string) {
	alert(c, entityName, "updated", param)
}

func DeletionAlert(c *gin.Context, entityName, param string) {
	alert(c, entityName, "deleted", param)
}

func alert(c *gin.Context, entityName, action, param string) {
	c.Header(AlertHeader, appName+"."+entityName+"."+action)
	c.Header(ParamsHeader, param)
}

// BadRequest 400
func BadRequest(c *gin.Context, msg string) {
	abort(c, Problem{Title: "Bad Request", Status: http.StatusBadRequest, Detail: msg})
}

// BadRequestAlert 400，带实体名与错误 key（idexists、idnull 等）
func BadRequestAlert(c *gin.Context, msg, entityName, errorKey string) {
	c.Header("X-blogAdminApp-error", "error."+errorKey)
	c.Header(ParamsHeader, entityName)
	abort(c, Problem{Title: msg, Status: http.StatusBadRequest, EntityName: entityName, ErrorKey: errorKey})
}

// NotFound 404
func NotFound(c *gin.Context) {
	abort(c, Problem{Title: "Not Found", Status: http.StatusNotFound})
}

func Unauthorized(c *gin.Context, msg string) {
	abort(c, Problem{Title: "Unauthorized", Status: http.StatusUnauthorized, Detail: msg})
}

func Forbidden(c *gin.Context) {
	abort(c, Problem{Title: "Forbidden", Status: http.StatusForbidden})
}

func TooManyRequests(c *gin.Context) {
	abort(c, Problem{Title: "Too Many Requests", Status: http.StatusTooManyRequests})
}

// InternalError 500，错误细节只进日志
func InternalError(c *gin.Context, err error) {
	logger.Error("internal error", zap.Error(err), zap.String("path", c.FullPath()))
	_ = c.Error(err)
	abort(c, Problem{Title: "Internal Server Error", Status: http.StatusInternalServerError})
}

func abort(c *gin.Context, p Problem) {
	c.AbortWithStatusJSON(p.Status, p)
}
