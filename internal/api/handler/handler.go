package handler

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/blog-admin/internal/auth"
	"github.com/d60-Lab/blog-admin/internal/model"
	"github.com/d60-Lab/blog-admin/internal/service"
	"github.com/d60-Lab/blog-admin/pkg/response"
)

const (
	postStatusEntity = "postStatus"
	postEntity       = "post"
	commentEntity    = "comment"
	authorityEntity  = "authority"
)

type Handler struct {
	statuses    service.PostStatusService
	posts       service.PostService
	comments    service.CommentService
	authorities service.AuthorityService
	export      service.ExportService
	auth        *auth.Authenticator
}

func New(
	statuses service.PostStatusService,
	posts service.PostService,
	comments service.CommentService,
	authorities service.AuthorityService,
	export service.ExportService,
	a *auth.Authenticator,
) *Handler {
	return &Handler{
		statuses:    statuses,
		posts:       posts,
		comments:    comments,
		authorities: authorities,
		export:      export,
		auth:        a,
	}
}

// pathID 解析 :id；失败时已写 400
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, fmt.Sprintf("invalid id %q", c.Param("id")))
		return 0, false
	}
	return id, true
}

// fail 把 service 错误映射为响应
func fail(c *gin.Context, entity string, err error) {
	switch {
	case errors.Is(err, service.ErrIDExists):
		response.BadRequestAlert(c, "A new "+entity+" cannot already have an ID", entity, "idexists")
	case errors.Is(err, service.ErrIDNull):
		response.BadRequestAlert(c, "Invalid id", entity, "idnull")
	case errors.Is(err, service.ErrIDInvalid):
		response.BadRequestAlert(c, "Invalid ID", entity, "idinvalid")
	case errors.Is(err, service.ErrEntityNotFound):
		response.BadRequestAlert(c, "Entity not found", entity, "idnotfound")
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c)
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrInvalidCriteria),
		errors.Is(err, service.ErrInvalidSort):
		response.BadRequest(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}

// paginationHeaders 写 X-Total-Count 与 Link（rel=next,prev,last,first）
func paginationHeaders(c *gin.Context, p model.Pageable, total int64) {
	response.Total(c, total)
	if !p.Paged {
		return
	}
	lastPage := 0
	if total > 0 {
		lastPage = int((total - 1) / int64(p.Size))
	}

	link := func(page int, rel string) string {
		u := *c.Request.URL
		q := u.Query()
		q.Set("page", strconv.Itoa(page))
		q.Set("size", strconv.Itoa(p.Size))
		u.RawQuery = q.Encode()
		return fmt.Sprintf(`<%s>; rel="%s"`, pageURL(c, &u), rel)
	}

	var links []string
	if p.Page < lastPage {
		links = append(links, link(p.Page+1, "next"))
	}
	if p.Page > 0 {
		links = append(links, link(p.Page-1, "prev"))
	}
	links = append(links, link(lastPage, "last"), link(0, "first"))
	c.Header("Link", strings.Join(links, ","))
}

func pageURL(c *gin.Context, u *url.URL) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if fwd := c.GetHeader("X-Forwarded-Proto"); fwd != "" {
		scheme = fwd
	}
	host := c.Request.Host
	if fwd := c.GetHeader("X-Forwarded-Host"); fwd != "" {
		host = fwd
	}
	return scheme + "://" + host + u.RequestURI()
}

func idString(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}
