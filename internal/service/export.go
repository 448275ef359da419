package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/d60-Lab/blog-admin/internal/model"
	"github.com/d60-Lab/blog-admin/internal/repository"
	"github.com/d60-Lab/blog-admin/pkg/logger"
)

// ExportService 导出全部帖子为单个 HTML 文档
type ExportService interface {
	ExportPosts(ctx context.Context) ([]byte, error)
}

type exportService struct {
	posts  repository.PostRepository
	md     goldmark.Markdown
	policy *bluemonday.Policy
	now    func() time.Time
}

func NewExportService(posts repository.PostRepository) ExportService {
	return &exportService{
		posts:  posts,
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy: bluemonday.UGCPolicy(),
		now:    time.Now,
	}
}

var exportTmpl = template.Must(template.New("posts").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Posts</title></head>
<body>
<h1>Posts</h1>
<p class="generated">Generated {{.Generated.Format "2006-01-02 15:04"}}, {{len .Posts}} posts</p>
{{range .Posts}}<article>
<h2>{{.Title}}</h2>
<p class="meta">#{{.ID}} {{.Created.Format "2006-01-02 15:04"}}{{if .Status}} [{{.Status}}]{{end}}</p>
{{.Body}}
</article>
{{end}}</body>
</html>
`))

type exportPost struct {
	ID      int64
	Title   string
	Status  string
	Created time.Time
	Body    template.HTML
}

func (s *exportService) ExportPosts(ctx context.Context) ([]byte, error) {
	logger.Debug("Request to export Posts")
	posts, err := s.posts.FindByCriteria(ctx, model.PostCriteria{}, model.Pageable{
		Sort: []model.Order{{Property: "createTime", Desc: true}},
	})
	if err != nil {
		return nil, err
	}

	data := struct {
		Generated time.Time
		Posts     []exportPost
	}{Generated: s.now().UTC(), Posts: make([]exportPost, 0, len(posts))}

	for _, p := range posts {
		body, err := s.render(p.Content)
		if err != nil {
			return nil, fmt.Errorf("render post %d: %w", *p.ID, err)
		}
		ep := exportPost{ID: *p.ID, Title: p.Title, Created: p.CreateTime, Body: body}
		if p.PostStatus != nil {
			ep.Status = p.PostStatus.Status
		}
		data.Posts = append(data.Posts, ep)
	}

	var buf bytes.Buffer
	if err := exportTmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// render markdown 转 HTML 后过滤
func (s *exportService) render(content *string) (template.HTML, error) {
	if content == nil || *content == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(*content), &buf); err != nil {
		return "", err
	}
	return template.HTML(s.policy.SanitizeBytes(buf.Bytes())), nil
}
