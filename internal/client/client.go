// Package client 管理后台 REST 接口的 Go 客户端
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/d60-Lab/blog-admin/pkg/logger"
	"github.com/d60-Lab/blog-admin/pkg/response"
)

// ErrNotFound 404，或 200 但响应体为空
var ErrNotFound = errors.New("not found")

var errEmptyBody = fmt.Errorf("%w: empty response body", ErrNotFound)

// APIError 非 2xx 响应
type APIError struct {
	StatusCode int
	Problem    response.Problem
}

func (e *APIError) Error() string {
	msg := e.Problem.Title
	if e.Problem.Detail != "" {
		msg += ": " + e.Problem.Detail
	}
	if e.Problem.ErrorKey != "" {
		msg += " (" + e.Problem.ErrorKey + ")"
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, msg)
}

type Client struct {
	base  *url.URL
	http  *http.Client
	token string
}

type Option func(*Client)

func WithToken(token string) Option { return func(c *Client) { c.token = token } }

func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.http = hc } }

func WithTimeout(d time.Duration) Option { return func(c *Client) { c.http.Timeout = d } }

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	c := &Client{
		base: u,
		http: &http.Client{Timeout: 30 * time.Second, Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) Token() string { return c.token }

func (c *Client) SetToken(token string) { c.token = token }

// Authenticate 登录并保存令牌
func (c *Client) Authenticate(ctx context.Context, username, password string) (string, error) {
	var res struct {
		IDToken string `json:"id_token"`
	}
	body := map[string]string{"username": username, "password": password}
	if _, err := c.do(ctx, http.MethodPost, "api/authenticate", nil, "", body, &res); err != nil {
		return "", err
	}
	c.token = res.IDToken
	return res.IDToken, nil
}

// ExportPosts 返回 HTML 文档
func (c *Client) ExportPosts(ctx context.Context) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := c.do(ctx, http.MethodGet, "api/export/posts", nil, "", nil, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// do 发送请求。out 为 *bytes.Buffer 时原样写入；否则按 JSON 解码，空响应体返回 ErrNotFound。
func (c *Client) do(ctx context.Context, method, path string, query url.Values, contentType string, in, out any) (http.Header, error) {
	u := c.base.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
		if contentType == "" {
			contentType = "application/json"
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	logger.Debug("api call",
		zap.String("method", method),
		zap.String("url", u.String()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return resp.Header, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if json.Unmarshal(raw, &apiErr.Problem) != nil || apiErr.Problem.Title == "" {
			apiErr.Problem.Title = strings.TrimSpace(string(raw))
			if apiErr.Problem.Title == "" {
				apiErr.Problem.Title = http.StatusText(resp.StatusCode)
			}
		}
		return resp.Header, apiErr
	}

	switch dst := out.(type) {
	case nil:
		return resp.Header, nil
	case *bytes.Buffer:
		dst.Write(raw)
		return resp.Header, nil
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return resp.Header, errEmptyBody
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return resp.Header, fmt.Errorf("decode response: %w", err)
	}
	return resp.Header, nil
}
