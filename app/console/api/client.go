// Package api 是管理端 HTTP 接口的客户端。
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"go.uber.org/zap"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"
)

type Client struct {
	endpoint string
	hc       *http.Client
	l        *zap.Logger

	lock  sync.RWMutex
	token string
}

func New(endpoint string, l *zap.Logger) *Client {
	return &Client{
		endpoint: endpoint,
		hc:       &http.Client{Timeout: 30 * time.Second},
		l:        l,
	}
}

func (c *Client) SetToken(token string) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.token = token
}

func (c *Client) Token() string {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.token
}

// do 发送一个 JSON 请求； out 为 nil 时丢弃响应体，非 2xx 响应返回 *Error
func (c *Client) do(ctx context.Context, method string, path string, query url.Values, body any, out any) error {
	// 准备请求的基础信息
	reqUrl, err := url.JoinPath(c.endpoint, path)
	if err != nil {
		return fmt.Errorf("join request url: %w", err)
	}
	if len(query) > 0 {
		reqUrl += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqUrl, reqBody)
	if err != nil {
		return fmt.Errorf("prepare request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	// 发送请求
	res, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	c.l.Debug("api request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", res.StatusCode),
	)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return parseError(res)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}

	// 解析响应体
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}

	return nil
}
