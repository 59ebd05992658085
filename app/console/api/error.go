package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
)

// 错误响应体最多读取的长度
const maxErrorBody = 4 << 10

// Error 是服务端返回的非 2xx 响应
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// StatusOf 返回错误对应的 HTTP 状态码，非 *Error 返回 0
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// parseError 依次尝试 JSON 中的 detail 、 message 、响应文本，最后使用状态描述
func parseError(res *http.Response) *Error {
	e := &Error{Status: res.StatusCode}

	raw, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))

	var body struct {
		Detail  any    `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if detail, ok := body.Detail.(string); ok && strings.TrimSpace(detail) != "" {
			e.Message = strings.TrimSpace(detail)
			return e
		}
		if strings.TrimSpace(body.Message) != "" {
			e.Message = strings.TrimSpace(body.Message)
			return e
		}
	}

	if text := strings.TrimSpace(string(raw)); text != "" {
		e.Message = text
		return e
	}

	statusText := http.StatusText(res.StatusCode)
	if statusText == "" {
		statusText = strconv.Itoa(res.StatusCode)
	}
	e.Message = "request failed: " + statusText
	return e
}
