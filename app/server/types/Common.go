package types

// ErrorMessage 是所有错误响应的统一格式
type ErrorMessage struct {
	Detail string `json:"detail"`
}

type ListResponse[T any] struct {
	Limit   int   `json:"limit"`
	PageMax int64 `json:"page_max"`
	List    []T   `json:"list"`
}
