package apidocs

import (
	"context"
	_ "embed"
	"fmt"
	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var openapiYAML []byte

// Load 解析并校验内嵌的 OpenAPI 文档，返回 JSON 格式
func Load(ctx context.Context) (*openapi3.T, []byte, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(openapiYAML)
	if err != nil {
		return nil, nil, fmt.Errorf("load openapi document: %w", err)
	}

	if err := doc.Validate(ctx); err != nil {
		return nil, nil, fmt.Errorf("validate openapi document: %w", err)
	}

	docJSON, err := doc.MarshalJSON()
	if err != nil {
		return nil, nil, fmt.Errorf("marshal openapi document: %w", err)
	}

	return doc, docJSON, nil
}
