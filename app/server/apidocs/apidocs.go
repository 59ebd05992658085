package apidocs

import (
	"bytes"
	"html/template"
	"net/http"
	"path"

	"github.com/labstack/echo/v4"
)

// Docs 在 basePath 下提供接口文档页面与 OpenAPI 描述
type Docs struct {
	basePath string
	pagePath string
	jsonPath string
	yamlPath string

	page     []byte
	specJSON []byte
	allow    func(*http.Request) bool
}

type Option func(*Docs)

// WithAuthorizer 限制文档的访问，返回 false 时响应 403
func WithAuthorizer(f func(*http.Request) bool) Option {
	return func(d *Docs) {
		d.allow = f
	}
}

func New(basePath string, specJSON []byte, opts ...Option) *Docs {
	d := &Docs{
		basePath: basePath,
		pagePath: path.Join(basePath, "docs"),
		jsonPath: path.Join(basePath, "openapi.json"),
		yamlPath: path.Join(basePath, "openapi.yaml"),
		specJSON: specJSON,
	}
	for _, opt := range opts {
		opt(d)
	}

	var buf bytes.Buffer
	_ = pageTemplate.Execute(&buf, d)
	d.page = buf.Bytes()

	return d
}

// SpecURL 供页面模板使用
func (d *Docs) SpecURL() string {
	return d.jsonPath
}

// Middleware 拦截文档相关的路径，其余请求交给 next
func (d *Docs) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var serve func() error
			switch c.Request().URL.Path {
			case d.basePath:
				serve = func() error { return c.Redirect(http.StatusFound, d.pagePath) }
			case d.pagePath:
				serve = func() error { return c.HTMLBlob(http.StatusOK, d.page) }
			case d.jsonPath:
				serve = func() error { return c.JSONBlob(http.StatusOK, d.specJSON) }
			case d.yamlPath:
				serve = func() error { return c.Blob(http.StatusOK, "application/yaml", openapiYAML) }
			default:
				return next(c)
			}

			if d.allow != nil && !d.allow(c.Request()) {
				return c.String(http.StatusForbidden, "Forbidden")
			}
			return serve()
		}
	}
}

var pageTemplate = template.Must(template.New("docs").Parse(`<!DOCTYPE html>
<html lang="en">
  <head>
    <title>Instance API</title>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1" />
  </head>
  <body>
    <script id="api-reference" data-url="{{ .SpecURL }}"></script>
    <script src="https://cdn.jsdelivr.net/npm/@scalar/api-reference"></script>
  </body>
</html>
`))
