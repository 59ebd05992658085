// Package fieldkind 定义用户字段的类型。
//
// 每一种字段类型都是一个独立的 Go 类型，实现 Kind 的全部方法；
// 新增类型时如果漏掉了校验或渲染，编译就会失败。
package fieldkind

import (
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"
)

const (
	TagText     = "text"
	TagEmail    = "email"
	TagNumber   = "number"
	TagTextarea = "textarea"
	TagSelect   = "select"
	TagCheckbox = "checkbox"
	TagDate     = "date"
	TagURL      = "url"
)

const DateLayout = "2006-01-02"

var (
	ErrUnknownKind = errors.New("unknown field type")
	ErrNoOptions   = errors.New("select field requires at least one option")
	ErrRequired    = errors.New("value is required")
	ErrInvalid     = errors.New("invalid value")
)

type Kind interface {
	Tag() string
	// Blank 判断值是否视为未填写
	Blank(value string) bool
	// Validate 校验非空值的格式
	Validate(value string) error
	// Render 以纯文本形式展示一个字段
	Render(label, placeholder, value string) string

	sealed()
}

type (
	Text     struct{}
	Email    struct{}
	Number   struct{}
	Textarea struct{}
	Select   struct{ Options []string }
	Checkbox struct{}
	Date     struct{}
	URL      struct{}
)

// Tags 按展示顺序列出全部类型
func Tags() []string {
	return []string{TagText, TagEmail, TagNumber, TagTextarea, TagSelect, TagCheckbox, TagDate, TagURL}
}

func Parse(tag string, options []string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case TagText:
		return Text{}, nil
	case TagEmail:
		return Email{}, nil
	case TagNumber:
		return Number{}, nil
	case TagTextarea:
		return Textarea{}, nil
	case TagSelect:
		var opts []string
		for _, o := range options {
			if o = strings.TrimSpace(o); o != "" {
				opts = append(opts, o)
			}
		}
		if len(opts) == 0 {
			return nil, ErrNoOptions
		}
		return Select{Options: opts}, nil
	case TagCheckbox:
		return Checkbox{}, nil
	case TagDate:
		return Date{}, nil
	case TagURL:
		return URL{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, tag)
	}
}

// Check 校验一个回答，required 为真时空值会被拒绝
func Check(k Kind, value string, required bool) error {
	if k.Blank(value) {
		if required {
			return ErrRequired
		}
		return nil
	}
	return k.Validate(value)
}

func blank(value string) bool { return strings.TrimSpace(value) == "" }

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

func line(label, placeholder, value string) string {
	if value == "" {
		if placeholder == "" {
			return label + ": -"
		}
		return fmt.Sprintf("%s: (%s)", label, placeholder)
	}
	return label + ": " + value
}

func (Text) Tag() string                 { return TagText }
func (Text) Blank(value string) bool     { return blank(value) }
func (Text) Validate(value string) error { return nil }
func (Text) Render(label, placeholder, value string) string {
	return line(label, placeholder, value)
}
func (Text) sealed() {}

func (Email) Tag() string             { return TagEmail }
func (Email) Blank(value string) bool { return blank(value) }
func (Email) Validate(value string) error {
	addr, err := mail.ParseAddress(strings.TrimSpace(value))
	if err != nil || addr.Name != "" {
		return invalid("%q is not an email address", value)
	}
	return nil
}
func (Email) Render(label, placeholder, value string) string {
	return line(label, placeholder, value)
}
func (Email) sealed() {}

func (Number) Tag() string             { return TagNumber }
func (Number) Blank(value string) bool { return blank(value) }
func (Number) Validate(value string) error {
	if _, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err != nil {
		return invalid("%q is not a number", value)
	}
	return nil
}
func (Number) Render(label, placeholder, value string) string {
	return line(label, placeholder, value)
}
func (Number) sealed() {}

func (Textarea) Tag() string                 { return TagTextarea }
func (Textarea) Blank(value string) bool     { return blank(value) }
func (Textarea) Validate(value string) error { return nil }
func (Textarea) Render(label, placeholder, value string) string {
	if value == "" {
		return line(label, placeholder, value)
	}
	// 多行内容缩进展示
	return label + ":\n    " + strings.ReplaceAll(value, "\n", "\n    ")
}
func (Textarea) sealed() {}

func (Select) Tag() string             { return TagSelect }
func (Select) Blank(value string) bool { return blank(value) }
func (s Select) Validate(value string) error {
	if !slices.Contains(s.Options, strings.TrimSpace(value)) {
		return invalid("%q is not one of %s", value, strings.Join(s.Options, ", "))
	}
	return nil
}
func (s Select) Render(label, placeholder, value string) string {
	return line(label, placeholder, value) + " [" + strings.Join(s.Options, " | ") + "]"
}
func (Select) sealed() {}

// 勾选框只有勾选才算填写
func (Checkbox) Tag() string { return TagCheckbox }
func (Checkbox) Blank(value string) bool {
	checked, err := strconv.ParseBool(strings.TrimSpace(value))
	return err != nil || !checked
}
func (Checkbox) Validate(value string) error {
	if _, err := strconv.ParseBool(strings.TrimSpace(value)); err != nil {
		return invalid("%q is not a boolean", value)
	}
	return nil
}
func (c Checkbox) Render(label, placeholder, value string) string {
	if c.Blank(value) {
		return "[ ] " + label
	}
	return "[x] " + label
}
func (Checkbox) sealed() {}

func (Date) Tag() string             { return TagDate }
func (Date) Blank(value string) bool { return blank(value) }
func (Date) Validate(value string) error {
	if _, err := time.Parse(DateLayout, strings.TrimSpace(value)); err != nil {
		return invalid("%q is not a date (YYYY-MM-DD)", value)
	}
	return nil
}
func (Date) Render(label, placeholder, value string) string {
	if placeholder == "" {
		placeholder = "YYYY-MM-DD"
	}
	return line(label, placeholder, value)
}
func (Date) sealed() {}

func (URL) Tag() string             { return TagURL }
func (URL) Blank(value string) bool { return blank(value) }
func (URL) Validate(value string) error {
	u, err := url.ParseRequestURI(strings.TrimSpace(value))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return invalid("%q is not an http(s) URL", value)
	}
	return nil
}
func (URL) Render(label, placeholder, value string) string {
	return line(label, placeholder, value)
}
func (URL) sealed() {}
