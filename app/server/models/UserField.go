package models

import (
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type UserField struct {
	gorm.Model

	FieldName   string         `gorm:"column:field_name"`
	FieldType   string         `gorm:"column:field_type"`          // 见 fieldkind
	Required    bool           `gorm:"column:required"`            // 必填
	Placeholder *string        `gorm:"column:placeholder"`         // 输入提示
	Options     pq.StringArray `gorm:"column:options;type:text[]"` // 仅 select 类型使用
	UserTypeID  *uint          `gorm:"column:user_type_id;index"`  // NULL 表示全局字段，对所有用户类型生效

	// 不设 gorm 默认值：false 是零值，带 default 标签时会被忽略
	EncryptionEnabled bool `gorm:"column:encryption_enabled"` // 回答是否只能以密文提交
	IncludeInChat     bool `gorm:"column:include_in_chat"`    // 是否在会话中展示给支持人员
	DisplayOrder      int  `gorm:"column:display_order;index"`
}
