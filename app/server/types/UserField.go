package types

// UserField 是对外暴露的用户字段定义
type UserField struct {
	ID                uint     `json:"id"`
	FieldName         string   `json:"field_name"`
	FieldType         string   `json:"field_type"`
	Required          bool     `json:"required"`
	Placeholder       *string  `json:"placeholder,omitempty"`
	Options           []string `json:"options,omitempty"`
	UserTypeID        *uint    `json:"user_type_id"` // NULL 表示全局字段
	EncryptionEnabled bool     `json:"encryption_enabled"`
	IncludeInChat     bool     `json:"include_in_chat"`
	DisplayOrder      int      `json:"display_order"`
}

// UserFieldInput 是创建与更新（PUT 为整体替换）字段时的请求体
type UserFieldInput struct {
	FieldName         string   `json:"field_name"`
	FieldType         string   `json:"field_type"`
	Required          bool     `json:"required"`
	DisplayOrder      *int     `json:"display_order,omitempty"` // 创建时为空则追加到末尾
	UserTypeID        *uint    `json:"user_type_id"`
	Placeholder       *string  `json:"placeholder,omitempty"`
	Options           []string `json:"options,omitempty"`
	EncryptionEnabled *bool    `json:"encryption_enabled,omitempty"` // 默认开启
	IncludeInChat     bool     `json:"include_in_chat"`
}

// Input 把字段转换为以指定顺序写回的完整请求体
func (f UserField) Input(displayOrder int) UserFieldInput {
	encryption := f.EncryptionEnabled
	return UserFieldInput{
		FieldName:         f.FieldName,
		FieldType:         f.FieldType,
		Required:          f.Required,
		DisplayOrder:      &displayOrder,
		UserTypeID:        f.UserTypeID,
		Placeholder:       f.Placeholder,
		Options:           f.Options,
		EncryptionEnabled: &encryption,
		IncludeInChat:     f.IncludeInChat,
	}
}
