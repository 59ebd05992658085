package models

import "time"

type UserFieldValue struct {
	ID        uint      `gorm:"primarykey"`
	UserID    uint      `gorm:"column:user_id;uniqueIndex:idx_user_field"`
	FieldID   uint      `gorm:"column:field_id;uniqueIndex:idx_user_field;index"`
	Value     string    `gorm:"column:value"`     // 加密字段时为密文
	Encrypted bool      `gorm:"column:encrypted"` // 是否为客户端加密内容
	UpdatedAt time.Time `gorm:"column:updated_at"`
}
