package models

import (
	"encoding/json"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model

	EmailHash string  `gorm:"column:email_hash;uniqueIndex"` // 邮箱的 HMAC ，仅用于魔法链接登录时查找用户
	Pubkey    *string `gorm:"column:pubkey"`

	// 客户端加密的数据，原样储存
	EmailEncrypted json.RawMessage `gorm:"column:email_encrypted;type:jsonb"`
	NameEncrypted  json.RawMessage `gorm:"column:name_encrypted;type:jsonb"`

	UserTypeID *uint `gorm:"column:user_type_id;index"` // NULL 表示尚未分类
	Approved   bool  `gorm:"column:approved"`

	UserType *UserType `gorm:"foreignKey:UserTypeID"`
}
