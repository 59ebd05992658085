package models

import "time"

type Setting struct {
	Key       string    `gorm:"column:key;primaryKey"`
	Value     []byte    `gorm:"column:value;type:bytea"` // 密钥类配置使用 EncryptSecretKey 加密
	IsSecret  bool      `gorm:"column:is_secret"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}
