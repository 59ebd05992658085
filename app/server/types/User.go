package types

import "time"

// EncryptedPayload 是客户端加密后的数据，服务端与管理端都不解密
type EncryptedPayload struct {
	Ciphertext      string `json:"ciphertext"`
	EphemeralPubkey string `json:"ephemeral_pubkey"`
}

// AdminUserSummary 是管理端看到的用户信息投影
type AdminUserSummary struct {
	ID             uint              `json:"id"`
	Pubkey         *string           `json:"pubkey,omitempty"`
	EmailEncrypted *EncryptedPayload `json:"email_encrypted,omitempty"`
	NameEncrypted  *EncryptedPayload `json:"name_encrypted,omitempty"`
	UserTypeID     *uint             `json:"user_type_id"`
	UserType       *UserType         `json:"user_type,omitempty"`
	Approved       bool              `json:"approved"`
	CreatedAt      time.Time         `json:"created_at"`
}

type UserApproveInput struct {
	Approved *bool `json:"approved"`
}

// Answer 是用户对某个字段的回答；加密字段只能上传密文
type Answer struct {
	FieldID   uint   `json:"field_id"`
	Value     string `json:"value"`
	Encrypted bool   `json:"encrypted"`
}

// ProfileUpdateInput 是用户在引导流程中提交的资料
type ProfileUpdateInput struct {
	UserTypeID     *uint             `json:"user_type_id,omitempty"`
	Pubkey         *string           `json:"pubkey,omitempty"`
	EmailEncrypted *EncryptedPayload `json:"email_encrypted,omitempty"`
	NameEncrypted  *EncryptedPayload `json:"name_encrypted,omitempty"`
	Answers        []Answer          `json:"answers,omitempty"`
}
