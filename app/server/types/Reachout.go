package types

import "time"

type ReachoutRequest struct {
	Message string `json:"message"`
}

// ReachoutEvent 是转发给支持团队 webhook 的内容
type ReachoutEvent struct {
	UserID    uint      `json:"user_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
