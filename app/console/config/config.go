package config

import (
	"time"
)

type Config struct {
	// 基础配置
	IsProd bool

	// 与 Server 通信配置
	ServerEndpoint  string
	AdminToken      string
	AdminUsername   string
	AdminPassword   string
	RefreshInterval time.Duration

	// 本地配置
	CacheDir        string
	AllowIncomplete bool
}
