package handlers

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"instance-console/app/server/jwt"
)

type App struct {
	l   *zap.Logger   // 日志
	db  *gorm.DB      // 数据库
	rdb *redis.Client // Redis
	jwt *jwt.JWT      // JWT ，用于无状态验证
	esk []byte        // 加密用密钥 (EncryptSecretKey)

	debug bool // 开发模式下会在日志中输出魔法链接
}

func NewApp(l *zap.Logger, db *gorm.DB, rdb *redis.Client, j *jwt.JWT, esk string, debug bool) *App {
	return &App{
		l:     l,
		db:    db,
		rdb:   rdb,
		jwt:   j,
		esk:   []byte(esk),
		debug: debug,
	}
}
