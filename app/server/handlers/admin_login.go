package handlers

import (
	"context"
	"errors"
	"fmt"
	"github.com/alexedwards/argon2id"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"instance-console/app/server/constants"
	"instance-console/app/server/jwt"
	"instance-console/app/server/models"
	"instance-console/app/server/types"
	"net/http"
	"time"
)

// loginFailures 读取用户名的连续失败次数， Redis 不可用时按 0 处理
func (a *App) loginFailures(ctx context.Context, username string) int {
	n, err := a.rdb.Get(ctx, fmt.Sprintf(constants.CacheKeyLoginFailures, username)).Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		a.l.Warn("failed to get login failures", zap.String("username", username), zap.Error(err))
	}
	return n
}

func (a *App) loginFailed(ctx context.Context, username string) {
	cacheKey := fmt.Sprintf(constants.CacheKeyLoginFailures, username)
	pipe := a.rdb.TxPipeline()
	pipe.Incr(ctx, cacheKey)
	pipe.Expire(ctx, cacheKey, constants.CacheExpireLoginFailures)
	if _, err := pipe.Exec(ctx); err != nil {
		a.l.Warn("failed to record login failure", zap.String("username", username), zap.Error(err))
	}
}

func (a *App) AuthLogin(c echo.Context) error {
	rctx := c.Request().Context()

	// 绑定请求体
	var req types.LoginRequest
	if err := c.Bind(&req); err != nil {
		a.l.Error("failed to bind json body", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}

	// 没有写用户名或密码
	if req.Username == nil || req.Password == nil {
		return a.er(c, http.StatusBadRequest)
	}
	username := *req.Username

	if a.loginFailures(rctx, username) >= constants.MaxLoginFailures {
		return a.erMsg(c, http.StatusTooManyRequests, "too many failed attempts, try again later")
	}

	var admin models.Admin
	if err := a.db.WithContext(rctx).First(&admin, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			a.loginFailed(rctx, username)
			return a.er(c, http.StatusUnauthorized)
		}
		a.l.Error("failed to find admin", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	if match, _, err := argon2id.CheckHash(*req.Password, admin.Password); err != nil {
		a.l.Error("failed to check password", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	} else if !match {
		a.loginFailed(rctx, username)
		return a.er(c, http.StatusUnauthorized)
	}

	if err := a.rdb.Del(rctx, fmt.Sprintf(constants.CacheKeyLoginFailures, username)).Err(); err != nil {
		a.l.Warn("failed to reset login failures", zap.String("username", username), zap.Error(err))
	}

	// 签出管理员 JWT
	token, err := a.jwt.SignToken(&jwt.User{
		ID:      admin.ID,
		IsAdmin: true,
		Expires: time.Now().Add(constants.AuthTokenDuration).Unix(),
	})
	if err != nil {
		a.l.Error("failed to sign token", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	a.l.Info("admin logged in", zap.Uint("id", admin.ID))

	return c.JSON(http.StatusOK, &types.LoginToken{
		Token: token,
	})
}
