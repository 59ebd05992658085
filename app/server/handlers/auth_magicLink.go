package handlers

import (
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"instance-console/app/server/constants"
	"instance-console/app/server/fieldkind"
	"instance-console/app/server/jwt"
	"instance-console/app/server/models"
	"instance-console/app/server/types"
	"net/http"
	"strings"
	"time"
)

func (a *App) MagicLinkRequest(c echo.Context) error {
	rctx := c.Request().Context()

	// 绑定请求体
	var req types.MagicLinkRequest
	if err := c.Bind(&req); err != nil {
		a.l.Error("failed to bind request", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}

	email := strings.TrimSpace(req.Email)
	if err := fieldkind.Check(fieldkind.Email{}, email, true); err != nil {
		return a.erMsg(c, http.StatusBadRequest, "a valid email address is required")
	}

	// 生成一次性令牌
	token := uuid.New()
	cacheKey := fmt.Sprintf(constants.CacheKeyMagicLink, token.String())
	if err := a.rdb.Set(rctx, cacheKey, a.emailHash(email), constants.CacheExpireMagicLink).Err(); err != nil {
		a.l.Error("failed to store magic link", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	// 邮件发送不在本服务内，开发模式下直接输出到日志
	if a.debug {
		a.l.Debug("magic link issued", zap.String("token", token.String()))
	}

	return c.NoContent(http.StatusAccepted)
}

func (a *App) MagicLinkVerify(c echo.Context) error {
	rctx := c.Request().Context()

	// 绑定请求体
	var req types.MagicLinkVerify
	if err := c.Bind(&req); err != nil {
		a.l.Error("failed to bind request", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}

	token, err := uuid.Parse(req.Token)
	if err != nil {
		return a.er(c, http.StatusUnauthorized)
	}

	// 取出并作废令牌
	emailHash, err := a.rdb.GetDel(rctx, fmt.Sprintf(constants.CacheKeyMagicLink, token.String())).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return a.er(c, http.StatusUnauthorized)
		}
		a.l.Error("failed to get magic link", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	// 首次登录时创建用户
	var user models.User
	if err := a.db.WithContext(rctx).
		Where(models.User{EmailHash: emailHash}).
		FirstOrCreate(&user).Error; err != nil {
		a.l.Error("failed to get or create user", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	// 签出 JWT
	expires := time.Now().Add(constants.UserAuthTokenDuration)
	signed, err := a.jwt.SignToken(&jwt.User{
		ID:      user.ID,
		Expires: expires.Unix(),
	})
	if err != nil {
		a.l.Error("failed to sign token", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, &types.LoginToken{
		Token: signed,
	})
}
