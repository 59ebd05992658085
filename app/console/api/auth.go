package api

import (
	"context"
	"fmt"
	"github.com/golang-jwt/jwt/v5"
	serverjwt "instance-console/app/server/jwt"
	"instance-console/app/server/types"
	"net/http"
	"time"
)

// Login 使用管理员账号登录，成功后令牌会用于之后的请求
func (c *Client) Login(ctx context.Context, username string, password string) error {
	var res types.LoginToken
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, &types.LoginRequest{
		Username: &username,
		Password: &password,
	}, &res); err != nil {
		return fmt.Errorf("login: %w", err)
	}

	c.SetToken(res.Token)
	return nil
}

// IsAdminAuthenticated 判断令牌是否为未过期的管理员令牌。
// 这里只解析声明，不验证签名，签名由服务端验证。
func IsAdminAuthenticated(token string, now time.Time) bool {
	if token == "" {
		return false
	}

	claims := &serverjwt.Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	if !claims.IsAdmin || claims.ExpiresAt == nil {
		return false
	}

	return claims.ExpiresAt.After(now)
}

func (c *Client) IsAdminAuthenticated() bool {
	return IsAdminAuthenticated(c.Token(), time.Now())
}
