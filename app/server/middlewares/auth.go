package middlewares

import (
	gojwt "github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"instance-console/app/server/jwt"
	"instance-console/app/server/types"
	"net/http"
)

const (
	contextKeyToken = "token"
	contextKeyUser  = "user"
)

// Auth 验证 Bearer 令牌，并把解析出的用户放进 context
func Auth(j *jwt.JWT, l *zap.Logger) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey:    j.Key(),
		SigningMethod: gojwt.SigningMethodHS256.Alg(),
		ContextKey:    contextKeyToken,
		NewClaimsFunc: func(c echo.Context) gojwt.Claims {
			return &jwt.Claims{}
		},
		SuccessHandler: func(c echo.Context) {
			token, ok := c.Get(contextKeyToken).(*gojwt.Token)
			if !ok {
				return
			}
			claims, ok := token.Claims.(*jwt.Claims)
			if !ok {
				return
			}
			if user, err := jwt.ClaimsUser(claims); err != nil {
				l.Debug("invalid token subject", zap.Error(err))
			} else {
				c.Set(contextKeyUser, user)
			}
		},
		ErrorHandler: func(c echo.Context, err error) error {
			l.Debug("failed to auth", zap.Error(err))
			return c.JSON(http.StatusUnauthorized, &types.ErrorMessage{
				Detail: http.StatusText(http.StatusUnauthorized),
			})
		},
	})
}

// RequireAdmin 只允许管理员令牌通过
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return requireRole(true, next)
}

// RequireUser 只允许普通用户令牌通过
func RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return requireRole(false, next)
}

func requireRole(admin bool, next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := CurrentUser(c)
		if user == nil {
			return c.JSON(http.StatusUnauthorized, &types.ErrorMessage{
				Detail: http.StatusText(http.StatusUnauthorized),
			})
		}
		if user.IsAdmin != admin {
			return c.JSON(http.StatusForbidden, &types.ErrorMessage{
				Detail: http.StatusText(http.StatusForbidden),
			})
		}
		return next(c)
	}
}

// CurrentUser 返回 Auth 设置的用户，未认证时为 nil
func CurrentUser(c echo.Context) *jwt.User {
	user, _ := c.Get(contextKeyUser).(*jwt.User)
	return user
}
